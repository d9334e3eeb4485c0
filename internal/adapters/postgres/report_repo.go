package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/railwatch/internal/core/domain"
)

const reportColumns = `
	id, role, COALESCE(reporter_name, ''),
	ST_Y(location::geometry) AS lat,
	ST_X(location::geometry) AS lon,
	COALESCE(note, ''), status, reported_at, expires_at, resolved_at`

// ReportRepo implements ports.ReportRepository with pgx.
type ReportRepo struct {
	db *DB
}

// NewReportRepo creates a new ReportRepo.
func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Create inserts a report and fills in its generated id.
func (r *ReportRepo) Create(ctx context.Context, h *domain.HazardReport) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO hazard_reports (role, reporter_name, location, note, status, reported_at, expires_at)
		VALUES ($1, NULLIF($2, ''), ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, NULLIF($5, ''), $6, $7, $8)
		RETURNING id
	`, h.Role, h.ReporterName, h.Location.Lon, h.Location.Lat, h.Note, h.Status, h.ReportedAt, h.ExpiresAt,
	).Scan(&h.ID)
}

// CreateBatch inserts many reports using pgx.Batch.
func (r *ReportRepo) CreateBatch(ctx context.Context, reports []domain.HazardReport) error {
	batch := &pgx.Batch{}
	for _, h := range reports {
		batch.Queue(`
			INSERT INTO hazard_reports (role, reporter_name, location, note, status, reported_at, expires_at)
			VALUES ($1, NULLIF($2, ''), ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, NULLIF($5, ''), $6, $7, $8)
		`, h.Role, h.ReporterName, h.Location.Lon, h.Location.Lat, h.Note, h.Status, h.ReportedAt, h.ExpiresAt)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range reports {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns a report by UUID.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*domain.HazardReport, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := r.db.Pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM hazard_reports WHERE id = $1`, id)
	h, err := scanReport(row)
	if err != nil {
		return nil, notFound(err)
	}
	return h, nil
}

// ListActive returns active reports that have not expired at now, newest first.
func (r *ReportRepo) ListActive(ctx context.Context, now time.Time) ([]domain.HazardReport, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM hazard_reports
		WHERE status = 'active' AND expires_at > $1
		ORDER BY reported_at DESC
	`, now)
	if err != nil {
		return nil, err
	}
	return collectReports(rows)
}

// nearbyReportsQuery orders by geodesic distance before the limit so the
// closest reports survive it. ST_DWithin on geography handles the antimeridian.
const nearbyReportsQuery = `
	SELECT ` + reportColumns + `
	FROM hazard_reports
	WHERE status = 'active' AND expires_at > $4
	  AND ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
	ORDER BY ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)
	LIMIT $5`

// FindNearby returns active reports within radiusMeters of at, closest first.
func (r *ReportRepo) FindNearby(ctx context.Context, at domain.GeoPoint, radiusMeters float64, now time.Time, limit int) ([]domain.HazardReport, error) {
	rows, err := r.db.Pool.Query(ctx, nearbyReportsQuery, at.Lon, at.Lat, radiusMeters, now, limit)
	if err != nil {
		return nil, err
	}
	return collectReports(rows)
}

// UpdateStatus moves an active report to status. It returns ErrNotFound when
// no active report has that id.
func (r *ReportRepo) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, at time.Time) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE hazard_reports
		SET status = $2, resolved_at = $3
		WHERE id = $1 AND status = 'active'
	`, id, status, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// validID reports whether id can be a hazard_reports key. Anything else
// cannot match a row, so callers get ErrNotFound instead of a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanReport(row pgx.Row) (*domain.HazardReport, error) {
	var h domain.HazardReport
	if err := row.Scan(
		&h.ID, &h.Role, &h.ReporterName,
		&h.Location.Lat, &h.Location.Lon,
		&h.Note, &h.Status, &h.ReportedAt, &h.ExpiresAt, &h.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &h, nil
}

func collectReports(rows pgx.Rows) ([]domain.HazardReport, error) {
	defer rows.Close()
	reports := []domain.HazardReport{}
	for rows.Next() {
		h, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *h)
	}
	return reports, rows.Err()
}
