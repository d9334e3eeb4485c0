package postgres

import (
	"context"
	"time"

	"github.com/samirrijal/railwatch/internal/core/domain"
)

// DetectionRepo implements ports.DetectionRepository with pgx.
type DetectionRepo struct {
	db *DB
}

// NewDetectionRepo creates a new DetectionRepo.
func NewDetectionRepo(db *DB) *DetectionRepo {
	return &DetectionRepo{db: db}
}

// Create inserts a detection and fills in its generated id.
func (r *DetectionRepo) Create(ctx context.Context, d *domain.Detection) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO camera_detections (camera_id, location, confidence, image_url, observed_at, created_at)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4, NULLIF($5, ''), $6, $7)
		RETURNING id
	`, d.CameraID, d.Location.Lon, d.Location.Lat, d.Confidence, d.ImageURL, d.ObservedAt, d.CreatedAt,
	).Scan(&d.ID)
}

// ListSince returns detections observed at or after since, newest first.
func (r *DetectionRepo) ListSince(ctx context.Context, since time.Time) ([]domain.Detection, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, camera_id,
		       ST_Y(location::geometry) AS lat,
		       ST_X(location::geometry) AS lon,
		       confidence, COALESCE(image_url, ''), observed_at, created_at
		FROM camera_detections
		WHERE observed_at >= $1
		ORDER BY observed_at DESC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detections := []domain.Detection{}
	for rows.Next() {
		var d domain.Detection
		if err := rows.Scan(
			&d.ID, &d.CameraID,
			&d.Location.Lat, &d.Location.Lon,
			&d.Confidence, &d.ImageURL, &d.ObservedAt, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}
	return detections, rows.Err()
}
