// Command importer loads historical elephant sightings from CSV into
// hazard_reports and republishes the live hazard set.
//
// Expected header: reported_at,role,lat,lon[,note][,reporter_name]
// reported_at is RFC 3339. Rows that fail validation are skipped.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	natsadapter "github.com/samirrijal/railwatch/internal/adapters/nats"
	"github.com/samirrijal/railwatch/internal/adapters/postgres"
	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/usecases"
	"github.com/samirrijal/railwatch/internal/pkg/config"
	"github.com/samirrijal/railwatch/internal/pkg/logging"
)

const batchSize = 500

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importer <sightings.csv>")
	}

	cfg, err := config.Load("railwatch-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("railwatch-importer", cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("open %s: %v", os.Args[1], err)
	}
	defer f.Close()

	reports, skipped, err := parseSightings(f, cfg.Reports.TTL, time.Now().UTC())
	if err != nil {
		log.Fatalf("parse %s: %v", os.Args[1], err)
	}
	slog.Info("sightings parsed", "rows", len(reports), "skipped", skipped)

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReportRepo(db)
	for start := 0; start < len(reports); start += batchSize {
		end := min(start+batchSize, len(reports))
		if err := repo.CreateBatch(ctx, reports[start:end]); err != nil {
			log.Fatalf("insert rows %d-%d: %v", start, end, err)
		}
		slog.Info("batch inserted", "rows", end-start, "total", end)
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, live set not republished", "error", err)
		return
	}
	defer pub.Close()

	svc := usecases.NewReportService(repo, pub, nil, nil, cfg.Reports.TTL)
	if err := svc.PublishSnapshot(ctx); err != nil {
		slog.Warn("republish hazard set", "error", err)
	}
	slog.Info("import complete", "imported", len(reports))
}

// parseSightings reads CSV sightings. Reports older than ttl at now are
// stored as expired so they never enter the live set.
func parseSightings(r io.Reader, ttl time.Duration, now time.Time) ([]domain.HazardReport, int, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, required := range []string{"reported_at", "role", "lat", "lon"} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", required)
		}
	}

	var (
		reports []domain.HazardReport
		skipped int
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		h, err := parseRow(record, cols, ttl, now)
		if err != nil {
			slog.Debug("skipping sighting", "line", line, "error", err)
			skipped++
			continue
		}
		reports = append(reports, *h)
	}
	return reports, skipped, nil
}

func parseRow(record []string, cols map[string]int, ttl time.Duration, now time.Time) (*domain.HazardReport, error) {
	reportedAt, err := time.Parse(time.RFC3339, getField(record, cols, "reported_at"))
	if err != nil {
		return nil, fmt.Errorf("reported_at: %w", err)
	}
	lat, err := strconv.ParseFloat(getField(record, cols, "lat"), 64)
	if err != nil {
		return nil, fmt.Errorf("lat: %w", err)
	}
	lon, err := strconv.ParseFloat(getField(record, cols, "lon"), 64)
	if err != nil {
		return nil, fmt.Errorf("lon: %w", err)
	}

	h := &domain.HazardReport{
		Role:         domain.ReporterRole(strings.ToLower(getField(record, cols, "role"))),
		ReporterName: getField(record, cols, "reporter_name"),
		Location:     domain.GeoPoint{Lat: lat, Lon: lon},
		Note:         getField(record, cols, "note"),
		ReportedAt:   reportedAt.UTC(),
		ExpiresAt:    reportedAt.UTC().Add(ttl),
		Status:       domain.ReportActive,
	}
	if err := usecases.ValidateReport(h); err != nil {
		return nil, err
	}
	if !h.ExpiresAt.After(now) {
		h.Status = domain.ReportExpired
	}
	return h, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		// Strip a UTF-8 BOM left by spreadsheet exports.
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return cols
}

func getField(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
