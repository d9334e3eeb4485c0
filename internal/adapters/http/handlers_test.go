package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/railwatch/internal/adapters/http"
	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
	"github.com/samirrijal/railwatch/internal/core/proximity"
	"github.com/samirrijal/railwatch/internal/core/usecases"
)

// ---- Mock repositories ----

type mockReportRepo struct {
	createFn       func(ctx context.Context, r *domain.HazardReport) error
	getByIDFn      func(ctx context.Context, id string) (*domain.HazardReport, error)
	listActiveFn   func(ctx context.Context, now time.Time) ([]domain.HazardReport, error)
	findNearbyFn   func(ctx context.Context, at domain.GeoPoint, radius float64, now time.Time, limit int) ([]domain.HazardReport, error)
	updateStatusFn func(ctx context.Context, id string, status domain.ReportStatus, at time.Time) error
}

func (m *mockReportRepo) Create(ctx context.Context, r *domain.HazardReport) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = "r-1"
	return nil
}
func (m *mockReportRepo) CreateBatch(ctx context.Context, rs []domain.HazardReport) error { return nil }
func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*domain.HazardReport, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockReportRepo) ListActive(ctx context.Context, now time.Time) ([]domain.HazardReport, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, now)
	}
	return nil, nil
}
func (m *mockReportRepo) FindNearby(ctx context.Context, at domain.GeoPoint, radius float64, now time.Time, limit int) ([]domain.HazardReport, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, at, radius, now, limit)
	}
	return nil, nil
}
func (m *mockReportRepo) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, at time.Time) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, at)
	}
	return nil
}

type mockDetectionRepo struct {
	listSinceFn func(ctx context.Context, since time.Time) ([]domain.Detection, error)
}

func (m *mockDetectionRepo) Create(ctx context.Context, d *domain.Detection) error {
	d.ID = "d-1"
	return nil
}
func (m *mockDetectionRepo) ListSince(ctx context.Context, since time.Time) ([]domain.Detection, error) {
	if m.listSinceFn != nil {
		return m.listSinceFn(ctx, since)
	}
	return nil, nil
}

type nopEvents struct{}

func (nopEvents) PublishReportedSnapshot(context.Context, []domain.TrackedEntity) error { return nil }
func (nopEvents) PublishCameraSnapshot(context.Context, []domain.TrackedEntity) error   { return nil }
func (nopEvents) PublishAlert(context.Context, *domain.Alert) error                     { return nil }
func (nopEvents) PublishStaffNotice(context.Context, *domain.HazardReport) error        { return nil }

// ---- Mock live sources ----

type mockSources struct {
	hazardErr error
}

func (m *mockSources) SubscribePosition(ctx context.Context, deviceID string, fn func(domain.GeoPoint)) (ports.Unsubscribe, error) {
	return func() {}, nil
}
func (m *mockSources) SubscribeHazardSet(ctx context.Context, fn func([]domain.TrackedEntity)) (ports.Unsubscribe, error) {
	if m.hazardErr != nil {
		return nil, m.hazardErr
	}
	return func() {}, nil
}
func (m *mockSources) SubscribeCameraSet(ctx context.Context, fn func([]domain.TrackedEntity)) (ports.Unsubscribe, error) {
	return func() {}, nil
}

type nopSink struct{}

func (nopSink) RaiseAlert(*domain.Alert) {}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func sessionService(src *mockSources) *usecases.SessionService {
	return usecases.NewSessionService(proximity.Sources{Position: src, Hazards: src, Cameras: src}, nopSink{})
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Reports:    usecases.NewReportService(&mockReportRepo{}, nopEvents{}, nil, nil, 6*time.Hour),
		Detections: usecases.NewDetectionService(&mockDetectionRepo{}, nopEvents{}, 30*time.Minute),
		Sessions:   sessionService(&mockSources{}),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func withReports(repo *mockReportRepo) func(*handler.Dependencies) {
	return func(d *handler.Dependencies) {
		d.Reports = usecases.NewReportService(repo, nopEvents{}, nil, nil, 6*time.Hour)
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}

func decodeError(t *testing.T, body []byte) handler.APIError {
	t.Helper()
	var apiErr handler.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return apiErr
}

// ---- Report handler tests ----

func TestListReports_Success(t *testing.T) {
	app := setupApp(makeDeps(withReports(&mockReportRepo{
		listActiveFn: func(ctx context.Context, now time.Time) ([]domain.HazardReport, error) {
			return []domain.HazardReport{
				{ID: "r1", Role: domain.RoleDriver, Status: domain.ReportActive},
				{ID: "r2", Role: domain.RoleGuest, Status: domain.ReportActive},
			}, nil
		},
	})))

	status, body := doJSON(t, app, "GET", "/v1/reports", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result struct {
		Data       []domain.HazardReport `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 2 || len(result.Data) != 2 {
		t.Errorf("expected 2 reports, got total=%d len=%d", result.Pagination.Total, len(result.Data))
	}
}

func TestListReports_Pagination(t *testing.T) {
	reports := make([]domain.HazardReport, 5)
	for i := range reports {
		reports[i] = domain.HazardReport{ID: fmt.Sprintf("r%d", i)}
	}
	app := setupApp(makeDeps(withReports(&mockReportRepo{
		listActiveFn: func(ctx context.Context, now time.Time) ([]domain.HazardReport, error) { return reports, nil },
	})))

	req := httptest.NewRequest("GET", "/v1/reports?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.HazardReport `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 || result.Data[0].ID != "r2" {
		t.Errorf("expected page starting at r2, got %+v", result.Data)
	}

	link := resp.Header.Get("Link")
	if !strings.Contains(link, `rel="next"`) || !strings.Contains(link, `rel="prev"`) {
		t.Errorf("expected prev and next links, got %q", link)
	}
}

func TestCreateReport_Success(t *testing.T) {
	var stored *domain.HazardReport
	app := setupApp(makeDeps(withReports(&mockReportRepo{
		createFn: func(ctx context.Context, r *domain.HazardReport) error {
			r.ID = "r-new"
			stored = r
			return nil
		},
	})))

	status, body := doJSON(t, app, "POST", "/v1/reports",
		`{"role":"Driver","lat":7.2906,"lon":80.6337,"note":"two adults on the embankment"}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	var got domain.HazardReport
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "r-new" || got.Status != domain.ReportActive {
		t.Errorf("unexpected report %+v", got)
	}
	if stored == nil || stored.Role != domain.RoleDriver {
		t.Errorf("expected role normalised to driver, got %+v", stored)
	}
	if !got.ExpiresAt.Equal(got.ReportedAt.Add(6 * time.Hour)) {
		t.Errorf("expected expiry 6h after report, got %v -> %v", got.ReportedAt, got.ExpiresAt)
	}
}

func TestCreateReport_MissingCoordinates(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := doJSON(t, app, "POST", "/v1/reports", `{"role":"guest","lat":7.29}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if apiErr := decodeError(t, body); apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request, got %s", apiErr.Code)
	}
}

func TestCreateReport_InvalidRole(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := doJSON(t, app, "POST", "/v1/reports", `{"role":"tourist","lat":7.29,"lon":80.63}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if apiErr := decodeError(t, body); !strings.Contains(apiErr.Message, "unknown role") {
		t.Errorf("expected role error, got %q", apiErr.Message)
	}
}

func TestCreateReport_RepoFailureIsHidden(t *testing.T) {
	app := setupApp(makeDeps(withReports(&mockReportRepo{
		createFn: func(ctx context.Context, r *domain.HazardReport) error {
			return errors.New("pq: connection refused at 10.0.0.5")
		},
	})))

	status, body := doJSON(t, app, "POST", "/v1/reports", `{"role":"guest","lat":7.29,"lon":80.63}`)
	if status != 500 {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(string(body), "10.0.0.5") {
		t.Errorf("internal error leaked: %s", body)
	}
}

func TestGetReport_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := doJSON(t, app, "GET", "/v1/reports/missing", "")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	if apiErr := decodeError(t, body); apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %s", apiErr.Code)
	}
}

func TestGetReport_Success(t *testing.T) {
	app := setupApp(makeDeps(withReports(&mockReportRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.HazardReport, error) {
			return &domain.HazardReport{ID: id, Role: domain.RoleStationStaff}, nil
		},
	})))

	status, body := doJSON(t, app, "GET", "/v1/reports/r9", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var got domain.HazardReport
	json.Unmarshal(body, &got)
	if got.ID != "r9" {
		t.Errorf("expected r9, got %s", got.ID)
	}
}

func TestResolveReport(t *testing.T) {
	var gotStatus domain.ReportStatus
	app := setupApp(makeDeps(withReports(&mockReportRepo{
		updateStatusFn: func(ctx context.Context, id string, status domain.ReportStatus, at time.Time) error {
			if id != "r1" {
				return domain.ErrNotFound
			}
			gotStatus = status
			return nil
		},
	})))

	if status, _ := doJSON(t, app, "DELETE", "/v1/reports/r1", ""); status != 204 {
		t.Fatalf("expected 204, got %d", status)
	}
	if gotStatus != domain.ReportResolved {
		t.Errorf("expected resolved, got %s", gotStatus)
	}
	if status, _ := doJSON(t, app, "DELETE", "/v1/reports/r2", ""); status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestNearbyReports_Success(t *testing.T) {
	app := setupApp(makeDeps(withReports(&mockReportRepo{
		findNearbyFn: func(ctx context.Context, at domain.GeoPoint, radius float64, now time.Time, limit int) ([]domain.HazardReport, error) {
			return []domain.HazardReport{
				{ID: "far", Location: domain.GeoPoint{Lat: 7.0, Lon: 80.0200}},
				{ID: "near", Location: domain.GeoPoint{Lat: 7.0, Lon: 80.0010}},
			}, nil
		},
	})))

	status, body := doJSON(t, app, "GET", "/v1/reports/nearby?lat=7.0&lon=80.0&radius=1000", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var reports []domain.HazardReport
	json.Unmarshal(body, &reports)
	if len(reports) != 1 || reports[0].ID != "near" {
		t.Fatalf("expected only the near report, got %+v", reports)
	}
	if reports[0].Distance == nil {
		t.Error("expected distance to be set")
	}
}

func TestNearbyReports_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _ := doJSON(t, app, "GET", "/v1/reports/nearby", ""); status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestNearbyReports_BadRadius(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _ := doJSON(t, app, "GET", "/v1/reports/nearby?lat=7&lon=80&radius=60000", ""); status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

// ---- Detection handler tests ----

func TestCreateDetection_Success(t *testing.T) {
	app := setupApp(makeDeps())

	observed := time.Now().Add(-time.Minute).UTC().Format(time.RFC3339)
	status, body := doJSON(t, app, "POST", "/v1/detections",
		fmt.Sprintf(`{"camera_id":"cam-7","lat":7.1,"lon":80.2,"confidence":0.92,"observed_at":%q}`, observed))
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	var got domain.Detection
	json.Unmarshal(body, &got)
	if got.ID != "d-1" || got.CameraID != "cam-7" {
		t.Errorf("unexpected detection %+v", got)
	}
}

func TestCreateDetection_Invalid(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := doJSON(t, app, "POST", "/v1/detections", `{"camera_id":"cam-7","lat":7.1,"lon":80.2,"confidence":1.5}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	msg := decodeError(t, body).Message
	if !strings.Contains(msg, "observed_at") || !strings.Contains(msg, "confidence") {
		t.Errorf("expected all problems reported, got %q", msg)
	}
}

func TestListDetections(t *testing.T) {
	var since time.Time
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Detections = usecases.NewDetectionService(&mockDetectionRepo{
			listSinceFn: func(ctx context.Context, s time.Time) ([]domain.Detection, error) {
				since = s
				return []domain.Detection{{ID: "d1"}}, nil
			},
		}, nopEvents{}, 30*time.Minute)
	}))

	status, _ := doJSON(t, app, "GET", "/v1/detections", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if age := time.Since(since); age < 29*time.Minute || age > 31*time.Minute {
		t.Errorf("expected a 30m window, got %v", age)
	}
}

// ---- Session handler tests ----

func TestSessions_Lifecycle(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := doJSON(t, app, "POST", "/v1/sessions", `{"device_id":"loco-12"}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	status, body = doJSON(t, app, "POST", "/v1/sessions", `{"device_id":"loco-12"}`)
	if status != 409 {
		t.Fatalf("expected 409 for a duplicate session, got %d", status)
	}
	if apiErr := decodeError(t, body); apiErr.Code != "conflict" {
		t.Errorf("expected conflict, got %s", apiErr.Code)
	}

	status, body = doJSON(t, app, "GET", "/v1/sessions", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var sessions []domain.Session
	json.Unmarshal(body, &sessions)
	if len(sessions) != 1 || sessions[0].DeviceID != "loco-12" {
		t.Errorf("unexpected sessions %+v", sessions)
	}

	if status, _ = doJSON(t, app, "DELETE", "/v1/sessions/loco-12", ""); status != 204 {
		t.Fatalf("expected 204, got %d", status)
	}
	if status, _ = doJSON(t, app, "DELETE", "/v1/sessions/loco-12", ""); status != 404 {
		t.Fatalf("expected 404 after stop, got %d", status)
	}
}

func TestStartSession_InvalidDevice(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _ := doJSON(t, app, "POST", "/v1/sessions", `{"device_id":"a/b"}`); status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestStartSession_FeedUnavailable(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Sessions = sessionService(&mockSources{hazardErr: errors.New("nats: no responders")})
	}))

	status, body := doJSON(t, app, "POST", "/v1/sessions", `{"device_id":"loco-3"}`)
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	apiErr := decodeError(t, body)
	if apiErr.Code != "unavailable" || strings.Contains(apiErr.Message, "no responders") {
		t.Errorf("expected a user-facing unavailable error, got %+v", apiErr)
	}
}

// ---- GraphQL ----

func TestGraphQL_Reports(t *testing.T) {
	app := setupApp(makeDeps(withReports(&mockReportRepo{
		listActiveFn: func(ctx context.Context, now time.Time) ([]domain.HazardReport, error) {
			return []domain.HazardReport{{ID: "r1", Role: domain.RoleWildlifeDepartment, Location: domain.GeoPoint{Lat: 7, Lon: 80}}}, nil
		},
	})))

	status, body := doJSON(t, app, "POST", "/graphql", `{"query":"{ reports { id role location { lat lon } } }"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result struct {
		Data struct {
			Reports []struct {
				ID       string `json:"id"`
				Role     string `json:"role"`
				Location struct {
					Lat float64 `json:"lat"`
				} `json:"location"`
			} `json:"reports"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Data.Reports) != 1 || result.Data.Reports[0].Role != "wildlife_department" {
		t.Errorf("unexpected data %+v", result.Data)
	}
}

func TestGraphQL_EmptyQuery(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _ := doJSON(t, app, "POST", "/graphql", `{}`); status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

// ---- Health and middleware ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := doJSON(t, app, "GET", "/v1/health", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result map[string]interface{}
	json.Unmarshal(body, &result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
	if result["sessions"] != float64(0) {
		t.Errorf("expected 0 sessions, got %v", result["sessions"])
	}
}

func TestReady_NoDB(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _ := doJSON(t, app, "GET", "/v1/ready", ""); status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
}

func TestReady_CacheOptional(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.DB = fakePinger{}
		d.Cache = fakePinger{err: errors.New("connection refused")}
	}))

	// NATS is nil, so the service is still not ready, but the checks are reported.
	status, body := doJSON(t, app, "GET", "/v1/ready", "")
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	var result struct {
		Checks map[string]string `json:"checks"`
	}
	json.Unmarshal(body, &result)
	if result.Checks["database"] != "ok" {
		t.Errorf("expected database ok, got %q", result.Checks["database"])
	}
	if !strings.HasPrefix(result.Checks["cache"], "error:") {
		t.Errorf("expected cache error, got %q", result.Checks["cache"])
	}
	if result.Checks["nats"] != "not configured" {
		t.Errorf("expected nats not configured, got %q", result.Checks["nats"])
	}
}

func TestCacheControl_LiveData(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/sessions", nil)
	resp, _ := app.Test(req, -1)
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store for sessions, got %q", cc)
	}

	req = httptest.NewRequest("GET", "/v1/reports", nil)
	resp, _ = app.Test(req, -1)
	if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "max-age=0") {
		t.Errorf("expected max-age=0 for reports, got %q", cc)
	}
}

func TestETag_NotModified(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/reports", nil)
	resp, _ := app.Test(req, -1)
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req = httptest.NewRequest("GET", "/v1/reports", nil)
	req.Header.Set("If-None-Match", etag)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 304 {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if v := resp.Header.Get("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected a request id")
	}
}

func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(handler.AccessLogMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", body)
	}
}
