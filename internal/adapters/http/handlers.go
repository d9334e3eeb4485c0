package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/railwatch/internal/core/domain"
)

// createReportRequest is the body of POST /v1/reports.
type createReportRequest struct {
	Role         string   `json:"role"`
	ReporterName string   `json:"reporter_name"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	Note         string   `json:"note"`
}

// createDetectionRequest is the body of POST /v1/detections.
type createDetectionRequest struct {
	CameraID   string    `json:"camera_id"`
	Lat        *float64  `json:"lat"`
	Lon        *float64  `json:"lon"`
	Confidence float64   `json:"confidence"`
	ImageURL   string    `json:"image_url"`
	ObservedAt time.Time `json:"observed_at"`
}

// startSessionRequest is the body of POST /v1/sessions.
type startSessionRequest struct {
	DeviceID string `json:"device_id"`
}

// ListReportsHandler returns active hazard reports, newest first.
func ListReportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reports, err := deps.Reports.ListActive(c.UserContext())
		if err != nil {
			return fromServiceError(c, err)
		}

		page, pg := paginate(c, reports)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// CreateReportHandler files a new hazard report.
func CreateReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createReportRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Lat == nil || req.Lon == nil {
			return errBadRequest(c, "lat and lon are required")
		}

		report, err := deps.Reports.Create(c.UserContext(), &domain.HazardReport{
			Role:         domain.ReporterRole(strings.ToLower(strings.TrimSpace(req.Role))),
			ReporterName: strings.TrimSpace(req.ReporterName),
			Location:     domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon},
			Note:         strings.TrimSpace(req.Note),
		})
		if err != nil {
			return fromServiceError(c, err)
		}

		c.Location("/v1/reports/" + report.ID)
		return c.Status(fiber.StatusCreated).JSON(report)
	}
}

// NearbyReportsHandler returns active reports within a radius of a point.
func NearbyReportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 1000)
		limit := c.QueryInt("limit", 50)

		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}

		reports, err := deps.Reports.FindNearby(c.UserContext(), domain.GeoPoint{Lat: lat, Lon: lon}, radius, limit)
		if err != nil {
			return fromServiceError(c, err)
		}
		return c.JSON(reports)
	}
}

// GetReportHandler returns one report.
func GetReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := deps.Reports.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return fromServiceError(c, err)
		}
		return c.JSON(report)
	}
}

// ResolveReportHandler marks a report resolved, removing it from the live set.
func ResolveReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Reports.Resolve(c.UserContext(), c.Params("id")); err != nil {
			return fromServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListDetectionsHandler returns recent camera detections.
func ListDetectionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		detections, err := deps.Detections.ListRecent(c.UserContext())
		if err != nil {
			return fromServiceError(c, err)
		}

		page, pg := paginate(c, detections)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// CreateDetectionHandler records a camera detection.
func CreateDetectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createDetectionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Lat == nil || req.Lon == nil {
			return errBadRequest(c, "lat and lon are required")
		}

		d, err := deps.Detections.Record(c.UserContext(), &domain.Detection{
			CameraID:   strings.TrimSpace(req.CameraID),
			Location:   domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon},
			Confidence: req.Confidence,
			ImageURL:   req.ImageURL,
			ObservedAt: req.ObservedAt,
		})
		if err != nil {
			return fromServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	}
}

// ListSessionsHandler returns the running monitoring sessions.
func ListSessionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Sessions.List())
	}
}

// StartSessionHandler starts proximity monitoring for a device.
func StartSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req startSessionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		sess, err := deps.Sessions.Start(c.UserContext(), req.DeviceID)
		if err != nil {
			return fromServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sess)
	}
}

// StopSessionHandler stops monitoring for a device.
func StopSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Sessions.Stop(c.Params("device")); err != nil {
			return fromServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
