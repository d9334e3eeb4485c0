package domain

import (
	"time"
)

// ReporterRole identifies who filed a hazard report.
type ReporterRole string

const (
	RoleGuest              ReporterRole = "guest"
	RoleDriver             ReporterRole = "driver"
	RoleStationStaff       ReporterRole = "station_staff"
	RoleWildlifeDepartment ReporterRole = "wildlife_department"
)

// Valid reports whether r is one of the known roles.
func (r ReporterRole) Valid() bool {
	switch r {
	case RoleGuest, RoleDriver, RoleStationStaff, RoleWildlifeDepartment:
		return true
	}
	return false
}

// ReportStatus is the lifecycle state of a hazard report.
type ReportStatus string

const (
	ReportActive   ReportStatus = "active"
	ReportResolved ReportStatus = "resolved"
	ReportExpired  ReportStatus = "expired"
)

// HazardReport is an elephant sighting filed by a person near the track.
type HazardReport struct {
	ID           string       `json:"id"`
	Role         ReporterRole `json:"role"`
	ReporterName string       `json:"reporter_name,omitempty"`
	Location     GeoPoint     `json:"location"`
	Note         string       `json:"note,omitempty"`
	Status       ReportStatus `json:"status"`
	ReportedAt   time.Time    `json:"reported_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
	ResolvedAt   *time.Time   `json:"resolved_at,omitempty"`
	Distance     *float64     `json:"distance,omitempty"` // computed field
}

// Tracked converts the report into the form the proximity monitor consumes.
func (r HazardReport) Tracked() TrackedEntity {
	return TrackedEntity{
		Kind:       EntityReported,
		ID:         r.ID,
		Position:   r.Location,
		ObservedAt: r.ReportedAt,
	}
}

// Detection is an elephant sighting produced by a trackside camera.
type Detection struct {
	ID         string    `json:"id"`
	CameraID   string    `json:"camera_id"`
	Location   GeoPoint  `json:"location"`
	Confidence float64   `json:"confidence"`
	ImageURL   string    `json:"image_url,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Tracked converts the detection into the form the proximity monitor consumes.
func (d Detection) Tracked() TrackedEntity {
	return TrackedEntity{
		Kind:       EntityCamera,
		ID:         d.ID,
		Position:   d.Location,
		ObservedAt: d.ObservedAt,
	}
}

// EntityKind tells which live collection a tracked entity came from.
type EntityKind string

const (
	EntityReported EntityKind = "reported"
	EntityCamera   EntityKind = "camera"
)

// TrackedEntity is one member of a live location snapshot.
type TrackedEntity struct {
	Kind       EntityKind `json:"kind"`
	ID         string     `json:"id"`
	Position   GeoPoint   `json:"position"`
	ObservedAt time.Time  `json:"observed_at"`
}

// AlertKind distinguishes proximity alerts from camera alerts.
type AlertKind string

const (
	AlertProximity AlertKind = "proximity"
	AlertCamera    AlertKind = "camera"
)

// Alert is raised by a monitoring session and delivered to the device.
type Alert struct {
	Kind     AlertKind `json:"kind"`
	DeviceID string    `json:"device_id"`
	EntityID string    `json:"entity_id"`
	Message  string    `json:"message"`
	Position GeoPoint  `json:"position"`
	Distance *float64  `json:"distance,omitempty"` // meters, proximity only
	RaisedAt time.Time `json:"raised_at"`
}

// Session describes an active monitoring session for one device.
type Session struct {
	DeviceID  string    `json:"device_id"`
	StartedAt time.Time `json:"started_at"`
}
