package natsadapter

import "strings"

const (
	SubjectReportedSnapshot = "railwatch.snapshot.reported"
	SubjectCameraSnapshot   = "railwatch.snapshot.camera"
	SubjectAlertsPrefix     = "railwatch.alerts."
	SubjectAlertsAll        = "railwatch.alerts.>"
	SubjectStaffNotice      = "railwatch.notify.staff"
)

// AlertSubject returns the per-device alert subject. NATS tokens cannot hold
// dots or wildcards, so those are replaced.
func AlertSubject(deviceID string) string {
	return SubjectAlertsPrefix + subjectToken.Replace(deviceID)
}

var subjectToken = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")
