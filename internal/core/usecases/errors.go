package usecases

import "errors"

var (
	ErrInvalidReport    = errors.New("invalid report")
	ErrInvalidDetection = errors.New("invalid detection")
	ErrInvalidDevice    = errors.New("invalid device id")
	ErrSessionExists    = errors.New("monitoring session already running for device")
	ErrSessionNotFound  = errors.New("no monitoring session for device")
	ErrSessionCancelled = errors.New("monitoring session cancelled during shutdown")
)
