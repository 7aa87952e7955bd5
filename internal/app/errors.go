package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrValidation       = errors.New("invalid request")
	ErrReportGeneration = errors.New("report generation failed")
)
