// Package common defines shared constants and sentinel errors used across
// client and server layers of PageVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Ingestion errors. ErrStorage aborts a save before any row exists;
	// ErrPersistence means the blob was written but the row was not.
	ErrValidation  = errors.New("validation error")
	ErrStorage     = errors.New("blob storage error")
	ErrPersistence = errors.New("metadata persistence error")

	// Capture pipeline errors.
	ErrTabResolution = errors.New("tab not resolved")
	ErrExtraction    = errors.New("extraction failed")
	ErrSessionBusy   = errors.New("capture session already active")

	// Message channel errors (absent endpoint or timed-out request).
	ErrTransport = errors.New("transport error")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
