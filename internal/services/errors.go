package services

import "errors"

// Sentinel errors returned by the workflow services. Handlers map these to
// HTTP status codes in one place; services never see HTTP.
var (
	ErrValidation    = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrWindowClosed  = errors.New("registration window is closed")
	ErrExpired       = errors.New("invite expired")
	ErrNotPending    = errors.New("invite is not pending")
	ErrLocked        = errors.New("team is locked")
	ErrCodeExhausted = errors.New("failed to generate a unique team code")
)
