package domain

import "errors"

// Common validation errors for ObjectionRequest
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrEmptyLocation   = errors.New("location cannot be empty")
	ErrInvalidTone     = errors.New("invalid objection tone")
	ErrInvalidLanguage = errors.New("invalid language")
	ErrInvalidMode     = errors.New("invalid generation mode")
	ErrNoConcerns      = errors.New("at least one concern is required in auto mode")
	ErrEmptyCustomText = errors.New("custom text cannot be empty in manual mode")
)
