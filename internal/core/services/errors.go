package services

import "errors"

// Task errors
var (
	ErrTaskNotFound          = errors.New("task: not found")
	ErrTaskInvalidInput      = errors.New("task: invalid input")
	ErrTaskInvalidStatus     = errors.New("task: status must be one of: pending, in_progress, completed, error")
	ErrTaskIllegalTransition = errors.New("task: illegal status transition")
	ErrTaskUnknownSoftware   = errors.New("task: software_id does not reference a known software")
)

// Install errors
var (
	ErrInstallHostUnresolved = errors.New("install: machine could not be identified for this session; installation is blocked for security reasons")
	ErrInstallNotFound       = errors.New("install: software not found or inactive")
)

// Software errors
var (
	ErrSoftwareNotFound     = errors.New("software: not found")
	ErrSoftwareInvalidInput = errors.New("software: invalid input")
	ErrSoftwareSlugTaken    = errors.New("software: slug already exists")
)
