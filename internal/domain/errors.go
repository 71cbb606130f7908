// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserNameTaken      = errors.New("user name already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooWeak    = errors.New("password too weak")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidRole        = errors.New("invalid role")
	ErrLastSuperAdmin     = errors.New("cannot remove the last super admin")
	ErrSetupCompleted     = errors.New("initial setup already completed")

	// Company-related errors
	ErrCompanyNotFound     = errors.New("company not found")
	ErrInvalidIndustryType = errors.New("invalid industry type")
	ErrInvalidRegion       = errors.New("invalid region")

	// Project-related errors
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectType = errors.New("invalid project type")
	ErrNoImpactEntries    = errors.New("at least one impact entry is required")

	// Impact-related errors
	ErrInvalidImpactType = errors.New("invalid impact type")
	ErrImpactOutOfRange  = errors.New("accumulated impact out of range")
)
