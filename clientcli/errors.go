package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrUserRequired   = errors.New("user is required")
	ErrConfigRequired = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrNoIDs         = errors.New("no folder ids provided")
	ErrEmptyID       = errors.New("folder id is required")
	ErrEmptyName     = errors.New("folder name is required")
	ErrNothingToSend = errors.New("no fields to update")
)
