package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig   = fmt.Errorf("configuration not found")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrMissingUsername = fmt.Errorf("missing Discogs username")
	ErrMissingToken    = fmt.Errorf("missing Discogs access token")

	// API and service errors
	ErrAPIRequest      = fmt.Errorf("API request failed")
	ErrRateLimited     = fmt.Errorf("rate limited by remote API")
	ErrReleaseNotFound = fmt.Errorf("release not found")

	// Store errors
	ErrDuplicateRecord = fmt.Errorf("record already exists")
	ErrRecordNotFound  = fmt.Errorf("record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
