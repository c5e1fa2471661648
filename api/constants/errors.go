package constants

// Request errors
const (
	ErrInvalidJSON      = "Invalid JSON"
	ErrInvalidForm      = "Invalid form data"
	ErrInvalidID        = "Invalid id"
	ErrInvalidNumber    = "invalid number for %s: %q"
	ErrMissingFile      = "No file uploaded"
	ErrFileTooLarge     = "Uploaded file is too large"
	ErrMissingSessionID = "session_id is required"
	ErrInvalidDate      = "invalid %s date: %q"
)

// Server errors
const (
	ErrInternal       = "Internal server error"
	ErrRouteNotFound  = "404 - Route not found"
	ErrMethodNotAllow = "Method Not Allowed"
)
