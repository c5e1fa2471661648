package constants

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
	HeaderRequestID = "X-Request-ID"
)

// Upload limits
const (
	MaxUploadBytes = 32 << 20
	UploadField    = "file"
)

// Query parameters
const (
	ParamQuery   = "q"
	ParamPage    = "page"
	ParamPerPage = "per_page"
)
