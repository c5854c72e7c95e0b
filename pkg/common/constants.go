package common

const (
	ServiceName = "privacyguard"

	RequestIDHeader = "X-Request-Id"

	// DefaultBodyLimit applies to request bodies both before and after
	// Content-Encoding is undone.
	DefaultBodyLimit = 4 * 1024 * 1024

	ModelStatusAvailable = "available"
	ModelStatusLimited   = "limited"
)
