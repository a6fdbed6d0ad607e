package common

const (
	// AuthorizationHeaderName carries the bearer access token on requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header value.
	BearerPrefix = "Bearer "

	// DateLayout is the wire format of comment timestamps (UTC, millisecond
	// precision, e.g. 2024-05-01T10:00:00.000Z).
	DateLayout = "2006-01-02T15:04:05.000Z"
)
