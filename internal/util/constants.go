package util

// gin context keys
const (
	RequestIDKey = "request_id"
	SessionIDKey = "survey_session"
)

const (
	RequestIDHeader = "X-Request-ID"
	SessionParam    = "session"
)
