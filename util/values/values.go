package values

// Status strings returned by handlers and mapped to HTTP codes
// by util.StatusCode.
const (
	Success        = "success"
	Created        = "created"
	Error          = "internal-error"
	BadRequestBody = "bad-request"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorized"
	TokenExpired   = "token-expired"
	Conflict       = "conflict"
	SystemErr      = "system error"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderRequestSource = "X-Request-Source"

	// RequestSourceWeb is assumed when the client does not identify itself.
	RequestSourceWeb = "web"
)

// SessionCookie carries the signed refresh token identifying the user.
const SessionCookie = "refreshToken"

type contextKey string

// ContextTracingKey keys the tracing context on the request context.
const ContextTracingKey = contextKey("tracing-context")
