package httpapi

import "time"

// maxBodyBytes controls the maximum allowed request body size for /v1/call.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// eventKeepAlive is the interval between SSE comment lines sent while the
// stream is idle. Zero disables keep-alives.
var eventKeepAlive = 15 * time.Second

// SetEventKeepAlive sets the idle keep-alive interval of /v1/events.
func SetEventKeepAlive(d time.Duration) {
	if d < 0 {
		d = 0
	}
	eventKeepAlive = d
}

// eventSinkBuffer is how many events a stream may hold before delivery
// blocks the emitter.
var eventSinkBuffer = 64

// SetEventSinkBuffer sets the per-stream event buffer.
func SetEventSinkBuffer(n int) {
	if n <= 0 {
		n = 64
	}
	eventSinkBuffer = n
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty
// methods or headers fall back to what the call surface needs.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
	if len(corsAllowedMethods) == 0 {
		corsAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(corsAllowedHeaders) == 0 {
		corsAllowedHeaders = []string{"Content-Type", "X-Log-Level", "X-Request-Id"}
	}
}
