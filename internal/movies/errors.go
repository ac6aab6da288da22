package movies

import "fmt"

// Kind classifies why an upstream call failed.
type Kind string

const (
	// KindUnavailable covers transport failures: DNS, refused connections, timeouts.
	KindUnavailable Kind = "UNAVAILABLE"
	// KindBadStatus means upstream answered with a non-200 HTTP status.
	KindBadStatus Kind = "BAD_STATUS"
	// KindRejected means upstream answered 200 but reported an error in its envelope.
	KindRejected Kind = "REJECTED"
	// KindDecode means the body could not be interpreted.
	KindDecode Kind = "DECODE"
)

// Error is returned for every failed upstream call.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("movies %s: %s: %v", e.Op, e.Kind.describe(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code is the machine-readable error code exposed to GraphQL clients.
func (e *Error) Code() string {
	return "UPSTREAM_" + string(e.Kind)
}

// Extensions is picked up by the GraphQL engine and copied into the error's
// "extensions" object.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": e.Code(),
		"op":   e.Op,
	}
	if e.StatusCode != 0 {
		ext["status"] = e.StatusCode
	}
	return ext
}

func (k Kind) describe() string {
	switch k {
	case KindUnavailable:
		return "upstream unavailable"
	case KindBadStatus:
		return "bad upstream status"
	case KindRejected:
		return "upstream rejected request"
	case KindDecode:
		return "malformed upstream response"
	default:
		return "upstream error"
	}
}
