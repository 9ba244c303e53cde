package script

import "errors"

// Kind classifies a script failure.
type Kind int

const (
	// KindLoad is a compile/syntax failure: the script never started.
	KindLoad Kind = iota
	// KindRuntime is a thrown exception or failed capability call.
	KindRuntime
	// KindTimeout is an interrupted evaluation (budget or cancellation).
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindRuntime:
		return "runtime"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a classified script failure. Detail carries source location
// information when goja provides it.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return "script " + e.Kind.String() + " error: " + e.Detail
}

// AsScriptError extracts an *Error from an error chain.
func AsScriptError(err error) (*Error, bool) {
	var se *Error
	ok := errors.As(err, &se)
	return se, ok
}

func asError(err error, target interface{}) bool {
	return errors.As(err, target)
}
