package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("no price found")
	ErrAmbiguous = errors.New("ambiguous pricing result")
)

// TransportError means the catalog itself is unusable (unreachable, auth rejected, timed out).
// It aborts the whole run instead of being attributed to a row.
type TransportError struct {
	Op   string
	Hint string
	Err  error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("pricing service %s failed: %v", e.Op, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is run-fatal.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
