package httpclient

import (
	"context"
	"errors"
	"fmt"
)

// TransportError reports a failed call to the analysis service: a non-2xx
// status, a network failure, or a body that is not JSON.
type TransportError struct {
	Op         string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: analysis service returned %d %s", e.Op, e.StatusCode, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": transport error"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call hit the client timeout or a context deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}
