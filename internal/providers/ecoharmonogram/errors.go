package ecoharmonogram

import (
	"errors"
	"fmt"
)

// TransportError captures a network failure, a non-2xx status, or a malformed
// JSON body from the upstream service.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", providerName, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", providerName, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AsTransportError attempts to unwrap an error into a TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr, true
	}
	return nil, false
}
