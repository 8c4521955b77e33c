package rpc

import "fmt"

// TransportError reports an HTTP-level failure talking to an endpoint: a
// network error, or a non-2xx status. It is distinct from a JSON-RPC error
// returned inside a successful HTTP response.
type TransportError struct {
	URL        string
	StatusCode int // zero when the request never completed
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("post to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("post to %s failed: unexpected status code %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }
