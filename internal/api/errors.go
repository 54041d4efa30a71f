package api

import "fmt"

// TransportError reports a non-2xx HTTP status from the backend. The response
// body is carried (truncated) for logging; callers branch on Status.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Body)
}

// DecodeError reports a response body that was not valid JSON for the
// endpoint's expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("api: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
