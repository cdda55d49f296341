package pcprice

import "fmt"

// TransportError reports that no HTTP response was received
// (DNS, connection refused, context deadline and similar).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pcprice: transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports that the server answered with something that is not
// a well-formed HTTP response.
type ProtocolError struct {
	URL string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("pcprice: malformed response from %s: %v", e.URL, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx status. The body is not parsed.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("pcprice: %s returned status %d", e.URL, e.StatusCode)
}

// EmptyBodyError reports a 2xx response without a body.
type EmptyBodyError struct {
	URL string
}

func (e *EmptyBodyError) Error() string {
	return fmt.Sprintf("pcprice: %s returned an empty body", e.URL)
}

// DecodeError reports a body that does not match the expected schema.
// Body holds the raw response for diagnostics.
type DecodeError struct {
	URL  string
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("pcprice: decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingFieldError is the cause of a DecodeError when a required field is
// absent or null.
type MissingFieldError struct {
	Object string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: required field %q is missing", e.Object, e.Field)
}
