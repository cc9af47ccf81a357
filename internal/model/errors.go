package model

import "fmt"

// HTTPError reports a transport-level failure: a non-success status, or
// a request that never produced a response (StatusCode 0, cause in Err).
type HTTPError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ShapeError reports a response body that decoded but was not the
// expected JSON array.
type ShapeError struct {
	URL string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("response from %s is not a JSON array", e.URL)
}

// ParseError reports a published_date value that matched none of the
// accepted timestamp layouts.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable date %q", e.Value)
}
