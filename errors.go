package urlfile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned when a File is constructed without a usable
	// size. Negative sizes are Go's convention for "unknown length" (see
	// http.Response.ContentLength), so they are rejected too.
	ErrInvalidSize = errors.New("size is required")

	// ErrInvalidURL is returned when a File is constructed without a URL.
	ErrInvalidURL = errors.New("url is required")

	// ErrRangeUnsupported is returned by Discover when the server declares
	// that it does not support range requests for the resource.
	ErrRangeUnsupported = errors.New("range requests not supported by remote")
)

// StatusError is returned by the transports in this module when the server
// responds with an error status.
type StatusError struct {
	Method string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %s failed with status %d", e.Method, e.Code)
}

// StatusCode returns the HTTP status code of the failed response.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// UnexpectedRangeResponseError is returned when range checking is enabled (see
// WithRangeCheck) and the response does not carry the requested byte range.
type UnexpectedRangeResponseError struct {
	URL string
	// Want is the Content-Range that was requested
	Want string
	// Got is the Content-Range header of the response, possibly empty
	Got        string
	StatusCode int
}

func (e *UnexpectedRangeResponseError) Error() string {
	return fmt.Sprintf("unexpected range response from %s: status %d, Content-Range %q (wanted %q)",
		e.URL, e.StatusCode, e.Got, e.Want)
}
