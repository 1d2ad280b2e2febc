package transport

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrBodyTooLarge is the cause of a FetchError whose body exceeded the size limit.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// ErrUnexpectedStatus is the cause of a FetchError for a non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// FetchError reports a failed GET request: an unreachable host, a non-2xx
// response or an unreadable body.
type FetchError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status of the response, or 0 when none was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", redactURL(e.URL), e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", redactURL(e.URL), e.Err)
}

// redactURL hides the password of a URL carrying userinfo.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Redacted()
}

// Unwrap returns the underlying cause so errors.Is can see context errors.
func (e *FetchError) Unwrap() error {
	return e.Err
}
