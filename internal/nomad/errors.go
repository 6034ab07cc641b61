package nomad

import (
	"errors"
	"fmt"
)

var ErrUpstream = errors.New("nomad api request failed")

// UpstreamError describes a failed scheduler API call, either at the
// transport level (Err set) or a non-2xx response (StatusCode set)
type UpstreamError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
