package sources

import (
	"fmt"

	"github.com/kova98/harvest/enums"
)

// FetchError means the upstream request failed or came back non-ok.
// StatusCode is 0 when no response was received.
type FetchError struct {
	Platform   enums.Platform
	Operation  string
	Target     string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s %q: fetch failed: %v", e.Platform, e.Operation, e.Target, e.Err)
	}
	return fmt.Sprintf("%s %s %q: upstream returned %d %s", e.Platform, e.Operation, e.Target, e.StatusCode, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ShapeError means a response lacked a top-level structure the operation
// cannot do without.
type ShapeError struct {
	Platform  enums.Platform
	Operation string
	Target    string
	Reason    string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s %s %q: unexpected response shape: %s", e.Platform, e.Operation, e.Target, e.Reason)
}
