package ops

import (
	"fmt"

	"github.com/mbland/subrelay/types"
)

// ErrExternal indicates that a request to an upstream service failed.
//
// The caller decides whether the upstream status or a generic server error
// goes back to the client.
const ErrExternal = types.SentinelError("external error")

// ErrConfiguration indicates the provider credentials aren't defined.
const ErrConfiguration = types.SentinelError("missing provider credentials")

// UpstreamError describes a provider response with a non-success status.
type UpstreamError struct {
	StatusCode int

	// Message is suitable for returning to the client.
	Message string

	// Body is the raw provider response, for the logs only.
	Body string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider responded %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrExternal
}
