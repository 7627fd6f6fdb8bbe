package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyReply is returned when the provider answers without any usable text.
var ErrEmptyReply = errors.New("llm: empty reply")

// StatusError reports a non-200 answer from the completion provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("llm: provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("llm: provider returned status %d: %s", e.StatusCode, e.Body)
}
