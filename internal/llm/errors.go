package llm

import (
	"errors"
	"fmt"
)

type ErrUnsupportedProvider struct {
	Provider string
}

func (e ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported LLM provider: %s", e.Provider)
}

// ErrToolIterationsExhausted reports that a tool-use conversation hit its
// round-trip limit without producing a final answer. Unlike other provider
// failures it is not downgraded to a fallback path.
var ErrToolIterationsExhausted = errors.New("maximum tool call iterations reached")
