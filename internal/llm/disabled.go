package llm

import (
	"context"
	"errors"
)

type DisabledProvider struct{}

func (DisabledProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	return "", errors.New("AI enrichment is disabled")
}
