package ai

import (
	"context"
	"fmt"
	"strings"
)

// Client answers free-text farming questions.
type Client interface {
	Ask(ctx context.Context, question string) (string, error)
}

// ProviderError carries a non-success response from the completion provider.
type ProviderError struct {
	Status int
	Body   []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider returned %d: %s", e.Status, strings.TrimSpace(string(e.Body)))
}

const systemPrompt = "You are AgriConnect, an agronomy assistant for small farmers. " +
	"Answer questions about crops, soil, weather, markets, farming technology and government schemes " +
	"in plain language, in no more than a few short paragraphs."
