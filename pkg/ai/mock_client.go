package ai

import (
	"context"
	"strings"
)

type mockClient struct{}

// NewMock returns an offline client used when no provider key is configured.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Ask(ctx context.Context, question string) (string, error) {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "rain") || strings.Contains(q, "weather"):
		return "Check the weather page for your location before irrigating; skip watering when more than 5 mm of rain is expected.", nil
	case strings.Contains(q, "price") || strings.Contains(q, "sell"):
		return "Compare listings from farmers in your location on the products page and price slightly below the local average to sell faster.", nil
	default:
		return "Test your soil every season, rotate crops, and keep records of inputs and yields to spot what works on your farm.", nil
	}
}
