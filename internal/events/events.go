package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const (
	TypeStockUpdate = "stock_update"

	ActionOrderPlaced    = "order_placed"
	ActionProductCreated = "product_created"
	ActionProductUpdated = "product_updated"
	ActionProductRemoved = "product_removed"
	ActionWeatherStored  = "weather_stored"
)

// Event is a marketplace notification fanned out to live clients and the event stream.
type Event struct {
	Type       string                 `json:"type"`
	Action     string                 `json:"action"`
	Key        string                 `json:"-"`
	Data       map[string]interface{} `json:"data"`
	Message    string                 `json:"message"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e Event) Marshal() ([]byte, error) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every sink and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
