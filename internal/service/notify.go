package service

import (
	"context"
	"time"

	"agriconnect-api/internal/events"

	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// notify publishes outside the request path; a failed publish is only logged.
func notify(pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := pub.Publish(ctx, e); err != nil {
			log.Warn().Err(err).Str("action", e.Action).Msg("event publish failed")
		}
	}()
}
