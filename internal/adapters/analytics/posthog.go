// Package analytics forwards ledger events to PostHog.
package analytics

import (
	"log/slog"

	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	"github.com/posthog/posthog-go"
)

// PosthogTracker wraps a posthog.Client. A tracker built without an API key
// drops every event.
type PosthogTracker struct {
	client posthog.Client
	logger *slog.Logger
}

var _ gateways.EventTracker = (*PosthogTracker)(nil)

func NewPosthogTracker(apiKey, endpoint string, logger *slog.Logger) *PosthogTracker {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, analytics events are dropped.")
		return &PosthogTracker{logger: logger}
	}
	cfg := posthog.Config{}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	client, err := posthog.NewWithConfig(apiKey, cfg)
	if err != nil {
		logger.Error("Failed to initialise posthog client", slog.String("error", err.Error()))
		return &PosthogTracker{logger: logger}
	}
	logger.Info("Posthog client initialised", slog.String("endpoint", cfg.Endpoint))
	return &PosthogTracker{client: client, logger: logger}
}

func (t *PosthogTracker) IsInitialized() bool {
	return t.client != nil
}

// Track enqueues the event. Enqueue buffers in memory and never blocks on the network.
func (t *PosthogTracker) Track(distinctID string, event string, properties map[string]any) {
	if t.client == nil {
		return
	}
	err := t.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
	if err != nil && t.logger != nil {
		t.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes buffered events.
func (t *PosthogTracker) Close() {
	if t.client == nil {
		return
	}
	if err := t.client.Close(); err != nil && t.logger != nil {
		t.logger.Warn("Failed to close posthog client", slog.String("error", err.Error()))
	}
}
