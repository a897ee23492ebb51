package analytics

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerWithoutKeyDropsEvents(t *testing.T) {
	tracker := NewPosthogTracker("", "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.False(t, tracker.IsInitialized())
	assert.NotPanics(t, func() {
		tracker.Track("bursar-1", "payment_recorded", map[string]any{"amount": "100.00"})
		tracker.Close()
	})
}
