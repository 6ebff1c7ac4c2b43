// Package notify defines the status-event sink the pipeline reports through.
// Events are fire-and-forget: sinks must never block and a missing sink is
// not an error.
package notify

import (
	"github.com/parsecv/api/internal/model"
	ws "github.com/parsecv/api/internal/websocket"
)

// Sink receives short human-readable status events.
type Sink interface {
	Notify(title, message string, severity model.Severity)
}

// HubSink pushes events to websocket subscribers of the notifications topic.
type HubSink struct {
	hub *ws.Hub
}

func NewHubSink(hub *ws.Hub) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Notify(title, message string, severity model.Severity) {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.BroadcastNotification(title, message, severity)
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Notify(title, message string, severity model.Severity) {}
