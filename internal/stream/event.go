// Package stream converts a staged workflow run into an ordered event
// sequence: agent traces while stages execute, then the answer as
// incremental deltas, then metadata, then done. A failure produces exactly
// one error event and nothing after it.
package stream

import (
	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// EventType enumerates the wire event kinds.
type EventType string

const (
	EventAgentTrace EventType = "agent_trace"
	EventTextDelta  EventType = "text_delta"
	EventMetadata   EventType = "metadata"
	EventDone       EventType = "done"
	EventError      EventType = "error"
)

// Event is one streamed frame. Exactly one payload field is set, matching
// Type.
type Event struct {
	Type     EventType          `json:"type"`
	Trace    *domain.TraceEvent `json:"trace,omitempty"`
	Delta    string             `json:"delta,omitempty"`
	Metadata any                `json:"metadata,omitempty"`
	Error    string             `json:"error,omitempty"`
	Retry    string             `json:"retry,omitempty"`
}
