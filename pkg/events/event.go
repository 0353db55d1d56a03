package events

import (
	"time"

	"alvely-be/pkg/search"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RETRIEVAL_ANSWER").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Retrieval pipeline event codes. One run emits answer/sources, sources
// alone, images, or failed — never a mix of success and failure.
const (
	TypeRetrievalAnswer  = "RETRIEVAL_ANSWER"
	TypeRetrievalSources = "RETRIEVAL_SOURCES"
	TypeRetrievalImages  = "RETRIEVAL_IMAGES"
	TypeRetrievalFailed  = "RETRIEVAL_FAILED"
)

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewAnswerEvent carries the synthesized cited answer for a session.
func NewAnswerEvent(sessionID, answer string) BaseEvent {
	return BaseEvent{
		Type: TypeRetrievalAnswer,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"answer":     answer,
		},
		OccurredAt: time.Now(),
	}
}

// NewSourcesEvent carries the newly surfaced web sources for a session.
func NewSourcesEvent(sessionID string, sources []search.WebResult) BaseEvent {
	return BaseEvent{
		Type: TypeRetrievalSources,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"sources":    sources,
		},
		OccurredAt: time.Now(),
	}
}

// NewImagesEvent carries the newly surfaced image results for a session.
func NewImagesEvent(sessionID string, images []search.ImageResult) BaseEvent {
	return BaseEvent{
		Type: TypeRetrievalImages,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"images":     images,
		},
		OccurredAt: time.Now(),
	}
}

// NewFailedEvent carries the single error signal for a failed run.
func NewFailedEvent(sessionID, message string) BaseEvent {
	return BaseEvent{
		Type: TypeRetrievalFailed,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"error":      message,
		},
		OccurredAt: time.Now(),
	}
}
