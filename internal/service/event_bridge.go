package service

import (
	"context"
	"encoding/json"

	"alvely-be/internal/dto"
	"alvely-be/internal/pkg/logger"
	"alvely-be/internal/websocket"
	"alvely-be/pkg/events"
	natspub "alvely-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// EventBridge consumes pipeline emissions off the in-process bus and fans
// them out: to the websocket hub for connected clients, and to NATS for
// external observers. The NATS publisher is optional.
type EventBridge struct {
	pubSub *gochannel.GoChannel
	hub    *websocket.Hub
	nats   *natspub.Publisher
	logger logger.ILogger
}

func NewEventBridge(pubSub *gochannel.GoChannel, hub *websocket.Hub, nats *natspub.Publisher, log logger.ILogger) *EventBridge {
	return &EventBridge{
		pubSub: pubSub,
		hub:    hub,
		nats:   nats,
		logger: log,
	}
}

// Start subscribes to the retrieval events topic and dispatches until the
// context is cancelled. Call it on its own goroutine.
func (b *EventBridge) Start(ctx context.Context) error {
	messages, err := b.pubSub.Subscribe(ctx, RetrievalEventsTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			b.dispatch(ctx, msg.Payload)
			msg.Ack()
		}
	}()

	return nil
}

func (b *EventBridge) dispatch(ctx context.Context, payload []byte) {
	var envelope dto.RetrievalEventDTO
	if err := json.Unmarshal(payload, &envelope); err != nil {
		b.logger.Error("EventBridge", "Malformed event payload", map[string]interface{}{"error": err.Error()})
		return
	}

	event := events.BaseEvent{
		Type:       envelope.Type,
		Data:       envelope.Data,
		OccurredAt: envelope.OccurredAt,
	}

	sessionId, ok := envelope.Data["session_id"].(string)
	if !ok {
		b.logger.Warn("EventBridge", "Event without session_id, dropping", map[string]interface{}{"type": envelope.Type})
		return
	}

	if sid, err := uuid.Parse(sessionId); err == nil {
		b.hub.Emit(sid, event)
	}

	if b.nats != nil {
		if err := b.nats.Publish(ctx, event); err != nil {
			b.logger.Warn("EventBridge", "NATS publish failed", map[string]interface{}{
				"type":  envelope.Type,
				"error": err.Error(),
			})
		}
	}
}
