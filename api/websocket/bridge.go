package websocket

import (
	"context"

	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

// EventBridge forwards bus events to WebSocket clients
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	<-b.done
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	defer close(b.done)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	msg := convertToWSMessage(event)
	if msg == nil {
		return
	}
	b.hub.Broadcast(string(msg.Type), msg.JSON())
}

func convertToWSMessage(event *models.Event) *OutgoingMessage {
	msgType := mapEventType(event.Type)
	if msgType == "" {
		return nil
	}

	data := event.Data
	if rec, ok := event.Data.(*models.Recommendation); ok {
		data = NewRecommendationData(rec)
	}

	return &OutgoingMessage{
		Type:      msgType,
		Timestamp: event.Timestamp,
		Severity:  string(event.Severity),
		Message:   event.Message,
		TraceID:   event.TraceID,
		Data:      data,
	}
}

func mapEventType(eventType models.EventType) MessageType {
	switch eventType {
	case models.EventTypeRecommendationCreated:
		return MessageTypeRecommendation
	case models.EventTypeRecommendationFailed:
		return MessageTypeRecommendationFailed
	case models.EventTypeBillsUploaded:
		return MessageTypeBills
	case models.EventTypeArtifactsLoaded:
		return MessageTypeStatus
	case models.EventTypeError:
		return MessageTypeError
	default:
		return ""
	}
}
