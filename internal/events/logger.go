package events

import (
	"context"
	"time"

	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

// HistoryWriter persists recommendation summaries.
type HistoryWriter interface {
	Save(ctx context.Context, summary *models.RecommendationSummary) error
}

// EventLogger logs every event and persists created recommendations.
type EventLogger struct {
	store        HistoryWriter
	eventChan    <-chan *models.Event
	writeTimeout time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
}

func NewEventLogger(store HistoryWriter, eventChan <-chan *models.Event, writeTimeout time.Duration) *EventLogger {
	if writeTimeout <= 0 {
		writeTimeout = 3 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		store:        store,
		eventChan:    eventChan,
		writeTimeout: writeTimeout,
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
}

func (l *EventLogger) Start() {
	go l.run()
}

// Stop cancels the loop and waits for it to exit. Events still queued are
// dropped.
func (l *EventLogger) Stop() {
	l.cancel()
	<-l.done
}

// Drain waits for the loop to consume every queued event, which ends once the
// bus has been closed. After timeout the loop is cancelled and Drain reports
// false.
func (l *EventLogger) Drain(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-l.done:
		return true
	case <-timer.C:
		l.Stop()
		return false
	}
}

func (l *EventLogger) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	if event.Type == models.EventTypeRecommendationCreated {
		l.persistRecommendation(event)
	}
}

func (l *EventLogger) persistRecommendation(event *models.Event) {
	if l.store == nil {
		return
	}
	rec, ok := event.Data.(*models.Recommendation)
	if !ok {
		return
	}

	// Writes are bounded by writeTimeout only, so events drained at shutdown
	// still reach the store.
	ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
	defer cancel()

	if err := l.store.Save(ctx, rec.Summary()); err != nil {
		logger.WithRecommendation(rec.ID).Errorf("Failed to persist recommendation: %v", err)
	}
}
