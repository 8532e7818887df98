package events

import (
	"fmt"

	"github.com/OldStager01/energy-advisor/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) RecommendationCreated(rec *models.Recommendation) {
	msg := fmt.Sprintf("Recommendation for %d appliances at %.0f kWh", len(rec.Appliances), rec.MonthlyUnits)
	event := models.NewEvent(models.EventTypeRecommendationCreated, msg).
		WithData(rec)

	if len(rec.UnknownAppliances) > 0 {
		event.WithSeverity(models.SeverityWarning)
	}

	p.publish(event)
}

func (p *Publisher) RecommendationFailed(reason string, err error) {
	event := models.NewEvent(models.EventTypeRecommendationFailed, "Recommendation failed: "+reason).
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{
			"reason": reason,
			"error":  errString(err),
		})
	p.publish(event)
}

func (p *Publisher) BillsUploaded(points, skipped int) {
	msg := fmt.Sprintf("Bill history uploaded: %d months", points)
	event := models.NewEvent(models.EventTypeBillsUploaded, msg).
		WithData(map[string]int{"points": points, "skipped": skipped})
	p.publish(event)
}

func (p *Publisher) ArtifactsLoaded(modelID string, appliances int) {
	msg := fmt.Sprintf("Artifacts loaded: model %s, %d appliances in tip table", modelID, appliances)
	event := models.NewEvent(models.EventTypeArtifactsLoaded, msg).
		WithData(map[string]interface{}{"model_id": modelID, "appliances": appliances})
	p.publish(event)
}

func (p *Publisher) Error(message string, err error) {
	event := models.NewEvent(models.EventTypeError, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]string{"error": errString(err)})
	p.publish(event)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
