package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/energy-advisor/pkg/models"
)

type MessageType string

const (
	MessageTypeRecommendation       MessageType = "recommendation"
	MessageTypeRecommendationFailed MessageType = "recommendation_failed"
	MessageTypeBills                MessageType = "bills"
	MessageTypeStatus               MessageType = "status"
	MessageTypeError                MessageType = "error"
	MessageTypeSubscription         MessageType = "subscription_update"
)

type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

// RecommendationData is what live viewers see of a recommendation. Tips and
// usage hours stay with the requester.
type RecommendationData struct {
	ID                string   `json:"id"`
	Appliances        []string `json:"appliances"`
	UnknownAppliances []string `json:"unknown_appliances,omitempty"`
	MonthlyUnits      float64  `json:"monthly_units"`
	SavingsScore      float64  `json:"savings_score"`
	SavingPercent     float64  `json:"saving_percent"`
	SavedAmount       float64  `json:"saved_amount"`
}

type SubscriptionData struct {
	Action string   `json:"action"`
	Topic  string   `json:"topic,omitempty"`
	Topics []string `json:"topics"`
}

func NewRecommendationData(rec *models.Recommendation) RecommendationData {
	return RecommendationData{
		ID:                rec.ID,
		Appliances:        rec.Appliances,
		UnknownAppliances: rec.UnknownAppliances,
		MonthlyUnits:      rec.MonthlyUnits,
		SavingsScore:      rec.SavingsScore,
		SavingPercent:     rec.Bill.SavingPercent,
		SavedAmount:       rec.Bill.SavedAmount,
	}
}
