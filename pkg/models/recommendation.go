package models

import "time"

// RecommendationRequest is what the form (or the JSON API) submits.
type RecommendationRequest struct {
	Appliances   []string           `json:"appliances" example:"Air Conditioner,Refrigerator"`
	MonthlyUnits float64            `json:"monthly_units" binding:"gte=0,lte=2000" example:"200"`
	UsageHours   map[string]float64 `json:"usage_hours,omitempty"`
}

// Neighbor is one matched reference household.
type Neighbor struct {
	Index          int      `json:"index"`
	Distance       float64  `json:"distance"`
	Appliances     []string `json:"appliances"`
	ConsumptionKWh float64  `json:"consumption_kwh"`
}

// Tip is a single piece of advice for an appliance.
type Tip struct {
	Appliance string `json:"appliance"`
	Text      string `json:"text"`
	Source    string `json:"source"`
}

const (
	TipSourceSelected = "selected"
	TipSourceNeighbor = "neighbor"
)

// BillEstimate is the simulated monthly bill before and after following tips.
type BillEstimate struct {
	OriginalUnits float64 `json:"original_units"`
	SavingPercent float64 `json:"saving_percent"`
	SavedUnits    float64 `json:"saved_units"`
	NewUnits      float64 `json:"new_units"`
	TariffPerUnit float64 `json:"tariff_per_unit"`
	OriginalBill  float64 `json:"original_bill"`
	NewBill       float64 `json:"new_bill"`
	SavedAmount   float64 `json:"saved_amount"`
}

// UsageShare is one bar of the usage distribution chart.
type UsageShare struct {
	Appliance    string  `json:"appliance"`
	HoursPerDay  float64 `json:"hours_per_day"`
	EstimatedKWh float64 `json:"estimated_kwh"`
	Percent      float64 `json:"percent"`
}

// Recommendation is the full answer to one form submission.
type Recommendation struct {
	ID                 string       `json:"id"`
	CreatedAt          time.Time    `json:"created_at"`
	ModelID            string       `json:"model_id"`
	Appliances         []string     `json:"appliances"`
	UnknownAppliances  []string     `json:"unknown_appliances,omitempty"`
	MonthlyUnits       float64      `json:"monthly_units"`
	Neighbors          []Neighbor   `json:"neighbors"`
	AverageDistance    float64      `json:"average_distance"`
	SavingsScore       float64      `json:"savings_score"`
	TypicalConsumption float64      `json:"typical_consumption_kwh"`
	Tips               []Tip        `json:"tips"`
	Suggestions        []string     `json:"suggestions"`
	Bill               BillEstimate `json:"bill"`
	Usage              []UsageShare `json:"usage"`
}

// RecommendationSummary is the persisted history row.
type RecommendationSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ModelID      string    `json:"model_id"`
	Appliances   []string  `json:"appliances"`
	MonthlyUnits float64   `json:"monthly_units"`
	SavingsScore float64   `json:"savings_score"`
	SavedUnits   float64   `json:"saved_units"`
	SavedAmount  float64   `json:"saved_amount"`
}

// Summary flattens the recommendation for storage.
func (r *Recommendation) Summary() *RecommendationSummary {
	return &RecommendationSummary{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		ModelID:      r.ModelID,
		Appliances:   r.Appliances,
		MonthlyUnits: r.MonthlyUnits,
		SavingsScore: r.SavingsScore,
		SavedUnits:   r.Bill.SavedUnits,
		SavedAmount:  r.Bill.SavedAmount,
	}
}
