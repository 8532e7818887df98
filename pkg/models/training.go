package models

// TrainingExample is one historical household: the appliances it runs and
// what it consumed in a month.
type TrainingExample struct {
	Appliances     []string `json:"appliances" yaml:"appliances"`
	ConsumptionKWh float64  `json:"consumption_kwh" yaml:"consumption_kwh"`
}

// DefaultTrainingSet returns the built-in reference households.
func DefaultTrainingSet() []TrainingExample {
	return []TrainingExample{
		{Appliances: []string{"Air Conditioner", "Refrigerator"}, ConsumptionKWh: 500},
		{Appliances: []string{"Washing Machine", "Refrigerator"}, ConsumptionKWh: 350},
		{Appliances: []string{"Air Conditioner", "Washing Machine"}, ConsumptionKWh: 450},
	}
}
