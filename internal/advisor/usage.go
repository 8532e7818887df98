package advisor

import "github.com/OldStager01/energy-advisor/pkg/models"

const defaultHoursPerDay = 1.0

// usageDistribution splits units across appliances in proportion to their
// daily hours. Appliances without an entry count as one hour a day.
func usageDistribution(appliances []string, hours map[string]float64, units float64) []models.UsageShare {
	perAppliance := make([]float64, len(appliances))
	var total float64
	for i, appliance := range appliances {
		h, ok := hours[appliance]
		if !ok {
			h = defaultHoursPerDay
		}
		perAppliance[i] = h
		total += h
	}
	if total == 0 {
		total = 1
	}

	out := make([]models.UsageShare, 0, len(appliances))
	for i, appliance := range appliances {
		fraction := perAppliance[i] / total
		out = append(out, models.UsageShare{
			Appliance:    appliance,
			HoursPerDay:  perAppliance[i],
			EstimatedKWh: fraction * units,
			Percent:      fraction * 100,
		})
	}
	return out
}
