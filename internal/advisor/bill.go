package advisor

import "github.com/OldStager01/energy-advisor/pkg/models"

// simulateBill draws a saving percentage per appliance and applies the mean
// to the monthly units. The figures are illustrative, not a forecast.
func (s *Service) simulateBill(units float64, appliances int) models.BillEstimate {
	var percent float64
	if appliances > 0 {
		total := 0
		for i := 0; i < appliances; i++ {
			total += s.savingPercent()
		}
		percent = float64(total) / float64(appliances)
	}

	saved := units * percent / 100
	newUnits := units - saved
	original := units * s.cfg.TariffPerUnit
	newBill := newUnits * s.cfg.TariffPerUnit

	return models.BillEstimate{
		OriginalUnits: units,
		SavingPercent: percent,
		SavedUnits:    saved,
		NewUnits:      newUnits,
		TariffPerUnit: s.cfg.TariffPerUnit,
		OriginalBill:  original,
		NewBill:       newBill,
		SavedAmount:   original - newBill,
	}
}

// savingPercent is uniform over [min, max] inclusive.
func (s *Service) savingPercent() int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.cfg.MinSavingPercent + s.rng.Intn(s.cfg.MaxSavingPercent-s.cfg.MinSavingPercent+1)
}
