package advisor

import "sort"

// suggestions names the appliances most common among reference households
// that use more than units per month.
func (s *Service) suggestions(units float64) []string {
	idx := s.bundle.Index

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for i := 0; i < idx.Len(); i++ {
		target, ok := idx.Target(i)
		if !ok || target <= units {
			continue
		}
		for _, appliance := range idx.Row(i) {
			if _, seen := firstSeen[appliance]; !seen {
				firstSeen[appliance] = order
				order++
			}
			counts[appliance]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(a, b int) bool {
		if counts[names[a]] != counts[names[b]] {
			return counts[names[a]] > counts[names[b]]
		}
		return firstSeen[names[a]] < firstSeen[names[b]]
	})

	if len(names) > s.cfg.MaxSuggestions {
		names = names[:s.cfg.MaxSuggestions]
	}
	return names
}
