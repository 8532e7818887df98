package bills

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/OldStager01/energy-advisor/pkg/models"
)

const (
	MonthColumn = "Month"
	UnitsColumn = "Units"
)

var (
	ErrMissingColumns = errors.New("CSV must contain 'Month' and 'Units' columns")
	ErrMalformed      = errors.New("malformed bill file")
)

// Series is an uploaded bill history, in file order.
type Series struct {
	Points  []models.BillPoint `json:"points"`
	Skipped int                `json:"skipped_rows"`
}

func Parse(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingColumns
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	monthIdx, unitsIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case MonthColumn:
			monthIdx = i
		case UnitsColumn:
			unitsIdx = i
		}
	}
	if monthIdx < 0 || unitsIdx < 0 {
		return nil, ErrMissingColumns
	}

	series := &Series{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if monthIdx >= len(record) || unitsIdx >= len(record) {
			series.Skipped++
			continue
		}
		month := strings.TrimSpace(record[monthIdx])
		units, err := strconv.ParseFloat(strings.TrimSpace(record[unitsIdx]), 64)
		if month == "" || err != nil || !validUnits(units) {
			series.Skipped++
			continue
		}
		series.Points = append(series.Points, models.BillPoint{Month: month, Units: units})
	}

	return series, nil
}

// validUnits rejects readings a meter cannot produce.
func validUnits(units float64) bool {
	return units >= 0 && !math.IsInf(units, 0)
}

func (s *Series) Average() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Points {
		sum += p.Units
	}
	return sum / float64(len(s.Points))
}

func (s *Series) Max() float64 {
	var max float64
	for _, p := range s.Points {
		if p.Units > max {
			max = p.Units
		}
	}
	return max
}
