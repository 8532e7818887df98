package bills

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/energy-advisor/pkg/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []models.BillPoint
		skipped  int
		errIs    error
	}{
		{
			name:  "two columns",
			input: "Month,Units\nJan,220\nFeb,198.5\n",
			expected: []models.BillPoint{
				{Month: "Jan", Units: 220},
				{Month: "Feb", Units: 198.5},
			},
		},
		{
			name:     "extra columns and reordered",
			input:    "Units,Amount,Month\n300,2400,Mar\n",
			expected: []models.BillPoint{{Month: "Mar", Units: 300}},
		},
		{
			name:     "bad rows skipped",
			input:    "Month,Units\nJan,abc\n,100\nFeb,150\nMar\n",
			expected: []models.BillPoint{{Month: "Feb", Units: 150}},
			skipped:  3,
		},
		{
			name:     "negative and non-finite units skipped",
			input:    "Month,Units\nJan,-40\nFeb,NaN\nMar,+Inf\nApr,0\nMay,120\n",
			expected: []models.BillPoint{{Month: "Apr", Units: 0}, {Month: "May", Units: 120}},
			skipped:  3,
		},
		{
			name:     "byte order mark",
			input:    "\ufeffMonth,Units\nApr,90\n",
			expected: []models.BillPoint{{Month: "Apr", Units: 90}},
		},
		{
			name:  "missing units column",
			input: "Month,kWh\nJan,1\n",
			errIs: ErrMissingColumns,
		},
		{
			name:  "column names are case sensitive",
			input: "month,units\nJan,1\n",
			errIs: ErrMissingColumns,
		},
		{
			name:  "empty file",
			input: "",
			errIs: ErrMissingColumns,
		},
		{
			name:  "broken quoting",
			input: "Month,Units\n\"Jan,1\n",
			errIs: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := Parse(strings.NewReader(tt.input))
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, series.Points)
			assert.Equal(t, tt.skipped, series.Skipped)
		})
	}
}

func TestSeries_Stats(t *testing.T) {
	s := &Series{Points: []models.BillPoint{{Month: "Jan", Units: 100}, {Month: "Feb", Units: 300}}}
	assert.Equal(t, 200.0, s.Average())
	assert.Equal(t, 300.0, s.Max())

	empty := &Series{}
	assert.Equal(t, 0.0, empty.Average())
}
