package handlers

import (
	"fmt"
	"strings"

	"github.com/OldStager01/energy-advisor/internal/bills"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

const (
	chartWidth   = 640
	chartHeight  = 220
	chartPadding = 24
	maxXLabels   = 12
)

type chartLabel struct {
	X    string
	Y    string
	Text string
}

// billChart is the uploaded bill history drawn as an SVG polyline.
type billChart struct {
	Width   int
	Height  int
	Points  string
	Labels  []chartLabel
	Average float64
	Max     float64
	Skipped int
}

type usageBar struct {
	Appliance string
	KWh       float64
	Width     float64
}

func newBillChart(series *bills.Series) *billChart {
	chart := &billChart{
		Width:   chartWidth,
		Height:  chartHeight,
		Average: series.Average(),
		Max:     series.Max(),
		Skipped: series.Skipped,
	}
	n := len(series.Points)
	if n == 0 {
		return chart
	}

	plotW := float64(chartWidth - 2*chartPadding)
	plotH := float64(chartHeight - 2*chartPadding)
	top := chart.Max
	if top <= 0 {
		top = 1
	}

	step := 0.0
	if n > 1 {
		step = plotW / float64(n-1)
	}
	labelEvery := (n + maxXLabels - 1) / maxXLabels

	points := make([]string, 0, n)
	for i, p := range series.Points {
		x := float64(chartPadding) + step*float64(i)
		if n == 1 {
			x = float64(chartWidth) / 2
		}
		y := float64(chartPadding) + plotH*(1-p.Units/top)
		points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))

		if i%labelEvery == 0 {
			chart.Labels = append(chart.Labels, chartLabel{
				X:    fmt.Sprintf("%.1f", x),
				Y:    fmt.Sprintf("%d", chartHeight-6),
				Text: p.Month,
			})
		}
	}
	chart.Points = strings.Join(points, " ")
	return chart
}

// usageBars scales bar widths against the largest share.
func usageBars(shares []models.UsageShare) []usageBar {
	var top float64
	for _, s := range shares {
		if s.EstimatedKWh > top {
			top = s.EstimatedKWh
		}
	}

	bars := make([]usageBar, 0, len(shares))
	for _, s := range shares {
		width := 0.0
		if top > 0 {
			width = s.EstimatedKWh / top * 100
		}
		bars = append(bars, usageBar{Appliance: s.Appliance, KWh: s.EstimatedKWh, Width: width})
	}
	return bars
}
