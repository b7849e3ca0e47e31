// Package render turns aggregates into chart images and records into
// tabular exports. Functions here only produce bytes; they never touch
// storage or the network.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"expensetracker/internal/report"
)

const (
	pieSize     = 600
	trendWidth  = 800
	trendHeight = 400
)

// ErrSeriesMismatch is returned when month keys and values differ in length.
var ErrSeriesMismatch = errors.New("month keys and values length mismatch")

// CategoryChart renders a pie chart with one slice per category. It returns
// nil, nil when there is nothing to draw. Only positive totals get a slice;
// shares are computed over their sum.
func CategoryChart(t *report.Totals) ([]byte, error) {
	if t == nil || t.Len() == 0 {
		return nil, nil
	}

	positive := decimal.Zero
	for _, k := range t.Keys() {
		if v, _ := t.Get(k); v.IsPositive() {
			positive = positive.Add(v)
		}
	}
	if !positive.IsPositive() {
		return nil, nil
	}

	values := make([]chart.Value, 0, t.Len())
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		if !v.IsPositive() {
			continue
		}
		share := v.Div(positive).Mul(decimal.NewFromInt(100)).InexactFloat64()
		values = append(values, chart.Value{
			Value: v.InexactFloat64(),
			Label: fmt.Sprintf("%s (%.1f%%)", k, share),
		})
	}

	pie := chart.PieChart{
		Title:  "Expenses by Category",
		Width:  pieSize,
		Height: pieSize,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category chart: %w", err)
	}
	return buf.Bytes(), nil
}

// TrendChart renders a line chart with markers, one point per month, in the
// order given. It returns nil, nil for empty input.
func TrendChart(months []string, values []decimal.Decimal, currency string) ([]byte, error) {
	if len(months) != len(values) {
		return nil, ErrSeriesMismatch
	}
	if len(months) == 0 {
		return nil, nil
	}

	xs := make([]float64, len(months))
	ys := make([]float64, len(values))
	for i := range months {
		xs[i] = float64(i)
		ys[i] = values[i].InexactFloat64()
	}
	lo, hi := yRange(ys)

	graph := chart.Chart{
		Title:  "Monthly Spending Trend",
		Width:  trendWidth,
		Height: trendHeight,
		XAxis: chart.XAxis{
			Name:  "Month",
			Ticks: monthTicks(months),
			Style: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:  amountLabel(currency),
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Spending",
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    chart.ColorBlue,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

// monthTicks labels each month index and brackets them with unlabeled
// ticks half a step outside. go-chart derives the x range from custom
// ticks, so a single month still gets a non-zero range.
func monthTicks(months []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(months)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, m := range months {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: m})
	}
	return append(ticks, chart.Tick{Value: float64(len(months)) - 0.5})
}

// yRange always includes zero and never collapses to a zero-width range.
func yRange(ys []float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, y := range ys {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	if hi-lo == 0 {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1
	if lo < 0 {
		lo -= pad
	}
	return lo, hi + pad
}

// EncodeBase64 returns the standard base64 encoding of a PNG, or "" for nil.
func EncodeBase64(png []byte) string {
	if len(png) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(png)
}

func amountLabel(currency string) string {
	if currency == "" {
		return "Amount"
	}
	return "Amount (" + currency + ")"
}
