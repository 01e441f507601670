// Package charts renders the three advisory PNGs: the affordability pie,
// the coverage-vs-income bar chart, and the coverage adequacy gauge. Inputs
// are pre-computed integer rupee amounts; outputs are file paths.
package charts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorRemaining = drawing.ColorFromHex("4caf50")
	colorTerm      = drawing.ColorFromHex("f44336")
	colorHealth    = drawing.ColorFromHex("2196f3")
	colorIncome    = drawing.ColorFromHex("b71c1c")
	colorNeutral   = drawing.ColorFromHex("9e9e9e")
	colorAmber     = drawing.ColorFromHex("ff9800")
)

// Renderer writes chart PNGs into a single output directory.
type Renderer struct {
	outputDir string
	logger    *slog.Logger
}

// NewRenderer creates the output directory if needed.
func NewRenderer(outputDir string, logger *slog.Logger) (*Renderer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart output dir %s: %w", outputDir, err)
	}
	return &Renderer{outputDir: outputDir, logger: logger.With("component", "chart_renderer")}, nil
}

// AffordabilityPie draws monthly premiums against remaining income. Zero
// slices are dropped; when every value is zero a neutral placeholder slice
// keeps the image renderable.
func (r *Renderer) AffordabilityPie(termPremium, healthPremium, monthlyIncome int64) (string, error) {
	remaining := monthlyIncome - (termPremium + healthPremium)
	if remaining < 0 {
		remaining = 0
	}

	slices := []struct {
		label string
		value int64
		color drawing.Color
	}{
		{"Remaining Income", remaining, colorRemaining},
		{"Term Insurance", termPremium, colorTerm},
		{"Health Insurance", healthPremium, colorHealth},
	}

	var values []chart.Value
	for _, s := range slices {
		if s.value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(s.value),
			Label: s.label,
			Style: chart.Style{FillColor: s.color},
		})
	}
	if len(values) == 0 {
		values = []chart.Value{{Value: 1, Label: "No data to display", Style: chart.Style{FillColor: colorNeutral}}}
	}

	pie := chart.PieChart{
		Title:  "Premium vs Monthly Income",
		Width:  800,
		Height: 600,
		Values: values,
	}
	return r.render("affordability_chart", func(f *os.File) error { return pie.Render(chart.PNG, f) })
}

// CoverageVsIncome draws term and health coverage next to annual income so
// underinsurance is visible at a glance.
func (r *Renderer) CoverageVsIncome(termCoverage, healthCoverage, monthlyIncome int64) (string, error) {
	annualIncome := monthlyIncome * 12

	maxValue := termCoverage
	for _, v := range []int64{healthCoverage, annualIncome} {
		if v > maxValue {
			maxValue = v
		}
	}
	if maxValue == 0 {
		maxValue = 1
	}

	bars := chart.BarChart{
		Title:    "Insurance Coverage vs Annual Income",
		Width:    1000,
		Height:   600,
		BarWidth: 120,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxValue) * 1.3},
		},
		Bars: []chart.Value{
			{Value: float64(termCoverage), Label: "Term " + FormatAmount(termCoverage), Style: chart.Style{FillColor: colorRemaining}},
			{Value: float64(healthCoverage), Label: "Health " + FormatAmount(healthCoverage), Style: chart.Style{FillColor: colorHealth}},
			{Value: float64(annualIncome), Label: "Annual Income " + FormatAmount(annualIncome), Style: chart.Style{FillColor: colorIncome}},
		},
	}
	return r.render("coverage_vs_income_chart", func(f *os.File) error { return bars.Render(chart.PNG, f) })
}

// AdequacyGauge compares actual coverage with the recommended annual income
// multiple and draws adequacy as a single clamped percentage bar.
func (r *Renderer) AdequacyGauge(actualCoverage, annualIncome int64, multiplier int64) (string, error) {
	recommended := annualIncome * multiplier
	adequacy := 0.0
	if recommended > 0 {
		adequacy = float64(actualCoverage) / float64(recommended) * 100
	}
	// Clamp so a heavily overinsured profile still fits the scale.
	if adequacy > 120 {
		adequacy = 120
	}

	barColor := colorTerm
	switch {
	case adequacy >= 100:
		barColor = colorRemaining
	case adequacy >= 50:
		barColor = colorAmber
	}

	label := fmt.Sprintf("%.1f%% (Current: %s, Recommended: %s)",
		adequacy, FormatAmount(actualCoverage), FormatAmount(recommended))

	gauge := chart.BarChart{
		Title:    "Insurance Coverage Adequacy Assessment",
		Width:    1000,
		Height:   400,
		BarWidth: 200,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 120},
		},
		Bars: []chart.Value{
			{Value: adequacy, Label: label, Style: chart.Style{FillColor: barColor}},
		},
	}
	return r.render("coverage_adequacy", func(f *os.File) error { return gauge.Render(chart.PNG, f) })
}

func (r *Renderer) render(prefix string, draw func(*os.File) error) (string, error) {
	path := filepath.Join(r.outputDir, fmt.Sprintf("%s_%d.png", prefix, time.Now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	defer f.Close()

	if err := draw(f); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", prefix, err)
	}
	r.logger.Debug("Chart rendered", "path", path)
	return path, nil
}

// FormatAmount renders rupee amounts in the lakh/crore idiom used on chart
// labels.
func FormatAmount(amount int64) string {
	switch {
	case amount >= 10_000_000:
		return fmt.Sprintf("₹%.1fCr", float64(amount)/10_000_000)
	case amount >= 100_000:
		return fmt.Sprintf("₹%.1fL", float64(amount)/100_000)
	default:
		return fmt.Sprintf("₹%d", amount)
	}
}
