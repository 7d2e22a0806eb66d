// Package view prepares dashboard responses for terminal display. Formatting
// and attainment classification come from the display package; rendering is
// lipgloss on top of the prepared cards.
package view

import (
	"github.com/Schera-ole/perfboard/internal/display"
	models "github.com/Schera-ole/perfboard/internal/model"
)

// Card is one KPI prepared for display: formatted value and target strings,
// the attainment text (never clamped), the severity tier with its color
// token, and the clamped progress bar width in percent.
type Card struct {
	Name       string
	Label      string
	Value      string
	Target     string
	Attainment string
	Severity   display.Severity
	Color      string
	BarWidth   float64
}

// BuildCard prepares a single metric for display.
func BuildCard(metric models.Metric) Card {
	kind := display.KindOf(metric.Kind)
	severity := display.Classify(metric.AttainmentPercent)
	label := metric.DisplayName
	if label == "" {
		label = metric.Name
	}
	return Card{
		Name:       metric.Name,
		Label:      label,
		Value:      display.Format(metric.ActualValue, kind),
		Target:     display.Format(metric.AnnualTarget, kind),
		Attainment: display.Format(metric.AttainmentPercent, display.Percentage),
		Severity:   severity,
		Color:      severity.Color(),
		BarWidth:   display.BarWidth(metric.AttainmentPercent),
	}
}

// BuildCards prepares all metrics of a dashboard for display, in API order.
func BuildCards(resp models.DashboardResponse) []Card {
	cards := make([]Card, 0, len(resp.Metrics))
	for _, metric := range resp.Metrics {
		cards = append(cards, BuildCard(metric))
	}
	return cards
}
