package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Schera-ole/perfboard/internal/display"
	models "github.com/Schera-ole/perfboard/internal/model"
)

func TestBuildCard(t *testing.T) {
	tests := []struct {
		name           string
		metric         models.Metric
		wantValue      string
		wantTarget     string
		wantAttainment string
		wantSeverity   display.Severity
		wantColor      string
		wantBarWidth   float64
	}{
		{
			name: "currency metric exactly on target",
			metric: models.Metric{
				Name: "revenue_target", DisplayName: "Revenue Target",
				ActualValue: 1000000, AnnualTarget: 1000000, AttainmentPercent: 100, Kind: "currency",
			},
			wantValue:      "$1,000,000",
			wantTarget:     "$1,000,000",
			wantAttainment: "100.0%",
			wantSeverity:   display.OnTrack,
			wantColor:      "#28a745",
			wantBarWidth:   100,
		},
		{
			name: "currency metric at risk",
			metric: models.Metric{
				Name: "revenue_target", DisplayName: "Revenue Target",
				ActualValue: 850000, AnnualTarget: 1000000, AttainmentPercent: 85, Kind: "currency",
			},
			wantValue:      "$850,000",
			wantTarget:     "$1,000,000",
			wantAttainment: "85.0%",
			wantSeverity:   display.AtRisk,
			wantColor:      "#ffc107",
			wantBarWidth:   85,
		},
		{
			name: "count metric behind",
			metric: models.Metric{
				Name: "customer_engagements", DisplayName: "Customer Engagements",
				ActualValue: 30, AnnualTarget: 50, AttainmentPercent: 60, Kind: "count",
			},
			wantValue:      "30",
			wantTarget:     "50",
			wantAttainment: "60.0%",
			wantSeverity:   display.Behind,
			wantColor:      "#dc3545",
			wantBarWidth:   60,
		},
		{
			name: "attainment above 100 clamps the bar but not the text",
			metric: models.Metric{
				Name: "win_rate", DisplayName: "Win Rate",
				ActualValue: 105, AnnualTarget: 70, AttainmentPercent: 150, Kind: "percentage",
			},
			wantValue:      "105.0%",
			wantTarget:     "70.0%",
			wantAttainment: "150.0%",
			wantSeverity:   display.OnTrack,
			wantColor:      "#28a745",
			wantBarWidth:   100,
		},
		{
			name: "unknown kind renders as count",
			metric: models.Metric{
				Name: "widgets", ActualValue: 1234567, AnnualTarget: 2000000, AttainmentPercent: 61.7, Kind: "widgets",
			},
			wantValue:      "1,234,567",
			wantTarget:     "2,000,000",
			wantAttainment: "61.7%",
			wantSeverity:   display.Behind,
			wantColor:      "#dc3545",
			wantBarWidth:   61.7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(tt.metric)
			assert.Equal(t, tt.wantValue, card.Value)
			assert.Equal(t, tt.wantTarget, card.Target)
			assert.Equal(t, tt.wantAttainment, card.Attainment)
			assert.Equal(t, tt.wantSeverity, card.Severity)
			assert.Equal(t, tt.wantColor, card.Color)
			assert.Equal(t, tt.wantBarWidth, card.BarWidth)
		})
	}
}

func TestBuildCard_LabelFallsBackToName(t *testing.T) {
	card := BuildCard(models.Metric{Name: "win_rate", AttainmentPercent: 90})
	assert.Equal(t, "win_rate", card.Label)
}

func TestBuildCards(t *testing.T) {
	resp := models.DashboardResponse{
		UserAlias: "jsmith",
		Metrics: []models.Metric{
			{Name: "revenue_target", DisplayName: "Revenue Target", ActualValue: 850000, AnnualTarget: 1000000, AttainmentPercent: 85, Kind: "currency"},
			{Name: "win_rate", DisplayName: "Win Rate", ActualValue: 61, AnnualTarget: 70, AttainmentPercent: 87.1, Kind: "percentage"},
		},
	}

	cards := BuildCards(resp)
	require.Len(t, cards, 2)
	assert.Equal(t, "Revenue Target", cards[0].Label)
	assert.Equal(t, "$850,000", cards[0].Value)
	assert.Equal(t, "61.0%", cards[1].Value)
}

func TestRenderCard(t *testing.T) {
	card := BuildCard(models.Metric{
		Name: "revenue_target", DisplayName: "Revenue Target",
		ActualValue: 850000, AnnualTarget: 1000000, AttainmentPercent: 85, Kind: "currency",
	})

	out := RenderCard(card)
	assert.Contains(t, out, "Revenue Target")
	assert.Contains(t, out, "$850,000 of $1,000,000")
	assert.Contains(t, out, "85.0%")
}

func TestRenderDashboard(t *testing.T) {
	resp := models.DashboardResponse{
		UserAlias: "jsmith",
		UserName:  "John Smith",
		JobTitle:  "Senior Solutions Architect",
		Metrics: []models.Metric{
			{Name: "revenue_target", DisplayName: "Revenue Target", ActualValue: 880000, AnnualTarget: 1000000, AttainmentPercent: 88, Kind: "currency"},
		},
	}

	out := RenderDashboard(resp)
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "Senior Solutions Architect")
	assert.Contains(t, out, "$880,000")
}

func TestRenderDashboard_FallsBackToAlias(t *testing.T) {
	out := RenderDashboard(models.DashboardResponse{UserAlias: "zzz_unknown"})
	assert.Contains(t, out, "zzz_unknown")
}

func TestRenderTeam(t *testing.T) {
	resp := models.TeamDashboardResponse{
		ManagerAlias: "manager1",
		TeamSummary: models.TeamSummary{
			TotalMembers:   2,
			AvgAttainment:  86.8,
			MembersOnTrack: 2,
		},
		TeamMembers: []models.TeamMember{
			{UserAlias: "jsmith", Name: "John Smith", OverallAttainment: 87.7, MetricsCount: 3, AtRiskMetrics: 3},
			{UserAlias: "mjohnson", Name: "Mary Johnson", OverallAttainment: 85.9, MetricsCount: 3, AtRiskMetrics: 3},
		},
	}

	out := RenderTeam(resp)
	assert.Contains(t, out, "Team of manager1")
	assert.Contains(t, out, "86.8%")
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "Mary Johnson")

	// One line per member plus header and summary
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
}

func TestRenderUsers(t *testing.T) {
	resp := models.UsersResponse{
		Users: []models.User{
			{Alias: "jsmith", Name: "John Smith", JobTitle: "Senior Solutions Architect"},
			{Alias: "rbrown", Name: "Robert Brown", JobTitle: "Solutions Architect"},
		},
	}

	out := RenderUsers(resp)
	assert.Contains(t, out, "jsmith")
	assert.Contains(t, out, "Robert Brown")
}
