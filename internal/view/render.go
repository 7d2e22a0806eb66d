package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Schera-ole/perfboard/internal/display"
	models "github.com/Schera-ole/perfboard/internal/model"
)

// barCells is the character width of a full progress bar.
const barCells = 30

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(44)

	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// RenderCard draws one KPI card with a progress bar in the severity color.
func RenderCard(card Card) string {
	tone := lipgloss.NewStyle().Foreground(lipgloss.Color(card.Color))

	filled := int(card.BarWidth / 100 * barCells)
	if filled > barCells {
		filled = barCells
	}
	bar := tone.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barCells-filled))

	lines := []string{
		labelStyle.Render(card.Label),
		fmt.Sprintf("%s of %s", card.Value, card.Target),
		bar + " " + tone.Render(card.Attainment),
	}
	return cardStyle.BorderForeground(lipgloss.Color(card.Color)).Render(strings.Join(lines, "\n"))
}

// RenderDashboard draws the user header followed by one card per metric.
func RenderDashboard(resp models.DashboardResponse) string {
	title := resp.UserName
	if title == "" {
		title = resp.UserAlias
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	if resp.JobTitle != "" {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(resp.JobTitle))
	}
	b.WriteString("\n")

	cards := BuildCards(resp)
	rendered := make([]string, 0, len(cards))
	for _, card := range cards {
		rendered = append(rendered, RenderCard(card))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rendered...))
	return b.String()
}

// RenderTeam draws the team summary line and one line per member.
func RenderTeam(resp models.TeamDashboardResponse) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Team of " + resp.ManagerAlias))
	b.WriteString("\n")

	summary := resp.TeamSummary
	b.WriteString(fmt.Sprintf("%d members, average attainment %s, %d on track, %d at risk\n",
		summary.TotalMembers,
		display.Format(summary.AvgAttainment, display.Percentage),
		summary.MembersOnTrack,
		summary.MembersAtRisk))

	for _, member := range resp.TeamMembers {
		severity := display.Classify(member.OverallAttainment)
		tone := lipgloss.NewStyle().Foreground(lipgloss.Color(severity.Color()))
		name := member.Name
		if name == "" {
			name = member.UserAlias
		}
		b.WriteString(fmt.Sprintf("%s %s  %s (%d metrics: %d on track, %d at risk, %d behind)\n",
			tone.Render("●"),
			labelStyle.Render(name),
			display.Format(member.OverallAttainment, display.Percentage),
			member.MetricsCount,
			member.OnTrackMetrics,
			member.AtRiskMetrics,
			member.BehindMetrics))
	}
	return b.String()
}

// RenderUsers draws the selectable user list for the CLI.
func RenderUsers(resp models.UsersResponse) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Users"))
	b.WriteString("\n")
	for _, user := range resp.Users {
		b.WriteString(fmt.Sprintf("%s  %s (%s)\n",
			labelStyle.Render(user.Alias), user.Name, user.JobTitle))
	}
	return b.String()
}
