package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dsprep/internal/batch"
)

type SummaryRow struct {
	Label string
	Value string
}

// BatchRows lays out the end-of-run numbers.
func BatchRows(s batch.Summary) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Images kept", Value: fmt.Sprintf("%d", s.Total)},
		{Label: "Processed", Value: fmt.Sprintf("%d/%d", s.Succeeded, s.Attempted)},
		{Label: "Skipped", Value: fmt.Sprintf("%d", s.Skipped)},
	}
	if s.Canceled {
		rows = append(rows, SummaryRow{Label: "Not started (canceled)", Value: fmt.Sprintf("%d", s.Total-s.Attempted)})
	}
	return rows
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if w := lipgloss.Width(row.Label); w > labelWidth {
			labelWidth = w
		}
		if w := lipgloss.Width(row.Value); w > valueWidth {
			valueWidth = w
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
)
