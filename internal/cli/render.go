package cli

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("1"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// Signed colors d green when positive and red when negative.
func Signed(d decimal.Decimal) string {
	switch d.Sign() {
	case 1:
		return upStyle.Render("+" + d.String())
	case -1:
		return downStyle.Render(d.String())
	}
	return d.String()
}

// Dec renders an optional decimal, "-" when nil.
func Dec(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

// Time renders an optional time in UTC, "-" when nil.
func Time(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// Str renders an optional string, "-" when nil or empty.
func Str(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
