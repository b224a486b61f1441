package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/utils"
)

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	GainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	LossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Header prints a bold section title.
func Header(format string, args ...interface{}) {
	fmt.Println(HeaderStyle.Render(fmt.Sprintf(format, args...)))
}

// Signed renders a ledger delta in green or red.
func Signed(delta int64) string {
	if delta >= 0 {
		return GainStyle.Render(fmt.Sprintf("+%d", delta))
	}
	return LossStyle.Render(fmt.Sprintf("%d", delta))
}

// PrintTable renders rows under headers with a rounded border.
func PrintTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Println(t.Render())
}

// Confirm asks a yes/no question unless assumeYes is set.
func Confirm(title, description string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}

// ParseTime reads a user supplied time in the configured timezone. An empty
// string yields nil.
func (c *Context) ParseTime(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	loc, err := c.Config.Location()
	if err != nil {
		return nil, err
	}
	t, err := utils.ParseUserTime(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatTime renders t in the configured timezone.
func (c *Context) FormatTime(t time.Time) string {
	if loc, err := c.Config.Location(); err == nil {
		t = t.In(loc)
	}
	return t.Format(constants.DateFormat + " " + constants.TimeFormat)
}

// FormatDeadline renders an optional deadline, "-" when unset.
func (c *Context) FormatDeadline(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return c.FormatTime(*t)
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
