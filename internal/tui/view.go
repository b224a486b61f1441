package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.data == nil && m.err == nil:
		content = docStyle.Render("Loading...")
	case m.data == nil:
		content = docStyle.Render(dangerStyle.Render("Error: " + m.err.Error()))
	default:
		switch m.state {
		case StateOverview:
			content = m.viewOverview()
		case StateAgenda:
			content = docStyle.Render(m.agenda.View())
		case StateTasks:
			content = docStyle.Render(m.taskList.View())
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.data != nil && m.err != nil {
		parts = append(parts, dangerStyle.Render("Error: "+m.err.Error()))
	}
	if m.validationWarning != "" {
		parts = append(parts, warnStyle.Render(m.validationWarning))
	}
	if m.data != nil {
		parts = append(parts, mutedStyle.Render("updated "+m.data.loadedAt.In(m.app.Location).Format("15:04:05")))
	}
	return strings.Join(parts, "  ")
}

func card(label, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(label), amountStyle.Render(value)))
}

func (m Model) viewOverview() string {
	d := m.data

	open := 0
	for _, t := range d.tasks {
		if !t.Completed {
			open++
		}
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Points", fmt.Sprint(d.points)),
		card("Coins", fmt.Sprint(d.coins)),
		card("Open tasks", fmt.Sprint(open)),
		card("Today", fmt.Sprintf("%d scheduled", len(d.schedules))),
	)

	var b strings.Builder
	if d.overdue > 0 {
		b.WriteString(dangerStyle.Render(fmt.Sprintf("%d task(s) overdue", d.overdue)))
		b.WriteString("\n")
	}
	if len(d.slots) > 0 {
		best := d.slots[0]
		fmt.Fprintf(&b, "Best free slot: %s - %s (%d min)\n",
			best.Start.In(m.app.Location).Format("15:04"),
			best.End.In(m.app.Location).Format("15:04"),
			best.DurationMin)
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Goals"))
	b.WriteString("\n")
	if len(d.goals) == 0 {
		b.WriteString(mutedStyle.Render("No open goals."))
		b.WriteString("\n")
	}
	for _, g := range d.goals {
		fmt.Fprintf(&b, "%-24s %s %d/%d %s\n", g.Title, progressBar(g.Progress(), 20), g.CurrentAmount, g.TargetAmount, g.Currency)
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, cards, "", b.String()))
}

func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
