package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/models"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			MarginTop(1)
)

// Model shows today's schedules followed by the best free slots.
type Model struct {
	viewport  viewport.Model
	schedules []models.Schedule
	slots     []models.FreeSlot
	loc       *time.Location
	loaded    bool
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height), loc: time.Local}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return "Loading today's agenda..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetDay(schedules []models.Schedule, slots []models.FreeSlot, loc *time.Location) {
	m.schedules = schedules
	m.slots = slots
	if loc != nil {
		m.loc = loc
	}
	m.loaded = true
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(m.content())
}

func (m Model) clock(t time.Time) string {
	return t.In(m.loc).Format(constants.TimeFormat)
}

func (m Model) content() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Schedule"))
	b.WriteString("\n")
	if len(m.schedules) == 0 {
		b.WriteString(statusStyle.Render("Nothing scheduled today."))
		b.WriteString("\n")
	}
	for _, s := range m.schedules {
		title := titleStyle.Render(s.Title)
		if s.Completed {
			title = doneStyle.Render(s.Title)
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			timeStyle.Render(m.clock(s.StartTime)+" - "+m.clock(s.EndTime)),
			title,
			statusStyle.Render(fmt.Sprintf("%s, fatigue %d", s.Type, s.Fatigue)),
		)
	}

	b.WriteString(sectionStyle.Render("Free time"))
	b.WriteString("\n")
	if len(m.slots) == 0 {
		b.WriteString(statusStyle.Render("No free slots left today."))
		b.WriteString("\n")
	}
	for _, slot := range m.slots {
		fmt.Fprintf(&b, "%s %s %s\n",
			timeStyle.Render(m.clock(slot.Start)+" - "+m.clock(slot.End)),
			freeStyle.Render(fmt.Sprintf("%d min", slot.DurationMin)),
			statusStyle.Render(fmt.Sprintf("score %.1f", slot.PriorityScore)),
		)
	}
	return b.String()
}
