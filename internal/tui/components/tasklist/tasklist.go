package tasklist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/models"
)

// ToggleTaskMsg asks the parent to complete or reopen a task.
type ToggleTaskMsg struct {
	ID string
	// Completed is the state the task should move to.
	Completed bool
}

type Item struct {
	Task models.Task
	now  time.Time
}

func (i Item) Title() string {
	if i.Task.Completed {
		return "✓ " + i.Task.Title
	}
	return i.Task.Title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | priority %d", i.Task.Type, i.Task.Priority)
	if i.Task.Reward > 0 {
		desc += fmt.Sprintf(" | +%d pts", i.Task.Reward)
	}
	if i.Task.Deadline != nil {
		desc += " | due " + i.Task.Deadline.In(i.now.Location()).Format(constants.DateFormat+" "+constants.TimeFormat)
		if !i.Task.Completed && i.Task.Deadline.Before(i.now) {
			desc += " (overdue)"
		}
	}
	return desc
}

func (i Item) FilterValue() string { return i.Task.Title }

type KeyMap struct {
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle done"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(tasks []models.Task, now time.Time, width, height int) Model {
	l := list.New(items(tasks, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle}
	}
	return Model{list: l, keys: keys}
}

func items(tasks []models.Task, now time.Time) []list.Item {
	out := make([]list.Item, len(tasks))
	for i, t := range tasks {
		out[i] = Item{Task: t, now: now}
	}
	return out
}

func (m *Model) SetTasks(tasks []models.Task, now time.Time) {
	m.list.SetItems(items(tasks, now))
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Toggle) {
			if i, ok := m.list.SelectedItem().(Item); ok {
				toggle := ToggleTaskMsg{ID: i.Task.ID, Completed: !i.Task.Completed}
				return m, func() tea.Msg { return toggle }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No open tasks.\n  Add one with 'lifequest tasks add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
