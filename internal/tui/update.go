package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifequest/internal/tui/components/tasklist"
)

// chromeHeight is the space taken by the tabs, status line and help.
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.taskList.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		m.agenda.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		return m, nil

	case snapshotMsg:
		m.apply(msg.data)
		return m, nil

	case refreshMsg:
		return m, m.load()

	case errMsg:
		m.err = msg.err
		return m, nil

	case tasklist.ToggleTaskMsg:
		return m, m.toggleTask(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.state = (m.state + 1) % stateCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.state = (m.state - 1 + stateCount) % stateCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case StateAgenda:
		m.agenda, cmd = m.agenda.Update(msg)
	}
	return m, cmd
}
