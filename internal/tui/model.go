package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifequest/internal/app"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/scheduler"
	"github.com/julianstephens/lifequest/internal/tui/components/agenda"
	"github.com/julianstephens/lifequest/internal/tui/components/tasklist"
)

type SessionState int

const (
	StateOverview SessionState = iota
	StateAgenda
	StateTasks

	stateCount
)

var tabTitles = []string{"Overview", "Today", "Tasks"}

// snapshot is everything the dashboard shows, loaded in one pass.
type snapshot struct {
	points    int64
	coins     int64
	goals     []models.Goal
	tasks     []models.Task
	overdue   int
	schedules []models.Schedule
	slots     []models.FreeSlot
	conflicts int
	loadedAt  time.Time
}

type snapshotMsg struct{ data snapshot }

type errMsg struct{ err error }

type Model struct {
	ctx   context.Context
	app   *app.App
	now   func() time.Time
	state SessionState
	keys  KeyMap
	help  help.Model

	data     *snapshot
	err      error
	taskList tasklist.Model
	agenda   agenda.Model

	// validationWarning summarizes schedule conflicts for today.
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(ctx context.Context, a *app.App) Model {
	return Model{
		ctx:      ctx,
		app:      a,
		now:      time.Now,
		state:    StateOverview,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		taskList: tasklist.New(nil, time.Now(), 0, 0),
		agenda:   agenda.New(0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	if m.state == StateTasks {
		keys = append(keys, m.keys.Toggle)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}

	var actions []key.Binding
	if m.state == StateTasks {
		actions = []key.Binding{m.keys.Toggle}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// load reads a fresh snapshot from the services.
func (m Model) load() tea.Cmd {
	ctx, a, now := m.ctx, m.app, m.now
	return func() tea.Msg {
		var s snapshot
		var err error

		if s.points, err = a.Points.CurrentBalance(ctx); err != nil {
			return errMsg{err}
		}
		if s.coins, err = a.Coins.CurrentBalance(ctx); err != nil {
			return errMsg{err}
		}
		open := false
		if s.goals, err = a.Goals.List(ctx, "", &open); err != nil {
			return errMsg{err}
		}
		if s.tasks, err = a.Tasks.List(ctx, models.TaskFilter{}); err != nil {
			return errMsg{err}
		}
		overdue, err := a.Tasks.Overdue(ctx)
		if err != nil {
			return errMsg{err}
		}
		s.overdue = len(overdue)
		if s.schedules, err = a.Schedules.Today(ctx); err != nil {
			return errMsg{err}
		}
		if s.slots, err = a.Schedules.FreeSlots(ctx, scheduler.SlotQuery{}); err != nil {
			return errMsg{err}
		}
		conflicts, err := a.Schedules.Conflicts(ctx, "")
		if err != nil {
			return errMsg{err}
		}
		s.conflicts = len(conflicts.Conflicts)
		s.loadedAt = now()
		return snapshotMsg{s}
	}
}

// toggleTask completes or reopens a task, then reloads.
func (m Model) toggleTask(msg tasklist.ToggleTaskMsg) tea.Cmd {
	ctx, a := m.ctx, m.app
	return func() tea.Msg {
		var err error
		if msg.Completed {
			_, err = a.Tasks.Complete(ctx, msg.ID)
		} else {
			_, err = a.Tasks.Undo(ctx, msg.ID)
		}
		if err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

type refreshMsg struct{}

func (m *Model) apply(s snapshot) {
	m.data = &s
	m.err = nil
	m.taskList.SetTasks(s.tasks, s.loadedAt.In(m.app.Location))
	m.agenda.SetDay(s.schedules, s.slots, m.app.Location)

	if s.conflicts > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d schedule conflict(s) today", s.conflicts)
	} else {
		m.validationWarning = ""
	}
}

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, a *app.App) error {
	p := tea.NewProgram(NewModel(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
