package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifequest/internal/app"
	"github.com/julianstephens/lifequest/internal/config"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage/storagetest"
	"github.com/julianstephens/lifequest/internal/tui/components/tasklist"
)

var testNow = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *app.App) {
	t.Helper()
	cfg := config.Default()
	cfg.Schedule.Timezone = "UTC"
	a, err := app.New(storagetest.New(t), cfg, func() time.Time { return testNow })
	require.NoError(t, err)

	m := NewModel(context.Background(), a)
	m.now = func() time.Time { return testNow }
	return m, a
}

// loaded runs the initial load command and applies its result.
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = sized.(Model)
	msg := m.Init()()
	_, ok := msg.(snapshotMsg)
	require.True(t, ok, "expected snapshot, got %#v", msg)
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLoadSnapshot(t *testing.T) {
	m, a := newTestModel(t)
	ctx := context.Background()

	_, err := a.Points.Record(ctx, 120, models.KindEarned, "task_completion", "done")
	require.NoError(t, err)
	_, err = a.Coins.Record(ctx, 40, models.KindEarned, "other", "bonus")
	require.NoError(t, err)
	_, err = a.Tasks.Create(ctx, models.Task{Title: "Write report", Type: models.TaskTypeNormal, Priority: 2})
	require.NoError(t, err)
	_, err = a.Schedules.Create(ctx, models.Schedule{
		Title:     "Standup",
		StartTime: testNow.Add(time.Hour),
		EndTime:   testNow.Add(90 * time.Minute),
		Type:      models.ScheduleFixed,
	})
	require.NoError(t, err)

	m = loaded(t, m)
	require.NotNil(t, m.data)
	assert.Equal(t, int64(120), m.data.points)
	assert.Equal(t, int64(40), m.data.coins)
	assert.Len(t, m.data.tasks, 1)
	assert.Len(t, m.data.schedules, 1)
	assert.NotEmpty(t, m.data.slots)
	assert.Empty(t, m.validationWarning)

	view := m.View()
	assert.Contains(t, view, "Points")
	assert.Contains(t, view, "120")
}

func TestTabNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m = loaded(t, m)

	tab := tea.KeyMsg{Type: tea.KeyTab}
	shiftTab := tea.KeyMsg{Type: tea.KeyShiftTab}

	next, _ := m.Update(tab)
	m = next.(Model)
	assert.Equal(t, StateAgenda, m.state)
	assert.Contains(t, m.View(), "Nothing scheduled today.")

	next, _ = m.Update(tab)
	m = next.(Model)
	assert.Equal(t, StateTasks, m.state)

	next, _ = m.Update(tab)
	m = next.(Model)
	assert.Equal(t, StateOverview, m.state)

	next, _ = m.Update(shiftTab)
	m = next.(Model)
	assert.Equal(t, StateTasks, m.state)
}

func TestToggleTaskCompletes(t *testing.T) {
	m, a := newTestModel(t)
	ctx := context.Background()
	task, err := a.Tasks.Create(ctx, models.Task{Title: "Laundry", Type: models.TaskTypeNormal})
	require.NoError(t, err)
	m = loaded(t, m)

	next, cmd := m.Update(tasklist.ToggleTaskMsg{ID: task.ID, Completed: true})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, refreshMsg{}, cmd())

	got, err := a.Tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	_, cmd = m.Update(tasklist.ToggleTaskMsg{ID: task.ID, Completed: false})
	cmd()
	got, err = a.Tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestToggleUnknownTaskShowsError(t *testing.T) {
	m, _ := newTestModel(t)
	m = loaded(t, m)

	_, cmd := m.Update(tasklist.ToggleTaskMsg{ID: "missing", Completed: true})
	msg := cmd()
	require.IsType(t, errMsg{}, msg)

	next, _ := m.Update(msg)
	m = next.(Model)
	assert.Contains(t, m.View(), "Error:")
}

func TestConflictWarning(t *testing.T) {
	m, a := newTestModel(t)
	ctx := context.Background()
	for _, title := range []string{"Dentist", "Call"} {
		_, err := a.Schedules.Create(ctx, models.Schedule{
			Title:     title,
			StartTime: testNow.Add(time.Hour),
			EndTime:   testNow.Add(2 * time.Hour),
			Type:      models.ScheduleFixed,
		})
		require.NoError(t, err)
	}

	m = loaded(t, m)
	assert.True(t, strings.HasPrefix(m.validationWarning, "⚠"))
	assert.Contains(t, m.View(), "conflict")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}
