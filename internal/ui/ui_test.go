package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/habits/internal/model"
	"github.com/nissyi-gh/habits/internal/store"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(time.Second)
	return now
}

func newTestModel(t *testing.T, cfg Config, names ...string) (Model, *store.HabitStore, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}
	s := store.New(store.WithClock(clock.Now))
	for _, n := range names {
		s.Add(n)
	}

	m := NewModel(s, cfg)
	m.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local) }
	m.readClipboard = func() (string, error) { return "", errors.New("clipboard disabled in tests") }
	m.writeClipboard = func(string) error { return errors.New("clipboard disabled in tests") }

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, m.Init()())
	return m, s, clock
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out
}

// press sends a key without running the returned command, so every
// assertion after it sees only what Update applied synchronously.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	return update(t, m, keyMsg(k))
}

// pressAndRun sends a key and feeds the messages its command produces back
// into the model, the way the program loop does for the huh form.
func pressAndRun(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return runCmd(t, out, cmd, 0)
}

func runCmd(t *testing.T, m Model, cmd tea.Cmd, depth int) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	require.Less(t, depth, 10, "command chain did not settle")
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = runCmd(t, m, c, depth+1)
		}
		return m
	}
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return runCmd(t, out, cmd, depth+1)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestInit_ShowsEmptyState(t *testing.T) {
	m, _, _ := newTestModel(t, Config{})

	view := m.View()
	assert.Contains(t, view, "Daily Habits")
	assert.Contains(t, view, "Saturday, March 14, 2026")
	assert.Contains(t, view, "No habits yet")
	assert.NotContains(t, view, "completed")
}

func TestAddHabit(t *testing.T) {
	m, s, _ := newTestModel(t, Config{})

	m = press(t, m, "a")
	require.Equal(t, stateAdd, m.state)

	m = typeText(t, m, "  Stretch  ")
	m = press(t, m, "enter")

	assert.Equal(t, stateList, m.state)
	assert.NoError(t, m.err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "Stretch", s.Sorted()[0].Name)
	assert.Len(t, m.snap.Habits, 1)
	assert.Contains(t, m.View(), "0 of 1 completed")
}

func TestAddHabit_RejectsInvalidNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		hint  string
	}{
		{name: "too short", input: "ab", hint: "Habit name must be at least 3 characters"},
		{name: "too long", input: strings.Repeat("a", 51), hint: "Habit name is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, s, _ := newTestModel(t, Config{})
			m = press(t, m, "a")
			m = typeText(t, m, tt.input)
			assert.Contains(t, m.View(), tt.hint)

			m = press(t, m, "enter")
			assert.Equal(t, stateAdd, m.state, "prompt must stay open")
			assert.ErrorIs(t, m.err, errInvalidName)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestAddHabit_AcceptsBoundaryLengths(t *testing.T) {
	m, s, _ := newTestModel(t, Config{})

	m = press(t, m, "a")
	m = typeText(t, m, "abc")
	m = press(t, m, "enter")

	m = press(t, m, "a")
	m = typeText(t, m, strings.Repeat("a", 50))
	m = press(t, m, "enter")

	assert.Equal(t, stateList, m.state)
	assert.Equal(t, 2, s.Len())
}

func TestAddHabit_EscResetsInput(t *testing.T) {
	m, s, _ := newTestModel(t, Config{})

	m = press(t, m, "a")
	m = typeText(t, m, "Drink water")
	m = press(t, m, "esc")

	assert.Equal(t, stateList, m.state)
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, 0, s.Len())

	m = press(t, m, "a")
	assert.Equal(t, "", m.input.Value())
}

func TestToggleHabit(t *testing.T) {
	m, s, _ := newTestModel(t, Config{}, "Drink water", "Stretch")

	// Newest first: "Stretch" is selected.
	m = press(t, m, "x")
	assert.True(t, findHabit(t, s, "Stretch").CompletedToday)
	assert.False(t, findHabit(t, s, "Drink water").CompletedToday)
	assert.Equal(t, "Today's Progress: 1/2", m.list.Title)

	m = press(t, m, " ")
	assert.False(t, findHabit(t, s, "Stretch").CompletedToday)
	assert.Equal(t, "Today's Progress: 0/2", m.list.Title)
}

func TestToggleHabit_AllDone(t *testing.T) {
	m, _, _ := newTestModel(t, Config{}, "Stretch")

	m = press(t, m, "enter")
	assert.Contains(t, m.list.Title, "All done! Great job!")
	assert.Contains(t, m.View(), "1 of 1 completed")
}

func TestChangesVisibleBeforeNextKey(t *testing.T) {
	m, _, _ := newTestModel(t, Config{}, "Stretch")
	var copied string
	m.writeClipboard = func(text string) error {
		copied = text
		return nil
	}

	m = press(t, m, "x")
	assert.Equal(t, "Today's Progress: 1/1  🎉 All done! Great job!", m.list.Title)
	assert.Contains(t, m.View(), "1 of 1 completed")

	m = press(t, m, "y")
	assert.Contains(t, copied, "Progress: 1/1 completed (100%)")
	assert.Contains(t, copied, "- [x] Stretch")

	m = press(t, m, "d")
	assert.Contains(t, m.View(), "No habits yet")

	m = press(t, m, "C")
	assert.Equal(t, stateList, m.state, "clear-all sees the deletion")
}

func TestDeleteHabit_Confirm(t *testing.T) {
	m, s, _ := newTestModel(t, Config{ConfirmDelete: true}, "Drink water", "Stretch")

	m = press(t, m, "d")
	require.Equal(t, stateConfirm, m.state)
	assert.Contains(t, m.View(), "Stretch")

	m = press(t, m, "n")
	assert.Equal(t, stateList, m.state)
	assert.Equal(t, 2, s.Len())

	m = press(t, m, "d")
	m = press(t, m, "y")
	assert.Equal(t, stateList, m.state)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "Drink water", s.Sorted()[0].Name)
	assert.Len(t, m.snap.Habits, 1)
}

func TestDeleteHabit_NoConfirm(t *testing.T) {
	m, s, _ := newTestModel(t, Config{}, "Drink water")

	m = press(t, m, "d")
	assert.Equal(t, stateList, m.state)
	assert.Equal(t, 0, s.Len())
	assert.Contains(t, m.View(), "No habits yet")
}

func TestFocusTriggersDailyReset(t *testing.T) {
	m, s, clock := newTestModel(t, Config{}, "Stretch")
	m = press(t, m, "x")
	require.True(t, findHabit(t, s, "Stretch").CompletedToday)

	clock.t = time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	next, cmd := m.Update(tea.FocusMsg{})
	require.NotNil(t, cmd)
	m = update(t, next.(Model), cmd())

	assert.False(t, findHabit(t, s, "Stretch").CompletedToday)
	assert.Equal(t, "2026-03-15", m.snap.LastResetDate)
	assert.Equal(t, "Today's Progress: 0/1", m.list.Title)
}

func TestFocusSameDayKeepsCompletion(t *testing.T) {
	m, s, _ := newTestModel(t, Config{}, "Stretch")
	m = press(t, m, "x")

	next, cmd := m.Update(tea.FocusMsg{})
	update(t, next.(Model), cmd())
	assert.True(t, findHabit(t, s, "Stretch").CompletedToday)
}

func TestImportFromClipboard(t *testing.T) {
	m, s, _ := newTestModel(t, Config{})
	m.readClipboard = func() (string, error) {
		return "habits:\n  - name: Drink water\n  - name: Stretch\n", nil
	}

	m = press(t, m, "i")
	assert.NoError(t, m.err)
	assert.Equal(t, "Imported 2 habits", m.status)
	assert.Equal(t, 2, s.Len())
	assert.Len(t, m.snap.Habits, 2)
}

func TestImportFromClipboard_Error(t *testing.T) {
	m, s, _ := newTestModel(t, Config{})

	m = press(t, m, "i")
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "read clipboard")
	assert.Equal(t, 0, s.Len())
}

func TestCopySummary(t *testing.T) {
	m, _, _ := newTestModel(t, Config{}, "Stretch")
	var copied string
	m.writeClipboard = func(text string) error {
		copied = text
		return nil
	}

	m = press(t, m, "y")
	assert.NoError(t, m.err)
	assert.Contains(t, copied, "Progress: 0/1 completed (0%)")
	assert.Contains(t, copied, "- [ ] Stretch")
	assert.Contains(t, m.View(), "Copied progress summary")
}

func TestResetAll(t *testing.T) {
	m, s, _ := newTestModel(t, Config{}, "Drink water", "Stretch")
	m = press(t, m, "x")
	require.Equal(t, 1, s.Stats().Completed)

	m = press(t, m, "R")
	assert.Equal(t, 0, s.Stats().Completed)
	assert.Equal(t, "Today's Progress: 0/2", m.list.Title)
}

func TestClearAll_EscCancels(t *testing.T) {
	m, s, _ := newTestModel(t, Config{}, "Drink water", "Stretch")

	m = press(t, m, "C")
	require.Equal(t, stateClear, m.state)
	require.NotNil(t, m.form)

	m = press(t, m, "esc")
	assert.Equal(t, stateList, m.state)
	assert.Nil(t, m.form)
	assert.Equal(t, 2, s.Len())
}

func TestClearAll_Accept(t *testing.T) {
	m, s, _ := newTestModel(t, Config{}, "Drink water", "Stretch")

	m = press(t, m, "C")
	require.Equal(t, stateClear, m.state)

	m = pressAndRun(t, m, "y")
	assert.Equal(t, stateList, m.state)
	assert.Nil(t, m.form)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, m.snap.Habits)
	assert.Equal(t, "Habits", m.list.Title)
	assert.Contains(t, m.View(), "No habits yet")
}

func TestClearAll_Reject(t *testing.T) {
	m, s, _ := newTestModel(t, Config{}, "Drink water", "Stretch")

	m = press(t, m, "C")
	require.Equal(t, stateClear, m.state)

	m = pressAndRun(t, m, "n")
	assert.Equal(t, stateList, m.state)
	assert.Nil(t, m.form)
	assert.Equal(t, 2, s.Len())
	assert.Len(t, m.snap.Habits, 2)
	assert.Contains(t, m.View(), "0 of 2 completed")
}

func TestClearAll_IgnoredWhenEmpty(t *testing.T) {
	m, _, _ := newTestModel(t, Config{})

	m = press(t, m, "C")
	assert.Equal(t, stateList, m.state)
	assert.Nil(t, m.form)
}

func TestProgressTitle(t *testing.T) {
	m, _, _ := newTestModel(t, Config{})
	assert.Equal(t, "Habits", m.list.Title)
}

func findHabit(t *testing.T, s *store.HabitStore, name string) model.Habit {
	t.Helper()
	for _, h := range s.Sorted() {
		if h.Name == name {
			return h
		}
	}
	t.Fatalf("habit %q not found", name)
	return model.Habit{}
}
