package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/habits/internal/importer"
	"github.com/nissyi-gh/habits/internal/logger"
	"github.com/nissyi-gh/habits/internal/model"
	"github.com/nissyi-gh/habits/internal/report"
	"github.com/nissyi-gh/habits/internal/store"
)

type appState int

const (
	stateList appState = iota
	stateAdd
	stateConfirm
	stateClear
)

// header is three lines plus a blank separator.
const headerHeight = 4

var (
	appStyle      = lipgloss.NewStyle().Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true)
	detailStyle   = lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
)

var errInvalidName = fmt.Errorf("invalid habit name: must be between %d and %d characters long",
	model.MinNameLength, model.MaxNameLength)

type extraKeyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Import   key.Binding
	Copy     key.Binding
	ResetAll key.Binding
	ClearAll key.Binding
}

func newExtraKeyMap() extraKeyMap {
	return extraKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x", " "),
			key.WithHelp("enter/x", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import yaml"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy summary"),
		),
		ResetAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset today"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
	}
}

// Config controls optional UI behaviour.
type Config struct {
	// ConfirmDelete asks for y/n confirmation before a habit is deleted.
	ConfirmDelete bool
}

// Model is the top-level BubbleTea model for the habits TUI.
type Model struct {
	state         appState
	list          list.Model
	input         textinput.Model
	form          *huh.Form
	clearConfirm  *bool
	store         *store.HabitStore
	keys          extraKeyMap
	cfg           Config
	snap          store.Snapshot
	pendingDelete model.Habit
	status        string
	err           error
	width         int
	height        int

	now            func() time.Time
	readClipboard  func() (string, error)
	writeClipboard func(string) error
}

type habitsLoadedMsg store.Snapshot

// NewModel creates a new TUI model backed by s.
func NewModel(s *store.HabitStore, cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g., Drink 8 glasses of water"
	ti.CharLimit = 256

	keys := newExtraKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Habits"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("habit", "habits")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Import, keys.Copy, keys.ResetAll, keys.ClearAll}
	}

	return Model{
		state:          stateList,
		list:           l,
		input:          ti,
		store:          s,
		keys:           keys,
		cfg:            cfg,
		now:            time.Now,
		readClipboard:  clipboard.ReadAll,
		writeClipboard: clipboard.WriteAll,
	}
}

// Init runs the daily reset check when the screen is first shown.
func (m Model) Init() tea.Cmd {
	return m.checkDaily
}

func (m Model) checkDaily() tea.Msg {
	if m.store.CheckAndResetDaily() {
		logger.Info("daily reset", "day", m.store.LastResetDate())
	}
	return habitsLoadedMsg(m.store.Snapshot())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		contentWidth := msg.Width - h
		leftWidth := contentWidth * 60 / 100
		m.list.SetSize(leftWidth, msg.Height-v-headerHeight)
		return m, nil

	case tea.FocusMsg:
		return m, m.checkDaily

	case habitsLoadedMsg:
		cmd := m.applySnapshot(store.Snapshot(msg))
		return m, cmd
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateAdd:
		return m.updateAdd(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateClear:
		return m.updateClear(msg)
	}

	return m, nil
}

// applySnapshot replaces the rendered copy of the store. Handlers call it
// right after a store change so the next frame and key see the new state.
func (m *Model) applySnapshot(snap store.Snapshot) tea.Cmd {
	m.snap = snap
	items := make([]list.Item, len(snap.Habits))
	for i, h := range snap.Habits {
		items[i] = HabitItem{Habit: h}
	}
	cmd := m.list.SetItems(items)
	m.list.Title = progressTitle(snap.Stats)
	return cmd
}

func (m *Model) refresh() tea.Cmd {
	return m.applySnapshot(m.store.Snapshot())
}

func progressTitle(st model.Stats) string {
	if st.Total == 0 {
		return "Habits"
	}
	title := fmt.Sprintf("Today's Progress: %d/%d", st.Completed, st.Total)
	if st.AllDone() {
		title += "  🎉 All done! Great job!"
	}
	return title
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch keyMsg.String() {
		case "a", "n":
			m.state = stateAdd
			m.err = nil
			m.status = ""
			m.input.Reset()
			cmd := m.input.Focus()
			return m, cmd
		case "enter", "x", " ":
			if item, ok := m.list.SelectedItem().(HabitItem); ok {
				m.store.Toggle(item.Habit.ID)
				logger.Debug("habit toggled", "id", item.Habit.ID, "completed", !item.Habit.CompletedToday)
				cmd := m.refresh()
				return m, cmd
			}
		case "d":
			if item, ok := m.list.SelectedItem().(HabitItem); ok {
				if !m.cfg.ConfirmDelete {
					m.store.Delete(item.Habit.ID)
					logger.Debug("habit deleted", "id", item.Habit.ID)
					cmd := m.refresh()
					return m, cmd
				}
				m.pendingDelete = item.Habit
				m.state = stateConfirm
				return m, nil
			}
		case "i":
			return m.importFromClipboard()
		case "y":
			if err := m.writeClipboard(report.Summary(m.snap, m.now())); err != nil {
				m.err = fmt.Errorf("copy summary: %w", err)
				logger.Error("copy summary", "error", err)
				return m, nil
			}
			m.err = nil
			m.status = "Copied progress summary to clipboard"
			return m, nil
		case "R":
			m.store.ResetAll()
			logger.Info("manual reset", "day", m.store.LastResetDate())
			m.status = "All habits marked incomplete"
			cmd := m.refresh()
			return m, cmd
		case "C":
			if len(m.snap.Habits) == 0 {
				return m, nil
			}
			m.clearConfirm = new(bool)
			m.form = newClearForm(m.clearConfirm, len(m.snap.Habits))
			m.state = stateClear
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) importFromClipboard() (tea.Model, tea.Cmd) {
	text, err := m.readClipboard()
	if err != nil {
		m.err = fmt.Errorf("read clipboard: %w", err)
		logger.Error("read clipboard", "error", err)
		return m, nil
	}
	n, err := importer.Import(m.store, text)
	if err != nil {
		m.err = fmt.Errorf("import: %w", err)
		logger.Warn("import failed", "added", n, "error", err)
	} else {
		m.err = nil
	}
	m.status = fmt.Sprintf("Imported %d habits", n)
	cmd := m.refresh()
	return m, cmd
}

func newClearForm(confirmed *bool, count int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete all %d habits?", count)).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			name, err := model.ValidateName(m.input.Value())
			if err != nil {
				m.err = errInvalidName
				return m, nil
			}
			h := m.store.Add(name)
			logger.Debug("habit added", "id", h.ID, "name", h.Name)
			m.state = stateList
			m.err = nil
			m.input.Reset()
			m.input.Blur()
			cmd := m.refresh()
			return m, cmd
		case "esc":
			m.state = stateList
			m.err = nil
			m.input.Reset()
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.err != nil {
		if _, err := model.ValidateName(m.input.Value()); err == nil {
			m.err = nil
		}
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			m.store.Delete(m.pendingDelete.ID)
			logger.Debug("habit deleted", "id", m.pendingDelete.ID)
			m.pendingDelete = model.Habit{}
			m.state = stateList
			cmd := m.refresh()
			return m, cmd
		case "n", "esc":
			m.pendingDelete = model.Habit{}
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = stateList
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if *m.clearConfirm {
			m.store.ClearAll()
			logger.Info("all habits cleared")
		}
		m.state = stateList
		m.form = nil
		cmd := m.refresh()
		return m, cmd
	case huh.StateAborted:
		m.state = stateList
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// nameHint returns the inline validation message for the add prompt.
func nameHint(raw string) string {
	if raw == "" {
		return ""
	}
	_, err := model.ValidateName(raw)
	switch {
	case errors.Is(err, model.ErrNameTooShort):
		return "Habit name must be at least 3 characters"
	case errors.Is(err, model.ErrNameTooLong):
		return "Habit name is too long"
	}
	return ""
}

func (m Model) renderHeader() string {
	lines := []string{
		titleStyle.Render("Daily Habits"),
		statusStyle.Render(m.now().Format(report.HeaderDateFormat)),
	}
	if st := m.snap.Stats; st.Total > 0 {
		lines = append(lines, progressStyle.Render(fmt.Sprintf("%d of %d completed", st.Completed, st.Total)))
	} else {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) renderEmpty() string {
	return "🎯 No habits yet\n\n" +
		statusStyle.Render("Press a to add your first habit")
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(HabitItem)
	if !ok {
		return ""
	}
	h := item.Habit
	status := statusStyle.Render("○ not completed today")
	if h.CompletedToday {
		status = progressStyle.Render("✓ completed today")
	}
	lastDone := "never"
	if h.LastCompletedDate != nil {
		lastDone = h.LastCompletedDate.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s\n\n%s\n\ncreated_at:     %s\nlast_completed: %s",
		h.Name,
		status,
		h.CreatedAt.Format("2006-01-02 15:04"),
		lastDone,
	)
}

func (m Model) View() string {
	var footer string
	if m.err != nil {
		footer = "\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n"
	} else if m.status != "" {
		footer = "\n" + statusStyle.Render(m.status) + "\n"
	}

	switch m.state {
	case stateAdd:
		raw := m.input.Value()
		counter := statusStyle.Render(fmt.Sprintf("%d/%d", utf8.RuneCountInString(raw), model.MaxNameLength))
		hint := ""
		if h := nameHint(raw); h != "" {
			hint = "\n" + errorStyle.Render(h)
		}
		return appStyle.Render(
			titleStyle.Render("Add New Habit") + "\n" +
				statusStyle.Render("What healthy habit do you want to build?") + "\n\n" +
				m.input.View() + "\n" +
				counter + hint + "\n\n" +
				statusStyle.Render("enter: add habit • esc: cancel") +
				footer,
		)
	case stateConfirm:
		return appStyle.Render(
			confirmStyle.Render("Delete Habit?") + "\n\n" +
				"  " + m.pendingDelete.Name + "\n\n" +
				statusStyle.Render("y: delete • n/esc: cancel") +
				footer,
		)
	case stateClear:
		return appStyle.Render(
			confirmStyle.Render("Clear All Habits") + "\n\n" +
				m.form.View() + "\n\n" +
				statusStyle.Render("esc: cancel") +
				footer,
		)
	default:
		header := m.renderHeader()
		if len(m.snap.Habits) == 0 {
			return appStyle.Render(header + "\n" + m.renderEmpty() + footer)
		}

		h, v := appStyle.GetFrameSize()
		contentWidth := m.width - h
		contentHeight := m.height - v - headerHeight
		leftWidth := contentWidth * 60 / 100
		rightWidth := contentWidth - leftWidth

		leftPane := m.list.View()
		rightPane := detailStyle.
			Width(rightWidth).
			Height(contentHeight).
			Render(m.renderDetail())
		content := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
		return appStyle.Render(header + "\n" + content + footer)
	}
}
