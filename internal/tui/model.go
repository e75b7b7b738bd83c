package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/utils"
)

// dayItem is one habit's row on the dashboard for the viewed day.
type dayItem struct {
	habit   models.Habit
	snap    *engine.Snapshot
	verdict models.DayVerdict
	streak  int
}

type Model struct {
	store    storage.Provider
	cache    *engine.VerdictCache
	day      time.Time
	items    []dayItem
	cursor   int
	keys     KeyMap
	help     help.Model
	quitting bool
	loadErr  string
	width    int
	height   int
}

func NewModel(store storage.Provider, cache *engine.VerdictCache) Model {
	m := Model{
		store: store,
		cache: cache,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}

	settings, err := store.GetSettings()
	if err != nil {
		m.loadErr = err.Error()
		m.day = utils.DayOf(time.Now())
		return m
	}
	today, err := utils.TodayInTimezone(settings.Timezone)
	if err != nil {
		m.loadErr = err.Error()
		m.day = utils.DayOf(time.Now())
		return m
	}
	m.day, _ = utils.ParseDay(today)

	m.reload()
	return m
}

// reload rebuilds the dashboard rows from storage for the viewed day.
func (m *Model) reload() {
	m.loadErr = ""
	m.items = m.items[:0]

	habits, err := m.store.GetAllHabits(false, false)
	if err != nil {
		m.loadErr = err.Error()
		return
	}

	for _, habit := range habits {
		patterns, err := m.store.GetPatternsForHabit(habit.ID)
		if err != nil {
			m.loadErr = err.Error()
			return
		}
		records, err := m.store.GetCompletionsForHabit(habit.ID)
		if err != nil {
			m.loadErr = err.Error()
			return
		}

		snap := engine.NewSnapshot(habit, patterns, records)
		m.items = append(m.items, dayItem{
			habit:   habit,
			snap:    snap,
			verdict: m.cache.Verdict(snap, m.day),
			streak:  snap.CurrentStreak(m.day),
		})
	}

	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Log, m.keys.Skip, m.keys.PrevDay, m.keys.NextDay, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.PrevDay, m.keys.NextDay, m.keys.Today},
		{m.keys.Log, m.keys.Skip, m.keys.Unlog},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.PrevDay):
			m.day = m.day.AddDate(0, 0, -1)
			m.reload()

		case key.Matches(msg, m.keys.NextDay):
			m.day = m.day.AddDate(0, 0, 1)
			m.reload()

		case key.Matches(msg, m.keys.Today):
			if settings, err := m.store.GetSettings(); err == nil {
				if today, err := utils.TodayInTimezone(settings.Timezone); err == nil {
					m.day, _ = utils.ParseDay(today)
				}
			}
			m.reload()

		case key.Matches(msg, m.keys.Log):
			m.toggleLog()

		case key.Matches(msg, m.keys.Skip):
			m.toggleSkip()

		case key.Matches(msg, m.keys.Unlog):
			m.clearDay()
		}
	}

	return m, nil
}

func (m *Model) selected() *dayItem {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return &m.items[m.cursor]
}

// toggleLog logs one completion, or clears the day when already completed.
func (m *Model) toggleLog() {
	item := m.selected()
	if item == nil {
		return
	}
	if item.verdict.IsSkipped {
		m.loadErr = "day is skipped; unskip it first"
		return
	}

	if item.verdict.IsCompleted && !item.habit.BadHabit {
		m.clearDay()
		return
	}

	rec := models.CompletionRecord{
		ID:        uuid.New().String(),
		HabitID:   item.habit.ID,
		Day:       utils.FormatDay(m.day),
		LoggedAt:  time.Now(),
		Completed: true,
	}
	if err := m.store.AddCompletion(rec); err != nil {
		m.loadErr = err.Error()
		return
	}
	m.cache.Invalidate(item.habit.ID)
	m.reload()
}

func (m *Model) toggleSkip() {
	item := m.selected()
	if item == nil {
		return
	}

	if item.verdict.IsSkipped {
		m.clearDay()
		return
	}
	if item.snap.Ledger().HasRecords(m.day) {
		m.loadErr = "day has progress logged; clear it before skipping"
		return
	}

	rec := models.CompletionRecord{
		ID:       uuid.New().String(),
		HabitID:  item.habit.ID,
		Day:      utils.FormatDay(m.day),
		LoggedAt: time.Now(),
		Skipped:  true,
	}
	if err := m.store.AddCompletion(rec); err != nil {
		m.loadErr = err.Error()
		return
	}
	m.cache.Invalidate(item.habit.ID)
	m.reload()
}

// clearDay soft-deletes every record for the selected habit on the viewed day.
func (m *Model) clearDay() {
	item := m.selected()
	if item == nil {
		return
	}

	records, err := m.store.GetCompletionsForDay(item.habit.ID, utils.FormatDay(m.day))
	if err != nil {
		m.loadErr = err.Error()
		return
	}
	for _, rec := range records {
		if err := m.store.DeleteCompletion(rec.ID); err != nil {
			m.loadErr = err.Error()
			return
		}
	}
	m.cache.Invalidate(item.habit.ID)
	m.reload()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render(fmt.Sprintf("habitkit - %s (%s)", utils.FormatDay(m.day), m.day.Format("Monday")))
	body := header + "\n\n"

	if len(m.items) == 0 {
		body += inactiveStyle.Render("No habits yet. Add one with 'habitkit habit add'.") + "\n"
	}

	for i, item := range m.items {
		line := renderItem(item)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		body += line + "\n"
	}

	if m.loadErr != "" {
		body += "\n" + errorStyle.Render("⚠ "+m.loadErr) + "\n"
	}

	body += "\n" + m.help.View(m)
	return docStyle.Render(body)
}

func renderItem(item dayItem) string {
	name := item.habit.Name
	if item.habit.Icon != "" {
		name = item.habit.Icon + " " + name
	}

	var marker, detail string
	switch {
	case !item.verdict.IsActive:
		return inactiveStyle.Render(fmt.Sprintf("·  %s (not scheduled)", name))
	case item.verdict.IsSkipped:
		marker = skippedStyle.Render("◌")
		detail = "skipped"
	case item.verdict.IsCompleted:
		marker = doneStyle.Render("✓")
		if item.habit.BadHabit {
			detail = "avoided"
		} else {
			detail = fmt.Sprintf("%d/%d", item.verdict.Progress.Count, item.verdict.Progress.Target)
		}
	default:
		marker = missedStyle.Render("○")
		if item.habit.BadHabit {
			detail = "lapsed"
		} else {
			detail = fmt.Sprintf("%d/%d", item.verdict.Progress.Count, item.verdict.Progress.Target)
		}
	}

	line := fmt.Sprintf("%s %s (%s)", marker, name, detail)
	if item.streak > 0 {
		line += " " + streakStyle.Render(fmt.Sprintf("🔥%d", item.streak))
	}
	return line
}
