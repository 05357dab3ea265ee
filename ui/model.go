package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/notify"
	"github.com/jdziat/livejobs/pkg/security"
	"github.com/jdziat/livejobs/pkg/view"
)

// noticeTickInterval is how often expired notices are swept.
const noticeTickInterval = 500 * time.Millisecond

// StatusOptions is the cycle order of the status filter. The empty
// value means any status.
var StatusOptions = []core.JobStatus{
	"",
	core.StatusCreated,
	core.StatusRunning,
	core.StatusSucceeded,
	core.StatusFailed,
	core.StatusRetryScheduled,
	core.StatusDeadLettered,
}

// PriorityOptions is the cycle order of the priority filter.
var PriorityOptions = []core.Priority{
	"",
	core.PriorityHigh,
	core.PriorityNormal,
	core.PriorityLow,
}

type sessionEventMsg struct {
	event core.Event
}

type noticeMsg struct {
	notice notify.Notice
}

type tickMsg time.Time

// Model is the bubbletea model for the dashboard.
type Model struct {
	source  Source
	notices NoticeSource

	events   <-chan core.Event
	noticeCh <-chan notify.Notice
	board    *notify.Board

	keys        KeyMap
	theme       Theme
	noticeLimit int
	now         func() time.Time

	width  int
	height int

	searching   bool
	search      []rune
	statusIdx   int
	priorityIdx int
}

// NewModel subscribes to source events and, when notices is non-nil, to
// notices. Call Release when the program exits.
func NewModel(source Source, notices NoticeSource, opts ...Option) Model {
	m := Model{
		source:  source,
		notices: notices,
		keys:    DefaultKeyMap,
		theme:   DefaultTheme,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt.apply(&m)
	}
	m.board = notify.NewBoard(m.noticeLimit)
	m.events = source.Events()
	if notices != nil {
		m.noticeCh = notices.Notices()
	}

	c := source.Filter()
	m.search = []rune(c.SearchText)
	m.statusIdx = indexOf(StatusOptions, core.JobStatus(c.Status))
	m.priorityIdx = indexOf(PriorityOptions, core.Priority(c.Priority))
	return m
}

func indexOf[T comparable](options []T, v T) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return 0
}

// Release unsubscribes from the source and notice channels.
func (m Model) Release() {
	m.source.Unsubscribe(m.events)
	if m.notices != nil {
		m.notices.Unsubscribe(m.noticeCh)
	}
}

// Board returns the visible notices.
func (m Model) Board() *notify.Board {
	return m.board
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenForEvent(m.events), scheduleTick()}
	if m.noticeCh != nil {
		cmds = append(cmds, listenForNotice(m.noticeCh))
	}
	return tea.Batch(cmds...)
}

func listenForEvent(ch <-chan core.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return sessionEventMsg{event: e}
	}
}

func listenForNotice(ch <-chan notify.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{notice: n}
	}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(noticeTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(message)
		}
		return m.handleKeys(message)

	case sessionEventMsg:
		// Every event may change what is rendered; re-reading the source
		// happens in View, so only the listener needs re-arming.
		return m, listenForEvent(m.events)

	case noticeMsg:
		m.board.Add(message.notice)
		return m, listenForNotice(m.noticeCh)

	case tickMsg:
		m.board.Active(m.now())
		return m, scheduleTick()
	}
	return m, nil
}

func (m Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(message, m.keys.ToggleLive):
		m.source.ToggleLive()
	case key.Matches(message, m.keys.Search):
		m.searching = true
	case key.Matches(message, m.keys.Status):
		m.statusIdx = (m.statusIdx + 1) % len(StatusOptions)
		m.applyFilter()
	case key.Matches(message, m.keys.Priority):
		m.priorityIdx = (m.priorityIdx + 1) % len(PriorityOptions)
		m.applyFilter()
	case key.Matches(message, m.keys.Refresh):
		m.source.Refresh()
	case key.Matches(message, m.keys.Dismiss):
		m.board.DismissAll()
	}
	return m, nil
}

func (m Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(message, m.keys.Confirm):
		m.searching = false
		return m, nil
	case key.Matches(message, m.keys.Cancel):
		m.searching = false
		m.search = nil
	case key.Matches(message, m.keys.Erase):
		if len(m.search) == 0 {
			return m, nil
		}
		m.search = m.search[:len(m.search)-1]
	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		m.search = append(append([]rune(nil), m.search...), message.Runes...)
		if message.Type == tea.KeySpace && len(message.Runes) == 0 {
			m.search = append(m.search, ' ')
		}
	default:
		return m, nil
	}
	m.applyFilter()
	return m, nil
}

func (m *Model) applyFilter() {
	m.source.SetFilter(m.criteria())
}

func (m Model) criteria() core.FilterCriteria {
	return core.FilterCriteria{
		Status:     string(StatusOptions[m.statusIdx]),
		Priority:   string(PriorityOptions[m.priorityIdx]),
		SearchText: string(m.search),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{
		m.renderHeader(),
		m.renderStats(),
		m.renderFilter(),
		m.renderJobs(),
	}
	if notices := m.renderNotices(); notices != "" {
		sections = append(sections, notices)
	}
	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	state := m.source.ConnectionState()
	dot := m.theme.state(state).Render("●")

	mode := m.theme.tone(view.ToneWarn).Render("Paused")
	if m.source.LiveMode() {
		mode = m.theme.tone(view.ToneGood).Render("Live")
	}

	dlq := fmt.Sprintf("DLQ %d", len(m.source.DLQ()))
	return strings.Join([]string{
		m.theme.header().Render("livejobs"),
		dot + " " + state.Label(),
		"[" + mode + "]",
		m.theme.faint().Render(dlq),
	}, "  ")
}

func (m Model) renderStats() string {
	cells := view.FormatStats(m.source.Stats())
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		parts = append(parts, m.theme.faint().Render(c.Label+" ")+m.theme.tone(c.Tone).Render(c.Value))
	}
	// Two rows: counts then rates.
	split := len(parts) - 4
	return strings.Join(parts[:split], "  ") + "\n" + strings.Join(parts[split:], "  ")
}

func (m Model) renderFilter() string {
	c := m.criteria()
	status, priority := c.Status, c.Priority
	if status == "" {
		status = "any"
	}
	if priority == "" {
		priority = "any"
	}
	search := security.SanitizeText(c.SearchText)
	if m.searching {
		search += "▏"
	}
	return m.theme.faint().Render(fmt.Sprintf("status:%s  priority:%s  search:%s  showing %d of %d",
		status, priority, search, len(m.source.View()), len(m.source.Jobs())))
}

var jobColumns = []struct {
	title string
	width int
}{
	{"ID", 10},
	{"TYPE", 16},
	{"STATUS", 16},
	{"PRIORITY", 9},
	{"RETRIES", 8},
	{"CREATED", 9},
	{"RESULT", 0},
}

func (m Model) renderJobs() string {
	jobs := m.source.View()
	if len(jobs) == 0 {
		return m.theme.faint().Render(view.EmptyMessage)
	}

	var b strings.Builder
	header := make([]string, len(jobColumns))
	for i, col := range jobColumns {
		header[i] = cellText(col.title, col.width)
	}
	b.WriteString(m.theme.header().Render(strings.Join(header, " ")))

	limit := len(jobs)
	if m.height > 0 {
		// Header, stats, filter, table header, notices and help take about ten lines.
		if avail := m.height - 10; avail > 0 && avail < limit {
			limit = avail
		}
	}
	for _, row := range view.FormatJobs(jobs[:limit]) {
		b.WriteByte('\n')
		cols := []string{
			cellText(row.ShortID, jobColumns[0].width),
			cellText(row.Type, jobColumns[1].width),
			m.theme.tone(row.Tone).Render(cellText(row.Status, jobColumns[2].width)),
			cellText(row.Priority, jobColumns[3].width),
			cellText(row.Retries, jobColumns[4].width),
			cellText(row.Created, jobColumns[5].width),
			row.Result,
		}
		b.WriteString(strings.Join(cols, " "))
	}
	if limit < len(jobs) {
		b.WriteString("\n" + m.theme.faint().Render("… "+strconv.Itoa(len(jobs)-limit)+" more"))
	}
	return b.String()
}

// cellText pads or cuts s to width runes. Zero width leaves s unchanged.
func cellText(s string, width int) string {
	if width <= 0 {
		return s
	}
	s = security.Truncate(s, width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func (m Model) renderNotices() string {
	active := m.board.Active(m.now())
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, len(active))
	for i, n := range active {
		lines[i] = m.theme.level(n.Level).Render(strings.ToUpper(string(n.Level))) + " " + n.Message
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	bindings := m.keys.ShortHelp()
	if m.searching {
		bindings = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.faint().Render(strings.Join(parts, " · "))
}
