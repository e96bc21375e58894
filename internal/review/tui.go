package review

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobscout/jobscout/internal/ai"
	"github.com/jobscout/jobscout/internal/model"
)

// Lines per queue item in the list view (title + subtitle + blank separator).
const itemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedItemTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedItemSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusColors = map[model.Status]lipgloss.Style{
		model.StatusQueued:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		model.StatusReviewed: lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		model.StatusApplied:  lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		model.StatusSkipped:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		model.StatusRejected: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Store is the slice of the queue store the TUI needs.
type Store interface {
	Get(id string) (*model.QueueItem, bool, error)
	UpdateStatus(id string, status model.Status) (bool, error)
	SetAnalysis(id string, a *model.Analysis) error
	SetCoverLetter(id string, text string) error
}

// statusChangedMsg is sent when an async status update completes.
type statusChangedMsg struct {
	item *model.QueueItem
	err  error
}

// analyzedMsg is sent when an async AI analysis completes.
type analyzedMsg struct {
	id       string
	analysis *model.Analysis
	err      error
}

// draftedMsg is sent when an async cover letter draft completes.
type draftedMsg struct {
	id    string
	draft string
	err   error
}

type reviewModel struct {
	items    []model.QueueItem
	store    Store
	analyzer ai.Analyzer
	profile  model.Profile

	listViewport   viewport.Model
	detailViewport viewport.Model
	cursor         int
	width          int
	height         int
	ready          bool

	view            viewState
	showDescription bool
	working         string // non-empty while an async action runs
	errMsg          string
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case statusChangedMsg:
		m.working = ""
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else if msg.item != nil {
			m.errMsg = ""
			m.updateItem(*msg.item)
		}
		m.refreshViews()
		return m, nil

	case analyzedMsg:
		m.working = ""
		switch {
		case msg.err != nil:
			m.errMsg = fmt.Sprintf("analysis failed: %v", msg.err)
		case msg.analysis == nil:
			m.errMsg = "AI analysis is not enabled, set ai.enabled: true in config.yaml"
		default:
			m.errMsg = ""
			if it := m.itemByID(msg.id); it != nil {
				it.Analysis = msg.analysis
			}
		}
		m.refreshViews()
		return m, nil

	case draftedMsg:
		m.working = ""
		switch {
		case msg.err != nil:
			m.errMsg = fmt.Sprintf("draft failed: %v", msg.err)
		case msg.draft == "":
			m.errMsg = "AI drafting is not enabled, set ai.enabled: true in config.yaml"
		default:
			m.errMsg = ""
			if it := m.itemByID(msg.id); it != nil {
				it.CoverLetter = msg.draft
			}
		}
		m.refreshViews()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m reviewModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		m.refreshViews()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.refreshViews()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	case "r", "a", "s", "x":
		return m.changeStatus(msg.String())
	}

	// Forward other keys (pgup/pgdn/home/end) to the viewport.
	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m reviewModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		m.errMsg = ""
		return m, nil
	case "o":
		if it := m.current(); it != nil && it.Posting.URL != "" {
			openURL(it.Posting.URL)
		}
		return m, nil
	case "d":
		if it := m.current(); it != nil && it.Posting.Description != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	case "i":
		it := m.current()
		if it == nil || m.working != "" || it.Analysis != nil {
			return m, nil
		}
		m.working = "analyzing"
		m.errMsg = ""
		m.detailViewport.SetContent(m.renderDetail())
		return m, m.analyzeCmd(*it)
	case "c":
		it := m.current()
		if it == nil || m.working != "" || it.CoverLetter != "" {
			return m, nil
		}
		m.working = "drafting"
		m.errMsg = ""
		m.detailViewport.SetContent(m.renderDetail())
		return m, m.draftCmd(*it)
	case "r", "a", "s", "x":
		return m.changeStatus(msg.String())
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

var statusKeys = map[string]model.Status{
	"r": model.StatusReviewed,
	"a": model.StatusApplied,
	"s": model.StatusSkipped,
	"x": model.StatusRejected,
}

func (m reviewModel) changeStatus(key string) (tea.Model, tea.Cmd) {
	it := m.current()
	if it == nil || m.working != "" {
		return m, nil
	}
	target := statusKeys[key]
	if !model.CanTransition(it.Status, target) {
		m.errMsg = fmt.Sprintf("cannot move %s job to %s", it.Status, target)
		m.refreshViews()
		return m, nil
	}
	m.working = "updating"
	m.refreshViews()
	return m, m.updateStatusCmd(it.Posting.ID(), target)
}

func (m reviewModel) updateStatusCmd(id string, status model.Status) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if _, err := store.UpdateStatus(id, status); err != nil {
			return statusChangedMsg{err: err}
		}
		item, ok, err := store.Get(id)
		if err != nil || !ok {
			return statusChangedMsg{err: err}
		}
		return statusChangedMsg{item: item}
	}
}

func (m reviewModel) analyzeCmd(item model.QueueItem) tea.Cmd {
	analyzer, store, profile := m.analyzer, m.store, m.profile
	return func() tea.Msg {
		analysis, err := analyzer.Analyze(context.Background(), item.Posting, profile)
		if err != nil || analysis == nil {
			return analyzedMsg{id: item.Posting.ID(), err: err}
		}
		if err := store.SetAnalysis(item.Posting.ID(), analysis); err != nil {
			return analyzedMsg{id: item.Posting.ID(), err: err}
		}
		return analyzedMsg{id: item.Posting.ID(), analysis: analysis}
	}
}

func (m reviewModel) draftCmd(item model.QueueItem) tea.Cmd {
	analyzer, store, profile := m.analyzer, m.store, m.profile
	return func() tea.Msg {
		draft, err := analyzer.Draft(context.Background(), item.Posting, profile)
		if err != nil || draft == "" {
			return draftedMsg{id: item.Posting.ID(), err: err}
		}
		if err := store.SetCoverLetter(item.Posting.ID(), draft); err != nil {
			return draftedMsg{id: item.Posting.ID(), err: err}
		}
		return draftedMsg{id: item.Posting.ID(), draft: draft}
	}
}

func (m *reviewModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.items)-1, 0))
}

func (m *reviewModel) ensureCursorVisible() {
	cursorTop := m.cursor * itemHeight
	cursorBottom := cursorTop + itemHeight - 1

	if cursorTop < m.listViewport.YOffset {
		m.listViewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(cursorBottom - m.listViewport.Height + 1)
	}
}

func (m reviewModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	m.view = viewDetail
	m.errMsg = ""
	m.showDescription = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *reviewModel) current() *model.QueueItem {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.cursor]
}

func (m *reviewModel) itemByID(id string) *model.QueueItem {
	for i := range m.items {
		if m.items[i].Posting.ID() == id {
			return &m.items[i]
		}
	}
	return nil
}

func (m *reviewModel) updateItem(item model.QueueItem) {
	if it := m.itemByID(item.Posting.ID()); it != nil {
		*it = item
	}
}

func (m *reviewModel) recalcLayout() {
	// Border top/bottom (2) + header (1) + status bar (1) = 4 lines overhead.
	height := max(m.height-4, 5)
	width := max(m.width-2, 20)

	if !m.ready {
		m.listViewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.listViewport.Width = width
		m.listViewport.Height = height
	}

	m.refreshViews()
}

func (m *reviewModel) refreshViews() {
	m.listViewport.SetContent(renderItems(m.items, m.cursor))
	if m.view == viewDetail {
		m.detailViewport.SetContent(m.renderDetail())
	}
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m reviewModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf(" Queue (%d)", len(m.items)))
	pane := activeBorderStyle.Width(m.listViewport.Width).Render(m.listViewport.View())

	statusText := " ↑/↓ cursor  Enter detail  r reviewed  a applied  s skipped  x rejected  q quit"
	if m.errMsg != "" {
		statusText = " " + m.errMsg
	} else if m.working != "" {
		statusText = " " + m.working + "..."
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m reviewModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	if m.working != "" {
		title += "  (" + m.working + "...)"
	}

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  d desc  i analyze  c cover letter  r/a/s/x status  esc back  q quit"
	if m.errMsg != "" {
		statusText = " " + errorStyle.Render(m.errMsg)
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m reviewModel) renderDetail() string {
	it := m.current()
	if it == nil {
		return "  (empty queue)"
	}
	p := it.Posting
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", p.Title)
	addField("Company", p.Company)
	addField("Location", p.Location)
	addField("Platform", p.Platform)
	addField("Work type", string(p.WorkType))
	if salary, ok := p.BestSalary(); ok {
		addField("Salary", fmt.Sprintf("$%d", salary))
	}

	b.WriteByte('\n')

	statusStyle, ok := statusColors[it.Status]
	if !ok {
		statusStyle = detailValueStyle
	}
	b.WriteString(detailLabelStyle.Render("Status"))
	b.WriteString(statusStyle.Render(string(it.Status)))
	b.WriteByte('\n')
	if it.MatchScore != nil {
		addField("Match", fmt.Sprintf("%.0f%%", *it.MatchScore*100))
	}
	addField("Added", it.AddedAt.Format("2006-01-02 15:04"))
	if it.AppliedAt != nil {
		addField("Applied", it.AppliedAt.Format("2006-01-02 15:04"))
	}

	b.WriteByte('\n')
	addField("URL", p.URL)

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return dividerStyle.Render(label + fill)
	}

	if a := it.Analysis; a != nil {
		b.WriteByte('\n')
		b.WriteString(divider("── AI Analysis ") + "\n\n")
		verdict := "good fit"
		if !a.IsGoodFit {
			verdict = "weak fit"
		}
		addField("Fit", fmt.Sprintf("%d/100 (%s)", a.MatchScore, verdict))
		if a.Reason != "" {
			b.WriteString(bodyStyle.Render(wordWrap(a.Reason, wrapWidth)) + "\n")
		}
		for _, h := range a.Highlights {
			if h != "" {
				b.WriteString(detailValueStyle.Render("  + "+h) + "\n")
			}
		}
		for _, f := range a.RedFlags {
			if f != "" {
				b.WriteString(detailValueStyle.Render("  - "+f) + "\n")
			}
		}
	} else if m.working == "analyzing" {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  analyzing posting...") + "\n")
	} else {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  press i for AI analysis") + "\n")
	}

	if it.CoverLetter != "" {
		b.WriteByte('\n')
		b.WriteString(divider("── Cover Letter ") + "\n\n")
		b.WriteString(bodyStyle.Render(wordWrap(it.CoverLetter, wrapWidth)) + "\n")
	} else if m.working == "drafting" {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  drafting cover letter...") + "\n")
	}

	if p.Description != "" {
		b.WriteByte('\n')
		if m.showDescription {
			b.WriteString(divider("── Description ") + "\n\n")
			b.WriteString(bodyStyle.Render(wordWrap(p.Description, wrapWidth)) + "\n")
		} else {
			b.WriteString(hintStyle.Render("  press d to read description") + "\n")
		}
	}

	return b.String()
}

func renderItems(items []model.QueueItem, cursor int) string {
	if len(items) == 0 {
		return "  (empty queue)"
	}

	var b strings.Builder
	for i, it := range items {
		isSelected := i == cursor

		titleSt := itemTitleStyle
		subtitleSt := itemSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedItemTitleStyle
			subtitleSt = selectedItemSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(fmt.Sprintf("%s @ %s", it.Posting.Title, it.Posting.Company)))
		b.WriteByte('\n')

		match := "unscored"
		if it.MatchScore != nil {
			match = fmt.Sprintf("%.0f%%", *it.MatchScore*100)
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", it.Status, match, it.Posting.Platform)))
		b.WriteByte('\n')

		if i < len(items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive queue review TUI over the given items.
// analyzer may be a NopAnalyzer; the i and c keys then report that AI is disabled.
func Run(items []model.QueueItem, store Store, analyzer ai.Analyzer, profile model.Profile) error {
	m := reviewModel{
		items:    items,
		store:    store,
		analyzer: analyzer,
		profile:  profile,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
