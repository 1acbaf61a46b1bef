package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/keyboard"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// CopiedIndicatorDuration is how long the "Copied!" status stays visible.
const CopiedIndicatorDuration = 2 * time.Second

// Catalog is the part of the catalog service the browser uses.
type Catalog interface {
	Search(ctx context.Context, query, tag string) ([]skilltypes.Skill, error)
	TagCounts(ctx context.Context) ([]catalog.TagCount, error)
	RecordEvent(ctx context.Context, slug string, action skilltypes.Action, agent skilltypes.Agent) (skilltypes.Event, error)
}

// Options are the initial browse settings.
type Options struct {
	Agent skilltypes.Agent
	Query string
	Tag   string
}

// Model represents the browse TUI model
type Model struct {
	ctx       context.Context
	catalog   Catalog
	runner    *keyboard.Runner
	state     keyboard.State
	search    textinput.Model
	formatter *SkillFormatter
	now       func() time.Time

	tags          []string
	showDetail    bool
	showHelp      bool
	loading       bool
	ready         bool
	width         int
	height        int
	statusMessage string
	statusSeq     int

	ctrlCPressCount    int
	lastCtrlCPressTime time.Time

	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
}

// NewModel creates a new browse model
func NewModel(ctx context.Context, cat Catalog, opts Options) Model {
	agent := opts.Agent
	if !agent.IsKnown() {
		agent = skilltypes.DefaultAgent
	}

	ti := textinput.New()
	ti.Placeholder = "Search skills..."
	ti.Prompt = "❯ "
	ti.CharLimit = 120
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true)
	ti.SetValue(opts.Query)

	return Model{
		ctx:         ctx,
		catalog:     cat,
		runner:      keyboard.NewRunner(cat),
		state:       keyboard.NewState(agent, opts.Query, opts.Tag),
		search:      ti,
		formatter:   NewSkillFormatter(80),
		now:         time.Now,
		loading:     true,
		titleStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Background(lipgloss.Color("236")).Padding(0, 1),
	}
}

// State returns the current browse state.
func (m Model) State() keyboard.State {
	return m.state
}

// Init loads the first result list and the tag chips.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.searchCmd(keyboard.RunSearch{Query: m.state.Query, Tag: m.state.Tag, Key: m.state.Key()}),
		m.loadTagsCmd(),
	)
}

// resetCtrlCCmd creates a command that resets the Ctrl+C counter after a timeout
func resetCtrlCCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return resetCtrlCMsg{}
	})
}

func clearStatusCmd(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func debounceCmd(eff keyboard.ScheduleSearch) tea.Cmd {
	return tea.Tick(eff.Delay, func(time.Time) tea.Msg {
		return keyboard.DebounceElapsed{Generation: eff.Generation}
	})
}

func (m Model) searchCmd(eff keyboard.RunSearch) tea.Cmd {
	ctx, cat := m.ctx, m.catalog
	return func() tea.Msg {
		skills, err := cat.Search(ctx, eff.Query, eff.Tag)
		if err != nil {
			return searchFailedMsg{key: eff.Key, err: err}
		}
		return keyboard.ListReplaced{Key: eff.Key, Skills: skills}
	}
}

func (m Model) loadTagsCmd() tea.Cmd {
	ctx, cat := m.ctx, m.catalog
	return func() tea.Msg {
		counts, err := cat.TagCounts(ctx)
		if err != nil {
			return tagsLoadedMsg{}
		}
		tags := make([]string, len(counts))
		for i, tc := range counts {
			tags[i] = tc.Tag
		}
		return tagsLoadedMsg{tags: tags}
	}
}

func (m Model) runEffectsCmd(effects []keyboard.Effect) tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		return effectsDoneMsg{outcome: runner.Run(ctx, effects)}
	}
}

// setStatus shows a transient status message.
func (m *Model) setStatus(msg string, after time.Duration) tea.Cmd {
	m.statusSeq++
	m.statusMessage = msg
	return clearStatusCmd(m.statusSeq, after)
}

// dispatch runs e through the reducer and turns the resulting effects into commands.
func (m *Model) dispatch(e keyboard.Event) tea.Cmd {
	res := keyboard.Reduce(m.state, e)
	m.state = res.State
	if !m.search.Focused() && m.search.Value() != m.state.PendingQuery {
		m.search.SetValue(m.state.PendingQuery)
	}
	return m.apply(res.Effects)
}

func (m *Model) apply(effects []keyboard.Effect) tea.Cmd {
	var (
		cmds     []tea.Cmd
		external []keyboard.Effect
	)
	for _, eff := range effects {
		switch eff := eff.(type) {
		case keyboard.FocusSearch:
			cmds = append(cmds, m.search.Focus())
		case keyboard.BlurSearch:
			m.search.Blur()
			m.search.SetValue(m.state.PendingQuery)
		case keyboard.ScheduleSearch:
			cmds = append(cmds, debounceCmd(eff))
		case keyboard.RunSearch:
			m.loading = true
			cmds = append(cmds, m.searchCmd(eff))
		case keyboard.Navigate:
			m.showDetail = true
			external = append(external, keyboard.Track{Slug: eff.Slug, Action: skilltypes.ActionView, Agent: m.state.Agent})
		default:
			external = append(external, eff)
		}
	}
	if len(external) > 0 {
		cmds = append(cmds, m.runEffectsCmd(external))
	}
	return tea.Batch(cmds...)
}

// Update handles the message updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-4, 10)
		m.formatter.SetWidth(msg.Width)
		m.ready = true
		return m, nil

	case resetCtrlCMsg:
		m.ctrlCPressCount = 0
		if m.statusMessage == "Press Ctrl+C again to quit" {
			m.statusMessage = ""
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
		}
		return m, nil

	case tagsLoadedMsg:
		m.tags = msg.tags
		return m, nil

	case searchFailedMsg:
		if msg.key != m.state.Key() {
			return m, nil
		}
		m.loading = false
		cmd := m.setStatus("Search failed: "+msg.err.Error(), 5*time.Second)
		return m, cmd

	case effectsDoneMsg:
		switch {
		case msg.outcome.Copied:
			cmd := m.setStatus("Copied!", CopiedIndicatorDuration)
			return m, cmd
		case msg.outcome.Opened:
			cmd := m.setStatus("Opened in browser", CopiedIndicatorDuration)
			return m, cmd
		}
		return m, nil

	case keyboard.ListReplaced:
		if msg.Key == m.state.Key() {
			m.loading = false
		}
		cmd := m.dispatch(msg)
		return m, cmd

	case keyboard.Event:
		cmd := m.dispatch(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		now := time.Now()
		if m.ctrlCPressCount > 0 && now.Sub(m.lastCtrlCPressTime) < 2*time.Second {
			return m, tea.Quit
		}
		m.ctrlCPressCount = 1
		m.lastCtrlCPressTime = now
		m.statusMessage = "Press Ctrl+C again to quit"
		return m, resetCtrlCCmd()
	}

	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.showDetail && (msg.Type == tea.KeyEsc || msg.Type == tea.KeyBackspace) {
		m.showDetail = false
		return m, nil
	}

	if key, ok := keyFor(msg); ok {
		if key == keyboard.KeySlash {
			m.showDetail = false
		}
		cmd := m.dispatch(keyboard.KeyPressed{Key: key})
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "a":
		cmd := m.dispatch(keyboard.AgentSelected{Agent: nextAgent(m.state.Agent)})
		return m, cmd
	case "t":
		m.showDetail = false
		cmd := m.dispatch(keyboard.TagSelected{Tag: nextTag(m.tags, m.state.Tag)})
		return m, cmd
	}
	return m, nil
}

// handleSearchKey routes keys while the search field has focus. Escape still
// reaches the reducer; Enter and the arrows leave the field so the list can
// be navigated.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		cmd := m.dispatch(keyboard.KeyPressed{Key: keyboard.KeyEscape, Typing: true})
		return m, cmd
	case tea.KeyEnter, tea.KeyUp, tea.KeyDown, tea.KeyTab:
		m.search.Blur()
		m.state.SearchFocused = false
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	typed := m.dispatch(keyboard.QueryTyped{Query: m.search.Value()})
	return m, tea.Batch(cmd, typed)
}

func nextAgent(current skilltypes.Agent) skilltypes.Agent {
	agents := skilltypes.KnownAgents()
	for i, a := range agents {
		if a == current {
			return agents[(i+1)%len(agents)]
		}
	}
	return skilltypes.DefaultAgent
}

// nextTag cycles through tags and back to no tag.
func nextTag(tags []string, current string) string {
	if len(tags) == 0 {
		return ""
	}
	if current == "" {
		return tags[0]
	}
	for i, t := range tags {
		if t == current {
			if i+1 < len(tags) {
				return tags[i+1]
			}
			return ""
		}
	}
	return tags[0]
}
