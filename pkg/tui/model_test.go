package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/keyboard"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testSkill(slug string, installs int64, tags ...string) skilltypes.Skill {
	return skilltypes.Normalize(skilltypes.Skill{
		Slug:        slug,
		Name:        slug + " skill",
		Org:         "acme",
		Repo:        "skills",
		Description: "Helps with " + slug,
		Commands:    skilltypes.Commands{ClaudeCode: "claude add " + slug, Cursor: "cursor add " + slug},
		Tags:        tags,
		Agents:      []skilltypes.Agent{skilltypes.AgentClaudeCode, skilltypes.AgentCursor},
		Installs:    installs,
		LastUpdated: testNow.Add(-48 * time.Hour),
		AddedAt:     testNow.Add(-72 * time.Hour),
		Verified:    true,
	})
}

type fakeCatalog struct {
	mu        sync.Mutex
	skills    []skilltypes.Skill
	searchErr error
	events    []skilltypes.Event
}

func (f *fakeCatalog) Search(_ context.Context, query, tag string) ([]skilltypes.Skill, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return catalog.Search(f.skills, query, tag), nil
}

func (f *fakeCatalog) TagCounts(context.Context) ([]catalog.TagCount, error) {
	return catalog.CountTags(f.skills), nil
}

func (f *fakeCatalog) RecordEvent(_ context.Context, slug string, action skilltypes.Action, agent skilltypes.Agent) (skilltypes.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event := skilltypes.Event{SkillSlug: slug, Action: action, Agent: agent}
	f.events = append(f.events, event)
	return event, nil
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

type fakeOpener struct {
	urls []string
}

func (o *fakeOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

func newTestModel(t *testing.T, opts Options) (Model, *fakeCatalog, *fakeClipboard) {
	t.Helper()
	cat := &fakeCatalog{skills: []skilltypes.Skill{
		testSkill("pdf", 5000, "documents"),
		testSkill("lint", 300, "testing"),
		testSkill("deploy", 900, "devops", "testing"),
	}}
	clip := &fakeClipboard{}

	m := NewModel(context.Background(), cat, opts)
	m.now = func() time.Time { return testNow }
	m.runner.Clipboard = clip
	m.runner.Opener = &fakeOpener{}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = update(t, m, m.searchCmd(keyboard.RunSearch{Query: m.state.Query, Tag: m.state.Tag, Key: m.state.Key()})())
	m = update(t, m, m.loadTagsCmd()())
	return m, cat, clip
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func slugs(skills []skilltypes.Skill) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = s.Slug
	}
	return out
}

func TestModelLoadsInitialList(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	assert.Equal(t, []string{"pdf", "deploy", "lint"}, slugs(m.State().Skills))
	assert.Equal(t, skilltypes.AgentClaudeCode, m.State().Agent)
	assert.Equal(t, []string{"testing", "devops", "documents"}, m.tags)
	assert.False(t, m.loading)
}

func TestModelUnknownAgentFallsBack(t *testing.T) {
	m := NewModel(context.Background(), &fakeCatalog{}, Options{Agent: "vim"})
	assert.Equal(t, skilltypes.DefaultAgent, m.State().Agent)
}

func TestModelNavigation(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.State().SelectedIndex)

	m, _ = press(t, m, runes("j"))
	assert.Equal(t, 2, m.State().SelectedIndex)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.State().SelectedIndex, "wraps to the top")

	m, _ = press(t, m, runes("k"))
	assert.Equal(t, 2, m.State().SelectedIndex, "wraps to the bottom")
}

func TestModelCopyShowsIndicator(t *testing.T) {
	m, cat, clip := newTestModel(t, Options{Agent: skilltypes.AgentCursor})

	m, cmd := press(t, m, runes("c"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.Equal(t, "cursor add pdf", clip.text)
	assert.Equal(t, "Copied!", m.statusMessage)
	require.Len(t, cat.events, 1)
	assert.Equal(t, skilltypes.ActionCopy, cat.events[0].Action)
	assert.Equal(t, skilltypes.AgentCursor, cat.events[0].Agent)

	stale := m.statusSeq - 1
	m = update(t, m, clearStatusMsg{seq: stale})
	assert.Equal(t, "Copied!", m.statusMessage)

	m = update(t, m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.statusMessage)
}

func TestModelOpenRepo(t *testing.T) {
	m, cat, _ := newTestModel(t, Options{})
	opener := m.runner.Opener.(*fakeOpener)

	m, cmd := press(t, m, runes("g"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.Equal(t, []string{"https://github.com/acme/skills"}, opener.urls)
	assert.Equal(t, "Opened in browser", m.statusMessage)
	require.Len(t, cat.events, 1)
	assert.Equal(t, skilltypes.ActionRepoClick, cat.events[0].Action)
}

func TestModelSearchFlow(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runes("/"))
	assert.True(t, m.search.Focused())
	assert.True(t, m.State().SearchFocused)

	m, _ = press(t, m, runes("c"))
	assert.Empty(t, m.statusMessage, "typing c does not copy")
	first := m.State().Generation
	m, _ = press(t, m, runes("k"))
	assert.Equal(t, "ck", m.State().PendingQuery)
	assert.Equal(t, first+1, m.State().Generation)

	m = update(t, m, keyboard.DebounceElapsed{Generation: first})
	assert.Empty(t, m.State().Query, "stale debounce is ignored")

	next, cmd := m.Update(keyboard.DebounceElapsed{Generation: m.State().Generation})
	m = next.(Model)
	assert.Equal(t, "ck", m.State().Query)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Empty(t, m.State().Skills)
	assert.Contains(t, m.View(), `No skills match "ck".`)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.search.Focused())
	assert.Empty(t, m.search.Value())
	assert.Empty(t, m.State().Query)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Len(t, m.State().Skills, 3)
}

func TestModelEnterLeavesSearchField(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.search.Focused())
	assert.False(t, m.State().SearchFocused)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.State().SelectedIndex)
}

func TestModelStaleResultsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	m = update(t, m, keyboard.ListReplaced{Key: keyboard.FilterKey("old", ""), Skills: nil})
	assert.Len(t, m.State().Skills, 3)
}

func TestModelDetail(t *testing.T) {
	m, cat, _ := newTestModel(t, Options{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.showDetail)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	require.Len(t, cat.events, 1)
	assert.Equal(t, skilltypes.ActionView, cat.events[0].Action)

	view := m.View()
	assert.Contains(t, view, "Install commands")
	assert.Contains(t, view, "cursor add pdf")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showDetail)
	assert.Len(t, m.State().Skills, 3, "leaving details keeps the list")
}

func TestModelAgentAndTag(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runes("a"))
	assert.Equal(t, skilltypes.AgentCodexCLI, m.State().Agent)

	m, cmd := press(t, m, runes("t"))
	assert.Equal(t, "testing", m.State().Tag)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Equal(t, []string{"deploy", "lint"}, slugs(m.State().Skills))
	assert.Contains(t, m.View(), "tag: testing")
}

func TestModelSearchFailure(t *testing.T) {
	m, cat, _ := newTestModel(t, Options{})
	cat.searchErr = errors.New("database is locked")

	m, cmd := press(t, m, runes("t"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Equal(t, "Search failed: database is locked", m.statusMessage)
}

func TestModelQuit(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, "Press Ctrl+C again to quit", m.statusMessage)
	require.NotNil(t, cmd)

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	m = update(t, m, resetCtrlCMsg{})
	assert.Zero(t, m.ctrlCPressCount)
	assert.Empty(t, m.statusMessage)

	_, cmd = press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelHelp(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runes("?"))
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.False(t, m.showHelp)
	assert.Equal(t, 0, m.State().SelectedIndex, "closing help swallows the key")
}

func TestNextAgent(t *testing.T) {
	assert.Equal(t, skilltypes.AgentCodexCLI, nextAgent(skilltypes.AgentClaudeCode))
	assert.Equal(t, skilltypes.AgentClaudeCode, nextAgent(skilltypes.AgentGeminiCLI))
	assert.Equal(t, skilltypes.DefaultAgent, nextAgent("vim"))
}

func TestNextTag(t *testing.T) {
	tags := []string{"testing", "devops"}
	tests := []struct {
		current string
		want    string
	}{
		{"", "testing"},
		{"testing", "devops"},
		{"devops", ""},
		{"unknown", "testing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextTag(tags, tt.current), tt.current)
	}
	assert.Empty(t, nextTag(nil, "testing"))
}
