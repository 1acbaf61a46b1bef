// Package keyboard models the browse interaction as a pure reducer: an event
// and the current State go in, the next State and a list of effects come out.
// Effects are executed separately by a Runner.
package keyboard

import (
	"time"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// SearchDebounce is the delay between the last keystroke and the search it triggers.
const SearchDebounce = 150 * time.Millisecond

// Key names a handled key press.
type Key string

const (
	KeySlash  Key = "/"
	KeyEscape Key = "Escape"
	KeyCopy   Key = "c"
	KeyOpen   Key = "g"
	KeyUp     Key = "ArrowUp"
	KeyDown   Key = "ArrowDown"
	KeyEnter  Key = "Enter"
)

// State is the browse state. The zero value is an unfiltered, empty list.
type State struct {
	SelectedIndex int
	Skills        []catalog.Skill
	Agent         catalog.Agent
	Query         string
	Tag           string
	PendingQuery  string
	Generation    uint64
	SearchFocused bool
}

// NewState returns the initial state for agent and the given filters.
func NewState(agent catalog.Agent, query, tag string) State {
	return State{
		Agent:        agent,
		Query:        query,
		Tag:          tag,
		PendingQuery: query,
	}
}

// FilterKey identifies the filter a result list was produced for.
func FilterKey(query, tag string) string {
	return query + "|" + tag
}

// Key returns the filter key of the applied filters.
func (s State) Key() string {
	return FilterKey(s.Query, s.Tag)
}

// Selected returns the selected skill, if the list is non-empty.
func (s State) Selected() (catalog.Skill, bool) {
	if len(s.Skills) == 0 || s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Skills) {
		return catalog.Skill{}, false
	}
	return s.Skills[s.SelectedIndex], true
}

// Event is an input to the reducer.
type Event interface {
	event()
}

// KeyPressed is a key press. Typing marks input typed into a text field
// outside the reducer's knowledge; SearchFocused counts as typing too.
type KeyPressed struct {
	Key    Key
	Typing bool
}

// QueryTyped carries the current contents of the search field.
type QueryTyped struct {
	Query string
}

// DebounceElapsed fires after SearchDebounce for the generation that scheduled it.
type DebounceElapsed struct {
	Generation uint64
}

// TagSelected applies a tag filter and clears the query.
type TagSelected struct {
	Tag string
}

// AgentSelected switches the agent used for install commands.
type AgentSelected struct {
	Agent catalog.Agent
}

// ListReplaced delivers search results for the filter identified by Key.
type ListReplaced struct {
	Key    string
	Skills []catalog.Skill
}

func (KeyPressed) event()      {}
func (QueryTyped) event()      {}
func (DebounceElapsed) event() {}
func (TagSelected) event()     {}
func (AgentSelected) event()   {}
func (ListReplaced) event()    {}

// Effect is a side effect requested by the reducer.
type Effect interface {
	effect()
}

type (
	// FocusSearch focuses the search field.
	FocusSearch struct{}
	// BlurSearch removes focus from the search field.
	BlurSearch struct{}
	// Copy writes Text to the clipboard. A successful write is tracked as a
	// copy of Slug for Agent.
	Copy struct {
		Text  string
		Slug  string
		Agent catalog.Agent
	}
	// OpenURL opens URL in a browser.
	OpenURL struct {
		URL  string
		Slug string
	}
	// Navigate moves to the page at Path.
	Navigate struct {
		Path string
		Slug string
	}
	// ScheduleSearch asks for a DebounceElapsed after Delay.
	ScheduleSearch struct {
		Generation uint64
		Delay      time.Duration
	}
	// RunSearch loads results for Query and Tag. Results come back as ListReplaced with Key.
	RunSearch struct {
		Query string
		Tag   string
		Key   string
	}
	// Track records an analytics event.
	Track struct {
		Slug   string
		Action catalog.Action
		Agent  catalog.Agent
	}
)

func (FocusSearch) effect()    {}
func (BlurSearch) effect()     {}
func (Copy) effect()           {}
func (OpenURL) effect()        {}
func (Navigate) effect()       {}
func (ScheduleSearch) effect() {}
func (RunSearch) effect()      {}
func (Track) effect()          {}

// Result is the output of Reduce. PreventDefault is set for every handled key.
type Result struct {
	State          State
	Effects        []Effect
	PreventDefault bool
}
