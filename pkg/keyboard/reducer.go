package keyboard

import (
	"strings"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// Reduce applies e to s. It never mutates s.Skills.
func Reduce(s State, e Event) Result {
	switch e := e.(type) {
	case KeyPressed:
		return reduceKey(s, e)
	case QueryTyped:
		s.PendingQuery = e.Query
		s.Generation++
		return Result{State: s, Effects: []Effect{ScheduleSearch{Generation: s.Generation, Delay: SearchDebounce}}}
	case DebounceElapsed:
		if e.Generation != s.Generation {
			return Result{State: s}
		}
		s.Query = strings.TrimSpace(s.PendingQuery)
		s.SelectedIndex = 0
		return Result{State: s, Effects: []Effect{runSearch(s)}}
	case TagSelected:
		s.Tag = strings.TrimSpace(e.Tag)
		s.Query = ""
		s.PendingQuery = ""
		s.Generation++
		s.SelectedIndex = 0
		return Result{State: s, Effects: []Effect{runSearch(s)}}
	case AgentSelected:
		s.Agent = e.Agent
		return Result{State: s}
	case ListReplaced:
		if e.Key != s.Key() {
			return Result{State: s}
		}
		s.Skills = e.Skills
		if s.SelectedIndex >= len(s.Skills) || s.SelectedIndex < 0 {
			s.SelectedIndex = 0
		}
		return Result{State: s}
	default:
		return Result{State: s}
	}
}

func runSearch(s State) RunSearch {
	return RunSearch{Query: s.Query, Tag: s.Tag, Key: s.Key()}
}

func reduceKey(s State, e KeyPressed) Result {
	typing := e.Typing || s.SearchFocused

	if e.Key == KeyEscape {
		filtered := s.Query != "" || s.Tag != "" || s.PendingQuery != ""
		s.Query = ""
		s.Tag = ""
		s.PendingQuery = ""
		s.Generation++
		s.SelectedIndex = 0
		s.SearchFocused = false
		effects := []Effect{BlurSearch{}}
		if filtered {
			effects = append(effects, runSearch(s))
		}
		return Result{State: s, Effects: effects, PreventDefault: true}
	}

	if typing {
		return Result{State: s}
	}

	n := len(s.Skills)
	switch e.Key {
	case KeySlash:
		s.SearchFocused = true
		return Result{State: s, Effects: []Effect{FocusSearch{}}, PreventDefault: true}
	case KeyUp:
		if n > 0 {
			s.SelectedIndex = (s.SelectedIndex - 1 + n) % n
		}
		return Result{State: s, PreventDefault: true}
	case KeyDown:
		if n > 0 {
			s.SelectedIndex = (s.SelectedIndex + 1) % n
		}
		return Result{State: s, PreventDefault: true}
	case KeyCopy:
		skill, ok := s.Selected()
		if !ok {
			return Result{State: s, PreventDefault: true}
		}
		return Result{State: s, PreventDefault: true, Effects: []Effect{
			Copy{Text: catalog.ResolveCommand(skill, s.Agent), Slug: skill.Slug, Agent: s.Agent},
		}}
	case KeyOpen:
		skill, ok := s.Selected()
		if !ok {
			return Result{State: s, PreventDefault: true}
		}
		return Result{State: s, PreventDefault: true, Effects: []Effect{
			OpenURL{URL: skill.RepoURL, Slug: skill.Slug},
			Track{Slug: skill.Slug, Action: catalog.ActionRepoClick},
		}}
	case KeyEnter:
		skill, ok := s.Selected()
		if !ok {
			return Result{State: s, PreventDefault: true}
		}
		return Result{State: s, PreventDefault: true, Effects: []Effect{
			Navigate{Path: skill.DetailPath(), Slug: skill.Slug},
		}}
	default:
		return Result{State: s}
	}
}
