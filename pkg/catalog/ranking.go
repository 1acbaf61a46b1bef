package catalog

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

const (
	// DefaultListLimit caps List when no limit is given.
	DefaultListLimit = 100
	// DefaultSectionLimit caps Hit Picks and Latest Drops.
	DefaultSectionLimit = 10
	// DefaultLeaderboardLimit caps each leaderboard.
	DefaultLeaderboardLimit = 50
	// EmptySearchLimit caps the result when neither query nor tag is set.
	EmptySearchLimit = 20
	// SearchLimit caps a filtered search.
	SearchLimit = 50
	// HotDecayDays is the time constant of the hot score decay.
	HotDecayDays = 30.0
)

func limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

func truncate(skills []catalog.Skill, limit int) []catalog.Skill {
	if len(skills) > limit {
		return skills[:limit]
	}
	return skills
}

// SortByInstalls returns a copy of skills ordered by installs descending, then slug ascending.
func SortByInstalls(skills []catalog.Skill) []catalog.Skill {
	out := append([]catalog.Skill(nil), skills...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Installs != out[j].Installs {
			return out[i].Installs > out[j].Installs
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// SortByLastUpdated returns a copy of skills ordered by lastUpdated descending, then slug ascending.
func SortByLastUpdated(skills []catalog.Skill) []catalog.Skill {
	out := append([]catalog.Skill(nil), skills...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastUpdated.Equal(out[j].LastUpdated) {
			return out[i].LastUpdated.After(out[j].LastUpdated)
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// Verified keeps only verified skills, preserving order.
func Verified(skills []catalog.Skill) []catalog.Skill {
	out := make([]catalog.Skill, 0, len(skills))
	for _, s := range skills {
		if s.Verified {
			out = append(out, s)
		}
	}
	return out
}

// AllTime ranks verified skills by installs.
func AllTime(skills []catalog.Skill, limit int) []catalog.Skill {
	return truncate(SortByInstalls(Verified(skills)), limitOr(limit, DefaultLeaderboardLimit))
}

// Trending ranks verified skills by recency of update. It stands in for a
// velocity based ranking until velocity is populated.
func Trending(skills []catalog.Skill, limit int) []catalog.Skill {
	return truncate(SortByLastUpdated(Verified(skills)), limitOr(limit, DefaultLeaderboardLimit))
}

// HeatScore is installs * exp(-days/30) where days is the fractional age of
// the last update at now. Future updates count as age zero.
func HeatScore(s catalog.Skill, now time.Time) float64 {
	days := now.Sub(s.LastUpdated).Hours() / 24
	if days < 0 {
		days = 0
	}
	return float64(s.Installs) * math.Exp(-days/HotDecayDays)
}

// ScoredSkill pairs a skill with its heat score.
type ScoredSkill struct {
	catalog.Skill
	HeatScore float64 `json:"heatScore"`
}

// Hot ranks verified skills by heat score at now. It scores every skill, so
// cost grows linearly with the catalog.
func Hot(skills []catalog.Skill, now time.Time, limit int) []ScoredSkill {
	scored := make([]ScoredSkill, 0, len(skills))
	for _, s := range Verified(skills) {
		scored = append(scored, ScoredSkill{Skill: s, HeatScore: HeatScore(s, now)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].HeatScore != scored[j].HeatScore {
			return scored[i].HeatScore > scored[j].HeatScore
		}
		return scored[i].Slug < scored[j].Slug
	})
	limit = limitOr(limit, DefaultLeaderboardLimit)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// MatchesQuery reports whether q is empty or a case-insensitive substring of
// the skill's name, description, org, or any tag.
func MatchesQuery(s catalog.Skill, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Description), q) ||
		strings.Contains(strings.ToLower(s.Org), q) {
		return true
	}
	for _, t := range s.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// MatchesTag reports whether tag is empty or equal, ignoring case, to one of the skill's tags.
func MatchesTag(s catalog.Skill, tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return true
	}
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Search filters skills by query and tag and ranks matches by installs.
// With neither set it returns the top skills by installs.
func Search(skills []catalog.Skill, query, tag string) []catalog.Skill {
	query = strings.TrimSpace(query)
	tag = strings.TrimSpace(tag)
	if query == "" && tag == "" {
		return truncate(SortByInstalls(skills), EmptySearchLimit)
	}

	matches := make([]catalog.Skill, 0)
	for _, s := range skills {
		if MatchesQuery(s, query) && MatchesTag(s, tag) {
			matches = append(matches, s)
		}
	}
	return truncate(SortByInstalls(matches), SearchLimit)
}
