package catalog

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the storage format for timestamps. UTC values sort lexically in time order.
const TimeLayout = time.RFC3339

// FormatTime renders t in TimeLayout after converting to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout (or RFC 3339 with fractional seconds) timestamp.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// RepoURL builds the canonical GitHub URL for org/repo.
func RepoURL(org, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s", org, repo)
}

// OrgURL builds the GitHub URL for an org.
func OrgURL(org string) string {
	return fmt.Sprintf("https://github.com/%s", org)
}

// RepoName reduces a repo value that may contain a path to its last non-empty segment.
func RepoName(repo string) string {
	parts := strings.Split(repo, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return strings.TrimSpace(repo)
}

// Normalize returns a copy of s with the repo reduced to its final path
// segment, repoUrl rebuilt from org and repo, and timestamps in UTC.
func Normalize(s Skill) Skill {
	s.Org = strings.TrimSpace(s.Org)
	s.Repo = RepoName(s.Repo)
	s.RepoURL = RepoURL(s.Org, s.Repo)
	s.LastUpdated = s.LastUpdated.UTC().Truncate(time.Second)
	s.AddedAt = s.AddedAt.UTC().Truncate(time.Second)
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.Agents == nil {
		s.Agents = []Agent{}
	}
	return s
}

// NormalizeAll normalizes every skill and reports how many records changed repo or repoUrl.
func NormalizeAll(skills []Skill) ([]Skill, int) {
	out := make([]Skill, len(skills))
	changed := 0
	for i, s := range skills {
		n := Normalize(s)
		if n.Repo != s.Repo || n.RepoURL != s.RepoURL {
			changed++
		}
		out[i] = n
	}
	return out, changed
}
