package catalog

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Problem is a single validation failure for one skill.
type Problem struct {
	Slug    string
	Message string
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%s] %s", p.Slug, p.Message)
}

// Cause lets errors.Cause resolve a problem to ErrValidation.
func (p *Problem) Cause() error { return ErrValidation }

func (p *Problem) Unwrap() error { return ErrValidation }

// Validate checks a single skill and returns every problem found, or nil.
// The returned error is a *multierror.Error whose entries are *Problem values.
func Validate(s Skill) error {
	var result *multierror.Error
	slug := s.Slug
	if strings.TrimSpace(slug) == "" {
		slug = "?"
	}
	check := func(failed bool, format string, args ...any) {
		if failed {
			result = multierror.Append(result, &Problem{Slug: slug, Message: fmt.Sprintf(format, args...)})
		}
	}

	check(strings.TrimSpace(s.Slug) == "", "slug is required")
	check(strings.TrimSpace(s.Name) == "", "name is required")
	check(strings.TrimSpace(s.Org) == "", "org is required")
	check(strings.TrimSpace(s.Repo) == "", "repo is required")
	check(strings.Contains(s.Repo, "/"), "repo contains \"/\": %s", s.Repo)
	expected := RepoURL(s.Org, s.Repo)
	check(s.RepoURL != expected, "repoUrl mismatch: expected %s, found %s", expected, s.RepoURL)
	check(strings.TrimSpace(s.Commands.ClaudeCode) == "", "commands.claudeCode is required")
	check(s.Installs < 0, "installs must be non-negative: %d", s.Installs)
	check(s.Stars < 0, "stars must be non-negative: %d", s.Stars)
	check(s.LastUpdated.IsZero(), "lastUpdated is required")
	check(s.AddedAt.IsZero(), "addedAt is required")
	check(!s.AddedAt.IsZero() && !s.LastUpdated.IsZero() && s.AddedAt.After(s.LastUpdated),
		"addedAt %s is after lastUpdated %s", FormatTime(s.AddedAt), FormatTime(s.LastUpdated))
	for _, agent := range s.Agents {
		check(!agent.IsKnown(), "unknown agent: %s", agent)
	}

	return result.ErrorOrNil()
}

// ValidateAll validates every skill and also reports duplicate slugs.
func ValidateAll(skills []Skill) error {
	var result *multierror.Error
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		if err := Validate(s); err != nil {
			result = multierror.Append(result, err)
		}
		if s.Slug != "" && seen[s.Slug] {
			result = multierror.Append(result, &Problem{Slug: s.Slug, Message: "duplicate slug"})
		}
		seen[s.Slug] = true
	}
	return result.ErrorOrNil()
}

// Problems flattens a validation error into its individual problems.
func Problems(err error) []*Problem {
	if err == nil {
		return nil
	}
	var out []*Problem
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			out = append(out, Problems(e)...)
		}
		return out
	}
	if p, ok := err.(*Problem); ok {
		return []*Problem{p}
	}
	return nil
}

// UnknownTags returns the tags of s that are not category tags, in original order.
func UnknownTags(s Skill) []string {
	known := make(map[string]bool, len(CategoryTags))
	for _, t := range CategoryTags {
		known[t] = true
	}
	var unknown []string
	for _, t := range s.Tags {
		if !known[strings.ToLower(t)] {
			unknown = append(unknown, t)
		}
	}
	return unknown
}
