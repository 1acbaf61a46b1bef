package catalog

import (
	"sort"
	"strings"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// OrgStats summarizes the skills published by an org.
type OrgStats struct {
	Org           string `json:"org"`
	RepoCount     int    `json:"repoCount"`
	SkillCount    int    `json:"skillCount"`
	TotalInstalls int64  `json:"totalInstalls"`
	GithubURL     string `json:"githubUrl"`
}

// RepoStats summarizes the skills of a single repo.
type RepoStats struct {
	Org           string `json:"org"`
	Repo          string `json:"repo"`
	SkillCount    int    `json:"skillCount"`
	TotalInstalls int64  `json:"totalInstalls"`
	RepoURL       string `json:"repoUrl"`
}

// RepoGroup is one repo of an org together with its skills.
type RepoGroup struct {
	Repo          string          `json:"repo"`
	Skills        []catalog.Skill `json:"skills"`
	TotalInstalls int64           `json:"totalInstalls"`
}

// TagCount is the number of skills carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func totalInstalls(skills []catalog.Skill) int64 {
	var total int64
	for _, s := range skills {
		total += s.Installs
	}
	return total
}

// ComputeOrgStats aggregates skills that all belong to org.
func ComputeOrgStats(org string, skills []catalog.Skill) (OrgStats, error) {
	if len(skills) == 0 {
		return OrgStats{}, catalog.NotFoundf("org %q", org)
	}
	repos := make(map[string]bool)
	for _, s := range skills {
		repos[s.Repo] = true
	}
	return OrgStats{
		Org:           org,
		RepoCount:     len(repos),
		SkillCount:    len(skills),
		TotalInstalls: totalInstalls(skills),
		GithubURL:     catalog.OrgURL(org),
	}, nil
}

// ComputeRepoStats aggregates skills that all belong to org/repo.
func ComputeRepoStats(org, repo string, skills []catalog.Skill) (RepoStats, error) {
	if len(skills) == 0 {
		return RepoStats{}, catalog.NotFoundf("repo %s/%s", org, repo)
	}
	return RepoStats{
		Org:           org,
		Repo:          repo,
		SkillCount:    len(skills),
		TotalInstalls: totalInstalls(skills),
		RepoURL:       catalog.RepoURL(org, repo),
	}, nil
}

// GroupByRepo groups skills by repo. Groups are ordered by total installs
// descending, then repo name; skills within a group by installs.
func GroupByRepo(skills []catalog.Skill) []RepoGroup {
	index := make(map[string]int)
	var groups []RepoGroup
	for _, s := range skills {
		i, ok := index[s.Repo]
		if !ok {
			i = len(groups)
			index[s.Repo] = i
			groups = append(groups, RepoGroup{Repo: s.Repo})
		}
		groups[i].Skills = append(groups[i].Skills, s)
		groups[i].TotalInstalls += s.Installs
	}
	for i := range groups {
		groups[i].Skills = SortByInstalls(groups[i].Skills)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].TotalInstalls != groups[j].TotalInstalls {
			return groups[i].TotalInstalls > groups[j].TotalInstalls
		}
		return groups[i].Repo < groups[j].Repo
	})
	if groups == nil {
		groups = []RepoGroup{}
	}
	return groups
}

// CountTags counts skills per tag, ordered by count descending then tag ascending.
// A tag repeated on one skill counts once.
func CountTags(skills []catalog.Skill) []TagCount {
	counts := make(map[string]int)
	for _, s := range skills {
		seen := make(map[string]bool, len(s.Tags))
		for _, t := range s.Tags {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// SearchTagCounts picks the tag chips shown beside search results: every tag
// when there is no query, only the active tag when both are set, none otherwise.
func SearchTagCounts(all []TagCount, query, tag string) []TagCount {
	query = strings.TrimSpace(query)
	tag = strings.TrimSpace(tag)
	if query == "" {
		return all
	}
	if tag == "" {
		return []TagCount{}
	}
	for _, tc := range all {
		if strings.EqualFold(tc.Tag, tag) {
			return []TagCount{tc}
		}
	}
	return []TagCount{{Tag: tag, Count: 0}}
}

// ResultLabel describes the active filter, e.g. `"lint" · tag: testing`.
func ResultLabel(query, tag string) string {
	query = strings.TrimSpace(query)
	tag = strings.TrimSpace(tag)
	var parts []string
	if query != "" {
		parts = append(parts, `"`+query+`"`)
	}
	if tag != "" {
		parts = append(parts, "tag: "+tag)
	}
	if len(parts) == 0 {
		return "all skills"
	}
	return strings.Join(parts, " · ")
}
