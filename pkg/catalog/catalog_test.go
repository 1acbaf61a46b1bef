package catalog

import (
	"fmt"
	"time"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func skill(slug, org, repo string, installs int64, daysAgo int, tags ...string) catalog.Skill {
	updated := testNow.AddDate(0, 0, -daysAgo)
	return catalog.Skill{
		Slug:        slug,
		Name:        fmt.Sprintf("Skill %s", slug),
		Org:         org,
		Repo:        repo,
		Description: "Does " + slug + " things",
		Commands:    catalog.Commands{ClaudeCode: "claude add " + slug},
		Tags:        tags,
		Agents:      []catalog.Agent{catalog.AgentClaudeCode},
		Installs:    installs,
		LastUpdated: updated,
		AddedAt:     updated.AddDate(0, -1, 0),
		RepoURL:     catalog.RepoURL(org, repo),
		Verified:    true,
	}
}

func fixtures() []catalog.Skill {
	return []catalog.Skill{
		skill("react-lint", "acme", "web", 500, 40, "frontend", "testing"),
		skill("pg-tune", "acme", "db", 900, 2, "database", "performance"),
		skill("k8s-deploy", "ops", "infra", 900, 10, "devops"),
		skill("prompt-kit", "ml", "kit", 120, 0, "ai"),
		skill("sec-scan", "ops", "infra", 300, 90, "security", "devops"),
	}
}

func slugs(skills []catalog.Skill) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = s.Slug
	}
	return out
}
