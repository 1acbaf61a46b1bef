// Package catalog defines the skill catalog data model: skills, agents,
// install commands, analytics events, and the normalization and validation
// rules applied before a skill is persisted.
package catalog

import (
	"fmt"
	"time"
)

// Commands holds the install command for each agent. Only ClaudeCode is required.
type Commands struct {
	ClaudeCode string `json:"claudeCode" yaml:"claudeCode" jsonschema:"required,minLength=1"`
	CodexCLI   string `json:"codexCli,omitempty" yaml:"codexCli,omitempty"`
	Cursor     string `json:"cursor,omitempty" yaml:"cursor,omitempty"`
	OpenCode   string `json:"openCode,omitempty" yaml:"openCode,omitempty"`
	GeminiCLI  string `json:"geminiCli,omitempty" yaml:"geminiCli,omitempty"`
}

// For returns the command registered for agent, or an empty string.
func (c Commands) For(agent Agent) string {
	switch agent {
	case AgentClaudeCode:
		return c.ClaudeCode
	case AgentCodexCLI:
		return c.CodexCLI
	case AgentCursor:
		return c.Cursor
	case AgentOpenCode:
		return c.OpenCode
	case AgentGeminiCLI:
		return c.GeminiCLI
	default:
		return ""
	}
}

// Skill is one catalog record.
type Skill struct {
	Slug            string    `json:"slug" yaml:"slug" jsonschema:"required,minLength=1"`
	Name            string    `json:"name" yaml:"name" jsonschema:"required,minLength=1"`
	Org             string    `json:"org" yaml:"org" jsonschema:"required,minLength=1"`
	Repo            string    `json:"repo" yaml:"repo" jsonschema:"required,minLength=1"`
	Description     string    `json:"description" yaml:"description" jsonschema:"required"`
	LongDescription string    `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Commands        Commands  `json:"commands" yaml:"commands" jsonschema:"required"`
	Tags            []string  `json:"tags" yaml:"tags"`
	Agents          []Agent   `json:"agents" yaml:"agents"`
	Installs        int64     `json:"installs" yaml:"installs" jsonschema:"minimum=0"`
	Stars           int64     `json:"stars" yaml:"stars" jsonschema:"minimum=0"`
	Velocity        *float64  `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	LastUpdated     time.Time `json:"lastUpdated" yaml:"lastUpdated" jsonschema:"required"`
	AddedAt         time.Time `json:"addedAt" yaml:"addedAt" jsonschema:"required"`
	RepoURL         string    `json:"repoUrl" yaml:"repoUrl"`
	DocsURL         string    `json:"docsUrl,omitempty" yaml:"docsUrl,omitempty"`
	Featured        bool      `json:"featured,omitempty" yaml:"featured,omitempty"`
	Verified        bool      `json:"verified" yaml:"verified"`
}

// DetailPath is the canonical page for the skill.
func (s Skill) DetailPath() string {
	return fmt.Sprintf("/skill/%s", s.Slug)
}

// PathURL is the org/repo/skill page for the skill.
func (s Skill) PathURL() string {
	return fmt.Sprintf("/%s/%s/%s", s.Org, s.Repo, s.Slug)
}

// HasAgent reports whether the skill declares support for agent.
func (s Skill) HasAgent(agent Agent) bool {
	for _, a := range s.Agents {
		if a == agent {
			return true
		}
	}
	return false
}

// Action is the kind of interaction an analytics event records.
type Action string

const (
	ActionCopy      Action = "copy"
	ActionRepoClick Action = "repo_click"
	ActionView      Action = "view"
)

// Valid reports whether the action is one of the recorded kinds.
func (a Action) Valid() bool {
	switch a {
	case ActionCopy, ActionRepoClick, ActionView:
		return true
	}
	return false
}

// Event is an append-only analytics record. It is never read back by ranking.
type Event struct {
	ID        string    `json:"id"`
	SkillSlug string    `json:"skillSlug"`
	Action    Action    `json:"action"`
	Agent     Agent     `json:"agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// InsertStatus reports the outcome of an idempotent insert.
type InsertStatus string

const (
	StatusInserted InsertStatus = "inserted"
	StatusSkipped  InsertStatus = "skipped"
)

// InsertResult mirrors the response of the seeding mutation.
type InsertResult struct {
	Status InsertStatus `json:"status"`
	Slug   string       `json:"slug"`
}

// CategoryTags are the categories surfaced as filter chips. Other tags are allowed.
var CategoryTags = []string{
	"frontend",
	"backend",
	"database",
	"devops",
	"ai",
	"testing",
	"security",
	"performance",
	"documentation",
	"utilities",
}
