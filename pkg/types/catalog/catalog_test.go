package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSkill() Skill {
	return Skill{
		Slug:        "cli-helper",
		Name:        "CLI Helper",
		Org:         "acme",
		Repo:        "cli",
		Description: "Helps with CLIs",
		Commands: Commands{
			ClaudeCode: "claude skill add acme/cli",
			Cursor:     "cursor skill add acme/cli",
		},
		Tags:        []string{"devops"},
		Agents:      []Agent{AgentCursor, AgentClaudeCode},
		Installs:    10,
		Stars:       2,
		LastUpdated: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AddedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RepoURL:     "https://github.com/acme/cli",
		Verified:    true,
	}
}

func TestResolveCommand(t *testing.T) {
	skill := validSkill()

	tests := []struct {
		name     string
		agent    Agent
		expected string
	}{
		{"default agent", AgentClaudeCode, "claude skill add acme/cli"},
		{"agent with command", AgentCursor, "cursor skill add acme/cli"},
		{"agent without command falls back", AgentCodexCLI, "claude skill add acme/cli"},
		{"unknown agent falls back", Agent("vim"), "claude skill add acme/cli"},
		{"empty agent falls back", Agent(""), "claude skill add acme/cli"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveCommand(skill, tt.agent))
		})
	}
}

func TestParseAgent(t *testing.T) {
	assert.Equal(t, AgentCursor, ParseAgent("cursor"))
	assert.Equal(t, AgentGeminiCLI, ParseAgent(" Gemini-CLI "))
	assert.Equal(t, DefaultAgent, ParseAgent(""))
	assert.Equal(t, DefaultAgent, ParseAgent("emacs"))
}

func TestSortedAgents(t *testing.T) {
	in := []Agent{AgentGeminiCLI, Agent("zed"), AgentCursor, AgentClaudeCode}
	out := SortedAgents(in)

	assert.Equal(t, []Agent{AgentClaudeCode, AgentCursor, AgentGeminiCLI, Agent("zed")}, out)
	assert.Equal(t, AgentGeminiCLI, in[0], "input must not be reordered")
	assert.Equal(t, []Agent{AgentClaudeCode, AgentCodexCLI, AgentCursor, AgentOpenCode, AgentGeminiCLI}, KnownAgents())
}

func TestAgentLabel(t *testing.T) {
	assert.Equal(t, "Codex CLI", AgentCodexCLI.Label())
	assert.Equal(t, "zed", Agent("zed").Label())
}

func TestNormalize(t *testing.T) {
	s := validSkill()
	s.Repo = "acme/tools/cli"
	s.RepoURL = "https://github.com/acme/acme/tools/cli"
	s.LastUpdated = time.Date(2024, 3, 1, 5, 0, 0, 0, time.FixedZone("X", 3600))

	n := Normalize(s)

	assert.Equal(t, "cli", n.Repo)
	assert.Equal(t, "https://github.com/acme/cli", n.RepoURL)
	assert.Equal(t, time.UTC, n.LastUpdated.Location())
	assert.NoError(t, Validate(n))
	assert.Equal(t, "acme/tools/cli", s.Repo, "input must not be modified")
}

func TestRepoName(t *testing.T) {
	assert.Equal(t, "cli", RepoName("cli"))
	assert.Equal(t, "cli", RepoName("acme/tools/cli"))
	assert.Equal(t, "cli", RepoName("acme/cli/"))
	assert.Equal(t, "", RepoName(""))
}

func TestNormalizeAll(t *testing.T) {
	good := validSkill()
	bad := validSkill()
	bad.Slug = "other"
	bad.Repo = "acme/cli"

	out, changed := NormalizeAll([]Skill{good, bad})
	require.Len(t, out, 2)
	assert.Equal(t, 1, changed)
	assert.Equal(t, "cli", out[1].Repo)
}

func TestValidate(t *testing.T) {
	t.Run("valid skill", func(t *testing.T) {
		assert.NoError(t, Validate(validSkill()))
	})

	t.Run("repo with slash and url mismatch", func(t *testing.T) {
		s := validSkill()
		s.Repo = "acme/cli"

		err := Validate(s)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		problems := Problems(err)
		require.Len(t, problems, 2)
		assert.Equal(t, `[cli-helper] repo contains "/": acme/cli`, problems[0].Error())
		assert.Equal(t, "[cli-helper] repoUrl mismatch: expected https://github.com/acme/acme/cli, found https://github.com/acme/cli", problems[1].Error())
	})

	t.Run("missing claude code command", func(t *testing.T) {
		s := validSkill()
		s.Commands.ClaudeCode = ""

		problems := Problems(Validate(s))
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0].Message, "claudeCode")
	})

	t.Run("added after updated", func(t *testing.T) {
		s := validSkill()
		s.AddedAt = s.LastUpdated.Add(time.Hour)

		problems := Problems(Validate(s))
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0].Message, "is after lastUpdated")
	})

	t.Run("negative counters and unknown agent", func(t *testing.T) {
		s := validSkill()
		s.Installs = -1
		s.Stars = -1
		s.Agents = append(s.Agents, "zed")

		assert.Len(t, Problems(Validate(s)), 3)
	})
}

func TestValidateAllDuplicates(t *testing.T) {
	err := ValidateAll([]Skill{validSkill(), validSkill()})
	problems := Problems(err)
	require.Len(t, problems, 1)
	assert.Equal(t, "[cli-helper] duplicate slug", problems[0].Error())
}

func TestUnknownTags(t *testing.T) {
	s := validSkill()
	s.Tags = []string{"AI", "rust", "testing", "wasm"}
	assert.Equal(t, []string{"rust", "wasm"}, UnknownTags(s))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFoundf("skill %q", "x")))
	assert.False(t, IsNotFound(ErrValidation))
	assert.False(t, IsNotFound(nil))
}

func TestTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("Y", -7200))
	s := FormatTime(ts)
	assert.Equal(t, "2024-05-06T09:08:09Z", s)

	parsed, err := ParseTime(s)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}
