package catalog

import (
	"sort"
	"strings"
)

// Agent identifies an AI coding tool that can install a skill.
type Agent string

const (
	AgentClaudeCode Agent = "claude-code"
	AgentCodexCLI   Agent = "codex-cli"
	AgentCursor     Agent = "cursor"
	AgentOpenCode   Agent = "open-code"
	AgentGeminiCLI  Agent = "gemini-cli"
)

// DefaultAgent is the agent whose install command every skill must carry.
const DefaultAgent = AgentClaudeCode

// AgentInfo describes how an agent is presented.
type AgentInfo struct {
	Label string `json:"label"`
	Order int    `json:"order"`
}

// AgentDisplay is the fixed rank table governing agent display order.
var AgentDisplay = map[Agent]AgentInfo{
	AgentClaudeCode: {Label: "Claude Code", Order: 1},
	AgentCodexCLI:   {Label: "Codex CLI", Order: 2},
	AgentCursor:     {Label: "Cursor", Order: 3},
	AgentOpenCode:   {Label: "Open Code", Order: 4},
	AgentGeminiCLI:  {Label: "Gemini CLI", Order: 5},
}

// KnownAgents returns every agent in display order.
func KnownAgents() []Agent {
	agents := make([]Agent, 0, len(AgentDisplay))
	for agent := range AgentDisplay {
		agents = append(agents, agent)
	}
	SortAgents(agents)
	return agents
}

// IsKnown reports whether the agent appears in the display table.
func (a Agent) IsKnown() bool {
	_, ok := AgentDisplay[a]
	return ok
}

// Label returns the human readable name, or the raw identifier for unknown agents.
func (a Agent) Label() string {
	if info, ok := AgentDisplay[a]; ok {
		return info.Label
	}
	return string(a)
}

func (a Agent) order() int {
	if info, ok := AgentDisplay[a]; ok {
		return info.Order
	}
	return len(AgentDisplay) + 1
}

// ParseAgent maps an identifier to a known agent, falling back to DefaultAgent.
func ParseAgent(s string) Agent {
	agent := Agent(strings.ToLower(strings.TrimSpace(s)))
	if agent.IsKnown() {
		return agent
	}
	return DefaultAgent
}

// SortAgents orders agents in place by the display table. Unknown agents sort last.
func SortAgents(agents []Agent) {
	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].order() < agents[j].order()
	})
}

// SortedAgents returns a copy of agents in display order, leaving the input untouched.
func SortedAgents(agents []Agent) []Agent {
	out := make([]Agent, len(agents))
	copy(out, agents)
	SortAgents(out)
	return out
}
