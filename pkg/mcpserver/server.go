// Package mcpserver exposes the skill catalog to coding agents as Model
// Context Protocol tools served over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/logger"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
	"github.com/Akram012388/skillissue-world/pkg/version"
)

// Tool names.
const (
	ToolSearchSkills   = "search_skills"
	ToolGetSkill       = "get_skill"
	ToolLeaderboard    = "leaderboard"
	ToolInstallCommand = "install_command"
)

// Catalog is the part of the catalog service the tools call.
type Catalog interface {
	Search(ctx context.Context, query, tag string) ([]skilltypes.Skill, error)
	GetBySlug(ctx context.Context, slug string) (skilltypes.Skill, error)
	Leaderboard(ctx context.Context, kind catalog.LeaderboardKind, limit int) ([]catalog.ScoredSkill, error)
	InstallCommand(ctx context.Context, slug string, agent skilltypes.Agent) (string, error)
}

// Server wraps an MCP server with the catalog tools registered.
type Server struct {
	catalog      Catalog
	defaultAgent skilltypes.Agent
	mcp          *server.MCPServer
}

// SkillSummary is the compact skill record returned by list tools.
type SkillSummary struct {
	Rank        int      `json:"rank,omitempty"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Org         string   `json:"org"`
	Repo        string   `json:"repo"`
	Description string   `json:"description"`
	Installs    int64    `json:"installs"`
	HeatScore   float64  `json:"heatScore,omitempty"`
	Tags        []string `json:"tags"`
	Command     string   `json:"command"`
}

// New creates a server whose install commands default to agent.
func New(cat Catalog, agent skilltypes.Agent) *Server {
	if !agent.IsKnown() {
		agent = skilltypes.DefaultAgent
	}
	s := &Server{
		catalog:      cat,
		defaultAgent: agent,
		mcp: server.NewMCPServer("skillissue", version.Get().Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over in and out until ctx is done or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(logger.G(ctx).WriterLevel(logrus.ErrorLevel), "", 0))
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "mcp stdio server failed")
	}
	return nil
}

func (s *Server) registerTools() {
	agents := make([]string, 0, len(skilltypes.AgentDisplay))
	for _, a := range skilltypes.KnownAgents() {
		agents = append(agents, string(a))
	}
	kinds := make([]string, len(catalog.LeaderboardKinds))
	for i, k := range catalog.LeaderboardKinds {
		kinds[i] = string(k)
	}

	s.mcp.AddTool(mcp.NewTool(ToolSearchSkills,
		mcp.WithDescription("Search agent skills by free text and tag. Results are ranked by installs. With no query and no tag the most installed skills are returned."),
		mcp.WithString("query", mcp.Description("Case-insensitive text matched against name, description, org and tags")),
		mcp.WithString("tag", mcp.Description("Exact tag filter, e.g. testing")),
		mcp.WithString("agent", mcp.Description("Agent whose install command is included"), mcp.Enum(agents...)),
	), s.handleSearch)

	s.mcp.AddTool(mcp.NewTool(ToolGetSkill,
		mcp.WithDescription("Get the full record of a skill by slug"),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Skill slug")),
	), s.handleGetSkill)

	s.mcp.AddTool(mcp.NewTool(ToolLeaderboard,
		mcp.WithDescription("Rank skills: all-time by installs, trending by recent updates, hot by installs decayed over the age of the last update"),
		mcp.WithString("kind", mcp.Description("Leaderboard kind"), mcp.Enum(kinds...)),
		mcp.WithNumber("limit", mcp.Description("Maximum entries, default 50"), mcp.Min(1)),
		mcp.WithString("agent", mcp.Description("Agent whose install command is included"), mcp.Enum(agents...)),
	), s.handleLeaderboard)

	s.mcp.AddTool(mcp.NewTool(ToolInstallCommand,
		mcp.WithDescription("Resolve the install command of a skill for an agent, falling back to the Claude Code command"),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Skill slug")),
		mcp.WithString("agent", mcp.Description("Target agent"), mcp.Enum(agents...)),
	), s.handleInstallCommand)
}

func (s *Server) agentArg(req mcp.CallToolRequest) skilltypes.Agent {
	raw := strings.TrimSpace(req.GetString("agent", ""))
	if raw == "" {
		return s.defaultAgent
	}
	return skilltypes.ParseAgent(raw)
}

func summarize(skill skilltypes.Skill, agent skilltypes.Agent) SkillSummary {
	return SkillSummary{
		Slug:        skill.Slug,
		Name:        skill.Name,
		Org:         skill.Org,
		Repo:        skill.Repo,
		Description: skill.Description,
		Installs:    skill.Installs,
		Tags:        skill.Tags,
		Command:     skilltypes.ResolveCommand(skill, agent),
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode tool result")
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError turns catalog errors into tool-level errors the model can read.
// Unexpected failures are logged and reported without detail.
func toolError(ctx context.Context, tool string, err error) (*mcp.CallToolResult, error) {
	if skilltypes.IsNotFound(err) || errors.Is(err, skilltypes.ErrValidation) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	logger.G(ctx).WithError(err).WithField("tool", tool).Error("mcp tool failed")
	return mcp.NewToolResultError("internal error"), nil
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skills, err := s.catalog.Search(ctx, req.GetString("query", ""), req.GetString("tag", ""))
	if err != nil {
		return toolError(ctx, ToolSearchSkills, err)
	}
	agent := s.agentArg(req)
	out := make([]SkillSummary, len(skills))
	for i, skill := range skills {
		out[i] = summarize(skill, agent)
	}
	return jsonResult(out)
}

func (s *Server) handleGetSkill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	skill, err := s.catalog.GetBySlug(ctx, slug)
	if err != nil {
		return toolError(ctx, ToolGetSkill, err)
	}
	return jsonResult(skill)
}

func (s *Server) handleLeaderboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("kind", string(catalog.LeaderboardAllTime))
	kind := catalog.ParseLeaderboardKind(raw)
	if string(kind) != strings.ToLower(strings.TrimSpace(raw)) {
		return mcp.NewToolResultError("unknown leaderboard kind: " + raw), nil
	}
	limit := req.GetInt("limit", catalog.DefaultLeaderboardLimit)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be a positive integer"), nil
	}

	entries, err := s.catalog.Leaderboard(ctx, kind, limit)
	if err != nil {
		return toolError(ctx, ToolLeaderboard, err)
	}
	agent := s.agentArg(req)
	out := make([]SkillSummary, len(entries))
	for i, e := range entries {
		out[i] = summarize(e.Skill, agent)
		out[i].Rank = i + 1
		out[i].HeatScore = e.HeatScore
	}
	return jsonResult(out)
}

func (s *Server) handleInstallCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	command, err := s.catalog.InstallCommand(ctx, slug, s.agentArg(req))
	if err != nil {
		return toolError(ctx, ToolInstallCommand, err)
	}
	return mcp.NewToolResultText(command), nil
}
