package webui

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

const maxEventBody = 4 << 10

// SearchResponse is the body of GET /api/skills/search.
type SearchResponse struct {
	Query  string             `json:"query"`
	Tag    string             `json:"tag"`
	Label  string             `json:"label"`
	Skills []skilltypes.Skill `json:"skills"`
	Tags   []catalog.TagCount `json:"tags"`
}

// EventRequest is the body of POST /api/events.
type EventRequest struct {
	SkillSlug string `json:"skillSlug"`
	Action    string `json:"action"`
	Agent     string `json:"agent,omitempty"`
}

// parseLimit reads the limit query parameter. Missing means 0 (the
// operation default); anything else must be a positive integer.
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.Wrapf(skilltypes.ErrValidation, "limit must be a positive integer, got %q", raw)
	}
	return limit, nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// listHandler adapts a limit-taking list operation into a handler.
func (s *Server) listHandler(message string, list func(r *http.Request, limit int) ([]skilltypes.Skill, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			s.writeServiceError(r.Context(), w, message, err)
			return
		}
		skills, err := list(r, limit)
		if err != nil {
			s.writeServiceError(r.Context(), w, message, err)
			return
		}
		s.writeJSONResponse(r.Context(), w, nonNil(skills))
	}
}

// handleListSkills handles GET /api/skills
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	s.listHandler("failed to list skills", func(r *http.Request, limit int) ([]skilltypes.Skill, error) {
		return s.service.List(r.Context(), limit)
	})(w, r)
}

// handleCountSkills handles GET /api/skills/count
func (s *Server) handleCountSkills(w http.ResponseWriter, r *http.Request) {
	count, err := s.service.Count(r.Context())
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to count skills", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, map[string]int{"count": count})
}

// handleSearchSkills handles GET /api/skills/search
func (s *Server) handleSearchSkills(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))

	skills, err := s.service.Search(ctx, query, tag)
	if err != nil {
		s.writeServiceError(ctx, w, "failed to search skills", err)
		return
	}
	tags, err := s.service.TagCounts(ctx)
	if err != nil {
		s.writeServiceError(ctx, w, "failed to count tags", err)
		return
	}

	s.writeJSONResponse(ctx, w, SearchResponse{
		Query:  query,
		Tag:    tag,
		Label:  catalog.ResultLabel(query, tag),
		Skills: nonNil(skills),
		Tags:   nonNil(catalog.SearchTagCounts(tags, query, tag)),
	})
}

// handleHitPicks handles GET /api/skills/hit-picks
func (s *Server) handleHitPicks(w http.ResponseWriter, r *http.Request) {
	s.listHandler("failed to load hit picks", func(r *http.Request, limit int) ([]skilltypes.Skill, error) {
		return s.service.HitPicks(r.Context(), limit)
	})(w, r)
}

// handleLatestDrops handles GET /api/skills/latest
func (s *Server) handleLatestDrops(w http.ResponseWriter, r *http.Request) {
	s.listHandler("failed to load latest drops", func(r *http.Request, limit int) ([]skilltypes.Skill, error) {
		return s.service.LatestDrops(r.Context(), limit)
	})(w, r)
}

// handleGetSkill handles GET /api/skills/{slug}
func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	skill, err := s.service.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to get skill", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, skill)
}

// handleLeaderboard handles GET /api/leaderboard/{kind}
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := mux.Vars(r)["kind"]
	kind := catalog.ParseLeaderboardKind(raw)
	if string(kind) != strings.ToLower(raw) {
		s.writeErrorResponse(ctx, w, http.StatusNotFound, "unknown leaderboard: "+raw, nil)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		s.writeServiceError(ctx, w, "failed to load leaderboard", err)
		return
	}

	entries, err := s.service.Leaderboard(ctx, kind, limit)
	if err != nil {
		s.writeServiceError(ctx, w, "failed to load leaderboard", err)
		return
	}
	s.writeJSONResponse(ctx, w, nonNil(entries))
}

// handleTagCounts handles GET /api/tags
func (s *Server) handleTagCounts(w http.ResponseWriter, r *http.Request) {
	tags, err := s.service.TagCounts(r.Context())
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to count tags", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, nonNil(tags))
}

// handleOrgStats handles GET /api/orgs/{org}
func (s *Server) handleOrgStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.OrgStats(r.Context(), mux.Vars(r)["org"])
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to load org", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, stats)
}

// handleOrgRepos handles GET /api/orgs/{org}/repos
func (s *Server) handleOrgRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := s.service.OrgRepos(r.Context(), mux.Vars(r)["org"])
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to load repos", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, nonNil(repos))
}

// handleOrgSkills handles GET /api/orgs/{org}/skills
func (s *Server) handleOrgSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.service.SkillsByOrg(r.Context(), mux.Vars(r)["org"])
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to load skills", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, nonNil(skills))
}

// handleRepoStats handles GET /api/orgs/{org}/repos/{repo}
func (s *Server) handleRepoStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stats, err := s.service.RepoStats(r.Context(), vars["org"], vars["repo"])
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to load repo", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, stats)
}

// handleRepoSkills handles GET /api/orgs/{org}/repos/{repo}/skills
func (s *Server) handleRepoSkills(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	skills, err := s.service.SkillsByRepo(r.Context(), vars["org"], vars["repo"])
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to load skills", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, nonNil(skills))
}

// handleOrgRepoSkill handles GET /api/orgs/{org}/repos/{repo}/skills/{slug}
func (s *Server) handleOrgRepoSkill(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	skill, err := s.service.GetByOrgRepoSlug(r.Context(), vars["org"], vars["repo"], vars["slug"])
	if err != nil {
		s.writeServiceError(r.Context(), w, "failed to get skill", err)
		return
	}
	s.writeJSONResponse(r.Context(), w, skill)
}

// handleRecordEvent handles POST /api/events. Events are fire-and-forget,
// so a stored event is acknowledged with 202 and no body beyond its id.
func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req EventRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		s.writeErrorResponse(ctx, w, http.StatusBadRequest, "failed to read request body", err)
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeErrorResponse(ctx, w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	event, err := s.service.RecordEvent(ctx,
		strings.TrimSpace(req.SkillSlug),
		skilltypes.Action(strings.TrimSpace(req.Action)),
		skilltypes.Agent(strings.TrimSpace(req.Agent)),
	)
	if err != nil {
		s.writeServiceError(ctx, w, "failed to record event", err)
		return
	}
	s.writeJSONStatus(ctx, w, http.StatusAccepted, map[string]any{"id": event.ID, "success": true})
}

// handleInstallCommand handles GET /api/install-command/{slug}?agent=
func (s *Server) handleInstallCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agent := s.agentParam(r)
	command, err := s.service.InstallCommand(ctx, mux.Vars(r)["slug"], agent)
	if err != nil {
		s.writeServiceError(ctx, w, "failed to resolve install command", err)
		return
	}
	s.writeJSONResponse(ctx, w, map[string]string{
		"command": command,
		"agent":   string(agent),
	})
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	s.writeErrorResponse(r.Context(), w, http.StatusNotFound, "no such endpoint: "+r.URL.Path, nil)
}

// agentParam reads the agent query parameter, falling back to the configured default.
func (s *Server) agentParam(r *http.Request) skilltypes.Agent {
	raw := strings.TrimSpace(r.URL.Query().Get("agent"))
	if raw == "" {
		return s.config.DefaultAgent
	}
	return skilltypes.ParseAgent(raw)
}
