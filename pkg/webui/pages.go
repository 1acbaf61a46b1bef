package webui

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/logger"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
	"github.com/Akram012388/skillissue-world/pkg/utils"
)

//go:embed templates/*.html static/*
var assetsFS embed.FS

// HomeSectionLimit is the size of each home page section.
const HomeSectionLimit = 8

var pageNames = []string{"home", "leaderboard", "docs", "skill", "org", "repo", "notfound"}

// viewState is the URL-carried UI state shared by every page.
type viewState struct {
	Query string
	Tag   string
	Agent skilltypes.Agent
	Tab   string
}

// link builds path with the view state that should survive navigation.
// Empty values and the default agent are omitted.
func (v viewState) link(path string, keepFilter bool) string {
	values := url.Values{}
	if keepFilter && v.Query != "" {
		values.Set("q", v.Query)
	}
	if keepFilter && v.Tag != "" {
		values.Set("tag", v.Tag)
	}
	if v.Agent != "" && v.Agent != skilltypes.DefaultAgent {
		values.Set("agent", string(v.Agent))
	}
	if encoded := values.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}

type agentOption struct {
	Agent    skilltypes.Agent
	Label    string
	Selected bool
	URL      string
}

type tagChip struct {
	Tag    string
	Count  int
	Active bool
	URL    string
}

type pageData struct {
	Title  string
	State  viewState
	Agents []agentOption
	Now    time.Time
	Body   any
}

type homeBody struct {
	Count     int64
	Searching bool
	Label     string
	Results   []skilltypes.Skill
	Tags      []tagChip
	HitPicks  []skilltypes.Skill
	Latest    []skilltypes.Skill
	HotSpots  []catalog.ScoredSkill
	ClearURL  string
}

type leaderboardTab struct {
	Kind   catalog.LeaderboardKind
	Label  string
	Active bool
	URL    string
}

type leaderboardBody struct {
	Tabs    []leaderboardTab
	Kind    catalog.LeaderboardKind
	Entries []catalog.ScoredSkill
}

type agentCommand struct {
	Label    string
	Command  string
	Declared bool
}

type skillBody struct {
	Skill       skilltypes.Skill
	Command     string
	Commands    []agentCommand
	Description template.HTML
	UnknownTags []string
}

type orgBody struct {
	Stats catalog.OrgStats
	Repos []catalog.RepoGroup
}

type repoBody struct {
	Stats  catalog.RepoStats
	Skills []skilltypes.Skill
}

type notFoundBody struct {
	What string
}

// skillItem is one row of a skill list.
type skillItem struct {
	State viewState
	Skill skilltypes.Skill
	Rank  int
	Score float64
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatCount":  utils.FormatCount,
		"formatNumber": utils.FormatNumber,
		"formatFloat":  utils.FormatFloat,
		"relativeTime": utils.FormatRelativeTime,
		"truncate":     utils.Truncate,
		"agentLabel":   func(a skilltypes.Agent) string { return a.Label() },
		"sortedAgents": skilltypes.SortedAgents,
		"resolve":      skilltypes.ResolveCommand,
		"item": func(state viewState, s skilltypes.Skill) skillItem {
			return skillItem{State: state, Skill: s}
		},
		"ranked": func(state viewState, i int, s catalog.ScoredSkill) skillItem {
			return skillItem{State: state, Skill: s.Skill, Rank: i + 1, Score: s.HeatScore}
		},
		"skillURL": func(state viewState, s skilltypes.Skill) string {
			return state.link(s.DetailPath(), false)
		},
		"pageURL": func(state viewState, path string) string {
			return state.link(path, false)
		},
	}
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs()).ParseFS(assetsFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s template", name)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) viewState(r *http.Request) viewState {
	q := r.URL.Query()
	return viewState{
		Query: strings.TrimSpace(q.Get("q")),
		Tag:   strings.TrimSpace(q.Get("tag")),
		Agent: s.agentParam(r),
		Tab:   strings.TrimSpace(q.Get("tab")),
	}
}

func (s *Server) newPage(r *http.Request, title string, body any) pageData {
	state := s.viewState(r)
	agents := make([]agentOption, 0, len(skilltypes.KnownAgents()))
	for _, a := range skilltypes.KnownAgents() {
		withAgent := state
		withAgent.Agent = a
		agents = append(agents, agentOption{
			Agent:    a,
			Label:    a.Label(),
			Selected: a == state.Agent,
			URL:      withAgent.link(r.URL.Path, true),
		})
	}
	return pageData{Title: title, State: state, Agents: agents, Now: time.Now(), Body: body}
}

func (s *Server) render(ctx context.Context, w http.ResponseWriter, status int, page string, data pageData) {
	t, ok := s.pages[page]
	if !ok {
		s.writeErrorResponse(ctx, w, http.StatusInternalServerError, "failed to render page", errors.Errorf("unknown page %s", page))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logger.G(ctx).WithError(err).WithField("page", page).Error("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows the not-found page for lookup misses and a 500 otherwise.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, what string, err error) {
	if skilltypes.IsNotFound(err) {
		s.render(r.Context(), w, http.StatusNotFound, "notfound", s.newPage(r, "Not found", notFoundBody{What: what}))
		return
	}
	logger.G(r.Context()).WithError(err).Error("failed to load page")
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}

func (s *Server) tagChips(state viewState, counts []catalog.TagCount) []tagChip {
	chips := make([]tagChip, 0, len(counts))
	for _, tc := range counts {
		active := strings.EqualFold(tc.Tag, state.Tag)
		next := state
		next.Tag = tc.Tag
		if active {
			next.Tag = ""
		}
		chips = append(chips, tagChip{
			Tag:    tc.Tag,
			Count:  tc.Count,
			Active: active,
			URL:    next.link("/", true),
		})
	}
	return chips
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := s.newPage(r, "Agent skills directory", nil)
	state := page.State

	count, err := s.service.Count(ctx)
	if err != nil {
		s.renderError(w, r, "", err)
		return
	}
	tags, err := s.service.TagCounts(ctx)
	if err != nil {
		s.renderError(w, r, "", err)
		return
	}

	body := homeBody{Count: int64(count)}
	if state.Query != "" || state.Tag != "" {
		results, err := s.service.Search(ctx, state.Query, state.Tag)
		if err != nil {
			s.renderError(w, r, "", err)
			return
		}
		cleared := state
		cleared.Query, cleared.Tag = "", ""
		body.Searching = true
		body.Label = catalog.ResultLabel(state.Query, state.Tag)
		body.Results = results
		body.Tags = s.tagChips(state, catalog.SearchTagCounts(tags, state.Query, state.Tag))
		body.ClearURL = cleared.link("/", false)
	} else {
		if body.HitPicks, err = s.service.HitPicks(ctx, HomeSectionLimit); err != nil {
			s.renderError(w, r, "", err)
			return
		}
		if body.Latest, err = s.service.LatestDrops(ctx, HomeSectionLimit); err != nil {
			s.renderError(w, r, "", err)
			return
		}
		if body.HotSpots, err = s.service.Hot(ctx, HomeSectionLimit); err != nil {
			s.renderError(w, r, "", err)
			return
		}
		body.Tags = s.tagChips(state, tags)
	}

	page.Body = body
	s.render(ctx, w, http.StatusOK, "home", page)
}

func (s *Server) handleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := s.newPage(r, "Leaderboard", nil)
	kind := catalog.ParseLeaderboardKind(page.State.Tab)

	entries, err := s.service.Leaderboard(ctx, kind, catalog.DefaultLeaderboardLimit)
	if err != nil {
		s.renderError(w, r, "", err)
		return
	}

	labels := map[catalog.LeaderboardKind]string{
		catalog.LeaderboardAllTime:  "All Time",
		catalog.LeaderboardTrending: "Trending",
		catalog.LeaderboardHot:      "Hot",
	}
	tabs := make([]leaderboardTab, 0, len(catalog.LeaderboardKinds))
	for _, k := range catalog.LeaderboardKinds {
		u := page.State.link("/leaderboard", false)
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		tabs = append(tabs, leaderboardTab{
			Kind:   k,
			Label:  labels[k],
			Active: k == kind,
			URL:    u + sep + "tab=" + url.QueryEscape(string(k)),
		})
	}

	page.Body = leaderboardBody{Tabs: tabs, Kind: kind, Entries: entries}
	s.render(ctx, w, http.StatusOK, "leaderboard", page)
}

func (s *Server) handleDocsPage(w http.ResponseWriter, r *http.Request) {
	s.render(r.Context(), w, http.StatusOK, "docs", s.newPage(r, "Docs", nil))
}

func (s *Server) handleSkillPage(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	skill, err := s.service.GetBySlug(r.Context(), slug)
	if err != nil {
		s.renderError(w, r, "skill "+slug, err)
		return
	}
	s.renderSkill(w, r, skill)
}

func (s *Server) handleOrgRepoSkillPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	skill, err := s.service.GetByOrgRepoSlug(r.Context(), vars["org"], vars["repo"], vars["slug"])
	if err != nil {
		s.renderError(w, r, "skill "+vars["org"]+"/"+vars["repo"]+"/"+vars["slug"], err)
		return
	}
	s.renderSkill(w, r, skill)
}

func (s *Server) renderSkill(w http.ResponseWriter, r *http.Request, skill skilltypes.Skill) {
	ctx := r.Context()
	page := s.newPage(r, skill.Name, nil)

	description, err := s.markdown.Render(skill.LongDescription)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("slug", skill.Slug).Warn("failed to render long description")
	}

	declared := make(map[skilltypes.Agent]bool, len(skill.Agents))
	for _, a := range skill.Agents {
		declared[a] = true
	}
	commands := make([]agentCommand, 0, len(skilltypes.KnownAgents()))
	for _, a := range skilltypes.SortedAgents(skilltypes.KnownAgents()) {
		commands = append(commands, agentCommand{
			Label:    a.Label(),
			Command:  skilltypes.ResolveCommand(skill, a),
			Declared: declared[a],
		})
	}

	if _, err := s.service.RecordEvent(ctx, skill.Slug, skilltypes.ActionView, page.State.Agent); err != nil {
		logger.G(ctx).WithError(err).WithField("slug", skill.Slug).Warn("failed to record view")
	}

	page.Body = skillBody{
		Skill:       skill,
		Command:     skilltypes.ResolveCommand(skill, page.State.Agent),
		Commands:    commands,
		Description: description,
		UnknownTags: skilltypes.UnknownTags(skill),
	}
	s.render(ctx, w, http.StatusOK, "skill", page)
}

func (s *Server) handleOrgPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	org := mux.Vars(r)["org"]

	stats, err := s.service.OrgStats(ctx, org)
	if err != nil {
		s.renderError(w, r, "org "+org, err)
		return
	}
	repos, err := s.service.OrgRepos(ctx, org)
	if err != nil {
		s.renderError(w, r, "org "+org, err)
		return
	}

	page := s.newPage(r, org, orgBody{Stats: stats, Repos: repos})
	s.render(ctx, w, http.StatusOK, "org", page)
}

func (s *Server) handleRepoPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	stats, err := s.service.RepoStats(ctx, vars["org"], vars["repo"])
	if err != nil {
		s.renderError(w, r, "repo "+vars["org"]+"/"+vars["repo"], err)
		return
	}
	skills, err := s.service.SkillsByRepo(ctx, vars["org"], vars["repo"])
	if err != nil {
		s.renderError(w, r, "repo "+vars["org"]+"/"+vars["repo"], err)
		return
	}

	page := s.newPage(r, vars["org"]+"/"+vars["repo"], repoBody{Stats: stats, Skills: skills})
	s.render(ctx, w, http.StatusOK, "repo", page)
}

func (s *Server) handleNotFoundPage(w http.ResponseWriter, r *http.Request) {
	s.render(r.Context(), w, http.StatusNotFound, "notfound", s.newPage(r, "Not found", notFoundBody{What: "page " + r.URL.Path}))
}
