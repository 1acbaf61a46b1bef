package webui

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/catalog/sqlstore"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func fixture(slug, org, repo string, installs int64, age time.Duration, tags ...string) skilltypes.Skill {
	return skilltypes.Normalize(skilltypes.Skill{
		Slug:            slug,
		Name:            strings.ToUpper(slug[:1]) + slug[1:],
		Org:             org,
		Repo:            repo,
		Description:     "Description of " + slug,
		LongDescription: "## Usage\n\nRun **" + slug + "**.",
		Commands:        skilltypes.Commands{ClaudeCode: "claude add " + slug, Cursor: "cursor add " + slug},
		Tags:            tags,
		Agents:          []skilltypes.Agent{skilltypes.AgentCursor, skilltypes.AgentClaudeCode},
		Installs:        installs,
		Stars:           7,
		LastUpdated:     testNow.Add(-age),
		AddedAt:         testNow.Add(-age - 24*time.Hour),
		Verified:        true,
	})
}

type testEnv struct {
	server *Server
	store  *sqlstore.Store
}

func newTestEnv(t *testing.T, origins ...string) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlstore.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	day := 24 * time.Hour
	draft := fixture("draft", "acme", "tools", 10000, day, "testing")
	draft.Verified = false
	for _, s := range []skilltypes.Skill{
		fixture("pdf", "anthropics", "skills", 5000, 2*day, "documents"),
		fixture("lint", "acme", "tools", 300, 40*day, "testing"),
		fixture("deploy", "acme", "infra", 900, day, "devops", "testing"),
		draft,
	} {
		_, err := store.InsertIfAbsent(ctx, s)
		require.NoError(t, err)
	}

	service := catalog.NewService(store, catalog.WithClock(func() time.Time { return testNow }))
	server, err := NewServer(service, &ServerConfig{Host: "localhost", Port: 8080, CORSOrigins: origins})
	require.NoError(t, err)
	return &testEnv{server: server, store: store}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func slugs(skills []skilltypes.Skill) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = s.Slug
	}
	return out
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		config        *ServerConfig
		expectedError string
	}{
		{name: "valid config", config: &ServerConfig{Host: "localhost", Port: 8080}},
		{name: "empty host", config: &ServerConfig{Port: 8080}, expectedError: "host cannot be empty"},
		{name: "port too low", config: &ServerConfig{Host: "localhost", Port: 0}, expectedError: "port must be between 1 and 65535"},
		{name: "port too high", config: &ServerConfig{Host: "localhost", Port: 65536}, expectedError: "port must be between 1 and 65535"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestAPI_ListAndCount(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/skills", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.ElementsMatch(t, []string{"pdf", "lint", "deploy"}, slugs(decode[[]skilltypes.Skill](t, rec)))

	rec = env.do(t, "GET", "/api/skills?limit=1", "")
	assert.Len(t, decode[[]skilltypes.Skill](t, rec), 1)

	rec = env.do(t, "GET", "/api/skills?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, "GET", "/api/skills/count", "")
	assert.Equal(t, map[string]int{"count": 3}, decode[map[string]int](t, rec))
}

func TestAPI_Sections(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/skills/hit-picks?limit=2", "")
	assert.Equal(t, []string{"pdf", "deploy"}, slugs(decode[[]skilltypes.Skill](t, rec)))

	rec = env.do(t, "GET", "/api/skills/latest", "")
	assert.Equal(t, []string{"deploy", "pdf", "lint"}, slugs(decode[[]skilltypes.Skill](t, rec)))
}

func TestAPI_Search(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		target    string
		wantSlugs []string
		wantLabel string
		wantTags  []string
	}{
		{"empty returns top skills", "/api/skills/search", []string{"pdf", "deploy", "lint"}, "all skills", []string{"testing", "devops", "documents"}},
		{"query", "/api/skills/search?q=PDF", []string{"pdf"}, `"PDF"`, []string{}},
		{"tag", "/api/skills/search?tag=testing", []string{"deploy", "lint"}, "tag: testing", []string{"testing", "devops", "documents"}},
		{"query and tag", "/api/skills/search?q=acme&tag=devops", []string{"deploy"}, `"acme" · tag: devops`, []string{"devops"}},
		{"no match", "/api/skills/search?q=nothing", []string{}, `"nothing"`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "GET", tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decode[SearchResponse](t, rec)
			assert.Equal(t, tt.wantSlugs, slugs(resp.Skills))
			assert.Equal(t, tt.wantLabel, resp.Label)
			tags := make([]string, len(resp.Tags))
			for i, tc := range resp.Tags {
				tags[i] = tc.Tag
			}
			assert.Equal(t, tt.wantTags, tags)
		})
	}
}

func TestAPI_GetSkill(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/skills/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	skill := decode[skilltypes.Skill](t, rec)
	assert.Equal(t, "https://github.com/anthropics/skills", skill.RepoURL)

	for _, target := range []string{"/api/skills/missing", "/api/skills/draft"} {
		rec = env.do(t, "GET", target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, float64(http.StatusNotFound), body["status"])
	}
}

func TestAPI_Leaderboard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/leaderboard/all-time", "")
	entries := decode[[]catalog.ScoredSkill](t, rec)
	require.Len(t, entries, 3)
	assert.Equal(t, "pdf", entries[0].Slug)

	rec = env.do(t, "GET", "/api/leaderboard/trending?limit=1", "")
	entries = decode[[]catalog.ScoredSkill](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "deploy", entries[0].Slug)

	rec = env.do(t, "GET", "/api/leaderboard/hot", "")
	entries = decode[[]catalog.ScoredSkill](t, rec)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"pdf", "deploy", "lint"}, []string{entries[0].Slug, entries[1].Slug, entries[2].Slug})
	assert.InDelta(t, catalog.HeatScore(entries[0].Skill, testNow), entries[0].HeatScore, 1e-6)

	rec = env.do(t, "GET", "/api/leaderboard/weekly", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_OrgsAndRepos(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/orgs/acme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[catalog.OrgStats](t, rec)
	assert.Equal(t, catalog.OrgStats{Org: "acme", RepoCount: 2, SkillCount: 2, TotalInstalls: 1200, GithubURL: "https://github.com/acme"}, stats)

	rec = env.do(t, "GET", "/api/orgs/acme/repos", "")
	repos := decode[[]catalog.RepoGroup](t, rec)
	require.Len(t, repos, 2)
	assert.Equal(t, "infra", repos[0].Repo)

	rec = env.do(t, "GET", "/api/orgs/acme/skills", "")
	assert.Equal(t, []string{"deploy", "lint"}, slugs(decode[[]skilltypes.Skill](t, rec)))

	rec = env.do(t, "GET", "/api/orgs/acme/repos/tools", "")
	repo := decode[catalog.RepoStats](t, rec)
	assert.Equal(t, 1, repo.SkillCount)
	assert.Equal(t, "https://github.com/acme/tools", repo.RepoURL)

	rec = env.do(t, "GET", "/api/orgs/acme/repos/tools/skills", "")
	assert.Equal(t, []string{"lint"}, slugs(decode[[]skilltypes.Skill](t, rec)))

	rec = env.do(t, "GET", "/api/orgs/acme/repos/tools/skills/lint", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/api/orgs/acme/repos/tools/skills/pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, "GET", "/api/orgs/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, "GET", "/api/orgs/nobody/skills", "")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestAPI_RecordEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec := env.do(t, "POST", "/api/events", `{"skillSlug":"pdf","action":"copy","agent":"cursor"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["id"])

	n, err := env.store.CountEvents(ctx, "pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"skillSlug":`},
		{"unknown action", `{"skillSlug":"pdf","action":"like"}`},
		{"missing slug", `{"action":"copy"}`},
		{"unknown agent", `{"skillSlug":"pdf","action":"copy","agent":"vim"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "POST", "/api/events", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	n, err = env.store.CountEvents(ctx, "pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAPI_InstallCommand(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		target string
		want   string
	}{
		{"/api/install-command/pdf", "claude add pdf"},
		{"/api/install-command/pdf?agent=cursor", "cursor add pdf"},
		{"/api/install-command/pdf?agent=codex-cli", "claude add pdf"},
		{"/api/install-command/pdf?agent=unknown", "claude add pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := env.do(t, "GET", tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode[map[string]string](t, rec)["command"])
		})
	}

	rec := env.do(t, "GET", "/api/install-command/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_UnknownEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, "*.skillissue.world")

	request := func(method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/skills/count", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := request("GET", "https://app.skillissue.world")
	assert.Equal(t, "https://app.skillissue.world", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = request("GET", "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = request("GET", "https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = request("OPTIONS", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request("OPTIONS", "https://www.skillissue.world")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthAndVersion(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, float64(3), health["skills"])

	rec = env.do(t, "GET", "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec), "version")
}

func TestPages(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		target   string
		status   int
		contains []string
		excludes []string
	}{
		{"home", "/", 200, []string{"Hit Picks", "Latest Drops", "Hot Spots", "/skill/pdf", "claude add pdf"}, []string{"/skill/draft"}},
		{"home with agent", "/?agent=cursor", 200, []string{"cursor add pdf", "/skill/pdf?agent=cursor"}, nil},
		{"search", "/?q=pdf", 200, []string{"1 results", "/skill/pdf"}, []string{"Hit Picks", "/skill/lint"}},
		{"search no match", "/?q=zzz", 200, []string{"No skills match"}, nil},
		{"tag", "/?tag=devops", 200, []string{"tag: devops", "/skill/deploy"}, []string{"/skill/pdf"}},
		{"leaderboard", "/leaderboard", 200, []string{"All Time", "#1", "/skill/pdf"}, nil},
		{"leaderboard hot", "/leaderboard?tab=hot", 200, []string{"Hot decays", "🔥"}, nil},
		{"docs", "/docs", 200, []string{"Keyboard shortcuts"}, nil},
		{"skill", "/skill/pdf", 200, []string{"<h2 id=\"usage\">Usage</h2>", "<strong>pdf</strong>", "Claude Code", "Cursor"}, nil},
		{"skill with agent", "/skill/pdf?agent=cursor", 200, []string{`data-command="cursor add pdf"`}, nil},
		{"unknown skill", "/skill/missing", 404, []string{"Not found", "skill missing"}, nil},
		{"org", "/acme", 200, []string{"2 repos", "/acme/infra", "/skill/lint"}, nil},
		{"unknown org", "/nobody", 404, []string{"Back to all skills"}, nil},
		{"repo", "/acme/tools", 200, []string{"1 skills", "https://github.com/acme/tools"}, nil},
		{"org repo skill", "/anthropics/skills/pdf", 200, []string{"View on GitHub"}, nil},
		{"mismatched org", "/acme/tools/pdf", 404, []string{"Not found"}, nil},
		{"deep path", "/a/b/c/d", 404, []string{"Not found"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "GET", tt.target, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			body := rec.Body.String()
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestSkillPageRecordsView(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/skill/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)

	n, err := env.store.CountEvents(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/static/style.css", "/static/app.js"} {
		rec := env.do(t, "GET", path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	env := newTestEnv(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.Serve(ctx, listener) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
