package catalog

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

func TestSortByInstallsTieBreak(t *testing.T) {
	sorted := SortByInstalls(fixtures())
	assert.Equal(t, []string{"k8s-deploy", "pg-tune", "react-lint", "sec-scan", "prompt-kit"}, slugs(sorted))
}

func TestSortByLastUpdated(t *testing.T) {
	sorted := SortByLastUpdated(fixtures())
	assert.Equal(t, []string{"prompt-kit", "pg-tune", "k8s-deploy", "react-lint", "sec-scan"}, slugs(sorted))
}

func TestAllTimeExcludesUnverified(t *testing.T) {
	skills := fixtures()
	skills[1].Verified = false

	ranked := AllTime(skills, 0)
	assert.NotContains(t, slugs(ranked), "pg-tune")
	assert.Len(t, ranked, 4)
	assert.Len(t, AllTime(skills, 2), 2)
}

func TestTrending(t *testing.T) {
	assert.Equal(t, []string{"prompt-kit", "pg-tune"}, slugs(Trending(fixtures(), 2)))
}

func TestHeatScore(t *testing.T) {
	s := skill("x", "o", "r", 1000, 30)
	assert.InDelta(t, 1000*math.Exp(-1), HeatScore(s, testNow), 1e-6)

	fresh := skill("y", "o", "r", 1000, 0)
	assert.InDelta(t, 1000, HeatScore(fresh, testNow), 1e-9)

	future := fresh
	future.LastUpdated = testNow.Add(48 * time.Hour)
	assert.InDelta(t, 1000, HeatScore(future, testNow), 1e-9)
}

func TestHeatScoreMonotonic(t *testing.T) {
	base := skill("x", "o", "r", 100, 10)
	more := base
	more.Installs = 200
	older := base
	older.LastUpdated = base.LastUpdated.AddDate(0, 0, -5)

	assert.Greater(t, HeatScore(more, testNow), HeatScore(base, testNow))
	assert.Less(t, HeatScore(older, testNow), HeatScore(base, testNow))
}

func TestHot(t *testing.T) {
	ranked := Hot(fixtures(), testNow, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "pg-tune", ranked[0].Slug)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].HeatScore, ranked[i].HeatScore)
	}
}

func TestHotDefaultLimit(t *testing.T) {
	var many []catalog.Skill
	for i := 0; i < 60; i++ {
		many = append(many, skill(fmt.Sprintf("s%02d", i), "o", "r", int64(i), i))
	}
	assert.Len(t, Hot(many, testNow, 0), DefaultLeaderboardLimit)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		tag      string
		expected []string
	}{
		{"empty returns top by installs", "", "", []string{"k8s-deploy", "pg-tune", "react-lint", "sec-scan", "prompt-kit"}},
		{"whitespace is empty", "  ", " ", []string{"k8s-deploy", "pg-tune", "react-lint", "sec-scan", "prompt-kit"}},
		{"query matches org", "OPS", "", []string{"k8s-deploy", "sec-scan"}},
		{"query matches tag substring", "perf", "", []string{"pg-tune"}},
		{"query matches description", "lint things", "", []string{"react-lint"}},
		{"tag exact case-insensitive", "", "DevOps", []string{"k8s-deploy", "sec-scan"}},
		{"tag is not substring", "", "dev", []string{}},
		{"query and tag", "scan", "devops", []string{"sec-scan"}},
		{"no match", "zzz", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugs(Search(fixtures(), tt.query, tt.tag)))
		})
	}
}

func TestSearchResultsAreSubset(t *testing.T) {
	all := fixtures()
	for _, q := range []string{"a", "o", "t", "s"} {
		for _, r := range Search(all, q, "") {
			assert.True(t, MatchesQuery(r, q))
		}
	}
}

func TestSearchCaps(t *testing.T) {
	var many []catalog.Skill
	for i := 0; i < 70; i++ {
		many = append(many, skill(fmt.Sprintf("s%02d", i), "o", "r", int64(i), 1, "ai"))
	}

	empty := Search(many, "", "")
	require.Len(t, empty, EmptySearchLimit)
	assert.Equal(t, slugs(AllTime(many, EmptySearchLimit)), slugs(empty))

	assert.Len(t, Search(many, "skill", ""), SearchLimit)
	assert.Len(t, Search(many, "", "ai"), SearchLimit)
}
