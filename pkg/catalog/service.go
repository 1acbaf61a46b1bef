// Package catalog provides the query and ranking layer of the skill
// directory: pure ranking functions over a snapshot of skills, and a
// Service that fetches fresh snapshots from a Store and applies them.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/telemetry"
	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// LeaderboardKind selects a leaderboard ordering.
type LeaderboardKind string

const (
	LeaderboardAllTime  LeaderboardKind = "all-time"
	LeaderboardTrending LeaderboardKind = "trending"
	LeaderboardHot      LeaderboardKind = "hot"
)

// LeaderboardKinds lists the kinds in tab order.
var LeaderboardKinds = []LeaderboardKind{LeaderboardAllTime, LeaderboardTrending, LeaderboardHot}

// ParseLeaderboardKind maps a tab name to a kind. Unknown names default to all-time.
func ParseLeaderboardKind(s string) LeaderboardKind {
	switch LeaderboardKind(strings.ToLower(strings.TrimSpace(s))) {
	case LeaderboardTrending:
		return LeaderboardTrending
	case LeaderboardHot:
		return LeaderboardHot
	default:
		return LeaderboardAllTime
	}
}

// Service provides high-level catalog queries
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithClock overrides the time source used by hot ranking and events.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new catalog service
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

// Close closes the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

func traced[T any](ctx context.Context, name string, f func(context.Context) (T, error), attrs ...attribute.KeyValue) (T, error) {
	var result T
	err := telemetry.WithSpan(ctx, name, func(ctx context.Context) error {
		var err error
		result, err = f(ctx)
		return err
	}, attrs...)
	return result, err
}

// List returns up to limit skills in storage order.
func (s *Service) List(ctx context.Context, limit int) ([]catalog.Skill, error) {
	limit = limitOr(limit, DefaultListLimit)
	return traced(ctx, "catalog.list", func(ctx context.Context) ([]catalog.Skill, error) {
		skills, err := s.store.List(ctx, limit)
		return skills, errors.Wrap(err, "failed to list skills")
	}, attribute.Int("limit", limit))
}

// Count returns the number of skills in the directory.
func (s *Service) Count(ctx context.Context) (int, error) {
	return traced(ctx, "catalog.count", func(ctx context.Context) (int, error) {
		n, err := s.store.Count(ctx)
		return n, errors.Wrap(err, "failed to count skills")
	})
}

// GetBySlug looks up a skill by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (catalog.Skill, error) {
	return traced(ctx, "catalog.get_by_slug", func(ctx context.Context) (catalog.Skill, error) {
		return s.store.GetBySlug(ctx, slug)
	}, attribute.String("skill.slug", slug))
}

// GetByOrgRepoSlug looks up a skill by slug and requires it to live in org/repo.
func (s *Service) GetByOrgRepoSlug(ctx context.Context, org, repo, slug string) (catalog.Skill, error) {
	skill, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return catalog.Skill{}, err
	}
	if skill.Org != org || skill.Repo != repo {
		logger.G(ctx).WithField("slug", slug).
			WithField("org", org).
			WithField("repo", repo).
			Debug("skill exists under a different org or repo")
		return catalog.Skill{}, catalog.NotFoundf("skill %s/%s/%s", org, repo, slug)
	}
	return skill, nil
}

// Search filters the directory by query and tag. With neither set it returns
// the all-time ordering truncated to EmptySearchLimit.
func (s *Service) Search(ctx context.Context, query, tag string) ([]catalog.Skill, error) {
	query = strings.TrimSpace(query)
	tag = strings.TrimSpace(tag)
	return traced(ctx, "catalog.search", func(ctx context.Context) ([]catalog.Skill, error) {
		if query == "" && tag == "" {
			skills, err := s.store.TopByInstalls(ctx, EmptySearchLimit)
			return skills, errors.Wrap(err, "failed to load top skills")
		}
		all, err := s.store.All(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load skills")
		}
		return Search(all, query, tag), nil
	}, attribute.String("query", query), attribute.String("tag", tag))
}

// HitPicks returns the most installed skills.
func (s *Service) HitPicks(ctx context.Context, limit int) ([]catalog.Skill, error) {
	limit = limitOr(limit, DefaultSectionLimit)
	return traced(ctx, "catalog.hit_picks", func(ctx context.Context) ([]catalog.Skill, error) {
		skills, err := s.store.TopByInstalls(ctx, limit)
		return skills, errors.Wrap(err, "failed to load hit picks")
	})
}

// LatestDrops returns the most recently updated skills.
func (s *Service) LatestDrops(ctx context.Context, limit int) ([]catalog.Skill, error) {
	limit = limitOr(limit, DefaultSectionLimit)
	return traced(ctx, "catalog.latest_drops", func(ctx context.Context) ([]catalog.Skill, error) {
		skills, err := s.store.TopByLastUpdated(ctx, limit)
		return skills, errors.Wrap(err, "failed to load latest drops")
	})
}

// AllTime returns the all-time leaderboard.
func (s *Service) AllTime(ctx context.Context, limit int) ([]catalog.Skill, error) {
	limit = limitOr(limit, DefaultLeaderboardLimit)
	return traced(ctx, "catalog.leaderboard.all_time", func(ctx context.Context) ([]catalog.Skill, error) {
		skills, err := s.store.TopByInstalls(ctx, limit)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load all-time leaderboard")
		}
		return AllTime(skills, limit), nil
	})
}

// Trending returns the trending leaderboard.
func (s *Service) Trending(ctx context.Context, limit int) ([]catalog.Skill, error) {
	limit = limitOr(limit, DefaultLeaderboardLimit)
	return traced(ctx, "catalog.leaderboard.trending", func(ctx context.Context) ([]catalog.Skill, error) {
		skills, err := s.store.TopByLastUpdated(ctx, limit)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load trending leaderboard")
		}
		return Trending(skills, limit), nil
	})
}

// Hot returns the hot leaderboard scored at the service clock.
func (s *Service) Hot(ctx context.Context, limit int) ([]ScoredSkill, error) {
	limit = limitOr(limit, DefaultLeaderboardLimit)
	return traced(ctx, "catalog.leaderboard.hot", func(ctx context.Context) ([]ScoredSkill, error) {
		all, err := s.store.All(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load hot leaderboard")
		}
		return Hot(all, s.now(), limit), nil
	})
}

// Leaderboard returns the ranking for kind. Scores are only set for the hot kind.
func (s *Service) Leaderboard(ctx context.Context, kind LeaderboardKind, limit int) ([]ScoredSkill, error) {
	var (
		skills []catalog.Skill
		err    error
	)
	switch kind {
	case LeaderboardHot:
		return s.Hot(ctx, limit)
	case LeaderboardTrending:
		skills, err = s.Trending(ctx, limit)
	default:
		skills, err = s.AllTime(ctx, limit)
	}
	if err != nil {
		return nil, err
	}
	out := make([]ScoredSkill, len(skills))
	for i, sk := range skills {
		out[i] = ScoredSkill{Skill: sk}
	}
	return out, nil
}

// SkillsByOrg returns the org's skills by installs.
func (s *Service) SkillsByOrg(ctx context.Context, org string) ([]catalog.Skill, error) {
	return traced(ctx, "catalog.skills_by_org", func(ctx context.Context) ([]catalog.Skill, error) {
		skills, err := s.store.ByOrg(ctx, org)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load skills for org %s", org)
		}
		return SortByInstalls(skills), nil
	}, attribute.String("org", org))
}

// SkillsByRepo returns the repo's skills by installs.
func (s *Service) SkillsByRepo(ctx context.Context, org, repo string) ([]catalog.Skill, error) {
	return traced(ctx, "catalog.skills_by_repo", func(ctx context.Context) ([]catalog.Skill, error) {
		skills, err := s.store.ByOrgRepo(ctx, org, repo)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load skills for %s/%s", org, repo)
		}
		return SortByInstalls(skills), nil
	}, attribute.String("org", org), attribute.String("repo", repo))
}

// OrgStats aggregates an org. It returns a not-found error when the org has no skills.
func (s *Service) OrgStats(ctx context.Context, org string) (OrgStats, error) {
	skills, err := s.SkillsByOrg(ctx, org)
	if err != nil {
		return OrgStats{}, err
	}
	return ComputeOrgStats(org, skills)
}

// RepoStats aggregates a repo. It returns a not-found error when the repo has no skills.
func (s *Service) RepoStats(ctx context.Context, org, repo string) (RepoStats, error) {
	skills, err := s.SkillsByRepo(ctx, org, repo)
	if err != nil {
		return RepoStats{}, err
	}
	return ComputeRepoStats(org, repo, skills)
}

// OrgRepos groups an org's skills by repo.
func (s *Service) OrgRepos(ctx context.Context, org string) ([]RepoGroup, error) {
	skills, err := s.SkillsByOrg(ctx, org)
	if err != nil {
		return nil, err
	}
	return GroupByRepo(skills), nil
}

// TagCounts counts tags over the whole directory.
func (s *Service) TagCounts(ctx context.Context) ([]TagCount, error) {
	return traced(ctx, "catalog.tag_counts", func(ctx context.Context) ([]TagCount, error) {
		all, err := s.store.All(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load skills")
		}
		return CountTags(all), nil
	})
}

// InstallCommand resolves the command to install slug for agent.
func (s *Service) InstallCommand(ctx context.Context, slug string, agent catalog.Agent) (string, error) {
	skill, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	return catalog.ResolveCommand(skill, agent), nil
}

// RecordEvent appends an analytics event. The skill is not looked up.
func (s *Service) RecordEvent(ctx context.Context, slug string, action catalog.Action, agent catalog.Agent) (catalog.Event, error) {
	if strings.TrimSpace(slug) == "" {
		return catalog.Event{}, errors.Wrap(catalog.ErrValidation, "skill slug is required")
	}
	if !action.Valid() {
		return catalog.Event{}, errors.Wrapf(catalog.ErrValidation, "unknown action %q", action)
	}
	if agent != "" && !agent.IsKnown() {
		return catalog.Event{}, errors.Wrapf(catalog.ErrValidation, "unknown agent %q", agent)
	}

	event := catalog.Event{
		ID:        uuid.NewString(),
		SkillSlug: slug,
		Action:    action,
		Agent:     agent,
		Timestamp: s.now().UTC(),
	}
	err := telemetry.WithSpan(ctx, "catalog.record_event", func(ctx context.Context) error {
		return s.store.RecordEvent(ctx, event)
	}, attribute.String("skill.slug", slug), attribute.String("action", string(action)))
	if err != nil {
		return catalog.Event{}, errors.Wrap(err, "failed to record event")
	}

	logger.G(ctx).WithField("slug", slug).WithField("action", action).Debug("recorded event")
	return event, nil
}
