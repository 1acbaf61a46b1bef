// Package sqlstore implements the catalog store on a SQL database through
// sqlx. SQLite is the default backend and PostgreSQL works through pgx;
// queries are written once with ? placeholders and rebound per driver.
package sqlstore

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Akram012388/skillissue-world/pkg/db"
	"github.com/Akram012388/skillissue-world/pkg/db/migrations"
	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

const skillColumns = `slug, name, org, repo, description, long_description, commands,
	tags, agents, installs, stars, velocity, last_updated, added_at, repo_url,
	docs_url, featured, verified, inserted_at`

// Store implements catalog.Store on a SQL database
type Store struct {
	db  *sqlx.DB
	now func() time.Time

	mu   sync.Mutex
	last time.Time
}

// Open connects to the database, applies pending migrations, and returns a store.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	sqlDB, err := db.Connect(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB, migrations.All()); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	return NewStore(sqlDB), nil
}

// NewStore wraps an already migrated database.
func NewStore(sqlDB *sqlx.DB) *Store {
	return &Store{db: sqlDB, now: time.Now}
}

// DB exposes the underlying connection pool.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// insertedAt returns a strictly increasing timestamp so storage order follows insertion order.
func (s *Store) insertedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func (s *Store) selectSkills(ctx context.Context, query string, args ...any) ([]catalog.Skill, error) {
	var rows []dbSkill
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	skills := make([]catalog.Skill, 0, len(rows))
	for i := range rows {
		skill, err := rows[i].toSkill()
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, nil
}

// List returns up to limit skills in insertion order
func (s *Store) List(ctx context.Context, limit int) ([]catalog.Skill, error) {
	skills, err := s.selectSkills(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE verified = TRUE ORDER BY inserted_at ASC, slug ASC LIMIT ?", limit)
	return skills, errors.Wrap(err, "failed to list skills")
}

// GetBySlug retrieves a skill by slug
func (s *Store) GetBySlug(ctx context.Context, slug string) (catalog.Skill, error) {
	var row dbSkill
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind("SELECT "+skillColumns+" FROM skills WHERE slug = ? AND verified = TRUE"), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Skill{}, catalog.NotFoundf("skill %q", slug)
		}
		return catalog.Skill{}, errors.Wrap(err, "failed to load skill")
	}
	return row.toSkill()
}

// TopByInstalls returns the most installed skills
func (s *Store) TopByInstalls(ctx context.Context, limit int) ([]catalog.Skill, error) {
	skills, err := s.selectSkills(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE verified = TRUE ORDER BY installs DESC, slug ASC LIMIT ?", limit)
	return skills, errors.Wrap(err, "failed to query skills by installs")
}

// TopByLastUpdated returns the most recently updated skills
func (s *Store) TopByLastUpdated(ctx context.Context, limit int) ([]catalog.Skill, error) {
	skills, err := s.selectSkills(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE verified = TRUE ORDER BY last_updated DESC, slug ASC LIMIT ?", limit)
	return skills, errors.Wrap(err, "failed to query skills by last update")
}

// All returns every skill in insertion order
func (s *Store) All(ctx context.Context) ([]catalog.Skill, error) {
	skills, err := s.selectSkills(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE verified = TRUE ORDER BY inserted_at ASC, slug ASC")
	return skills, errors.Wrap(err, "failed to load skills")
}

// ByOrg returns an org's skills by installs
func (s *Store) ByOrg(ctx context.Context, org string) ([]catalog.Skill, error) {
	skills, err := s.selectSkills(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE verified = TRUE AND org = ? ORDER BY installs DESC, slug ASC", org)
	return skills, errors.Wrap(err, "failed to query skills by org")
}

// ByOrgRepo returns a repo's skills by installs
func (s *Store) ByOrgRepo(ctx context.Context, org, repo string) ([]catalog.Skill, error) {
	skills, err := s.selectSkills(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE verified = TRUE AND org = ? AND repo = ? ORDER BY installs DESC, slug ASC",
		org, repo)
	return skills, errors.Wrap(err, "failed to query skills by repo")
}

// Count returns the number of verified skills
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM skills WHERE verified = TRUE")
	return n, errors.Wrap(err, "failed to count skills")
}

// InsertIfAbsent inserts skill unless a row with the same slug exists
func (s *Store) InsertIfAbsent(ctx context.Context, skill catalog.Skill) (catalog.InsertStatus, error) {
	query := `
		INSERT INTO skills (
			slug, name, org, repo, description, long_description, commands,
			tags, agents, installs, stars, velocity, last_updated, added_at, repo_url,
			docs_url, featured, verified, inserted_at
		) VALUES (
			:slug, :name, :org, :repo, :description, :long_description, :commands,
			:tags, :agents, :installs, :stars, :velocity, :last_updated, :added_at, :repo_url,
			:docs_url, :featured, :verified, :inserted_at
		)
		ON CONFLICT (slug) DO NOTHING
	`
	res, err := s.db.NamedExecContext(ctx, query, fromSkill(skill, s.insertedAt()))
	if err != nil {
		return "", errors.Wrapf(err, "failed to insert skill %s", skill.Slug)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return catalog.StatusSkipped, nil
	}
	return catalog.StatusInserted, nil
}

// DeleteAll removes every skill, verified or not
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM skills")
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete skills")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read affected rows")
	}
	return int(n), nil
}

// RecordEvent appends an analytics event
func (s *Store) RecordEvent(ctx context.Context, event catalog.Event) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO events (id, skill_slug, action, agent, occurred_at)
		VALUES (:id, :skill_slug, :action, :agent, :occurred_at)
	`, fromEvent(event))
	return errors.Wrap(err, "failed to record event")
}

// CountEvents returns the number of events recorded for slug
func (s *Store) CountEvents(ctx context.Context, slug string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM events WHERE skill_slug = ?"), slug)
	return n, errors.Wrap(err, "failed to count events")
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
