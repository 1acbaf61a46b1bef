package seed

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gofrs/flock"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// Inserter is the part of the catalog store the seeder writes through.
type Inserter interface {
	InsertIfAbsent(ctx context.Context, skill catalog.Skill) (catalog.InsertStatus, error)
}

// Outcome is the per-skill result of a seed run.
type Outcome struct {
	Slug   string
	Name   string
	Status catalog.InsertStatus
	Err    error
}

// Report summarizes a seed run.
type Report struct {
	Inserted int
	Skipped  int
	Errors   int
	Total    int
	Outcomes []Outcome
}

// Err aggregates every failed skill, or returns nil.
func (r Report) Err() error {
	var result *multierror.Error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			result = multierror.Append(result, o.Err)
		}
	}
	return result.ErrorOrNil()
}

func appendErrors(err error, errs ...error) error {
	return multierror.Append(err, errs...).ErrorOrNil()
}

// Seeder inserts skills into a store.
type Seeder struct {
	store       Inserter
	lockPath    string
	attempts    uint
	retryDelay  time.Duration
	lockTimeout time.Duration
	onOutcome   func(Outcome)
}

// Option configures a Seeder
type Option func(*Seeder)

// WithLockFile serializes seed runs across processes through a lock file at path.
func WithLockFile(path string) Option {
	return func(s *Seeder) {
		s.lockPath = path
	}
}

// WithRetry sets how many times a failed insert is attempted and the initial backoff.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(s *Seeder) {
		s.attempts = attempts
		s.retryDelay = delay
	}
}

// WithLockTimeout bounds how long Run waits for the lock file.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Seeder) {
		s.lockTimeout = d
	}
}

// WithProgress registers a callback invoked after each skill.
func WithProgress(fn func(Outcome)) Option {
	return func(s *Seeder) {
		s.onOutcome = fn
	}
}

// NewSeeder creates a seeder writing to store.
func NewSeeder(store Inserter, opts ...Option) *Seeder {
	s := &Seeder{
		store:       store,
		attempts:    3,
		retryDelay:  100 * time.Millisecond,
		lockTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run normalizes, validates, and inserts skills. A skill that fails
// validation or insertion is counted as an error and the run continues.
func (s *Seeder) Run(ctx context.Context, skills []catalog.Skill) (Report, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return Report{}, err
	}
	defer unlock()

	log := logger.G(ctx)
	report := Report{Total: len(skills)}

	for _, raw := range skills {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		skill := catalog.Normalize(raw)
		outcome := Outcome{Slug: skill.Slug, Name: skill.Name}

		if err := catalog.Validate(skill); err != nil {
			outcome.Err = err
		} else {
			outcome.Status, outcome.Err = s.insert(ctx, skill)
		}

		switch {
		case outcome.Err != nil:
			report.Errors++
			log.WithError(outcome.Err).WithField("slug", skill.Slug).Warn("failed to seed skill")
		case outcome.Status == catalog.StatusInserted:
			report.Inserted++
		default:
			report.Skipped++
		}
		report.Outcomes = append(report.Outcomes, outcome)
		if s.onOutcome != nil {
			s.onOutcome(outcome)
		}
	}

	log.WithField("inserted", report.Inserted).
		WithField("skipped", report.Skipped).
		WithField("errors", report.Errors).
		Info("seeding complete")
	return report, nil
}

func (s *Seeder) insert(ctx context.Context, skill catalog.Skill) (catalog.InsertStatus, error) {
	return retry.DoWithData(
		func() (catalog.InsertStatus, error) {
			return s.store.InsertIfAbsent(ctx, skill)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(2*time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("slug", skill.Slug).
				WithField("attempt", n+1).
				Debug("retrying insert")
		}),
	)
}

func (s *Seeder) lock(ctx context.Context) (func(), error) {
	if s.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create lock directory")
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	fl := flock.New(s.lockPath)
	locked, err := fl.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to acquire seed lock %s", s.lockPath)
	}
	if !locked {
		return nil, errors.Errorf("seed lock %s is held by another process", s.lockPath)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			logger.G(ctx).WithError(err).Warn("failed to release seed lock")
		}
	}, nil
}
