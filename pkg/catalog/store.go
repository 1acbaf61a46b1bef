package catalog

import (
	"context"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// Store defines persistence for the skill catalog. Read methods return
// verified skills only.
type Store interface {
	List(ctx context.Context, limit int) ([]catalog.Skill, error)
	GetBySlug(ctx context.Context, slug string) (catalog.Skill, error)
	TopByInstalls(ctx context.Context, limit int) ([]catalog.Skill, error)
	TopByLastUpdated(ctx context.Context, limit int) ([]catalog.Skill, error)
	All(ctx context.Context) ([]catalog.Skill, error)
	ByOrg(ctx context.Context, org string) ([]catalog.Skill, error)
	ByOrgRepo(ctx context.Context, org, repo string) ([]catalog.Skill, error)
	Count(ctx context.Context) (int, error)

	// InsertIfAbsent stores skill unless its slug exists. A duplicate is reported
	// as StatusSkipped, never as an error.
	InsertIfAbsent(ctx context.Context, skill catalog.Skill) (catalog.InsertStatus, error)
	// DeleteAll removes every skill and returns how many were deleted.
	DeleteAll(ctx context.Context) (int, error)
	RecordEvent(ctx context.Context, event catalog.Event) error

	Close() error
}
