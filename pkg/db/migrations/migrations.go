// Package migrations contains all database migrations for the skill catalog.
// Migrations use Rails-style timestamp versioning (YYYYMMDDHHmmss) and stick
// to SQL accepted by both SQLite and PostgreSQL.
package migrations

import (
	"github.com/Akram012388/skillissue-world/pkg/db"
)

// All returns all registered migrations in the correct order.
// New migrations should be added to this list.
func All() []db.Migration {
	return []db.Migration{
		Migration20261019090000CreateSkills(),
		Migration20261019090001AddSkillIndexes(),
		Migration20261019090002CreateEvents(),
	}
}
