package migrations

import (
	"database/sql"

	"github.com/Akram012388/skillissue-world/pkg/db"
	"github.com/pkg/errors"
)

// Migration20261019090001AddSkillIndexes adds the indexes backing the ranking queries.
func Migration20261019090001AddSkillIndexes() db.Migration {
	return db.Migration{
		Version:     20261019090001,
		Description: "Add skill ranking and lookup indexes",
		Up: func(tx *sql.Tx) error {
			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_skills_org_repo ON skills(org, repo)",
				"CREATE INDEX IF NOT EXISTS idx_skills_installs ON skills(installs DESC, slug)",
				"CREATE INDEX IF NOT EXISTS idx_skills_last_updated ON skills(last_updated DESC, slug)",
				"CREATE INDEX IF NOT EXISTS idx_skills_inserted_at ON skills(inserted_at, slug)",
			}

			for _, idx := range indexes {
				if _, err := tx.Exec(idx); err != nil {
					return errors.Wrap(err, "failed to create index")
				}
			}
			return nil
		},
		Down: func(tx *sql.Tx) error {
			dropIndexes := []string{
				"DROP INDEX IF EXISTS idx_skills_inserted_at",
				"DROP INDEX IF EXISTS idx_skills_last_updated",
				"DROP INDEX IF EXISTS idx_skills_installs",
				"DROP INDEX IF EXISTS idx_skills_org_repo",
			}

			for _, drop := range dropIndexes {
				if _, err := tx.Exec(drop); err != nil {
					return errors.Wrap(err, "failed to drop index")
				}
			}
			return nil
		},
	}
}
