package migrations

import (
	"database/sql"

	"github.com/Akram012388/skillissue-world/pkg/db"
	"github.com/pkg/errors"
)

// Migration20261019090000CreateSkills creates the skills table.
func Migration20261019090000CreateSkills() db.Migration {
	return db.Migration{
		Version:     20261019090000,
		Description: "Create skills table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS skills (
					slug TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					org TEXT NOT NULL,
					repo TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					long_description TEXT,
					commands TEXT NOT NULL,
					tags TEXT NOT NULL DEFAULT '[]',
					agents TEXT NOT NULL DEFAULT '[]',
					installs BIGINT NOT NULL DEFAULT 0,
					stars BIGINT NOT NULL DEFAULT 0,
					velocity DOUBLE PRECISION,
					last_updated TEXT NOT NULL,
					added_at TEXT NOT NULL,
					repo_url TEXT NOT NULL,
					docs_url TEXT,
					featured BOOLEAN NOT NULL DEFAULT FALSE,
					verified BOOLEAN NOT NULL DEFAULT FALSE,
					inserted_at TEXT NOT NULL
				)
			`)
			return errors.Wrap(err, "failed to create skills table")
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS skills")
			return errors.Wrap(err, "failed to drop skills table")
		},
	}
}
