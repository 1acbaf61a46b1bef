package migrations

import (
	"database/sql"

	"github.com/Akram012388/skillissue-world/pkg/db"
	"github.com/pkg/errors"
)

// Migration20261019090002CreateEvents creates the append-only analytics events table.
func Migration20261019090002CreateEvents() db.Migration {
	return db.Migration{
		Version:     20261019090002,
		Description: "Create events table",
		Up: func(tx *sql.Tx) error {
			statements := []string{
				`CREATE TABLE IF NOT EXISTS events (
					id TEXT PRIMARY KEY,
					skill_slug TEXT NOT NULL,
					action TEXT NOT NULL,
					agent TEXT,
					occurred_at TEXT NOT NULL
				)`,
				"CREATE INDEX IF NOT EXISTS idx_events_skill_slug ON events(skill_slug)",
			}
			for _, stmt := range statements {
				if _, err := tx.Exec(stmt); err != nil {
					return errors.Wrap(err, "failed to create events table")
				}
			}
			return nil
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS events")
			return errors.Wrap(err, "failed to drop events table")
		},
	}
}
