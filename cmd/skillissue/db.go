package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/db"
	"github.com/Akram012388/skillissue-world/pkg/db/migrations"
	"github.com/Akram012388/skillissue-world/pkg/presenter"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management commands",
	Long:  `Commands for managing the skillissue catalog database (migrations, status, etc.)`,
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database migration status",
	Long:  `Shows the current database migration status, including applied and pending migrations.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		conn, err := db.Connect(ctx, appConfig.Database.Driver, appConfig.Database.DSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		statuses, err := db.NewMigrationRunner(conn).Status(ctx, migrations.All())
		if err != nil {
			return errors.Wrap(err, "failed to get migration status")
		}

		fmt.Println("Database Migration Status")
		fmt.Println("=========================")
		fmt.Printf("Database: %s (%s)\n\n", displayDSN(appConfig.Database.Driver, appConfig.Database.DSN), appConfig.Database.Driver)

		appliedCount := 0
		for _, s := range statuses {
			status := "[ ]"
			if s.Applied {
				status = "[✓]"
				appliedCount++
			}
			fmt.Printf("%s %d - %s\n", status, s.Version, s.Description)
		}

		fmt.Printf("\nApplied: %d/%d migrations\n", appliedCount, len(statuses))
		return nil
	},
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		conn, err := db.Connect(ctx, appConfig.Database.Driver, appConfig.Database.DSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.RunMigrations(ctx, conn, migrations.All()); err != nil {
			return errors.Wrap(err, "failed to run migrations")
		}
		presenter.Success("Database is up to date")
		return nil
	},
}

var dbRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Rollback the last database migration",
	Long:  `Rolls back the most recently applied database migration. Useful for testing or downgrading skillissue.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		conn, err := db.Connect(ctx, appConfig.Database.Driver, appConfig.Database.DSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		runner := db.NewMigrationRunner(conn)
		statuses, err := runner.Status(ctx, migrations.All())
		if err != nil {
			return errors.Wrap(err, "failed to get migration status")
		}

		var last *db.MigrationStatus
		for i := range statuses {
			if statuses[i].Applied {
				last = &statuses[i]
			}
		}
		if last == nil {
			presenter.Warning("No migrations to rollback")
			return nil
		}

		presenter.Info(fmt.Sprintf("Rolling back migration %d: %s", last.Version, last.Description))

		version, err := runner.Rollback(ctx, migrations.All())
		if err != nil {
			return errors.Wrap(err, "failed to rollback migration")
		}

		presenter.Success(fmt.Sprintf("Successfully rolled back migration %d", version))
		return nil
	},
}

// displayDSN hides credentials in connection URLs.
func displayDSN(driver, dsn string) string {
	if driver == db.DriverSQLite || driver == "sqlite3" || driver == "" {
		return dsn
	}
	return "<connection url>"
}

func init() {
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbRollbackCmd)
}
