package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/config"
	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/presenter"
	"github.com/Akram012388/skillissue-world/pkg/seed"
	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed [paths...]",
	Short: "Insert skills from data files into the catalog",
	Long: `Load skills from JSON, YAML, and Markdown data files and insert every skill
whose slug is not already stored. Existing skills are left untouched.

Paths default to the seed.paths setting. With --watch the command keeps
running and reseeds whenever a data file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		paths := seedPaths(args, appConfig)

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		_, store, err := openService(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		seeder := newSeeder(store, appConfig)
		report, err := runSeed(ctx, seeder, paths)
		if !watch {
			if err != nil {
				return err
			}
			return report.Err()
		}
		if err != nil {
			presenter.Error(err, "Initial seed failed")
		}

		presenter.Info(fmt.Sprintf("Watching %v for changes. Press Ctrl+C to stop", paths))
		err = seed.Watch(ctx, paths, appConfig.Seed.Debounce, func(ctx context.Context) {
			if _, err := runSeed(ctx, seeder, paths); err != nil {
				presenter.Error(err, "Reseed failed")
			}
		})
		if err != nil {
			return err
		}
		presenter.Info("Stopped watching")
		return nil
	},
}

// seedPaths returns the command line paths, or the configured ones.
func seedPaths(args []string, cfg config.Config) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Seed.Paths
}

func newSeeder(store seed.Inserter, cfg config.Config) *seed.Seeder {
	opts := []seed.Option{
		seed.WithRetry(cfg.Seed.Retries, cfg.Seed.RetryDelay),
		seed.WithProgress(func(o seed.Outcome) {
			switch {
			case o.Err != nil:
				presenter.Error(o.Err, fmt.Sprintf("Failed to seed %s", o.Slug))
			case o.Status == catalog.StatusInserted:
				presenter.Success(fmt.Sprintf("Inserted %s (%s)", o.Slug, o.Name))
			default:
				logger.L.WithField("slug", o.Slug).Debug("skill already present, skipped")
			}
		}),
	}
	if cfg.Seed.LockFile != "" {
		opts = append(opts, seed.WithLockFile(cfg.Seed.LockFile))
	}
	return seed.NewSeeder(store, opts...)
}

func runSeed(ctx context.Context, seeder *seed.Seeder, paths []string) (seed.Report, error) {
	skills, err := seed.LoadPaths(paths)
	if err != nil {
		return seed.Report{}, errors.Wrap(err, "failed to load data files")
	}

	report, err := seeder.Run(ctx, skills)
	if err != nil {
		return report, err
	}
	presenter.Info(summarizeReport(report))
	return report, nil
}

// summarizeReport renders the one-line seed summary.
func summarizeReport(r seed.Report) string {
	return fmt.Sprintf("Seeded %d skills: %d inserted, %d skipped, %d errors", r.Total, r.Inserted, r.Skipped, r.Errors)
}

func init() {
	seedCmd.Flags().BoolP("watch", "w", false, "Keep running and reseed when data files change")
}
