package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/presenter"
	"github.com/Akram012388/skillissue-world/pkg/seed"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [paths...]",
	Short: "Rewrite JSON and YAML data files with normalized skills",
	Long: `Normalize every skill in the JSON and YAML data files under the given paths:
lowercased slugs, org and repo, trimmed text, and deduplicated tags. Files
are rewritten in place only when something changed. Markdown files are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := seed.Expand(seedPaths(args, appConfig))
		if err != nil {
			return err
		}

		total := 0
		for _, f := range files {
			if !normalizable(f) {
				continue
			}
			changed, err := seed.NormalizeFile(f)
			if err != nil {
				return err
			}
			if changed > 0 {
				presenter.Success(fmt.Sprintf("Normalized %d skills in %s", changed, f))
			}
			total += changed
		}

		if total == 0 {
			presenter.Info("All data files are already normalized")
		}
		return nil
	},
}

func normalizable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
