package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/presenter"
	"github.com/Akram012388/skillissue-world/pkg/utils"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [all-time|trending|hot]",
	Short: "Show the top ranked skills",
	Long: `Show a leaderboard of verified skills. all-time ranks by installs, trending by
recent updates, and hot by heat score (installs decayed by age).`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: leaderboardKindNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		kind := catalog.LeaderboardAllTime
		if len(args) > 0 {
			var err error
			if kind, err = parseKind(args[0]); err != nil {
				return err
			}
		}
		if limit <= 0 {
			return errors.Errorf("limit must be positive, got %d", limit)
		}
		ctx := cmd.Context()

		service, _, err := openService(ctx)
		if err != nil {
			return err
		}
		defer service.Close()

		scored, err := service.Leaderboard(ctx, kind, limit)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(scored)
		}

		presenter.Section(fmt.Sprintf("Leaderboard · %s", kind))
		if len(scored) == 0 {
			presenter.Info("No skills yet")
			return nil
		}
		presenter.Table(leaderboardHeaders(kind), leaderboardRows(kind, scored))
		return nil
	},
}

func leaderboardKindNames() []string {
	names := make([]string, len(catalog.LeaderboardKinds))
	for i, k := range catalog.LeaderboardKinds {
		names[i] = string(k)
	}
	return names
}

// parseKind is strict, unlike catalog.ParseLeaderboardKind.
func parseKind(s string) (catalog.LeaderboardKind, error) {
	for _, k := range catalog.LeaderboardKinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", errors.Errorf("unknown leaderboard %q, expected one of %s", s, strings.Join(leaderboardKindNames(), ", "))
}

func leaderboardHeaders(kind catalog.LeaderboardKind) []string {
	headers := []string{"RANK", "SLUG", "ORG/REPO", "INSTALLS", "UPDATED"}
	if kind == catalog.LeaderboardHot {
		headers = append(headers, "HEAT")
	}
	return headers
}

func leaderboardRows(kind catalog.LeaderboardKind, scored []catalog.ScoredSkill) [][]string {
	rows := make([][]string, len(scored))
	for i, s := range scored {
		row := []string{
			fmt.Sprintf("%d", i+1),
			s.Slug,
			s.Org + "/" + s.Repo,
			utils.FormatNumber(s.Installs),
			s.LastUpdated.Format("2006-01-02"),
		}
		if kind == catalog.LeaderboardHot {
			row = append(row, utils.FormatFloat(s.HeatScore))
		}
		rows[i] = row
	}
	return rows
}

func init() {
	leaderboardCmd.Flags().IntP("limit", "n", catalog.DefaultLeaderboardLimit, "Maximum number of skills to show")
	leaderboardCmd.Flags().Bool("json", false, "Print results as JSON")
}
