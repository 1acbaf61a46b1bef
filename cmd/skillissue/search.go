package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/presenter"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
	"github.com/Akram012388/skillissue-world/pkg/utils"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog by name, description, org, repo, and tags",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		asJSON, _ := cmd.Flags().GetBool("json")
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		ctx := cmd.Context()

		service, _, err := openService(ctx)
		if err != nil {
			return err
		}
		defer service.Close()

		skills, err := service.Search(ctx, query, tag)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(skills)
		}

		presenter.Section(fmt.Sprintf("%s · %d results", catalog.ResultLabel(query, tag), len(skills)))
		if len(skills) == 0 {
			presenter.Info("No skills found")
			return nil
		}
		presenter.Table(skillHeaders, skillRows(skills, appConfig.DefaultAgent()))
		return nil
	},
}

var skillHeaders = []string{"#", "SLUG", "ORG/REPO", "INSTALLS", "COMMAND"}

// skillRows renders one table row per skill with the install command for agent.
func skillRows(skills []skilltypes.Skill, agent skilltypes.Agent) [][]string {
	rows := make([][]string, len(skills))
	for i, s := range skills {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			s.Slug,
			s.Org + "/" + s.Repo,
			utils.FormatCount(s.Installs),
			skilltypes.ResolveCommand(s, agent),
		}
	}
	return rows
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

func init() {
	searchCmd.Flags().String("tag", "", "Only show skills with this tag")
	searchCmd.Flags().Bool("json", false, "Print results as JSON")
}
