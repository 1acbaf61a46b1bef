package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [query]",
	Short: "Browse the catalog in an interactive terminal UI",
	Long: `Open a keyboard driven browser over the catalog. Press / to search, j and k or
the arrows to move, c to copy the install command, g to open the repo, Enter
for details, a to switch agent, t to cycle tags, and ? for help.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		ctx := cmd.Context()

		service, _, err := openService(ctx)
		if err != nil {
			return err
		}
		defer service.Close()

		return tui.Browse(ctx, service, tui.Options{
			Agent: appConfig.DefaultAgent(),
			Query: strings.Join(args, " "),
			Tag:   tag,
		})
	},
}

func init() {
	browseCmd.Flags().String("tag", "", "Start with this tag selected")
}
