package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/presenter"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every skill from the catalog",
	Long: `Delete every skill from the catalog so it can be reseeded. Recorded
interaction events are kept.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		ctx := cmd.Context()

		_, store, err := openService(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if !yes && !presenter.Confirm("Delete every skill from the catalog?") {
			presenter.Info("Reset cancelled")
			return nil
		}

		deleted, err := store.DeleteAll(ctx)
		if err != nil {
			return err
		}
		presenter.Success(fmt.Sprintf("Deleted %d skills", deleted))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
