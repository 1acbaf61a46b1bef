package main

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/presenter"
	"github.com/Akram012388/skillissue-world/pkg/seed"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Check data files for invalid or duplicate skills",
	RunE: func(_ *cobra.Command, args []string) error {
		count, err := seed.ValidateFiles(seedPaths(args, appConfig))
		if err == nil {
			presenter.Success(fmt.Sprintf("%d skills are valid", count))
			return nil
		}

		problems := flattenErrors(err)
		for _, p := range problems {
			presenter.Error(p, "Invalid")
		}
		return errors.Errorf("found %d problems in %d skills", len(problems), count)
	},
}

// flattenErrors unwraps nested multierrors into their leaf errors.
func flattenErrors(err error) []error {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return []error{err}
	}
	var out []error
	for _, e := range merr.Errors {
		out = append(out, flattenErrors(e)...)
	}
	return out
}
