// Package versioncmder provides the version command.
package versioncmder

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hexlockco/alembic/pkg/cliui"
	"github.com/hexlockco/alembic/pkg/utils"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display build version information",
		Long:  "Display the version, commit, and build time of this binary.",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			cliui.KeyValue(os.Stdout, "Version", utils.Version)
			cliui.KeyValue(os.Stdout, "Commit", utils.Sha)
			cliui.KeyValue(os.Stdout, "Built", utils.Buildtime)
		},
	}
}
