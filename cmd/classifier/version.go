package main

import (
	"fmt"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var version = semver.Version{
	Major: 0,
	Minor: 3,
	Patch: 0,
	Build: semver.Commit(),
}

var showBuildInfo bool

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Display the application's version number",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if showBuildInfo {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.Core())
		return nil
	},
}

func init() {
	versionCommand.Flags().BoolVar(&showBuildInfo, "build-info", false, "show build information")
	rootCmd.AddCommand(versionCommand)
}
