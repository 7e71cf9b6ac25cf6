/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/suparena/routestore"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), routestore.GetVersionInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
