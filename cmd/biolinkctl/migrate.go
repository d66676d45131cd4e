package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, cfg, err := opts.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			fmt.Fprintf(cmd.OutOrStdout(), "database %s migrated\n", cfg.DatabasePath)
			return nil
		},
	}
}
