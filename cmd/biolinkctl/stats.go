package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/biolink/internal/db"
	"github.com/biolink/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print view and click counters as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, _, err := opts.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			var profile db.Profile
			query := gdb.Select("id", "username")
			if username != "" {
				query = query.Where("username = ?", username)
			}
			if err := query.Order("id ASC").First(&profile).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("no profile found")
				}
				return err
			}

			stats, err := service.NewAnalyticsService(gdb).Stats(profile.ID)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(stats); err != nil {
				return fmt.Errorf("encode stats: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "profile to report (defaults to the owner)")
	return cmd
}
