package main

import (
	"errors"
	"fmt"

	"github.com/biolink/internal/auth"
	"github.com/biolink/internal/service"
	"github.com/spf13/cobra"
)

func newResetPasswordCmd(opts *rootOptions) *cobra.Command {
	var (
		username string
		password string
		hashCost int
	)

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for the owner account.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, cfg, err := opts.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			svc := service.NewAuthService(gdb, auth.NewManager(cfg.JWTSecret)).WithHashCost(hashCost)
			if err := svc.ResetPassword(username, password); err != nil {
				if errors.Is(err, service.ErrNotFound) {
					return fmt.Errorf("no profile named %q", username)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "password for %s updated\n", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "owner username")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().IntVar(&hashCost, "cost", service.DefaultHashCost, "bcrypt cost")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
