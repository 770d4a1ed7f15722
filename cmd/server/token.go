package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/mealledger/internal/auth"
)

func (a *app) newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token ADMIN_ID",
		Short: "Issue a bearer token for an admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
