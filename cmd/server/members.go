package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/mealledger/internal/models"
)

func (a *app) newMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage ledger members",
	}
	cmd.AddCommand(a.newMemberAddCmd(), a.newMemberListCmd(), a.newMemberStatusCmd())
	return cmd
}

func (a *app) newMemberAddCmd() *cobra.Command {
	var (
		id         string
		memberType string
		deposit    string
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return &models.ValidationError{Field: "name", Reason: "must not be empty"}
			}
			mt := models.MemberType(memberType)
			if !models.ValidMemberType(mt) {
				return &models.ValidationError{Field: "type", Reason: "must be employee or guest"}
			}
			amount, err := models.ParseMoney("deposit", deposit)
			if err != nil {
				return err
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			m := &models.Member{ID: id, Name: name, Type: mt, MonthlyDeposit: amount}
			if err := b.store.CreateMember(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "member ID (default: generated UUID)")
	cmd.Flags().StringVar(&memberType, "type", string(models.MemberTypeEmployee), "employee or guest")
	cmd.Flags().StringVar(&deposit, "deposit", "", "expected monthly deposit")
	return cmd
}

func (a *app) newMemberListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			members, err := b.store.ListMembers(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS\tMONTHLY DEPOSIT")
			for _, m := range members {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Type, m.Status, m.MonthlyDeposit.StringFixed(models.CentPlaces))
			}
			return tw.Flush()
		},
	}
}

func (a *app) newMemberStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status ID active|inactive|suspended",
		Short: "Change a member's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.MemberStatus(args[1])
			if !models.ValidMemberStatus(status) {
				return &models.ValidationError{Field: "status", Reason: "must be active, inactive or suspended"}
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			return b.store.SetMemberStatus(cmd.Context(), args[0], status)
		},
	}
}
