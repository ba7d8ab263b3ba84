package main

import (
	"fmt"
	"io"
	"time"

	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func fundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Create, activate and list funds",
	}
	cmd.AddCommand(fundCreateCmd(), fundActivateCmd(), fundListCmd())
	return cmd
}

func fundCreateCmd() *cobra.Command {
	var (
		name        string
		description string
		target      float64
		activate    bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a pending fund",
		Example: `  donation fund create --name "Flood relief" --target 100000
  donation fund create --name "School roof" --target 5000 --activate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := bootstrap()
			if err != nil {
				return err
			}
			f, err := a.FundService.Create(cmd.Context(), dto.FundCreate{
				Name:         name,
				Description:  description,
				TargetAmount: target,
				StartDate:    time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			if activate {
				if f, err = a.FundService.Activate(cmd.Context(), f.ID); err != nil {
					return err
				}
			}
			printFunds(cmd.OutOrStdout(), []*fund.Fund{f})
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "fund name")
	cmd.Flags().StringVar(&description, "description", "", "fund description")
	cmd.Flags().Float64Var(&target, "target", 0, "target amount")
	cmd.Flags().BoolVar(&activate, "activate", false, "make the new fund the active one")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func fundActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <fund-id>",
		Short: "Make a fund the one receiving donations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid fund id: %w", err)
			}
			a, _, err := bootstrap()
			if err != nil {
				return err
			}
			f, err := a.FundService.Activate(cmd.Context(), id)
			if err != nil {
				return err
			}
			printFunds(cmd.OutOrStdout(), []*fund.Fund{f})
			return nil
		},
	}
}

func fundListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all funds",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := bootstrap()
			if err != nil {
				return err
			}
			funds, err := a.FundService.List(cmd.Context())
			if err != nil {
				return err
			}
			printFunds(cmd.OutOrStdout(), funds)
			return nil
		},
	}
}

func printFunds(w io.Writer, funds []*fund.Fund) {
	t := newTable("ID", "NAME", "STATUS", "CURRENT", "TARGET")
	for _, f := range funds {
		t.Row(f.ID.String(), f.Name, string(f.Status), money(f.CurrentAmount), money(f.TargetAmount))
	}
	fmt.Fprintln(w, t.Render())
}
