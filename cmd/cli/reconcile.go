package main

import (
	"fmt"
	"io"

	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/service/reconcile"
	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	var failOnDrift bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare every fund total with the donations credited to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := bootstrap()
			if err != nil {
				return err
			}
			drifts, err := a.ReconcileService.Run(cmd.Context())
			if err != nil {
				return err
			}
			printDrifts(cmd.OutOrStdout(), drifts)
			if failOnDrift && len(drifts) > 0 {
				return fmt.Errorf("%d fund(s) drifted", len(drifts))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnDrift, "fail-on-drift", config.GetEnvAsBool(config.FailOnDriftVar, false),
		"exit non-zero when any fund drifted (default from "+config.FailOnDriftVar+")")
	return cmd
}

func printDrifts(w io.Writer, drifts []reconcile.Drift) {
	if len(drifts) == 0 {
		fmt.Fprintln(w, "all funds reconcile")
		return
	}
	t := newTable("FUND", "NAME", "CURRENT", "DONATED", "DIFFERENCE")
	for _, d := range drifts {
		t.Row(d.FundID.String(), d.FundName, money(d.CurrentAmount), money(d.DonatedAmount), money(d.Difference))
	}
	fmt.Fprintln(w, t.Render())
}
