package main

import (
	"bytes"
	"testing"

	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/service/reconcile"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintFunds(t *testing.T) {
	var buf bytes.Buffer
	printFunds(&buf, []*fund.Fund{{
		ID:            uuid.New(),
		Name:          "Flood relief",
		Status:        fund.StatusActive,
		CurrentAmount: 950,
		TargetAmount:  1000,
	}})
	out := buf.String()
	assert.Contains(t, out, "Flood relief")
	assert.Contains(t, out, "950.00")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "TARGET")
	assert.Contains(t, out, "│")
}

func TestPrintDrifts(t *testing.T) {
	var buf bytes.Buffer
	printDrifts(&buf, nil)
	assert.Contains(t, buf.String(), "all funds reconcile")

	buf.Reset()
	printDrifts(&buf, []reconcile.Drift{{FundID: uuid.New(), FundName: "Roof", CurrentAmount: 10, DonatedAmount: 5, Difference: 5}})
	assert.Contains(t, buf.String(), "Roof")
	assert.Contains(t, buf.String(), "5.00")
}

func TestCommandTree(t *testing.T) {
	names := func(cmds []*cobra.Command) []string {
		out := make([]string, 0, len(cmds))
		for _, c := range cmds {
			out = append(out, c.Name())
		}
		return out
	}
	assert.ElementsMatch(t, []string{"up", "down", "version"}, names(migrateCmd().Commands()))
	assert.ElementsMatch(t, []string{"create", "activate", "list"}, names(fundCmd().Commands()))
	assert.NotNil(t, reconcileCmd().Flags().Lookup("fail-on-drift"))
}

func TestFlagDefaultsFromEnvironment(t *testing.T) {
	t.Setenv(config.FailOnDriftVar, "true")
	t.Setenv(config.MigrateStepVar, "3")

	assert.Equal(t, "true", reconcileCmd().Flags().Lookup("fail-on-drift").DefValue)

	down, _, err := migrateCmd().Find([]string{"down"})
	require.NoError(t, err)
	assert.Equal(t, "3", down.Flags().Lookup("steps").DefValue)
}
