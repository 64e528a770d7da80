package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/foldery/config"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Find folders whose bucket is missing",
	Long: `Walk the folder records and check that each one has its bucket.

Folder creation stores the record before creating the bucket, so a failed
bucket call can leave a record behind without one. This command reports
such folders and, with --repair, creates the missing buckets.

The report is printed as JSON on stdout.`,
	Example: `  foldery reconcile
  foldery reconcile --owner alice --repair`,
	RunE: runReconcile,
}

var (
	reconcileOwner  string
	reconcileRepair bool
)

func init() {
	reconcileCmd.Flags().StringVar(&reconcileOwner, "owner", "", "only check folders of this owner (default: all owners)")
	reconcileCmd.Flags().BoolVar(&reconcileRepair, "repair", false, "create missing buckets")

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	service, cleanup, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := service.Reconcile(ctx, reconcileOwner, reconcileRepair)
	if err != nil {
		slog.Error("reconcile stopped early", "checked", report.Checked, "err", err)
		return fmt.Errorf("reconcile: %w", err)
	}

	slog.Info("reconcile complete",
		"checked", report.Checked,
		"missing", len(report.Missing),
		"repaired", len(report.Repaired),
		"invalid", len(report.Invalid),
	)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
