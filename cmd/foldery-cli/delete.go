package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/foldery/clientcli"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <folder-id> [folder-id...]",
	Aliases: []string{"rm"},
	Short:   "Delete folders",
	Long: `Delete one or more folders together with their buckets.

Examples:
  foldery-cli delete 6f1c...
  foldery-cli delete -q 6f1c... 9a2b...`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Delete(cmd.Context(), clientcli.DeleteOptions{IDs: args})
	if err != nil {
		return err
	}

	if err := getFormatter().FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}

	return nil
}
