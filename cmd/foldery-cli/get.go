package main

import (
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <folder-id>",
	Short: "Show a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	folder, err := client.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return getFormatter().FormatFolder(os.Stdout, folder)
}
