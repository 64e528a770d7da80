package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/foldery/clientcli"
)

var (
	createParent string
	createType   string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Long: `Create a folder and its storage bucket.

Examples:
  foldery-cli create invoices
  foldery-cli create 2024 --parent 6f1c...
  foldery-cli create contracts --type legal`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createParent, "parent", "", "id of the parent folder")
	createCmd.Flags().StringVar(&createType, "type", "", "folder type (server default when empty)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	folder, err := client.Create(cmd.Context(), clientcli.CreateOptions{
		Name:   args[0],
		Parent: createParent,
		Type:   createType,
	})
	if err != nil {
		return err
	}

	return getFormatter().FormatFolder(os.Stdout, folder)
}
