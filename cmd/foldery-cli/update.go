package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sagarc03/foldery/clientcli"
)

var (
	updateName          string
	updateType          string
	updateRequiredFiles []string
	updateSubFolders    []string
	updateClearSubs     bool
	updateClearRequired bool
)

var updateCmd = &cobra.Command{
	Use:   "update <folder-id>",
	Short: "Change a folder's fields",
	Long: `Change the name, type, required files or sub folders of a folder.

Only the flags that are given are sent. List flags replace the whole list.

Examples:
  foldery-cli update 6f1c... --name invoices-2024
  foldery-cli update 6f1c... --required-file q1.pdf --required-file q2.pdf
  foldery-cli update 6f1c... --clear-sub-folders`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new folder name")
	updateCmd.Flags().StringVar(&updateType, "type", "", "new folder type")
	updateCmd.Flags().StringArrayVar(&updateRequiredFiles, "required-file", nil, "required file name (repeatable)")
	updateCmd.Flags().StringArrayVar(&updateSubFolders, "sub-folder", nil, "sub folder id (repeatable)")
	updateCmd.Flags().BoolVar(&updateClearSubs, "clear-sub-folders", false, "set sub folders to an empty list")
	updateCmd.Flags().BoolVar(&updateClearRequired, "clear-required-files", false, "set required files to an empty list")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	opts, err := updateOptions(cmd)
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	folder, err := client.Update(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	return getFormatter().FormatFolder(os.Stdout, folder)
}

func updateOptions(cmd *cobra.Command) (clientcli.UpdateOptions, error) {
	var opts clientcli.UpdateOptions
	flags := cmd.Flags()

	if flags.Changed("name") {
		opts.Name = &updateName
	}
	if flags.Changed("type") {
		opts.Type = &updateType
	}

	if flags.Changed("required-file") || updateClearRequired {
		required := make([]clientcli.RequiredFile, 0, len(updateRequiredFiles))
		for _, name := range updateRequiredFiles {
			required = append(required, clientcli.RequiredFile{Name: name})
		}
		opts.RequiredFiles = &required
	}

	if flags.Changed("sub-folder") || updateClearSubs {
		subs := make([]uuid.UUID, 0, len(updateSubFolders))
		for _, raw := range updateSubFolders {
			id, err := uuid.Parse(raw)
			if err != nil {
				return opts, fmt.Errorf("invalid sub folder id %q: %w", raw, err)
			}
			subs = append(subs, id)
		}
		opts.SubFolders = &subs
	}

	return opts, nil
}
