package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/foldery/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "foldery",
	Short:   "Folder lifecycle server backed by object storage buckets",
	Long: `Foldery keeps per-user folder records in a metadata database and
gives each folder its own storage bucket. It serves a small REST API
for creating, listing, updating and deleting folders.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var configFiles []string
		if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
			configFiles = append(configFiles, configFile)
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres, badger, memory (env: FOLDERY_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (env: FOLDERY_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("storage-type", "", "storage type: filesystem, s3, memory (env: FOLDERY_STORAGE_TYPE)")
	rootCmd.PersistentFlags().String("storage-path", "", "filesystem storage directory (env: FOLDERY_STORAGE_FILESYSTEM_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: FOLDERY_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
