package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dikako/gdrive-downloader/application/download"
	"github.com/dikako/gdrive-downloader/infrastructure/config"
	"github.com/dikako/gdrive-downloader/infrastructure/drive"

	"github.com/spf13/cobra"
)

var (
	cfgFile         string
	credentialsFlag string
	outputDirFlag   string
	verbose         bool
	cfg             *config.Config
	cfgErr          error
)

var rootCmd = &cobra.Command{
	Use:   "gdrive-downloader",
	Short: "Download files from Google Drive by id, name, pattern, or folder path",
	Long: `gdrive-downloader fetches files from Google Drive using a read-only
service account:

  - Download a file by its Drive id
  - Search the whole corpus by exact name, substring, or regex
  - Walk a shared-drive folder path and pick the first matching file
  - Convert Google Docs, Sheets, and Slides to Office formats

Example:
  gdrive-downloader download 1aBcD3fGhIjKlMnOpQrStUvWxYz --out downloads
  gdrive-downloader search --folder-path "FinanceDrive/Reports/2024" --contains report`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cfgErr
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&credentialsFlag, "credentials", "", "service account credentials file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputDirFlag, "out", "", "destination directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log candidate checks and page fetches")
}

func initConfig() {
	explicit := cfgFile != ""
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	cfgErr = nil
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// The default config file is optional; flags can carry
		// everything commands need. A file named with --config must
		// load.
		cfg = nil
		if explicit {
			cfgErr = fmt.Errorf("load config %s: %w", cfgFile, err)
		}
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// newLogger builds the CLI logger: progress on stderr, candidate-level
// detail with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// credentialsPath resolves the service account file: flag first, then
// config.
func credentialsPath() (string, error) {
	if credentialsFlag != "" {
		return credentialsFlag, nil
	}
	if cfg != nil && cfg.Google.CredentialsFile != "" {
		return cfg.Google.CredentialsFile, nil
	}
	return "", fmt.Errorf("no credentials file; pass --credentials or set google.credentials_file in %s", cfgFile)
}

// outputDir resolves the destination directory: flag, then config, then
// the working directory.
func outputDir() string {
	if outputDirFlag != "" {
		return outputDirFlag
	}
	if cfg != nil && cfg.Download.Directory != "" {
		return cfg.Download.Directory
	}
	return "."
}

// acknowledgeAbuse combines a command's --ack-abuse flag with the
// config default.
func acknowledgeAbuse(flagValue bool) bool {
	if flagValue {
		return true
	}
	return cfg != nil && cfg.Download.AcknowledgeAbuse
}

// newDriveClient builds the Drive client with the cache and search
// settings from config.
func newDriveClient(ctx context.Context) (*drive.Client, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, err
	}

	opts := []drive.ClientOption{drive.WithLogger(newLogger())}
	if cfg != nil {
		if cfg.Search.ResultCap > 0 {
			opts = append(opts, drive.WithSearchCap(cfg.Search.ResultCap))
		}
		if cfg.Cache.Enabled {
			ttl, err := cfg.Cache.TTLDuration()
			if err != nil {
				return nil, err
			}
			opts = append(opts, drive.WithResolutionCache(ttl, cfg.Cache.Entries()))
		}
	}

	client, err := drive.NewClientFromFile(ctx, path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Drive client: %w", err)
	}
	return client, nil
}

// newService wires the download service over a fresh Drive client.
func newService(ctx context.Context) (*download.Service, error) {
	client, err := newDriveClient(ctx)
	if err != nil {
		return nil, err
	}
	return download.NewService(client, client, download.WithLogger(newLogger())), nil
}
