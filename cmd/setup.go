package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dikako/gdrive-downloader/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up your configuration file
with the Google credentials path, download defaults, and the optional
search cap and resolution cache.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, config.DefaultPath)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to gdrive-downloader setup!")
	fmt.Println()

	cfg := &config.Config{}

	// Google section
	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	// Download section
	if err := promptDownload(prompter, cfg); err != nil {
		return err
	}

	// Search section
	if err := promptSearch(prompter, cfg); err != nil {
		return err
	}

	// Cache section
	if err := promptCache(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	credentials, err := prompter.Input("Path to Google service account credentials?", "credentials.json")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials == "" {
		credentials = "credentials.json"
	}
	cfg.Google.CredentialsFile = credentials
	return nil
}

func promptDownload(prompter Prompter, cfg *config.Config) error {
	directory, err := prompter.Input("Where should downloaded files go?", ".")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if directory == "" {
		directory = "."
	}
	cfg.Download.Directory = directory

	ackAbuse, err := prompter.Confirm("Acknowledge Drive abuse warnings on folder-path downloads?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Download.AcknowledgeAbuse = ackAbuse

	return nil
}

func promptSearch(prompter Prompter, cfg *config.Config) error {
	limit, err := prompter.Input("Stop name searches after how many files? (0 means no cap)", "0")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if limit == "" {
		limit = "0"
	}
	n, err := strconv.Atoi(limit)
	if err != nil || n < 0 {
		return fmt.Errorf("search cap must be a non-negative number")
	}
	cfg.Search.ResultCap = n
	return nil
}

func promptCache(prompter Prompter, cfg *config.Config) error {
	enabled, err := prompter.Confirm("Cache drive and folder lookups?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Cache.Enabled = enabled
	if !enabled {
		return nil
	}

	ttl, err := prompter.Input("How long should cached lookups live?", "5m")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ttl == "" {
		ttl = "5m"
	}
	if _, err := time.ParseDuration(ttl); err != nil {
		return fmt.Errorf("cache TTL must be a duration like 5m or 1h")
	}
	cfg.Cache.TTL = ttl

	entries, err := prompter.Input("Maximum cached lookups? (0 uses the default)", "128")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if entries == "" {
		entries = "128"
	}
	n, err := strconv.Atoi(entries)
	if err != nil || n < 0 {
		return fmt.Errorf("cache size must be a non-negative number")
	}
	cfg.Cache.MaxEntries = n

	return nil
}
