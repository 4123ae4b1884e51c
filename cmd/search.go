package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dikako/gdrive-downloader/application/download"
	"github.com/dikako/gdrive-downloader/domain/locator"
	"github.com/dikako/gdrive-downloader/domain/transfer"

	"github.com/spf13/cobra"
)

var (
	searchName       string
	searchContains   string
	searchRegex      string
	searchFolderPath string
	searchAckAbuse   bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find a file by name and download it",
	Long: `Find the first file matching a name selector and download it.

Exactly one selector is required: --name for an exact match, --contains
for a substring, or --regex for a pattern the whole name must match.
The first match in listing order wins, so repeated runs against an
unchanged corpus pick the same file.

Without --folder-path the whole corpus is searched and the file streams
raw. With --folder-path the walk starts at the shared drive named by
the first segment, descends the remaining folders in order, and picks
from that final folder only; Google documents convert to Office formats
and --ack-abuse is honored.

Examples:
  gdrive-downloader search --name "weekly report.csv"
  gdrive-downloader search --regex 'backup_\d{4}\.zip'
  gdrive-downloader search --folder-path "FinanceDrive/Reports/2024" --contains report`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchName, "name", "", "exact file name")
	searchCmd.Flags().StringVar(&searchContains, "contains", "", "substring of the file name")
	searchCmd.Flags().StringVar(&searchRegex, "regex", "", "pattern the whole file name must match")
	searchCmd.Flags().StringVar(&searchFolderPath, "folder-path", "", `shared drive and folders, e.g. "FinanceDrive/Reports/2024"`)
	searchCmd.Flags().BoolVar(&searchAckAbuse, "ack-abuse", false, "download files Drive flagged as malware or abusive (needs --folder-path)")
	searchCmd.MarkFlagsMutuallyExclusive("name", "contains", "regex")
}

func runSearch(cmd *cobra.Command, args []string) error {
	in := SearchInput{
		Name:       searchName,
		Contains:   searchContains,
		Regex:      searchRegex,
		FolderPath: searchFolderPath,
		AckAbuse:   searchAckAbuseValue(searchAckAbuse, searchFolderPath),
	}
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	return RunSearchWithDependencies(cmd.Context(), svc, in, outputDir(), os.Stdout)
}

// searchAckAbuseValue folds the config default into the flag value.
// The default applies only to folder-path searches; corpus-wide
// searches always download raw, so only an explicitly passed flag
// should trip the folder-path guard there.
func searchAckAbuseValue(flagValue bool, folderPath string) bool {
	if folderPath == "" {
		return flagValue
	}
	return acknowledgeAbuse(flagValue)
}

// SearchInput carries the search command's flag values.
type SearchInput struct {
	Name       string
	Contains   string
	Regex      string
	FolderPath string
	AckAbuse   bool
}

// RunSearchWithDependencies runs the search with injected dependencies
// (for testing)
func RunSearchWithDependencies(ctx context.Context, svc *download.Service, in SearchInput, destDir string, output io.Writer) error {
	selectors := 0
	for _, s := range []string{in.Name, in.Contains, in.Regex} {
		if s != "" {
			selectors++
		}
	}
	if selectors != 1 {
		return fmt.Errorf("exactly one of --name, --contains, or --regex is required")
	}

	var (
		name string
		err  error
	)
	if in.FolderPath == "" {
		if in.AckAbuse {
			return fmt.Errorf("--ack-abuse needs --folder-path; corpus-wide searches download raw")
		}
		switch {
		case in.Name != "":
			name, err = svc.DownloadByName(ctx, in.Name, destDir)
		case in.Contains != "":
			name, err = svc.DownloadByNameContains(ctx, in.Contains, destDir)
		default:
			name, err = svc.DownloadByRegex(ctx, in.Regex, destDir)
		}
	} else {
		opts := transfer.Options{AcknowledgeAbuse: in.AckAbuse}
		switch {
		case in.Name != "":
			var file locator.File
			file, err = svc.ResolveInFolderPath(ctx, in.FolderPath, locator.ByExactName(in.Name))
			if err == nil {
				name, err = svc.Fetch(ctx, file.ID, destDir, opts)
			}
		case in.Contains != "":
			name, err = svc.DownloadByNameContainsInFolderPath(ctx, in.FolderPath, in.Contains, destDir, opts)
		default:
			name, err = svc.DownloadByRegexInFolderPath(ctx, in.FolderPath, in.Regex, destDir, opts)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Downloaded file: %s\n", name)
	return nil
}
