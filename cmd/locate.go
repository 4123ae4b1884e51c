package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dikako/gdrive-downloader/application/download"
	"github.com/dikako/gdrive-downloader/domain/locator"

	"github.com/spf13/cobra"
)

var (
	locateID         string
	locateName       string
	locateContains   string
	locateRegex      string
	locateFolderPath string
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Resolve a file without downloading it",
	Long: `Resolve a file to its metadata without downloading anything.

Takes the same selectors as search plus --id, and prints the matched
file's ID, name, MIME type, and size. Useful for checking which file a
selector would pick before fetching it.

Examples:
  gdrive-downloader locate --contains report
  gdrive-downloader locate --folder-path "FinanceDrive/Reports/2024" --regex '.*\.xlsx'`,
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
	locateCmd.Flags().StringVar(&locateID, "id", "", "file ID")
	locateCmd.Flags().StringVar(&locateName, "name", "", "exact file name")
	locateCmd.Flags().StringVar(&locateContains, "contains", "", "substring of the file name")
	locateCmd.Flags().StringVar(&locateRegex, "regex", "", "pattern the whole file name must match")
	locateCmd.Flags().StringVar(&locateFolderPath, "folder-path", "", `shared drive and folders, e.g. "FinanceDrive/Reports/2024"`)
	locateCmd.MarkFlagsMutuallyExclusive("id", "name", "contains", "regex")
}

func runLocate(cmd *cobra.Command, args []string) error {
	in := LocateInput{
		ID:         locateID,
		Name:       locateName,
		Contains:   locateContains,
		Regex:      locateRegex,
		FolderPath: locateFolderPath,
	}
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	return RunLocateWithDependencies(cmd.Context(), svc, in, os.Stdout)
}

// LocateInput carries the locate command's flag values.
type LocateInput struct {
	ID         string
	Name       string
	Contains   string
	Regex      string
	FolderPath string
}

func selectorFromInput(in LocateInput) (locator.Selector, error) {
	switch {
	case in.ID != "":
		return locator.ByID(in.ID), nil
	case in.Name != "":
		return locator.ByExactName(in.Name), nil
	case in.Contains != "":
		return locator.ByNameContains(in.Contains), nil
	case in.Regex != "":
		return locator.ByNameRegex(in.Regex)
	}
	return locator.Selector{}, fmt.Errorf("exactly one of --id, --name, --contains, or --regex is required")
}

// RunLocateWithDependencies runs the lookup with injected dependencies
// (for testing)
func RunLocateWithDependencies(ctx context.Context, svc *download.Service, in LocateInput, output io.Writer) error {
	selectors := 0
	for _, s := range []string{in.ID, in.Name, in.Contains, in.Regex} {
		if s != "" {
			selectors++
		}
	}
	if selectors != 1 {
		return fmt.Errorf("exactly one of --id, --name, --contains, or --regex is required")
	}
	if in.ID != "" && in.FolderPath != "" {
		return fmt.Errorf("--id cannot be combined with --folder-path")
	}

	sel, err := selectorFromInput(in)
	if err != nil {
		return err
	}

	var file locator.File
	if in.FolderPath != "" {
		file, err = svc.ResolveInFolderPath(ctx, in.FolderPath, sel)
	} else {
		file, err = svc.Resolve(ctx, sel)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "ID:   %s\n", file.ID)
	fmt.Fprintf(output, "Name: %s\n", file.Name)
	fmt.Fprintf(output, "Type: %s\n", file.MimeType)
	fmt.Fprintf(output, "Size: %d\n", file.Size)
	return nil
}
