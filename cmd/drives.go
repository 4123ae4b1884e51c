package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dikako/gdrive-downloader/domain/locator"

	"github.com/spf13/cobra"
)

var drivesCmd = &cobra.Command{
	Use:   "drives",
	Short: "List shared drives visible to the service account",
	Long: `List the shared drives the configured service account can see.

The first segment of a --folder-path must match one of these names,
so this is the place to check when a path walk reports an unknown
drive.`,
	RunE: runDrives,
}

func init() {
	rootCmd.AddCommand(drivesCmd)
}

func runDrives(cmd *cobra.Command, args []string) error {
	client, err := newDriveClient(cmd.Context())
	if err != nil {
		return err
	}
	return RunDrivesWithDependencies(cmd.Context(), client, os.Stdout)
}

// DriveLister lists the shared drives an account can reach.
type DriveLister interface {
	Drives(ctx context.Context) ([]locator.Drive, error)
}

// RunDrivesWithDependencies runs the listing with injected dependencies
// (for testing)
func RunDrivesWithDependencies(ctx context.Context, lister DriveLister, output io.Writer) error {
	drives, err := lister.Drives(ctx)
	if err != nil {
		return err
	}
	if len(drives) == 0 {
		fmt.Fprintln(output, "No shared drives found.")
		return nil
	}

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID")
	for _, d := range drives {
		fmt.Fprintf(w, "%s\t%s\n", d.Name, d.ID)
	}
	return w.Flush()
}
