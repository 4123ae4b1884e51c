package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dikako/gdrive-downloader/application/download"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <file-id>",
	Short: "Download a file by its Drive id",
	Long: `Download a file by its Drive id into the destination directory.

The file streams raw, exactly as stored, under its remote name; Google
Workspace documents are not converted. Use fetch for conversion and
abuse acknowledgement.

Example:
  gdrive-downloader download 1aBcD3fGhIjKlMnOpQrStUvWxYz --out downloads`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	return RunDownloadWithDependencies(cmd.Context(), svc, args[0], outputDir(), os.Stdout)
}

// RunDownloadWithDependencies runs the download with injected
// dependencies (for testing)
func RunDownloadWithDependencies(ctx context.Context, svc *download.Service, fileID, destDir string, output io.Writer) error {
	name, err := svc.DownloadByID(ctx, fileID, destDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Downloaded file: %s\n", name)
	return nil
}
