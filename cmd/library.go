package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"media-cutter/domain/library"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Work with saved exports",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exports saved to the library",
	Long: `List every export saved to the configured library, newest first.

Example:
  media-cutter library list`,
	Args: cobra.NoArgs,
	RunE: runLibraryList,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openLibrary(cmd.Context(), GetConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	return RunLibraryListWithDependencies(cmd.Context(), store, os.Stdout)
}

// RunLibraryListWithDependencies runs the library list command with injected dependencies (for testing)
func RunLibraryListWithDependencies(ctx context.Context, lister library.Lister, output OutputWriter) error {
	assets, err := lister.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list library: %w", err)
	}

	if len(assets) == 0 {
		fmt.Fprintln(output, "No exports saved yet.")
		return nil
	}

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tSAVED\tLOCATION")
	for _, a := range assets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Name, formatSize(a.Size), a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Location)
	}
	return w.Flush()
}

// formatSize renders a byte count with a binary unit
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
