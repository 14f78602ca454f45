package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"dsprep/internal/catalog"
	"dsprep/internal/manifest"
	"dsprep/internal/tui"
	"dsprep/pkg/imgutil"
)

var scanExclude string

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <folder>",
	Short: "List the images under a folder into a review manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		manifestPath := appConfig.Scan.Manifest
		autoRotate := appConfig.Scan.AutoRotate

		entries, err := catalog.Scan(root, catalog.Options{
			Exclude:  scanExclude,
			ReadExif: true,
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no images found under %s", root)
		}

		m := manifest.FromCatalog(root, entries, autoRotate)
		if err := m.Save(manifestPath); err != nil {
			return err
		}
		logger.Info("scan complete", "root", root, "images", len(entries), "manifest", manifestPath)

		printEntries(cmd, m)
		fmt.Fprintf(cmd.OutOrStdout(), "\nManifest written to: %s\n", manifestPath)
		return nil
	},
}

func printEntries(cmd *cobra.Command, m *manifest.Manifest) {
	out := cmd.OutOrStdout()
	for _, e := range m.Entries {
		name := e.Path
		if rel, err := filepath.Rel(m.Root, e.Path); err == nil {
			name = rel
		}

		status := keepStyle.Render("keep")
		if !e.Keep {
			status = discardStyle.Render("skip")
		}
		kind := dimStyle.Render(e.Kind)
		if e.Kind == imgutil.KindUnknown.String() {
			kind = discardStyle.Render(e.Kind)
		}
		line := fmt.Sprintf("  %s %s %s", status, fileStyle.Render(name), kind)
		if e.Rotation != 0 {
			line += dimStyle.Render(fmt.Sprintf(" rotate %d°", e.Rotation))
		}
		fmt.Fprintln(out, line)
	}

	kept, total := m.Stats()
	fmt.Fprintf(out, "\n%s\n", tui.RenderSummary([]tui.SummaryRow{
		{Label: "Marked keep", Value: fmt.Sprintf("%d / %d", kept, total)},
	}))
}

var (
	fileStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	keepStyle    = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorSuccess)
	discardStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorWarn)
	dimStyle     = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	scanCmd.Flags().StringP("manifest", "m", manifest.DefaultName, "where to write the review manifest")
	scanCmd.Flags().Bool("auto-rotate", false, "seed rotation from the EXIF orientation tag")
	scanCmd.Flags().StringVar(&scanExclude, "exclude", "", "folder to leave out of the scan, such as a previous output folder")

	mustBind("scan.manifest", "manifest", scanCmd.Flags().Lookup)
	mustBind("scan.auto_rotate", "auto-rotate", scanCmd.Flags().Lookup)

	rootCmd.AddCommand(scanCmd)
}
