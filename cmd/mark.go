package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dsprep/internal/manifest"
)

var (
	markKeep    bool
	markDiscard bool
	markRotate  int
	markReset   bool
)

var markCmd = &cobra.Command{
	Use:   "mark [flags] <manifest> [path...]",
	Short: "Record keep/discard and rotation decisions in a review manifest",
	Long: `Record review decisions for one or more images.

Paths may be absolute, or relative to the scanned folder. Rotation is in
clockwise degrees and accumulates: --rotate 90 twice gives 180.
With no paths, the current state of the manifest is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if markKeep && markDiscard {
			return fmt.Errorf("--keep cannot be used with --discard")
		}

		path := args[0]
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}

		targets := args[1:]
		if len(targets) == 0 {
			printEntries(cmd, m)
			return nil
		}
		if !markKeep && !markDiscard && markRotate == 0 && !markReset {
			return fmt.Errorf("nothing to do: pass --keep, --discard, --rotate or --reset")
		}

		for _, target := range targets {
			if err := applyMark(m, target); err != nil {
				return err
			}
			logger.Debug("image marked", "path", target, "keep", markKeep, "discard", markDiscard, "rotate", markRotate, "reset", markReset)
		}

		if err := m.Save(path); err != nil {
			return err
		}

		kept, total := m.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "Marked keep: %d / %d\n", kept, total)
		return nil
	},
}

func applyMark(m *manifest.Manifest, target string) error {
	if markReset {
		if err := m.Reset(target); err != nil {
			return err
		}
	}
	if markKeep || markDiscard {
		if err := m.SetKeep(target, markKeep); err != nil {
			return err
		}
	}
	if markRotate != 0 {
		if err := m.Rotate(target, markRotate); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	markCmd.Flags().BoolVar(&markKeep, "keep", false, "mark the images as kept")
	markCmd.Flags().BoolVar(&markDiscard, "discard", false, "mark the images as discarded")
	markCmd.Flags().IntVar(&markRotate, "rotate", 0, "add clockwise rotation in degrees (negative turns counter-clockwise)")
	markCmd.Flags().BoolVar(&markReset, "reset", false, "restore keep and zero rotation before applying other flags")

	rootCmd.AddCommand(markCmd)
}
