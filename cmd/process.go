package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dsprep/internal/applog"
	"dsprep/internal/batch"
	"dsprep/internal/manifest"
	"dsprep/internal/tui"
)

var processNoProgress bool

var processCmd = &cobra.Command{
	Use:   "process [flags] <manifest>",
	Short: "Rotate, scale, encode and number every kept image",
	Long: `Process every image marked keep, in manifest order.

Output files are named <prefix><zero-padded number>.<format>, numbered
from --start. processed_log.txt is always written into the output folder;
skipped_files.txt only when an image could not be processed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}

		kept, total := m.Stats()
		if kept == 0 {
			return fmt.Errorf("no images are marked keep (0 / %d)", total)
		}

		cfg, err := appConfig.BatchConfig(kept)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.OutputFolder, 0o755); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var summary batch.Summary
		var pipeline *batch.Pipeline
		if processNoProgress {
			pipeline = newPipeline(logger)
			summary = batch.Run(ctx, pipeline, m.Items(), cfg, nil)
		} else {
			pipeline, summary = runWithProgress(ctx, m.Items(), cfg)
		}

		saveErr := pipeline.SaveLogs(cfg.OutputFolder)
		printReport(cmd, summary, cfg)
		if saveErr != nil {
			return fmt.Errorf("save logs: %w", saveErr)
		}
		return nil
	},
}

func newPipeline(l *slog.Logger) *batch.Pipeline {
	return batch.New(
		batch.WithLogger(l),
		batch.WithHeaders(batch.HeadersFor(appConfig.Batch.LogLocale)),
	)
}

// runWithProgress runs the batch behind the live progress view. Log
// records meant for stderr are held back until the view has exited.
func runWithProgress(ctx context.Context, items []batch.Item, cfg batch.Config) (*batch.Pipeline, batch.Summary) {
	var held bytes.Buffer
	runLogger := logger
	if appConfig.LogDir == "" {
		level := applog.ParseLevel(appConfig.LogLevel, appConfig.Verbose)
		if l, _, err := applog.New(level, "", &held, time.Now()); err == nil {
			runLogger = l.With("run_id", runID)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan batch.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewModel(updates, cancel))

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		if _, err := program.Run(); err != nil {
			runLogger.Warn("progress view stopped", "error", err)
		}
		// Keep the batch from blocking if the view exits early.
		for range updates {
		}
	}()

	pipeline := newPipeline(runLogger)
	summary := batch.Run(ctx, pipeline, items, cfg, updates)

	close(updates)
	<-uiDone
	_, _ = io.Copy(os.Stderr, &held)
	return pipeline, summary
}

func printReport(cmd *cobra.Command, summary batch.Summary, cfg batch.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.RenderSummary(tui.BatchRows(summary)))

	outPath := cfg.OutputFolder
	if abs, err := filepath.Abs(outPath); err == nil {
		outPath = abs
	}
	fmt.Fprintf(out, "Processed %d/%d images.\n", summary.Succeeded, summary.Attempted)
	fmt.Fprintf(out, "Output written to: %s\n", outPath)
	logs := batch.ProcessedLogName
	if summary.Skipped > 0 {
		logs += ", " + batch.SkippedLogName
	}
	fmt.Fprintf(out, "Log files: %s\n", logs)
	if summary.Canceled {
		fmt.Fprintln(out, "Run canceled before all images were processed.")
	}
}

func init() {
	flags := processCmd.Flags()
	flags.StringP("output", "o", "", "output folder for the numbered images and logs")
	flags.String("prefix", "train_", "filename prefix")
	flags.Int("start", 1, "first sequence number")
	flags.Int("padding", 5, "zero-padding width of the sequence number")
	flags.Int("scale", 50, "uniform scale in percent (1-100)")
	flags.String("format", "png", "output format: png, jpg or jpeg")
	flags.Int("quality", 95, "JPEG quality (1-100), ignored for png")
	flags.String("log-locale", "en", "language of the log file headers (en, zh)")
	flags.BoolVar(&processNoProgress, "no-progress", false, "do not show the live progress view")

	mustBind("batch.output_folder", "output", flags.Lookup)
	mustBind("batch.prefix", "prefix", flags.Lookup)
	mustBind("batch.start_number", "start", flags.Lookup)
	mustBind("batch.padding", "padding", flags.Lookup)
	mustBind("batch.scale_percent", "scale", flags.Lookup)
	mustBind("batch.format", "format", flags.Lookup)
	mustBind("batch.quality", "quality", flags.Lookup)
	mustBind("batch.log_locale", "log-locale", flags.Lookup)

	rootCmd.AddCommand(processCmd)
}
