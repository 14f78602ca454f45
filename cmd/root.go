package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dsprep/internal/applog"
	"dsprep/internal/config"
)

var (
	cfgFile   string
	loader    = config.NewLoader()
	appConfig *config.Config
	logger    = slog.Default()
	runID     string
	closeLog  = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "dsprep",
	Short: "dsprep - curate a folder of images into a numbered training set",
	Long: `dsprep turns a folder of images into a machine-learning training set.

  dsprep scan ./photos -m review.yaml       list images into a review manifest
  dsprep mark review.yaml --discard a.jpg   record keep/discard and rotation
  dsprep process review.yaml -o ./dataset   rotate, scale, encode and number kept images`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		cfg, err := loader.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		runID = uuid.NewString()
		level := applog.ParseLevel(cfg.LogLevel, cfg.Verbose)
		l, closeFn, err := applog.New(level, cfg.LogDir, os.Stderr, time.Now())
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		logger = l.With("run_id", runID)
		closeLog = closeFn
		if used := loader.ConfigFileUsed(); used != "" {
			logger.Debug("config loaded", "file", used)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil && appConfig != nil && appConfig.LogDir != "" {
		logger.Error("command failed", "error", err)
	}
	if closeErr := closeLog(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SilenceErrors = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./dsprep.yaml or $HOME/.config/dsprep/dsprep.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "verbose output (same as --log-level=debug)")
	flags.String("log-dir", "", "write a dated application log into this folder")

	mustBind("log_level", "log-level", flags.Lookup)
	mustBind("verbose", "verbose", flags.Lookup)
	mustBind("log_dir", "log-dir", flags.Lookup)
}

func mustBind(key, name string, lookup func(string) *pflag.Flag) {
	if err := loader.BindFlag(key, lookup(name)); err != nil {
		panic(err)
	}
}
