package config

import (
	"fmt"
	"strings"

	"dsprep/internal/batch"
	"dsprep/internal/transform"
)

// Config is the full set of dsprep settings after merging defaults, the
// config file, environment variables and command-line flags.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose"`
	// LogDir receives a dated application log when set.
	LogDir string `mapstructure:"log_dir" yaml:"log_dir"`

	Batch BatchSettings `mapstructure:"batch" yaml:"batch"`
	Scan  ScanSettings  `mapstructure:"scan" yaml:"scan"`
}

// BatchSettings mirrors batch.Config with a textual format.
type BatchSettings struct {
	OutputFolder string `mapstructure:"output_folder" yaml:"output_folder"`
	Prefix       string `mapstructure:"prefix" yaml:"prefix"`
	StartNumber  int    `mapstructure:"start_number" yaml:"start_number"`
	Padding      int    `mapstructure:"padding" yaml:"padding"`
	ScalePercent int    `mapstructure:"scale_percent" yaml:"scale_percent"`
	Format       string `mapstructure:"format" yaml:"format"`
	Quality      int    `mapstructure:"quality" yaml:"quality"`
	LogLocale    string `mapstructure:"log_locale" yaml:"log_locale"`
}

type ScanSettings struct {
	Manifest   string `mapstructure:"manifest" yaml:"manifest"`
	AutoRotate bool   `mapstructure:"auto_rotate" yaml:"auto_rotate"`
}

// Validate checks everything that can be checked without knowing the
// number of images or the output folder.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	b := c.Batch
	if _, err := transform.ParseFormat(b.Format); err != nil {
		return err
	}
	if b.StartNumber < 0 {
		return fmt.Errorf("batch.start_number must be >= 0, got %d", b.StartNumber)
	}
	if b.Padding < 1 || b.Padding > 10 {
		return fmt.Errorf("batch.padding must be in [1,10], got %d", b.Padding)
	}
	if b.ScalePercent < 1 || b.ScalePercent > 100 {
		return fmt.Errorf("batch.scale_percent must be in [1,100], got %d", b.ScalePercent)
	}
	if b.Quality < 1 || b.Quality > 100 {
		return fmt.Errorf("batch.quality must be in [1,100], got %d", b.Quality)
	}
	return nil
}

// BatchConfig builds the pipeline configuration for count kept images.
// It fails when the padding cannot represent the last sequence number.
func (c *Config) BatchConfig(count int) (batch.Config, error) {
	format, err := transform.ParseFormat(c.Batch.Format)
	if err != nil {
		return batch.Config{}, err
	}
	bc := batch.Config{
		OutputFolder: c.Batch.OutputFolder,
		Prefix:       c.Batch.Prefix,
		StartNumber:  c.Batch.StartNumber,
		Padding:      c.Batch.Padding,
		ScalePercent: c.Batch.ScalePercent,
		Format:       format,
		Quality:      c.Batch.Quality,
	}
	if err := bc.Validate(); err != nil {
		return batch.Config{}, err
	}
	if !bc.Fits(count) {
		return batch.Config{}, fmt.Errorf("padding %d is too narrow for %d images starting at %d",
			bc.Padding, count, bc.StartNumber)
	}
	return bc, nil
}
