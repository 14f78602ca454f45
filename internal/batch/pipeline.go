// Package batch turns an ordered list of reviewed images into a numbered
// output sequence, recording one log entry per image.
package batch

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"

	"dsprep/internal/transform"
)

// Pipeline accumulates the processed and skipped logs of one batch run.
// It is not safe for concurrent use.
type Pipeline struct {
	logger    *slog.Logger
	headers   Headers
	processed []string
	skipped   []string
}

type Option func(*Pipeline)

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithHeaders(h Headers) Option {
	return func(p *Pipeline) { p.headers = h }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		headers: headerSets[0],
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessImage loads, rotates, scales and encodes one image as number seq.
// It never panics or returns an error: every outcome lands in exactly one
// of the two logs and the return value says which.
func (p *Pipeline) ProcessImage(item Item, cfg Config, seq int) (ok bool) {
	name := cfg.OutputName(seq)

	defer func() {
		if r := recover(); r != nil {
			p.skip(item, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	if err := p.process(item, cfg, name); err != nil {
		p.skip(item, err)
		return false
	}

	p.processed = append(p.processed, fmt.Sprintf("%s → %s → scaled %d%%, rotated %d°",
		item.SourcePath, name, cfg.ScalePercent, item.Rotation))
	p.logger.Debug("image processed", "source", item.SourcePath, "output", name)
	return true
}

func (p *Pipeline) process(item Item, cfg Config, name string) error {
	src, err := transform.Load(item.SourcePath)
	if err != nil {
		return err
	}

	var out image.Image = transform.Normalize(src)
	if item.Rotation != 0 {
		out = transform.Rotate(out, item.Rotation)
	}
	if cfg.ScalePercent != 100 {
		out = transform.Scale(out, cfg.ScalePercent)
	}

	return transform.Encode(out, filepath.Join(cfg.OutputFolder, name), cfg.Format, cfg.Quality)
}

func (p *Pipeline) skip(item Item, err error) {
	reason := "processor returned failure"
	if err != nil && err.Error() != "" {
		reason = err.Error()
	}
	p.skipped = append(p.skipped, fmt.Sprintf("%s → Error: %s", item.SourcePath, reason))
	p.logger.Warn("image skipped", "source", item.SourcePath, "error", reason)
}

// Processed returns a copy of the processed log.
func (p *Pipeline) Processed() []string {
	return append([]string(nil), p.processed...)
}

// Skipped returns a copy of the skipped log.
func (p *Pipeline) Skipped() []string {
	return append([]string(nil), p.skipped...)
}

// SaveLogs writes the processed log (always) and the skipped log (only
// when non-empty) into folder, then clears both. The logs are cleared even
// when writing fails.
func (p *Pipeline) SaveLogs(folder string) error {
	defer p.reset()

	var errs []error
	if err := writeLog(filepath.Join(folder, ProcessedLogName), p.headers.Processed, p.processed); err != nil {
		errs = append(errs, err)
	}
	if len(p.skipped) > 0 {
		if err := writeLog(filepath.Join(folder, SkippedLogName), p.headers.Skipped, p.skipped); err != nil {
			errs = append(errs, err)
		}
	}

	p.logger.Info("logs saved", "folder", folder, "processed", len(p.processed), "skipped", len(p.skipped))
	return errors.Join(errs...)
}

func (p *Pipeline) reset() {
	p.processed = nil
	p.skipped = nil
}
