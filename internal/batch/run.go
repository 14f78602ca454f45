package batch

import (
	"context"
)

// Run feeds the kept items through p in order, numbering them from
// cfg.StartNumber. Cancellation is checked between images only. Logs are
// left in p for the caller to flush with SaveLogs.
func Run(ctx context.Context, p *Pipeline, items []Item, cfg Config, updates chan<- ProgressUpdate) Summary {
	kept := Kept(items)
	summary := Summary{Total: len(kept)}

	if updates != nil {
		updates <- ProgressUpdate{TotalDelta: len(kept)}
	}

	for i, item := range kept {
		if ctx != nil && ctx.Err() != nil {
			summary.Canceled = true
			break
		}

		if updates != nil {
			updates <- ProgressUpdate{Current: item.SourcePath}
		}

		summary.Attempted++
		if p.ProcessImage(item, cfg, cfg.StartNumber+i) {
			summary.Succeeded++
			if updates != nil {
				updates <- ProgressUpdate{SucceededDelta: 1}
			}
		} else {
			summary.Skipped++
			if updates != nil {
				updates <- ProgressUpdate{SkippedDelta: 1}
			}
		}
	}

	p.logger.Info("batch finished",
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"canceled", summary.Canceled,
	)
	return summary
}
