package batch

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

const (
	ProcessedLogName = "processed_log.txt"
	SkippedLogName   = "skipped_files.txt"
)

var logRule = strings.Repeat("=", 80)

// Headers are the first lines of the two log files.
type Headers struct {
	Processed string
	Skipped   string
}

var (
	headerTags = []language.Tag{language.English, language.Chinese}
	headerSets = []Headers{
		{Processed: "Processed images", Skipped: "Skipped files"},
		{Processed: "处理日志", Skipped: "跳过的文件"},
	}
	headerMatcher = language.NewMatcher(headerTags)
)

// HeadersFor picks the header set closest to locale, falling back to English.
func HeadersFor(locale string) Headers {
	tag, err := language.Parse(locale)
	if err != nil {
		return headerSets[0]
	}
	_, idx, conf := headerMatcher.Match(tag)
	if conf == language.No {
		return headerSets[0]
	}
	return headerSets[idx]
}

func writeLog(path, header string, entries []string) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(logRule)
	b.WriteString("\n\n")
	for _, e := range entries {
		b.WriteString(e)
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
