// Package output renders dump events as markdown, json or xml.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/temirov/fdump/internal/services/stream"
	"github.com/temirov/fdump/internal/types"
	"github.com/temirov/fdump/internal/utils"
)

// StreamRenderer consumes events in order and writes the final document on Flush.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// NewStreamRenderer returns the renderer registered for format.
func NewStreamRenderer(format string, stdout, stderr io.Writer, includeSummary bool) (StreamRenderer, error) {
	switch format {
	case types.FormatMarkdown:
		return NewMarkdownStreamRenderer(stdout, stderr, includeSummary), nil
	case types.FormatJSON:
		return NewJSONStreamRenderer(stdout, stderr, includeSummary), nil
	case types.FormatXML:
		return NewXMLStreamRenderer(stdout, stderr, includeSummary), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

var warningColor = color.New(color.FgYellow)

// WriteWarning prints a warning line to stderr, coloured when stderr is a terminal.
func WriteWarning(stderr io.Writer, message string) {
	if stderr == nil || message == "" {
		return
	}
	_, _ = warningColor.Fprintln(stderr, message)
}

type summaryAccumulator struct {
	files    int
	failures int
	bytes    int64
	tokens   int
	model    string
}

func (summary *summaryAccumulator) add(data *stream.SummaryEvent) {
	if data == nil {
		return
	}
	summary.files += data.Files
	summary.failures += data.Failures
	summary.bytes += data.Bytes
	summary.tokens += data.Tokens
	if summary.model == "" && data.Model != "" && data.Tokens > 0 {
		summary.model = data.Model
	}
}

func (summary *summaryAccumulator) output() *types.OutputSummary {
	return &types.OutputSummary{
		TotalFiles:  summary.files,
		Failures:    summary.failures,
		TotalSize:   utils.FormatFileSize(summary.bytes),
		TotalTokens: summary.tokens,
		Model:       summary.model,
	}
}

// FormatSummaryLine formats an OutputSummary into a single line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	label := "files"
	if summary.TotalFiles == 1 {
		label = "file"
	}
	extra := ""
	if summary.TotalTokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	failureSuffix := ""
	if summary.Failures > 0 {
		failureSuffix = fmt.Sprintf(", %d unreadable", summary.Failures)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s%s", summary.TotalFiles, label, summary.TotalSize, extra, modelSuffix, failureSuffix)
}
