package output

import (
	"fmt"
	"io"

	"github.com/temirov/fdump/internal/commands"
	"github.com/temirov/fdump/internal/services/stream"
)

const (
	markdownHeaderFormat = "### %s\n\n"
	markdownFence        = "```"
)

type markdownStreamRenderer struct {
	stdout         io.Writer
	stderr         io.Writer
	includeSummary bool
	summary        summaryAccumulator
}

// NewMarkdownStreamRenderer writes each file as a "### path" heading followed by a fenced block.
func NewMarkdownStreamRenderer(stdout, stderr io.Writer, includeSummary bool) StreamRenderer {
	return &markdownStreamRenderer{
		stdout:         stdout,
		stderr:         stderr,
		includeSummary: includeSummary,
	}
}

func (renderer *markdownStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil {
			WriteWarning(renderer.stderr, event.Message.Message)
		}
	case stream.EventKindFile:
		if event.File != nil && renderer.stdout != nil {
			fmt.Fprintf(renderer.stdout, markdownHeaderFormat, event.File.Path)
		}
	case stream.EventKindContent:
		if event.Content != nil && renderer.stdout != nil {
			fmt.Fprintf(renderer.stdout, "%s\n%s\n%s\n\n", markdownFence, event.Content.Data, markdownFence)
		}
	case stream.EventKindFailure:
		if event.Failure != nil && renderer.stdout != nil {
			fmt.Fprintf(renderer.stdout, commands.DiagnosticFormat+"\n", event.Failure.Path, event.Failure.Message)
		}
	case stream.EventKindSummary:
		renderer.summary.add(event.Summary)
	}
	return nil
}

func (renderer *markdownStreamRenderer) Flush() error {
	if renderer.includeSummary && renderer.stdout != nil {
		fmt.Fprintln(renderer.stdout, FormatSummaryLine(renderer.summary.output()))
	}
	return nil
}
