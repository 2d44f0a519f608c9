package output

import (
	"github.com/temirov/fdump/internal/services/stream"
	"github.com/temirov/fdump/internal/types"
)

// documentBuilder collects entries in traversal order for renderers that
// write a single document at the end of the run.
type documentBuilder struct {
	entries []any
	pending map[string]*types.FileOutput
	summary summaryAccumulator
}

func newDocumentBuilder() documentBuilder {
	return documentBuilder{pending: map[string]*types.FileOutput{}}
}

// handle records event and returns the warning message to report, if any.
func (builder *documentBuilder) handle(event stream.Event) string {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil {
			return event.Message.Message
		}
	case stream.EventKindFile:
		if event.File == nil {
			return ""
		}
		fileOutput := &types.FileOutput{
			Type:      types.EntryTypeFile,
			Path:      event.File.Path,
			SizeBytes: event.File.SizeBytes,
			Tokens:    event.File.Tokens,
			Model:     event.File.Model,
		}
		builder.entries = append(builder.entries, fileOutput)
		builder.pending[fileOutput.Path] = fileOutput
	case stream.EventKindContent:
		if event.Content == nil {
			return ""
		}
		if fileOutput, exists := builder.pending[event.Content.Path]; exists {
			fileOutput.Content = event.Content.Data
			delete(builder.pending, event.Content.Path)
		}
	case stream.EventKindFailure:
		if event.Failure != nil {
			builder.entries = append(builder.entries, &types.FailureOutput{
				Type:  types.EntryTypeFailure,
				Path:  event.Failure.Path,
				Kind:  event.Failure.Kind,
				Error: event.Failure.Message,
			})
		}
	case stream.EventKindSummary:
		builder.summary.add(event.Summary)
	}
	return ""
}
