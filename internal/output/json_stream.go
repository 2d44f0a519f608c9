package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/temirov/fdump/internal/services/stream"
	"github.com/temirov/fdump/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
)

type jsonDocument struct {
	Entries []any                `json:"entries"`
	Summary *types.OutputSummary `json:"summary,omitempty"`
}

type jsonStreamRenderer struct {
	stdout         io.Writer
	stderr         io.Writer
	includeSummary bool
	builder        documentBuilder
}

// NewJSONStreamRenderer writes one JSON document listing files and failures in traversal order.
func NewJSONStreamRenderer(stdout, stderr io.Writer, includeSummary bool) StreamRenderer {
	return &jsonStreamRenderer{
		stdout:         stdout,
		stderr:         stderr,
		includeSummary: includeSummary,
		builder:        newDocumentBuilder(),
	}
}

func (renderer *jsonStreamRenderer) Handle(event stream.Event) error {
	WriteWarning(renderer.stderr, renderer.builder.handle(event))
	return nil
}

func (renderer *jsonStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	document := jsonDocument{Entries: renderer.builder.entries}
	if document.Entries == nil {
		document.Entries = []any{}
	}
	if renderer.includeSummary {
		document.Summary = renderer.builder.summary.output()
	}
	encoded, marshalError := json.MarshalIndent(document, indentPrefix, indentSpacer)
	if marshalError != nil {
		return fmt.Errorf("failed to marshal dump to JSON: %w", marshalError)
	}
	_, writeError := fmt.Fprintln(renderer.stdout, string(encoded))
	return writeError
}
