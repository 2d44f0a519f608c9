package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/fdump/internal/services/stream"
	"github.com/temirov/fdump/internal/types"
)

type xmlDocument struct {
	XMLName xml.Name             `xml:"dump"`
	Entries []any                `xml:"entry"`
	Summary *types.OutputSummary `xml:"summary,omitempty"`
}

type xmlStreamRenderer struct {
	stdout         io.Writer
	stderr         io.Writer
	includeSummary bool
	builder        documentBuilder
}

// NewXMLStreamRenderer writes one XML document with file and failure elements in traversal order.
func NewXMLStreamRenderer(stdout, stderr io.Writer, includeSummary bool) StreamRenderer {
	return &xmlStreamRenderer{
		stdout:         stdout,
		stderr:         stderr,
		includeSummary: includeSummary,
		builder:        newDocumentBuilder(),
	}
}

func (renderer *xmlStreamRenderer) Handle(event stream.Event) error {
	WriteWarning(renderer.stderr, renderer.builder.handle(event))
	return nil
}

func (renderer *xmlStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	document := xmlDocument{Entries: renderer.builder.entries}
	if renderer.includeSummary {
		document.Summary = renderer.builder.summary.output()
	}
	encoded, marshalError := xml.MarshalIndent(document, indentPrefix, indentSpacer)
	if marshalError != nil {
		return fmt.Errorf("failed to marshal dump to XML: %w", marshalError)
	}
	_, writeError := fmt.Fprintf(renderer.stdout, "%s%s\n", xml.Header, encoded)
	return writeError
}
