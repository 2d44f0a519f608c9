// Package types defines the data structures shared between fdump packages.
package types

import "encoding/xml"

const (
	EntryTypeFile    = "file"
	EntryTypeFailure = "failure"

	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatXML      = "xml"
)

// ValidatedPath is an input root that already passed existence checks.
// DisplayPath keeps the spelling supplied by the user and prefixes printed paths.
type ValidatedPath struct {
	DisplayPath  string
	AbsolutePath string
}

// FileOutput is one dumped file as serialized by the json and xml renderers.
type FileOutput struct {
	XMLName   xml.Name `json:"-" xml:"file"`
	Type      string   `json:"type" xml:"-"`
	Path      string   `json:"path" xml:"path,attr"`
	SizeBytes int64    `json:"sizeBytes" xml:"sizeBytes,attr"`
	Tokens    int      `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Model     string   `json:"model,omitempty" xml:"model,attr,omitempty"`
	Content   string   `json:"content" xml:",chardata"`
}

// FailureOutput is one file that could not be read.
type FailureOutput struct {
	XMLName xml.Name `json:"-" xml:"failure"`
	Type    string   `json:"type" xml:"-"`
	Path    string   `json:"path" xml:"path,attr"`
	Kind    string   `json:"kind" xml:"kind,attr"`
	Error   string   `json:"error" xml:",chardata"`
}

// OutputSummary captures aggregate information about dumped files.
type OutputSummary struct {
	XMLName     xml.Name `json:"-" xml:"summary"`
	TotalFiles  int      `json:"totalFiles" xml:"totalFiles,attr"`
	Failures    int      `json:"failures" xml:"failures,attr"`
	TotalSize   string   `json:"totalSize" xml:"totalSize,attr"`
	TotalTokens int      `json:"totalTokens,omitempty" xml:"totalTokens,attr,omitempty"`
	Model       string   `json:"model,omitempty" xml:"model,attr,omitempty"`
}
