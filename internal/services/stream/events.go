package stream

import (
	"encoding/xml"
	"time"
)

const SchemaVersion = 1

type EventKind string

const (
	EventKindStart   EventKind = "start"
	EventKindFile    EventKind = "file"
	EventKindContent EventKind = "content"
	EventKindFailure EventKind = "failure"
	EventKindWarning EventKind = "warning"
	EventKindSummary EventKind = "summary"
	EventKindDone    EventKind = "done"
)

type Event struct {
	XMLName   xml.Name  `json:"-" xml:"event"`
	Version   int       `json:"version" xml:"version,attr"`
	Kind      EventKind `json:"kind" xml:"kind,attr"`
	Path      string    `json:"path,omitempty" xml:"path,attr,omitempty"`
	EmittedAt time.Time `json:"emittedAt,omitempty" xml:"emittedAt,attr,omitempty"`

	File    *FileEvent    `json:"file,omitempty" xml:"file,omitempty"`
	Content *ContentEvent `json:"content,omitempty" xml:"content,omitempty"`
	Failure *FailureEvent `json:"failure,omitempty" xml:"failure,omitempty"`
	Summary *SummaryEvent `json:"summary,omitempty" xml:"summary,omitempty"`
	Message *LogEvent     `json:"message,omitempty" xml:"message,omitempty"`
}

// FileEvent announces a selected file before its content.
type FileEvent struct {
	Path      string `json:"path" xml:"path,attr"`
	SizeBytes int64  `json:"sizeBytes" xml:"sizeBytes,attr"`
	Tokens    int    `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Model     string `json:"model,omitempty" xml:"model,attr,omitempty"`
}

// ContentEvent carries the full text of the file announced by the preceding FileEvent.
type ContentEvent struct {
	Path string `json:"path" xml:"path,attr"`
	Data string `json:"data" xml:",chardata"`
}

// FailureEvent reports a selected file that could not be read.
type FailureEvent struct {
	Path    string `json:"path" xml:"path,attr"`
	Kind    string `json:"kind" xml:"kind,attr"`
	Message string `json:"message" xml:",chardata"`
}

type SummaryEvent struct {
	Files    int    `json:"files" xml:"files,attr"`
	Failures int    `json:"failures" xml:"failures,attr"`
	Bytes    int64  `json:"bytes" xml:"bytes,attr"`
	Tokens   int    `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Model    string `json:"model,omitempty" xml:"model,attr,omitempty"`
}

type LogEvent struct {
	Level   string `json:"level,omitempty" xml:"level,attr,omitempty"`
	Message string `json:"message" xml:",chardata"`
}
