// Package stream turns a Tree Dumper pass into an ordered sequence of events
// consumed by the output renderers.
package stream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/fdump/internal/commands"
	"github.com/temirov/fdump/internal/extensions"
	"github.com/temirov/fdump/internal/tokenizer"
)

// DumpOptions configures StreamDump.
type DumpOptions struct {
	Root           string
	Extensions     extensions.Set
	IgnorePatterns []string
	TokenCounter   tokenizer.Counter
	TokenModel     string
}

type emitter struct {
	ctx context.Context
	out chan<- Event
}

func newEmitter(ctx context.Context, out chan<- Event) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	event.Version = SchemaVersion
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

func (e *emitter) warn(path, message string) {
	trimmed := strings.TrimRight(message, "\n")
	if trimmed == "" {
		return
	}
	_ = e.send(Event{
		Kind:    EventKindWarning,
		Path:    path,
		Message: &LogEvent{Level: "warning", Message: trimmed},
	})
}

type summaryTracker struct {
	files    int
	failures int
	bytes    int64
	tokens   int
	model    string
}

func (tracker *summaryTracker) add(entry commands.DumpEntry) {
	if entry.Failure != nil {
		tracker.failures++
		return
	}
	tracker.files++
	tracker.bytes += entry.SizeBytes
	tracker.tokens += entry.Tokens
	if tracker.model == "" && entry.Model != "" && entry.Tokens > 0 {
		tracker.model = entry.Model
	}
}

func (tracker *summaryTracker) summary() *SummaryEvent {
	return &SummaryEvent{
		Files:    tracker.files,
		Failures: tracker.failures,
		Bytes:    tracker.bytes,
		Tokens:   tracker.tokens,
		Model:    tracker.model,
	}
}

// StreamDump runs one Tree Dumper pass over opts.Root and sends start, per-file,
// summary and done events to out. Read failures become failure events and do
// not stop the stream. The walk error, if any, is returned after a warning.
func StreamDump(ctx context.Context, opts DumpOptions, out chan<- Event) error {
	if opts.Root == "" {
		return fmt.Errorf("stream: dump root path is empty")
	}

	emitter := newEmitter(ctx, out)
	if err := emitter.send(Event{Kind: EventKindStart, Path: opts.Root}); err != nil {
		return err
	}

	tracker := &summaryTracker{}
	dumpOptions := commands.DumpOptions{
		Root:           opts.Root,
		Extensions:     opts.Extensions,
		IgnorePatterns: opts.IgnorePatterns,
		TokenCounter:   opts.TokenCounter,
		TokenModel:     opts.TokenModel,
		Warn: func(message string) {
			emitter.warn(opts.Root, message)
		},
	}

	visit := func(entry commands.DumpEntry) error {
		tracker.add(entry)
		if entry.Failure != nil {
			return emitter.send(Event{
				Kind: EventKindFailure,
				Path: entry.Path,
				Failure: &FailureEvent{
					Path:    entry.Path,
					Kind:    string(entry.Failure.Kind),
					Message: entry.Failure.Reason(),
				},
			})
		}
		if err := emitter.send(Event{
			Kind: EventKindFile,
			Path: entry.Path,
			File: &FileEvent{
				Path:      entry.Path,
				SizeBytes: entry.SizeBytes,
				Tokens:    entry.Tokens,
				Model:     entry.Model,
			},
		}); err != nil {
			return err
		}
		return emitter.send(Event{
			Kind:    EventKindContent,
			Path:    entry.Path,
			Content: &ContentEvent{Path: entry.Path, Data: entry.Content},
		})
	}

	if err := commands.StreamDump(emitter.ctx, dumpOptions, visit); err != nil {
		if emitter.ctx.Err() != nil {
			return emitter.ctx.Err()
		}
		emitter.warn(opts.Root, err.Error())
		return err
	}

	if err := emitter.send(Event{Kind: EventKindSummary, Path: opts.Root, Summary: tracker.summary()}); err != nil {
		return err
	}
	return emitter.send(Event{Kind: EventKindDone, Path: opts.Root})
}
