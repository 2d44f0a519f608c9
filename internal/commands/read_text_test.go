package commands_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/fdump/internal/commands"
)

func TestReadText(t *testing.T) {
	rootDirectory := t.TempDir()
	testCases := []struct {
		name           string
		content        []byte
		missing        bool
		expected       string
		expectedKind   commands.FailureKind
		expectedReason string
	}{
		{name: "plain_text", content: []byte("fn main(){}\n"), expected: "fn main(){}\n"},
		{name: "multibyte_text", content: []byte("naïve ✓"), expected: "naïve ✓"},
		{name: "empty_file", content: []byte{}, expected: ""},
		{name: "invalid_start_byte", content: []byte{0xff}, expectedKind: commands.FailureKindDecode, expectedReason: "invalid UTF-8 byte 0xff at offset 0"},
		{name: "truncated_sequence", content: []byte("ab\xe2\x82"), expectedKind: commands.FailureKindDecode, expectedReason: "invalid UTF-8 byte 0xe2 at offset 2"},
		{name: "missing_file", missing: true, expectedKind: commands.FailureKindIO, expectedReason: "no such file or directory"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			path := filepath.Join(rootDirectory, testCase.name+".md")
			if !testCase.missing {
				writeTestFile(t, path, testCase.content)
			}
			text, err := commands.ReadText(path)
			if testCase.expectedKind == "" {
				if err != nil {
					t.Fatalf("ReadText error: %v", err)
				}
				if text != testCase.expected {
					t.Fatalf("expected %q, got %q", testCase.expected, text)
				}
				return
			}
			var failure *commands.ReadFailure
			if !errors.As(err, &failure) {
				t.Fatalf("expected *ReadFailure, got %v", err)
			}
			if failure.Kind != testCase.expectedKind {
				t.Fatalf("expected kind %s, got %s", testCase.expectedKind, failure.Kind)
			}
			if !strings.Contains(failure.Reason(), testCase.expectedReason) {
				t.Fatalf("expected reason containing %q, got %q", testCase.expectedReason, failure.Reason())
			}
			if !strings.HasPrefix(failure.Error(), "Could not read "+path+": ") {
				t.Fatalf("unexpected diagnostic %q", failure.Error())
			}
		})
	}
}

func TestReadFailureUnwrapsUnderlyingError(t *testing.T) {
	_, err := commands.ReadText(filepath.Join(t.TempDir(), "absent.rs"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist through ReadFailure, got %v", err)
	}
}
