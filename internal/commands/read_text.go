package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"
)

// FailureKind classifies a File Read Failure.
type FailureKind string

const (
	FailureKindPermission FailureKind = "permission"
	FailureKindDecode     FailureKind = "decode"
	FailureKindIO         FailureKind = "io"
)

// DiagnosticFormat is the one-line report printed for a file that could not be read.
const DiagnosticFormat = "Could not read %s: %v"

// ReadFailure reports that a single selected file could not be read or decoded.
type ReadFailure struct {
	Path string
	Kind FailureKind
	Err  error
}

func (failure *ReadFailure) Error() string {
	return fmt.Sprintf(DiagnosticFormat, failure.Path, failure.Reason())
}

func (failure *ReadFailure) Unwrap() error {
	return failure.Err
}

// Reason returns the underlying error text without the path, which the
// diagnostic line already names.
func (failure *ReadFailure) Reason() string {
	var pathError *fs.PathError
	if errors.As(failure.Err, &pathError) {
		return pathError.Err.Error()
	}
	if failure.Err == nil {
		return "unknown error"
	}
	return failure.Err.Error()
}

// DecodeError reports content that is not valid UTF-8.
type DecodeError struct {
	Offset int
	Byte   byte
}

func (decodeError *DecodeError) Error() string {
	return fmt.Sprintf("invalid UTF-8 byte 0x%02x at offset %d", decodeError.Byte, decodeError.Offset)
}

// ReadText reads the whole file at path and returns it as UTF-8 text.
// Failures are returned as *ReadFailure.
func ReadText(path string) (string, error) {
	// #nosec G304
	fileBytes, readError := os.ReadFile(path)
	if readError != nil {
		return "", newReadFailure(path, readError)
	}
	if offset := invalidUTF8Offset(fileBytes); offset >= 0 {
		return "", &ReadFailure{
			Path: path,
			Kind: FailureKindDecode,
			Err:  &DecodeError{Offset: offset, Byte: fileBytes[offset]},
		}
	}
	return string(fileBytes), nil
}

func newReadFailure(path string, err error) *ReadFailure {
	kind := FailureKindIO
	if errors.Is(err, fs.ErrPermission) {
		kind = FailureKindPermission
	}
	return &ReadFailure{Path: path, Kind: kind, Err: err}
}

// invalidUTF8Offset returns the offset of the first invalid sequence or -1.
func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	offset := 0
	for offset < len(data) {
		decodedRune, runeSize := utf8.DecodeRune(data[offset:])
		if decodedRune == utf8.RuneError && runeSize <= 1 {
			return offset
		}
		offset += runeSize
	}
	return -1
}
