// Package tokenizer estimates token counts for dumped file content.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

const defaultEncodingName = "cl100k_base"

// NewCounter returns a Counter for the requested model together with the model
// name that should be reported. Models unknown to tiktoken fall back to the
// cl100k_base encoding and report the encoding name instead.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	lowerModel := strings.ToLower(model)

	if encoding, encodingError := tiktoken.EncodingForModel(lowerModel); encodingError == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: lowerModel}, model, nil
	}
	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return tiktokenCounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}

// CountText counts tokens of already decoded text. A nil counter counts nothing.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, nil
	}
	tokens, countError := counter.CountString(text)
	if countError != nil {
		return 0, fmt.Errorf("count tokens with %s: %w", counter.Name(), countError)
	}
	return tokens, nil
}
