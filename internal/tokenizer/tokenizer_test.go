package tokenizer

import (
	"errors"
	"strings"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("boom") }

func TestCountText(t *testing.T) {
	testCases := []struct {
		name          string
		counter       Counter
		input         string
		expected      int
		expectedError string
	}{
		{name: "stub_counts_runes", counter: testCounter{}, input: "héllo", expected: 5},
		{name: "nil_counter_counts_nothing", counter: nil, input: "hello", expected: 0},
		{name: "empty_input", counter: testCounter{}, input: "", expected: 0},
		{name: "counter_error_is_wrapped", counter: failingCounter{}, input: "x", expectedError: "count tokens with failing: boom"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			tokens, err := CountText(testCase.counter, testCase.input)
			if testCase.expectedError != "" {
				if err == nil || !strings.Contains(err.Error(), testCase.expectedError) {
					t.Fatalf("expected error %q, got %v", testCase.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CountText error: %v", err)
			}
			if tokens != testCase.expected {
				t.Fatalf("expected %d tokens, got %d", testCase.expected, tokens)
			}
		})
	}
}

func TestTiktokenCounterRequiresEncoding(t *testing.T) {
	if _, err := (tiktokenCounter{name: "empty"}).CountString("hello"); err == nil {
		t.Fatalf("expected error for counter without encoding")
	}
}
