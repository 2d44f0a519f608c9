package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/fdump/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create %s: %v", filepath.Dir(filePath), makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

func TestLoadIgnoreFilePatternsSkipsCommentsAndNegations(t *testing.T) {
	ignorePath := filepath.Join(t.TempDir(), utils.GitIgnoreFileName)
	writeTestFile(t, ignorePath, "# build output\n\ntarget/\n  *.bak  \n!keep.bak\n")

	patterns, err := LoadIgnoreFilePatterns(ignorePath)
	if err != nil {
		t.Fatalf("LoadIgnoreFilePatterns error: %v", err)
	}
	expected := []string{"target/", "*.bak"}
	if !reflect.DeepEqual(patterns, expected) {
		t.Fatalf("expected %v, got %v", expected, patterns)
	}
}

func TestLoadIgnoreFilePatternsMissingFile(t *testing.T) {
	patterns, err := LoadIgnoreFilePatterns(filepath.Join(t.TempDir(), "absent"))
	if err != nil || patterns != nil {
		t.Fatalf("expected no patterns and no error, got %v, %v", patterns, err)
	}
}

func TestLoadRecursiveIgnorePatterns(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, utils.IgnoreFileName), "root.md\n")
	writeTestFile(t, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "/target/\n")
	writeTestFile(t, filepath.Join(rootDirectory, "crates", "core", utils.GitIgnoreFileName), "generated.rs\n")
	writeTestFile(t, filepath.Join(rootDirectory, utils.GitDirectoryName, utils.GitIgnoreFileName), "never.rs\n")

	testCases := []struct {
		name     string
		options  IgnoreOptions
		expected []string
	}{
		{
			name:     "nothing_enabled_walks_everything",
			options:  IgnoreOptions{IncludeGit: true},
			expected: []string{},
		},
		{
			name:     "nothing_enabled_without_git",
			options:  IgnoreOptions{},
			expected: []string{gitDirectoryPattern},
		},
		{
			name:     "gitignore_only",
			options:  IgnoreOptions{UseGitignore: true, IncludeGit: true},
			expected: []string{"target/", ".git/never.rs", "crates/core/generated.rs"},
		},
		{
			name:     "both_files_and_exclusions",
			options:  IgnoreOptions{UseGitignore: true, UseIgnoreFile: true, ExclusionPatterns: []string{" docs/ ", "", "root.md"}},
			expected: []string{"root.md", "target/", "crates/core/generated.rs", gitDirectoryPattern, "docs/"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			patterns, err := LoadRecursiveIgnorePatterns(rootDirectory, testCase.options)
			if err != nil {
				t.Fatalf("LoadRecursiveIgnorePatterns error: %v", err)
			}
			if !reflect.DeepEqual(patterns, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, patterns)
			}
		})
	}
}

func TestLoadRecursiveIgnorePatternsMissingRoot(t *testing.T) {
	_, err := LoadRecursiveIgnorePatterns(filepath.Join(t.TempDir(), "missing"), IgnoreOptions{UseGitignore: true})
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestLoadRecursiveIgnorePatternsSkipsUnreadableIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, ".gitignore"), "target/\n")
	// a directory named like the ignore file fails on read, even for privileged users
	unreadablePath := filepath.Join(root, "sub", ".gitignore")
	if err := os.MkdirAll(unreadablePath, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", unreadablePath, err)
	}
	writeTestFile(t, filepath.Join(root, "sub", "deeper", ".gitignore"), "generated.rs\n")

	var warnings []string
	patterns, err := LoadRecursiveIgnorePatterns(root, IgnoreOptions{
		UseGitignore: true,
		IncludeGit:   true,
		Warn: func(message string) {
			warnings = append(warnings, message)
		},
	})
	if err != nil {
		t.Fatalf("expected unreadable ignore file to be skipped, got %v", err)
	}
	expectedPatterns := []string{"target/", "sub/deeper/generated.rs"}
	if !reflect.DeepEqual(patterns, expectedPatterns) {
		t.Fatalf("expected %v, got %v", expectedPatterns, patterns)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], unreadablePath) {
		t.Fatalf("expected one warning naming %s, got %v", unreadablePath, warnings)
	}
}
