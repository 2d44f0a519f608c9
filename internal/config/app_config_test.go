package config

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/fdump/internal/utils"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name             string
		globalContent    string
		localContent     string
		explicitPath     string
		explicitContent  string
		expectFormat     string
		expectSummary    *bool
		expectExtensions []string
		expectModel      string
		expectGitignore  *bool
		expectExclude    []string
	}{
		{
			name:             "local_overrides_global",
			globalContent:    "format: json\nsummary: true\nextensions: [go]\ntokens:\n  model: gpt-4\n",
			localContent:     "format: xml\nextensions:\n  - .rs\n  - .md\npaths:\n  use_gitignore: true\n  exclude: [target/, target/]\n",
			expectFormat:     "xml",
			expectSummary:    boolPointer(true),
			expectExtensions: []string{".rs", ".md"},
			expectModel:      "gpt-4",
			expectGitignore:  boolPointer(true),
			expectExclude:    []string{"target/"},
		},
		{
			name:            "explicit_path_replaces_local",
			globalContent:   "",
			localContent:    "format: json\n",
			explicitPath:    "custom.yaml",
			explicitContent: "format: markdown\nsummary: false\n",
			expectFormat:    "markdown",
			expectSummary:   boolPointer(false),
		},
		{
			name:          "no_files",
			expectFormat:  "",
			expectExclude: []string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			if testCase.globalContent != "" {
				writeTestFile(t, filepath.Join(homeDir, utils.GlobalConfigDirectoryName, utils.ConfigFileName), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeTestFile(t, filepath.Join(workingDir, utils.LocalConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeTestFile(t, filepath.Join(workingDir, testCase.explicitPath), testCase.explicitContent)
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loadedConfig.Format)
			}
			if !reflect.DeepEqual(loadedConfig.Summary, testCase.expectSummary) {
				t.Fatalf("unexpected summary value %v", loadedConfig.Summary)
			}
			if testCase.expectExtensions != nil && !reflect.DeepEqual(loadedConfig.Extensions, testCase.expectExtensions) {
				t.Fatalf("expected extensions %v, got %v", testCase.expectExtensions, loadedConfig.Extensions)
			}
			if loadedConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Tokens.Model)
			}
			if !reflect.DeepEqual(loadedConfig.Paths.UseGitignore, testCase.expectGitignore) {
				t.Fatalf("unexpected use_gitignore value %v", loadedConfig.Paths.UseGitignore)
			}
			if testCase.expectExclude != nil && !reflect.DeepEqual(loadedConfig.Paths.Exclude, testCase.expectExclude) {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, loadedConfig.Paths.Exclude)
			}
		})
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		ExplicitFilePath: "absent.yaml",
	})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration file")
	}
}

func TestLoadApplicationConfigurationRejectsMalformedYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDir := t.TempDir()
	writeTestFile(t, filepath.Join(workingDir, utils.LocalConfigFileName), "format: [unterminated\n")
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir}); err == nil {
		t.Fatalf("expected error for malformed configuration")
	}
}

func TestMergeKeepsBaseWhenOverrideUnset(t *testing.T) {
	base := ApplicationConfiguration{
		Format:     "json",
		Summary:    boolPointer(true),
		Extensions: []string{".go"},
		Paths:      PathConfiguration{IncludeGit: boolPointer(false)},
	}
	merged := base.Merge(ApplicationConfiguration{Clipboard: boolPointer(true)})
	if merged.Format != "json" || merged.Summary == nil || !*merged.Summary {
		t.Fatalf("expected base values preserved, got %+v", merged)
	}
	if merged.Paths.IncludeGit == nil || *merged.Paths.IncludeGit {
		t.Fatalf("expected include_git=false preserved")
	}
	if merged.Clipboard == nil || !*merged.Clipboard {
		t.Fatalf("expected clipboard override applied")
	}
}
