// Package config loads fdump configuration files and parses ignore files into slices of patterns.
package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/fdump/internal/utils"
)

const (
	// gitDirectoryPattern represents the pattern that matches the Git directory.
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	commentPrefix       = "#"
	negationPrefix      = "!"
)

// WarningIgnoreFileFormat reports an ignore file that could not be read.
const WarningIgnoreFileFormat = "Warning: skipping ignore file %s: %v"

// IgnoreOptions selects which ignore sources contribute patterns for a root.
type IgnoreOptions struct {
	ExclusionPatterns []string
	UseGitignore      bool
	UseIgnoreFile     bool
	IncludeGit        bool
	// Warn receives a message for every ignore file that cannot be read.
	Warn func(message string)
}

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns.
// A missing file yields no patterns. Blank lines, comments and negated
// patterns are skipped.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer fileHandle.Close()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) || strings.HasPrefix(trimmedLine, negationPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadRecursiveIgnorePatterns aggregates the patterns that apply under rootDirectoryPath.
// When enabled, patterns from utils.IgnoreFileName and utils.GitIgnoreFileName in every
// nested directory are prefixed with that directory's path relative to the root. The Git
// directory is excluded unless IncludeGit is set. ExclusionPatterns are appended last.
// Subdirectories that cannot be listed are skipped; the dumper reports them.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, options IgnoreOptions) ([]string, error) {
	var aggregatedPatterns []string

	if options.UseGitignore || options.UseIgnoreFile {
		walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				if currentDirectoryPath == rootDirectoryPath {
					return walkError
				}
				if directoryEntry != nil && directoryEntry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !directoryEntry.IsDir() {
				return nil
			}
			if !options.IncludeGit && directoryEntry.Name() == utils.GitDirectoryName {
				return filepath.SkipDir
			}

			relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
			prefix := ""
			if relativeDirectory != "." {
				prefix = relativeDirectory + "/"
			}

			var ignoreFileNames []string
			if options.UseIgnoreFile {
				ignoreFileNames = append(ignoreFileNames, utils.IgnoreFileName)
			}
			if options.UseGitignore {
				ignoreFileNames = append(ignoreFileNames, utils.GitIgnoreFileName)
			}
			for _, ignoreFileName := range ignoreFileNames {
				ignoreFilePath := filepath.Join(currentDirectoryPath, ignoreFileName)
				filePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
				if loadError != nil {
					if options.Warn != nil {
						options.Warn(fmt.Sprintf(WarningIgnoreFileFormat, ignoreFilePath, loadError))
					}
					continue
				}
				for _, pattern := range filePatterns {
					aggregatedPatterns = append(aggregatedPatterns, prefix+strings.TrimPrefix(pattern, "/"))
				}
			}
			return nil
		}

		if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
			return nil, walkError
		}
	}

	if !options.IncludeGit {
		aggregatedPatterns = append(aggregatedPatterns, gitDirectoryPattern)
	}

	deduplicatedPatterns := utils.DeduplicatePatterns(aggregatedPatterns)
	for _, pattern := range options.ExclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(deduplicatedPatterns, trimmedPattern) {
			deduplicatedPatterns = append(deduplicatedPatterns, trimmedPattern)
		}
	}

	return deduplicatedPatterns, nil
}
