// Package commands implements the Tree Dumper: it walks a root directory,
// selects files by extension and reads their text.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/fdump/internal/extensions"
	"github.com/temirov/fdump/internal/tokenizer"
	"github.com/temirov/fdump/internal/utils"
)

const (
	WarningAccessPathFormat = "Warning: error accessing path %s: %v"
	WarningTokenCountFormat = "Warning: failed to count tokens for %s: %v"
	WarningNotRegularFormat = "Warning: skipping %s: not a regular file"
)

// DumpOptions configures a single Tree Dumper pass.
type DumpOptions struct {
	// Root is the directory to walk. Printed paths start with Root as spelled here.
	Root           string
	Extensions     extensions.Set
	IgnorePatterns []string
	TokenCounter   tokenizer.Counter
	TokenModel     string
	Warn           func(message string)
}

// DumpEntry is one selected file: either its content or the failure that prevented reading it.
type DumpEntry struct {
	Path      string
	Content   string
	SizeBytes int64
	Tokens    int
	Model     string
	Failure   *ReadFailure
}

// DumpVisitor receives each DumpEntry in traversal order.
type DumpVisitor func(DumpEntry) error

// StreamDump walks options.Root and invokes visitor for every file whose
// extension belongs to options.Extensions. Files that cannot be read are
// passed to the visitor with Failure set and never abort the walk.
// Symlinked directories are not followed.
func StreamDump(ctx context.Context, options DumpOptions, visitor DumpVisitor) error {
	if visitor == nil {
		return fmt.Errorf("dump visitor is nil")
	}
	if options.Root == "" {
		return fmt.Errorf("dump root path is empty")
	}
	if options.Extensions.Len() == 0 {
		options.Extensions = extensions.Default()
	}
	warn := options.Warn
	if warn == nil {
		warn = func(string) {}
	}

	walkRoot := options.Root
	if rootInfo, lstatError := os.Lstat(walkRoot); lstatError == nil && rootInfo.Mode()&fs.ModeSymlink != 0 {
		walkRoot += string(filepath.Separator)
	}

	return filepath.WalkDir(walkRoot, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		if accessError != nil {
			if walkedPath == walkRoot && directoryEntry == nil {
				return accessError
			}
			warn(fmt.Sprintf(WarningAccessPathFormat, walkedPath, accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, walkRoot)
		if relativePath == "." {
			return nil
		}
		if utils.ShouldIgnoreByPath(relativePath, options.IgnorePatterns) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() || !options.Extensions.Matches(walkedPath) {
			return nil
		}

		displayPath := joinDisplayPath(options.Root, relativePath)
		// A missing symlink target is left to the reader so it surfaces as a read failure.
		if targetInfo, statError := os.Stat(walkedPath); statError == nil {
			if targetInfo.IsDir() {
				return nil
			}
			if !targetInfo.Mode().IsRegular() {
				warn(fmt.Sprintf(WarningNotRegularFormat, displayPath))
				return nil
			}
		}

		return visitor(readEntry(walkedPath, displayPath, options, warn))
	})
}

func readEntry(walkedPath string, displayPath string, options DumpOptions, warn func(string)) DumpEntry {
	content, readError := ReadText(walkedPath)
	if readError != nil {
		var failure *ReadFailure
		if !errors.As(readError, &failure) {
			failure = newReadFailure(walkedPath, readError)
		}
		failure.Path = displayPath
		return DumpEntry{Path: displayPath, Failure: failure}
	}

	entry := DumpEntry{
		Path:      displayPath,
		Content:   content,
		SizeBytes: int64(len(content)),
	}
	tokens, countError := tokenizer.CountText(options.TokenCounter, content)
	if countError != nil {
		warn(fmt.Sprintf(WarningTokenCountFormat, displayPath, countError))
	} else if tokens > 0 {
		entry.Tokens = tokens
		entry.Model = options.TokenModel
	}
	return entry
}

// joinDisplayPath prefixes relativePath with root as the user spelled it,
// so a root of "." yields "./src/lib.rs".
func joinDisplayPath(root string, relativePath string) string {
	nativeRelative := filepath.FromSlash(relativePath)
	if strings.HasSuffix(root, string(filepath.Separator)) || strings.HasSuffix(root, "/") {
		return root + nativeRelative
	}
	return root + string(filepath.Separator) + nativeRelative
}
