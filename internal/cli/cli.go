// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/fdump/internal/config"
	"github.com/temirov/fdump/internal/extensions"
	"github.com/temirov/fdump/internal/output"
	"github.com/temirov/fdump/internal/services/clipboard"
	"github.com/temirov/fdump/internal/services/stream"
	"github.com/temirov/fdump/internal/tokenizer"
	"github.com/temirov/fdump/internal/types"
	"github.com/temirov/fdump/internal/utils"
)

const (
	extensionFlagName     = "ext"
	formatFlagName        = "format"
	summaryFlagName       = "summary"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	copyFlagName          = "copy"
	exclusionFlagName     = "exclude"
	exclusionFlagShortcut = "e"
	gitignoreFlagName     = "gitignore"
	ignoreFileFlagName    = "ignore"
	noGitFlagName         = "no-git"
	configFlagName        = "config"
	versionFlagName       = "version"
	versionTemplate       = utils.ApplicationName + " version: %s\n"
	defaultPath           = "."
	rootUse               = utils.ApplicationName + " [root...]"
	rootShortDescription  = "print source files under a directory as markdown code blocks"
	rootLongDescription   = `fdump walks each root directory (default ".") and prints every file whose
extension is selected (default .rs, .toml, .md) as a "### <path>" heading
followed by a fenced code block. Files that cannot be read are reported inline
and skipped; the run still succeeds.

Defaults are read from ~/.fdump/config.yaml and ./.fdump.yaml (or --config);
flags override both.`
	rootUsageExample = `  # Dump Rust sources and manifests under the current directory
  fdump

  # Dump Go and YAML files from two roots as JSON
  fdump --ext go,yaml --format json ./cmd ./internal

  # Respect .gitignore and copy the result to the clipboard
  fdump --gitignore --copy`

	extensionFlagDescription  = "file extensions to include, replacing the configured set (repeatable, comma separated)"
	formatFlagDescription     = "output format: markdown, json or xml"
	summaryFlagDescription    = "print a summary after the dump"
	tokensFlagDescription     = "count tokens for each dumped file"
	modelFlagDescription      = "tokenizer model to use for token counting"
	copyFlagDescription       = "also copy the rendered output to the clipboard"
	exclusionFlagDescription  = "exclude path pattern"
	gitignoreFlagDescription  = "skip paths matched by .gitignore files"
	ignoreFileFlagDescription = "skip paths matched by .ignore files"
	noGitFlagDescription      = "skip the .git directory"
	configFlagDescription     = "configuration file to use instead of ./.fdump.yaml"
	versionFlagDescription    = "display application version"

	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	invalidExtensionsFormat     = "invalid extension set: %w"
	clipboardCopyErrorFormat    = "copy output to clipboard: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing root.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorNotDirectoryFormat reports a root that is not a directory.
	errorNotDirectoryFormat = "path '%s' is not a directory"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
)

// Dependencies carries the process resources used by the command tree.
// WorkingDirectory is where .fdump.yaml is looked up; roots are always
// resolved against the process working directory.
type Dependencies struct {
	Stdout           io.Writer
	Stderr           io.Writer
	Clipboard        clipboard.Copier
	WorkingDirectory string
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatMarkdown, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the fdump application with the process arguments.
func Execute(ctx context.Context) error {
	rootCommand := NewRootCommand(Dependencies{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: clipboard.NewService(),
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// dumpFlags holds the raw values of the root command flags.
type dumpFlags struct {
	extensions        []string
	format            string
	summary           bool
	tokens            bool
	model             string
	copyToClipboard   bool
	exclusionPatterns []string
	useGitignore      bool
	useIgnoreFile     bool
	excludeGit        bool
	configPath        string
	showVersion       bool
}

// dumpSettings is the effective configuration after merging files and flags.
type dumpSettings struct {
	format          string
	summary         bool
	extensions      extensions.Set
	tokens          bool
	model           string
	copyToClipboard bool
	ignore          config.IgnoreOptions
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var flags dumpFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, err := fmt.Fprintf(dependencies.stdout(command), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			workingDirectory, err := dependencies.workingDirectory()
			if err != nil {
				return err
			}
			settings, err := resolveDumpSettings(command, flags, workingDirectory)
			if err != nil {
				return err
			}
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			return runDump(command.Context(), dependencies, command, settings, arguments)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringSliceVar(&flags.extensions, extensionFlagName, nil, extensionFlagDescription)
	flagSet.StringVar(&flags.format, formatFlagName, types.FormatMarkdown, formatFlagDescription)
	registerBooleanFlag(flagSet, &flags.summary, summaryFlagName, false, summaryFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(flagSet, &flags.copyToClipboard, copyFlagName, false, copyFlagDescription)
	flagSet.StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionFlagShortcut, nil, exclusionFlagDescription)
	registerBooleanFlag(flagSet, &flags.useGitignore, gitignoreFlagName, false, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &flags.useIgnoreFile, ignoreFileFlagName, false, ignoreFileFlagDescription)
	registerBooleanFlag(flagSet, &flags.excludeGit, noGitFlagName, false, noGitFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, utils.EmptyString, configFlagDescription)
	flagSet.BoolVar(&flags.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func (dependencies Dependencies) stdout(command *cobra.Command) io.Writer {
	if dependencies.Stdout != nil {
		return dependencies.Stdout
	}
	return command.OutOrStdout()
}

func (dependencies Dependencies) stderr(command *cobra.Command) io.Writer {
	if dependencies.Stderr != nil {
		return dependencies.Stderr
	}
	return command.ErrOrStderr()
}

func (dependencies Dependencies) workingDirectory() (string, error) {
	if dependencies.WorkingDirectory != "" {
		return dependencies.WorkingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	return workingDirectory, nil
}

// resolveDumpSettings layers defaults, configuration files and explicitly set flags.
func resolveDumpSettings(command *cobra.Command, flags dumpFlags, workingDirectory string) (dumpSettings, error) {
	fileConfiguration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if err != nil {
		return dumpSettings{}, err
	}
	effective := config.DefaultConfiguration().Merge(fileConfiguration)

	changed := command.Flags().Changed
	if changed(formatFlagName) {
		effective.Format = flags.format
	}
	if changed(extensionFlagName) {
		effective.Extensions = flags.extensions
	}
	if changed(summaryFlagName) {
		effective.Summary = &flags.summary
	}
	if changed(tokensFlagName) {
		effective.Tokens.Enabled = &flags.tokens
	}
	if changed(modelFlagName) {
		effective.Tokens.Model = flags.model
	}
	if changed(copyFlagName) {
		effective.Clipboard = &flags.copyToClipboard
	}
	if changed(gitignoreFlagName) {
		effective.Paths.UseGitignore = &flags.useGitignore
	}
	if changed(ignoreFileFlagName) {
		effective.Paths.UseIgnoreFile = &flags.useIgnoreFile
	}
	if changed(noGitFlagName) {
		includeGit := !flags.excludeGit
		effective.Paths.IncludeGit = &includeGit
	}

	format := strings.ToLower(strings.TrimSpace(effective.Format))
	if !isSupportedFormat(format) {
		return dumpSettings{}, fmt.Errorf(invalidFormatMessage, effective.Format)
	}
	extensionSet, err := extensions.NewSet(effective.Extensions)
	if err != nil {
		return dumpSettings{}, fmt.Errorf(invalidExtensionsFormat, err)
	}

	return dumpSettings{
		format:          format,
		summary:         isEnabled(effective.Summary),
		extensions:      extensionSet,
		tokens:          isEnabled(effective.Tokens.Enabled),
		model:           effective.Tokens.Model,
		copyToClipboard: isEnabled(effective.Clipboard),
		ignore: config.IgnoreOptions{
			ExclusionPatterns: append(append([]string{}, effective.Paths.Exclude...), flags.exclusionPatterns...),
			UseGitignore:      isEnabled(effective.Paths.UseGitignore),
			UseIgnoreFile:     isEnabled(effective.Paths.UseIgnoreFile),
			IncludeGit:        effective.Paths.IncludeGit == nil || *effective.Paths.IncludeGit,
		},
	}, nil
}

func isEnabled(value *bool) bool {
	return value != nil && *value
}

// runDump renders every validated root in order through a single renderer.
func runDump(ctx context.Context, dependencies Dependencies, command *cobra.Command, settings dumpSettings, roots []string) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	validatedPaths, err := resolveAndValidatePaths(roots)
	if err != nil {
		return err
	}

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if settings.tokens {
		createdCounter, resolvedModel, counterErr := tokenizer.NewCounter(tokenizer.Config{Model: settings.model})
		if counterErr != nil {
			return counterErr
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	stdout := dependencies.stdout(command)
	var copyBuffer *bytes.Buffer
	if settings.copyToClipboard {
		copyBuffer = &bytes.Buffer{}
		stdout = io.MultiWriter(stdout, copyBuffer)
	}

	renderer, err := output.NewStreamRenderer(settings.format, stdout, dependencies.stderr(command), settings.summary)
	if err != nil {
		return err
	}

	defer func() {
		if flushErr := renderer.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
		if err != nil || copyBuffer == nil {
			return
		}
		copier := dependencies.Clipboard
		if copier == nil {
			copier = clipboard.NewService()
		}
		if copyErr := copier.Copy(copyBuffer.String()); copyErr != nil {
			err = fmt.Errorf(clipboardCopyErrorFormat, copyErr)
		}
	}()

	ignoreOptions := settings.ignore
	ignoreOptions.Warn = func(message string) {
		output.WriteWarning(dependencies.stderr(command), message)
	}
	for _, validatedPath := range validatedPaths {
		ignorePatterns, loadErr := config.LoadRecursiveIgnorePatterns(validatedPath.AbsolutePath, ignoreOptions)
		if loadErr != nil {
			return loadErr
		}
		if streamErr := runDumpPath(ctx, renderer, validatedPath, settings, ignorePatterns, tokenCounter, tokenModel); streamErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// the stream already reported the failure as a warning event
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return nil
}

func runDumpPath(
	ctx context.Context,
	renderer output.StreamRenderer,
	path types.ValidatedPath,
	settings dumpSettings,
	ignorePatterns []string,
	tokenCounter tokenizer.Counter,
	tokenModel string,
) error {
	producer := func(streamCtx context.Context, ch chan<- stream.Event) error {
		options := stream.DumpOptions{
			Root:           path.DisplayPath,
			Extensions:     settings.extensions,
			IgnorePatterns: ignorePatterns,
			TokenCounter:   tokenCounter,
			TokenModel:     tokenModel,
		}
		return stream.StreamDump(streamCtx, options, ch)
	}

	consumer := func(event stream.Event) error {
		return renderer.Handle(event)
	}

	return dispatchStream(ctx, producer, consumer)
}

func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// resolveAndValidatePaths checks that every root exists and is a directory,
// dropping repeated roots. The spelling given by the user is kept for display.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf(errorNotDirectoryFormat, inputPath)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{DisplayPath: inputPath, AbsolutePath: cleanPath})
	}
	return result, nil
}
