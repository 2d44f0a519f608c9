package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/fdump/internal/extensions"
	"github.com/temirov/fdump/internal/tokenizer"
	"github.com/temirov/fdump/internal/types"
	"github.com/temirov/fdump/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationFileMode      = 0o600
	configurationDirectoryMode = 0o755
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// DefaultConfiguration returns the configuration equivalent to running without any file.
func DefaultConfiguration() ApplicationConfiguration {
	disabled := false
	enabled := true
	return ApplicationConfiguration{
		Format:     types.FormatMarkdown,
		Summary:    cloneBool(&disabled),
		Extensions: append([]string{}, extensions.DefaultExtensions...),
		Tokens: TokenConfiguration{
			Enabled: cloneBool(&disabled),
			Model:   tokenizer.DefaultModel,
		},
		Paths: PathConfiguration{
			Exclude:       []string{},
			UseGitignore:  cloneBool(&disabled),
			UseIgnoreFile: cloneBool(&disabled),
			IncludeGit:    cloneBool(&enabled),
		},
		Clipboard: cloneBool(&disabled),
	}
}

// InitializeConfiguration writes the default configuration to the requested target and returns its path.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, configurationDirectoryMode); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	rendered, marshalErr := yaml.Marshal(DefaultConfiguration())
	if marshalErr != nil {
		return "", fmt.Errorf("render default configuration: %w", marshalErr)
	}
	if err := os.WriteFile(destinationPath, rendered, configurationFileMode); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
