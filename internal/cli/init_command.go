package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/fdump/internal/config"
)

const (
	initUse                   = "init"
	initShortDescription      = "write a default configuration file"
	initLongDescription       = `Write the built-in defaults to ./.fdump.yaml, or to ~/.fdump/config.yaml with --global.
An existing file is kept unless --force is given.`
	initGlobalFlagName        = "global"
	initGlobalFlagDescription = "write the global configuration under the home directory"
	initForceFlagName         = "force"
	initForceFlagDescription  = "overwrite an existing configuration file"
	initWrittenMessageFormat  = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			workingDirectory, err := dependencies.workingDirectory()
			if err != nil {
				return err
			}
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(dependencies.stdout(command), initWrittenMessageFormat, writtenPath)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, initGlobalFlagName, false, initGlobalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, initForceFlagName, false, initForceFlagDescription)
	return initCommand
}
