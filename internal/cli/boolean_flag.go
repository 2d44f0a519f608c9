package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName       = "bool"
	booleanFlagTrueLiteral    = "true"
	booleanFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	invalidBooleanValueFormat = "invalid boolean value %q for --%s; accepted values: %s"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// toggleValue is a pflag.Value accepting the literals above, so that
// "--summary no" and "--summary=off" both work.
type toggleValue struct {
	target   *bool
	flagName string
}

func (value *toggleValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, known := booleanFlagLiterals[normalized]
	if !known {
		return fmt.Errorf(invalidBooleanValueFormat, input, value.flagName, booleanFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag registers a toggle flag that may be given bare, with
// "=value", or followed by a separate literal (see normalizeBooleanFlagArguments).
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleValue{target: target, flagName: name}, name, usage)
	if registered := flagSet.Lookup(name); registered != nil {
		registered.DefValue = strconv.FormatBool(defaultValue)
		registered.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeBooleanFlagArguments folds "--flag literal" into "--flag=literal"
// for toggle flags. A literal that names an existing directory is left alone
// because it is a dump root.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	toggleNames := map[string]struct{}{}
	collectBooleanFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if foldedArgument, folded := foldBooleanArgument(toggleNames, currentArgument, arguments[index+1:]); folded {
			normalized = append(normalized, foldedArgument)
			index++
			continue
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func foldBooleanArgument(toggleNames map[string]struct{}, currentArgument string, remaining []string) (string, bool) {
	if !strings.HasPrefix(currentArgument, "--") || strings.Contains(currentArgument, "=") || len(remaining) == 0 {
		return "", false
	}
	flagName := strings.TrimPrefix(currentArgument, "--")
	if _, isToggle := toggleNames[flagName]; !isToggle {
		return "", false
	}
	nextArgument := remaining[0]
	if strings.HasPrefix(nextArgument, "-") {
		return "", false
	}
	if _, isLiteral := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; !isLiteral {
		return "", false
	}
	if info, statErr := os.Stat(nextArgument); statErr == nil && info.IsDir() {
		return "", false
	}
	return fmt.Sprintf("--%s=%s", flagName, nextArgument), true
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value != nil && flag.Value.Type() == booleanFlagTypeName {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
