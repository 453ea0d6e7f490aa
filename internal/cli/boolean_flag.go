package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName      = "bool"
	toggleTrueLiteral       = "true"
	toggleAcceptedLiterals  = "true, false, yes, no, on, off, 1, 0"
	longFlagPrefix          = "--"
	shortFlagPrefix         = "-"
	flagValueSeparator      = "="
	argumentTerminator      = "--"
	normalizedToggleFormat  = "--%s=%s"
	errorToggleValueFormat  = "invalid boolean value %q for --%s; accepted values: %s"
	errorToggleTargetFormat = "invalid boolean value %q for --%s: flag is not bound"
)

var toggleLiterals = map[string]bool{
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

// toggleFlagValue is a pflag.Value accepting yes/no style literals as well as true/false.
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func (value *toggleFlagValue) Set(input string) error {
	if value.target == nil {
		return fmt.Errorf(errorToggleTargetFormat, input, value.flagName)
	}
	literal := strings.ToLower(strings.TrimSpace(input))
	if literal == "" {
		literal = toggleTrueLiteral
	}
	parsed, known := toggleLiterals[literal]
	if !known {
		return fmt.Errorf(errorToggleValueFormat, input, value.flagName, toggleAcceptedLiterals)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag binds a toggle that may appear bare (--git), with a literal
// (--git=no), or followed by a separate literal once arguments are normalized.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.VarP(&toggleFlagValue{target: target, flagName: name}, name, shorthand, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleTrueLiteral
}

// normalizeBooleanFlagArguments joins a toggle and a following literal into one
// --name=literal argument. Both long names and single-letter shorthands are recognized.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	toggleNames := map[string]string{}
	collectBooleanFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flagName, isToggle := toggleNameFor(currentArgument, toggleNames)
		if isToggle && index+1 < len(arguments) && isToggleLiteral(arguments[index+1]) {
			normalized = append(normalized, fmt.Sprintf(normalizedToggleFormat, flagName, arguments[index+1]))
			index++
			continue
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

// toggleNameFor resolves "--name" or "-x" to the long name of a registered toggle.
func toggleNameFor(argument string, toggleNames map[string]string) (string, bool) {
	if strings.Contains(argument, flagValueSeparator) {
		return "", false
	}
	var key string
	switch {
	case strings.HasPrefix(argument, longFlagPrefix):
		key = strings.TrimPrefix(argument, longFlagPrefix)
	case strings.HasPrefix(argument, shortFlagPrefix) && len(argument) == len(shortFlagPrefix)+1:
		key = strings.TrimPrefix(argument, shortFlagPrefix)
	default:
		return "", false
	}
	flagName, found := toggleNames[key]
	return flagName, found
}

func isToggleLiteral(argument string) bool {
	if strings.HasPrefix(argument, shortFlagPrefix) {
		return false
	}
	_, known := toggleLiterals[strings.ToLower(strings.TrimSpace(argument))]
	return known
}

// collectBooleanFlagNames maps every toggle's long name and shorthand to its long name,
// across the command and its subcommands.
func collectBooleanFlagNames(command *cobra.Command, toggleNames map[string]string) {
	recordToggles := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value.Type() != toggleFlagTypeName {
				return
			}
			toggleNames[flag.Name] = flag.Name
			if flag.Shorthand != "" {
				toggleNames[flag.Shorthand] = flag.Name
			}
		})
	}
	recordToggles(command.PersistentFlags())
	recordToggles(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, toggleNames)
	}
}
