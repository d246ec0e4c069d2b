package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Preview operations without making changes"
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Automatically confirm prompts"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun    bool
	AssumeYes bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun    ExecutionFlagDefinition
	AssumeYes ExecutionFlagDefinition
}

// BindExecutionFlags attaches standardized execution flags to the provided command using persistent scope.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	persistentFlagSet := command.PersistentFlags()

	bindBoolFlag(persistentFlagSet, definitions.DryRun, defaults.DryRun)
	bindBoolFlag(persistentFlagSet, definitions.AssumeYes, defaults.AssumeYes)
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil {
		return
	}
	if !definition.Enabled {
		return
	}
	if len(definition.Name) == 0 {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}

// ResolveBoolFlag reads a boolean flag value, reporting whether the user set it explicitly.
func ResolveBoolFlag(command *cobra.Command, flagName string) (value bool, changed bool) {
	if command == nil {
		return false, false
	}

	flagSet := command.Flags()
	if flagSet == nil {
		return false, false
	}

	flagValue, lookupError := flagSet.GetBool(flagName)
	if lookupError != nil {
		return false, false
	}

	return flagValue, flagSet.Changed(flagName)
}
