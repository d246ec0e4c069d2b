package sync

import "strings"

const (
	configurationKeySeparatorConstant  = "."
	configurationRemoteKeyConstant     = "remote"
	configurationFallbackBranchKey     = "fallback_branch"
	configurationReportFileKeyConstant = "report_file"
	configurationDryRunKeyConstant     = "dry_run"
	configurationAssumeYesKeyConstant  = "assume_yes"
	defaultFallbackBranchNameConstant  = "main"
)

// CommandConfiguration captures configuration values for the synchronization
// command.
type CommandConfiguration struct {
	RemoteName     string `mapstructure:"remote"`
	FallbackBranch string `mapstructure:"fallback_branch"`
	ReportFile     string `mapstructure:"report_file"`
	DryRun         bool   `mapstructure:"dry_run"`
	AssumeYes      bool   `mapstructure:"assume_yes"`
}

// DefaultCommandConfiguration provides baseline configuration values for
// synchronization.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:     defaultRemoteNameConstant,
		FallbackBranch: defaultFallbackBranchNameConstant,
		ReportFile:     "",
		DryRun:         false,
		AssumeYes:      false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the synchronization
// command rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationRemoteKeyConstant:     defaults.RemoteName,
		rootKey + configurationKeySeparatorConstant + configurationFallbackBranchKey:     defaults.FallbackBranch,
		rootKey + configurationKeySeparatorConstant + configurationReportFileKeyConstant: defaults.ReportFile,
		rootKey + configurationKeySeparatorConstant + configurationDryRunKeyConstant:     defaults.DryRun,
		rootKey + configurationKeySeparatorConstant + configurationAssumeYesKeyConstant:  defaults.AssumeYes,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	sanitized.FallbackBranch = strings.TrimSpace(configuration.FallbackBranch)
	sanitized.ReportFile = strings.TrimSpace(configuration.ReportFile)
	return sanitized
}

// ExecutionOptions derives the run-wide behavior toggles.
func (configuration CommandConfiguration) ExecutionOptions() ExecutionOptions {
	return ExecutionOptions{
		DryRun:    configuration.DryRun,
		AssumeYes: configuration.AssumeYes,
	}
}
