package utils

import "context"

type commandContextKey string

const configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")

// CommandContextAccessor reads and writes values carried on command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath stores the resolved configuration file path on the context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path carried on the context, when present.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathPresent := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	if !configurationFilePathPresent {
		return "", false
	}
	return configurationFilePath, true
}
