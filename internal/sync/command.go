package sync

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shibuido/sync-submodules/internal/execshell"
	"github.com/shibuido/sync-submodules/internal/gitrepo"
	"github.com/shibuido/sync-submodules/internal/submodules"
	"github.com/shibuido/sync-submodules/internal/ui"
	"github.com/shibuido/sync-submodules/internal/utils"
	"github.com/shibuido/sync-submodules/internal/utils/flags"
	pathutils "github.com/shibuido/sync-submodules/internal/utils/path"
)

const (
	commandUseConstant              = "sync-submodules [path]"
	commandShortDescriptionConstant = "Synchronize a superrepo and its nested submodules with their upstreams"
	commandLongDescriptionConstant  = "sync-submodules walks the recursive submodule tree of the repository containing " +
		"the given path (the current directory by default), fast-forwards or pushes every clean repository, and " +
		"commits submodule pointer updates bottom-up so the superrepo records the synchronized state. Repositories " +
		"that are dirty, diverged, or otherwise unsafe are reported with remediation guidance instead of being touched."
	commandExecutionErrorTemplateConstant = "synchronization failed: %w"
	manualInterventionErrorTemplateCons   = "%d repositories need manual intervention"
	flagRemoteNameConstant                = "remote"
	flagRemoteDescriptionConstant         = "Name of the remote referenced in remediation guidance"
	flagReportFileNameConstant            = "report-file"
	flagReportFileDescriptionConstant     = "Write the synchronization report as YAML to this path"
	instructionsSeparatorConstant         = "\n\n"
	confirmationDefaultOnEmptyInputChoice = true
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for superrepo synchronization.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Executor              gitrepo.GitExecutor
	Prompter              ConfirmationPrompter
}

// Build constructs the synchronization command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{DryRun: defaults.DryRun, AssumeYes: defaults.AssumeYes}, flags.ExecutionFlagDefinitions{
		DryRun:    flags.ExecutionFlagDefinition{Name: flags.DryRunFlagName, Usage: flags.DryRunFlagUsage, Enabled: true},
		AssumeYes: flags.ExecutionFlagDefinition{Name: flags.AssumeYesFlagName, Usage: flags.AssumeYesFlagUsage, Shorthand: flags.AssumeYesFlagShorthand, Enabled: true},
	})
	command.Flags().String(flagRemoteNameConstant, defaults.RemoteName, flagRemoteDescriptionConstant)
	command.Flags().String(flagReportFileNameConstant, defaults.ReportFile, flagReportFileDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)

	workingDirectory := ""
	if len(arguments) > 0 {
		workingDirectory = arguments[0]
	}
	resolvedWorkingDirectory := pathutils.NewRepositoryPathResolver().Resolve(workingDirectory)

	logger := builder.resolveLogger()
	service, serviceError := builder.assembleService(command, logger, configuration)
	if serviceError != nil {
		return serviceError
	}

	syncReport, runError := service.Run(command.Context(), resolvedWorkingDirectory)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	outputWriter := command.OutOrStdout()
	colorEnabled := ui.WriterSupportsColor(outputWriter)
	if summaryError := syncReport.WriteSummaryTable(outputWriter, colorEnabled); summaryError != nil {
		return summaryError
	}
	if len(configuration.ReportFile) > 0 {
		if reportError := syncReport.WriteFile(configuration.ReportFile); reportError != nil {
			return reportError
		}
	}
	if syncReport.HasFailures() {
		writeInstructions(command.ErrOrStderr(), syncReport)
		_, _, attentionCount := syncReport.CountByAttention()
		return fmt.Errorf(manualInterventionErrorTemplateCons, attentionCount)
	}
	return nil
}

// resolveConfiguration merges the configured values with explicit flag
// overrides; a flag only wins when the user actually set it.
func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration = configuration.Sanitize()

	if dryRunValue, dryRunChanged := flags.ResolveBoolFlag(command, flags.DryRunFlagName); dryRunChanged {
		configuration.DryRun = dryRunValue
	}
	if assumeYesValue, assumeYesChanged := flags.ResolveBoolFlag(command, flags.AssumeYesFlagName); assumeYesChanged {
		configuration.AssumeYes = assumeYesValue
	}
	if command.Flags().Changed(flagRemoteNameConstant) {
		remoteValue, _ := command.Flags().GetString(flagRemoteNameConstant)
		configuration.RemoteName = remoteValue
	}
	if command.Flags().Changed(flagReportFileNameConstant) {
		reportFileValue, _ := command.Flags().GetString(flagReportFileNameConstant)
		configuration.ReportFile = reportFileValue
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) assembleService(command *cobra.Command, logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return nil, executorError
	}

	repositoryManager, repositoryError := gitrepo.NewRepositoryManager(executor, logger)
	if repositoryError != nil {
		return nil, repositoryError
	}
	submoduleManager, submoduleError := submodules.NewManager(executor)
	if submoduleError != nil {
		return nil, submoduleError
	}
	statusInspector, inspectorError := NewStatusInspector(repositoryManager)
	if inspectorError != nil {
		return nil, inspectorError
	}

	executionOptions := configuration.ExecutionOptions()
	confirmationPrompter := builder.Prompter
	if confirmationPrompter == nil {
		promptOutputWriter := utils.NewFlushingWriter(command.OutOrStdout())
		confirmationPrompter = NewIOConfirmationPrompter(command.InOrStdin(), promptOutputWriter, confirmationDefaultOnEmptyInputChoice)
	}

	referenceReconciler, reconcilerError := NewReferenceReconciler(ReconcilerDependencies{
		Repositories: repositoryManager,
		Submodules:   submoduleManager,
		Prompter:     confirmationPrompter,
		Logger:       logger,
	}, executionOptions)
	if reconcilerError != nil {
		return nil, reconcilerError
	}

	repositorySyncer, syncerError := NewRepositorySyncer(SyncerDependencies{
		Repositories:   repositoryManager,
		Submodules:     submoduleManager,
		Inspector:      statusInspector,
		Reconciler:     referenceReconciler,
		Logger:         logger,
		RemoteName:     configuration.RemoteName,
		FallbackBranch: configuration.FallbackBranch,
	}, executionOptions)
	if syncerError != nil {
		return nil, syncerError
	}

	submoduleWalker, walkerError := NewSubmoduleWalker(WalkerDependencies{
		Submodules: submoduleManager,
		Syncer:     repositorySyncer,
		Reconciler: referenceReconciler,
		Logger:     logger,
	}, executionOptions)
	if walkerError != nil {
		return nil, walkerError
	}

	return NewService(ServiceDependencies{
		Repositories: repositoryManager,
		Syncer:       repositorySyncer,
		Walker:       submoduleWalker,
		Reconciler:   referenceReconciler,
		Logger:       logger,
	}, executionOptions)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}
	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

func writeInstructions(errorWriter io.Writer, syncReport *SyncReport) {
	for _, entry := range syncReport.Entries {
		if !entry.RequiresAttention() || len(entry.Instructions) == 0 {
			continue
		}
		fmt.Fprint(errorWriter, entry.Instructions+instructionsSeparatorConstant)
	}
}
