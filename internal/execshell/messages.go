package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitRevParseSubcommandNameConstant    = "rev-parse"
	gitWorkTreeFlagConstant              = "--is-inside-work-tree"
	gitShowTopLevelFlagConstant          = "--show-toplevel"
	gitAbbrevRefFlagConstant             = "--abbrev-ref"
	gitSymbolicFullNameFlagConstant      = "--symbolic-full-name"
	gitUpstreamReferenceConstant         = "@{u}"
	gitHeadReferenceConstant             = "HEAD"
	gitStatusSubcommandNameConstant      = "status"
	gitFetchSubcommandNameConstant       = "fetch"
	gitPullSubcommandNameConstant        = "pull"
	gitPushSubcommandNameConstant        = "push"
	gitCheckoutSubcommandNameConstant    = "checkout"
	gitSymbolicRefSubcommandNameConstant = "symbolic-ref"
	gitSubmoduleSubcommandNameConstant   = "submodule"
	gitAddSubcommandNameConstant         = "add"
	gitCommitSubcommandNameConstant      = "commit"
	gitDiffSubcommandNameConstant        = "diff"
	gitConfigSubcommandNameConstant      = "config"
	gitRevListSubcommandNameConstant     = "rev-list"
	gitMessageFlagConstant               = "-m"
)

const (
	gitWorkTreeStartTemplateConstant            = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant          = "%s is a Git repository"
	gitWorkTreeFailureTemplateConstant          = "Could not confirm %s is a Git repository (exit code %d%s)"
	gitWorkTreeExecutionFailureTemplate         = "Could not analyze %s: %s"
	gitTopLevelStartTemplateConstant            = "Locating repository root from %s"
	gitTopLevelSuccessTemplateConstant          = "Repository root for %s is %s"
	gitTopLevelFailureTemplateConstant          = "Failed to locate repository root from %s (exit code %d%s)"
	gitCurrentBranchStartTemplateConstant       = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant     = "Current branch in %s is %s"
	gitCurrentBranchDetachedTemplateConstant    = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant     = "Failed to identify current branch in %s (exit code %d%s)"
	gitUpstreamBranchStartTemplateConstant      = "Checking upstream branch configuration in %s"
	gitUpstreamBranchSuccessTemplateConstant    = "Upstream branch in %s is %s"
	gitUpstreamBranchMissingTemplateConstant    = "No upstream branch configured in %s"
	gitUpstreamBranchFailureTemplateConstant    = "Failed to check upstream branch configuration in %s (exit code %d%s)"
	gitStatusStartTemplateConstant              = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant            = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant            = "Failed to review working tree status in %s (exit code %d%s)"
	gitFetchStartTemplateConstant               = "Fetching remotes in %s"
	gitFetchSuccessTemplateConstant             = "Fetched remotes in %s"
	gitFetchFailureTemplateConstant             = "Failed to fetch remotes in %s (exit code %d%s)"
	gitPullStartTemplateConstant                = "Fast-forwarding %s"
	gitPullSuccessTemplateConstant              = "Fast-forwarded %s"
	gitPullFailureTemplateConstant              = "Failed to fast-forward %s (exit code %d%s)"
	gitPushStartTemplateConstant                = "Pushing from %s"
	gitPushSuccessTemplateConstant              = "Pushed from %s"
	gitPushFailureTemplateConstant              = "Failed to push from %s (exit code %d%s)"
	gitCheckoutStartTemplateConstant            = "Switching %s to branch %s"
	gitCheckoutSuccessTemplateConstant          = "%s now on branch %s"
	gitCheckoutFailureTemplateConstant          = "Failed to switch %s to branch %s (exit code %d%s)"
	gitSymbolicRefStartTemplateConstant         = "Resolving symbolic reference %s in %s"
	gitSymbolicRefSuccessTemplateConstant       = "Symbolic reference %s in %s points to %s"
	gitSymbolicRefFailureTemplateConstant       = "Failed to resolve symbolic reference %s in %s (exit code %d%s)"
	gitSubmoduleStartTemplateConstant           = "Running submodule %s in %s"
	gitSubmoduleSuccessTemplateConstant         = "Completed submodule %s in %s"
	gitSubmoduleFailureTemplateConstant         = "Submodule %s failed in %s (exit code %d%s)"
	gitAddStartTemplateConstant                 = "Staging %s in %s"
	gitAddSuccessTemplateConstant               = "Staged %s in %s"
	gitAddFailureTemplateConstant               = "Failed to stage %s in %s (exit code %d%s)"
	gitCommitStartTemplateConstant              = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant            = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant            = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitDiffStartTemplateConstant                = "Inspecting staged changes in %s"
	gitDiffSuccessTemplateConstant              = "Inspected staged changes in %s"
	gitDiffFailureTemplateConstant              = "Failed to inspect staged changes in %s (exit code %d%s)"
	gitConfigStartTemplateConstant              = "Reading configuration in %s"
	gitConfigSuccessTemplateConstant            = "Read configuration in %s"
	gitConfigFailureTemplateConstant            = "Failed to read configuration in %s (exit code %d%s)"
	gitRevListStartTemplateConstant             = "Counting commits relative to upstream in %s"
	gitRevListSuccessTemplateConstant           = "Counted commits relative to upstream in %s"
	gitRevListFailureTemplateConstant           = "Failed to count commits relative to upstream in %s (exit code %d%s)"
	gitRevisionStartTemplateConstant            = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant          = "%s in %s resolved to %s"
	gitRevisionEmptySuccessTemplateConstant     = "%s in %s did not resolve to a revision"
	gitRevisionFailureTemplateConstant          = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant = "Unable to resolve %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		return formatter.describeSingleSubjectMessage(command, result, failure, stage, gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant, gitStatusFailureTemplateConstant)
	case gitFetchSubcommandNameConstant:
		return formatter.describeSingleSubjectMessage(command, result, failure, stage, gitFetchStartTemplateConstant, gitFetchSuccessTemplateConstant, gitFetchFailureTemplateConstant)
	case gitPullSubcommandNameConstant:
		return formatter.describeSingleSubjectMessage(command, result, failure, stage, gitPullStartTemplateConstant, gitPullSuccessTemplateConstant, gitPullFailureTemplateConstant)
	case gitPushSubcommandNameConstant:
		return formatter.describeSingleSubjectMessage(command, result, failure, stage, gitPushStartTemplateConstant, gitPushSuccessTemplateConstant, gitPushFailureTemplateConstant)
	case gitDiffSubcommandNameConstant:
		return formatter.describeSingleSubjectMessage(command, result, failure, stage, gitDiffStartTemplateConstant, gitDiffSuccessTemplateConstant, gitDiffFailureTemplateConstant)
	case gitConfigSubcommandNameConstant:
		return formatter.describeSingleSubjectMessage(command, result, failure, stage, gitConfigStartTemplateConstant, gitConfigSuccessTemplateConstant, gitConfigFailureTemplateConstant)
	case gitRevListSubcommandNameConstant:
		return formatter.describeSingleSubjectMessage(command, result, failure, stage, gitRevListStartTemplateConstant, gitRevListSuccessTemplateConstant, gitRevListFailureTemplateConstant)
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeGitCheckoutMessage(command, result, failure, stage)
	case gitSymbolicRefSubcommandNameConstant:
		return formatter.describeGitSymbolicRefMessage(command, result, failure, stage)
	case gitSubmoduleSubcommandNameConstant:
		return formatter.describeGitSubmoduleMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.describeGitAddMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeSingleSubjectMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, formatter.formatCommandLabel(command), formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitWorkTreeFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitWorkTreeStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitWorkTreeSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitWorkTreeFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitWorkTreeExecutionFailureTemplate, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if containsArgument(arguments, gitShowTopLevelFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitTopLevelStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitTopLevelSuccessTemplateConstant, workingDirectory, strings.TrimSpace(result.StandardOutput))
		case messageStageFailure:
			return fmt.Sprintf(gitTopLevelFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
	}

	if containsArgument(arguments, gitAbbrevRefFlagConstant) {
		if containsArgument(arguments, gitSymbolicFullNameFlagConstant) && containsArgument(arguments, gitUpstreamReferenceConstant) {
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(gitUpstreamBranchStartTemplateConstant, workingDirectory)
			case messageStageSuccess:
				trimmed := strings.TrimSpace(result.StandardOutput)
				if len(trimmed) == 0 {
					return fmt.Sprintf(gitUpstreamBranchMissingTemplateConstant, workingDirectory)
				}
				return fmt.Sprintf(gitUpstreamBranchSuccessTemplateConstant, workingDirectory, trimmed)
			case messageStageFailure:
				return fmt.Sprintf(gitUpstreamBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			}
		}

		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			trimmed := strings.TrimSpace(result.StandardOutput)
			if strings.EqualFold(trimmed, gitHeadReferenceConstant) || len(trimmed) == 0 {
				return fmt.Sprintf(gitCurrentBranchDetachedTemplateConstant, workingDirectory)
			}
			return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, trimmed)
		case messageStageFailure:
			return fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
	}

	reference := formatter.resolveRevisionReference(arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRevisionStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(gitRevisionEmptySuccessTemplateConstant, reference, workingDirectory)
		}
		return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(gitRevisionFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRevisionExecutionFailureTemplateConstant, reference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, branchName)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitSymbolicRefMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	reference := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitSymbolicRefStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitSymbolicRefSuccessTemplateConstant, reference, workingDirectory, strings.TrimSpace(result.StandardOutput))
	case messageStageFailure:
		return fmt.Sprintf(gitSymbolicRefFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitSubmoduleMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	operation := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitSubmoduleStartTemplateConstant, operation, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitSubmoduleSuccessTemplateConstant, operation, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitSubmoduleFailureTemplateConstant, operation, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	targetPath := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAddStartTemplateConstant, targetPath, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, targetPath, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAddFailureTemplateConstant, targetPath, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.extractCommitMessage(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) resolveRevisionReference(arguments []string) string {
	if len(arguments) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	lastArgument := strings.TrimSpace(arguments[len(arguments)-1])
	if len(lastArgument) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return lastArgument
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
