package execshell

// CommandEventObserver receives lifecycle notifications for git subprocess execution.
type CommandEventObserver interface {
	// CommandStarted announces that a git invocation is about to run.
	CommandStarted(command ShellCommand)
	// CommandCompleted delivers the invocation result once the process exits.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver discards every command event.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
