package submodules

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/shibuido/sync-submodules/internal/execshell"
)

const (
	managerExecutorMissingMessageConstant = "git executor not configured"

	gitConfigCommandConstant          = "config"
	gitSubmoduleCommandConstant       = "submodule"
	gitConfigFileFlagConstant         = "--file"
	gitmodulesFileNameConstant        = ".gitmodules"
	gitConfigGetRegexpFlagConstant    = "--get-regexp"
	gitmodulesKeyRegexpConstant       = `submodule\..*\.(path|url)`
	gitSubmoduleStatusSubcommand      = "status"
	gitSubmoduleUpdateSubcommand      = "update"
	gitSubmoduleForeachSubcommand     = "foreach"
	gitSubmoduleInitFlagConstant      = "--init"
	gitSubmoduleRecursiveFlagConstant = "--recursive"
	gitSubmoduleQuietFlagConstant     = "--quiet"
	gitPathspecSeparatorConstant      = "--"
	displayPathEchoScriptConstant     = `echo "$displaypath"`
)

// ErrExecutorNotConfigured indicates the manager was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New(managerExecutorMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by the submodule manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Manager discovers submodules and inspects their pointer states through git.
type Manager struct {
	executor GitExecutor
}

// NewManager constructs a Manager validating its collaborators.
func NewManager(executor GitExecutor) (*Manager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Manager{executor: executor}, nil
}

// LoadRegistry reads the .gitmodules declarations of the repository. Repositories
// without submodules yield an empty registry.
func (manager *Manager) LoadRegistry(executionContext context.Context, repositoryPath string) (Registry, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath,
		gitConfigCommandConstant, gitConfigFileFlagConstant, gitmodulesFileNameConstant, gitConfigGetRegexpFlagConstant, gitmodulesKeyRegexpConstant)
	if executionError != nil {
		if isCommandFailure(executionError) {
			return ParseRegistryOutput(""), nil
		}
		return Registry{}, executionError
	}
	return ParseRegistryOutput(executionResult.StandardOutput), nil
}

// PointerChanges classifies the direct submodules of the repository. Status
// lines are collected recursively and filtered to the paths the repository
// itself declares, so each nesting level only ever reconciles its own
// pointers and nested entries surface when their parent is processed.
func (manager *Manager) PointerChanges(executionContext context.Context, repositoryPath string) ([]PointerChange, error) {
	declaredRegistry, registryError := manager.LoadRegistry(executionContext, repositoryPath)
	if registryError != nil {
		return nil, registryError
	}

	executionResult, executionError := manager.runGit(executionContext, repositoryPath,
		gitSubmoduleCommandConstant, gitSubmoduleStatusSubcommand, gitSubmoduleRecursiveFlagConstant)
	if executionError != nil {
		return nil, executionError
	}

	directChanges := []PointerChange{}
	for _, pointerChange := range ParseStatusOutput(executionResult.StandardOutput) {
		if declaredRegistry.ContainsPath(pointerChange.SubmodulePath) {
			directChanges = append(directChanges, pointerChange)
		}
	}
	return directChanges, nil
}

// ListDisplayPaths enumerates every nested submodule, parents before children.
func (manager *Manager) ListDisplayPaths(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath,
		gitSubmoduleCommandConstant, gitSubmoduleForeachSubcommand, gitSubmoduleRecursiveFlagConstant, gitSubmoduleQuietFlagConstant, displayPathEchoScriptConstant)
	if executionError != nil {
		return nil, executionError
	}

	displayPaths := []string{}
	for _, outputLine := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		displayPaths = append(displayPaths, trimmedLine)
	}
	return displayPaths, nil
}

// DiscoverTree enumerates every nested submodule and arranges it into a Tree.
func (manager *Manager) DiscoverTree(executionContext context.Context, repositoryPath string) (Tree, error) {
	displayPaths, listError := manager.ListDisplayPaths(executionContext, repositoryPath)
	if listError != nil {
		return Tree{}, listError
	}
	return BuildTree(displayPaths), nil
}

// InitializeAll materializes every declared submodule that is not yet checked
// out. Submodules that already have a working tree are never updated, so a
// checkout sitting ahead of the recorded pointer keeps its commit; instead the
// manager descends into them to initialize their own missing submodules.
func (manager *Manager) InitializeAll(executionContext context.Context, repositoryPath string) error {
	pointerChanges, statusError := manager.PointerChanges(executionContext, repositoryPath)
	if statusError != nil {
		return statusError
	}

	for _, pointerChange := range pointerChanges {
		if pointerChange.ChangeKind == PointerBehindIndex {
			_, updateError := manager.runGit(executionContext, repositoryPath,
				gitSubmoduleCommandConstant, gitSubmoduleUpdateSubcommand, gitSubmoduleInitFlagConstant,
				gitSubmoduleRecursiveFlagConstant, gitPathspecSeparatorConstant, pointerChange.SubmodulePath)
			if updateError != nil {
				return updateError
			}
			continue
		}

		nestedError := manager.InitializeAll(executionContext, filepath.Join(repositoryPath, pointerChange.SubmodulePath))
		if nestedError != nil {
			return nestedError
		}
	}
	return nil
}

func (manager *Manager) runGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	}
	return manager.executor.ExecuteGit(executionContext, commandDetails)
}

func isCommandFailure(executionError error) bool {
	var commandFailure execshell.CommandFailedError
	return errors.As(executionError, &commandFailure)
}
