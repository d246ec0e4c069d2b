package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shibuido/sync-submodules/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant = "git executor not configured"

	gitTrueOutputConstant                 = "true"
	gitHeadReferenceNameConstant          = "HEAD"
	gitOriginRemoteNameConstant           = "origin"
	gitOriginHeadReferenceConstant        = "refs/remotes/origin/HEAD"
	gitRemoteBranchSeparatorConstant      = "/"
	fallbackDefaultBranchNameConstant     = "main"
	revListCountFieldNumberConstant       = 2
	pathspecSeparatorArgumentConstant     = "--"
	revListMalformedOutputTemplate        = "unexpected rev-list count output: %q"
	aheadBehindParseErrorTemplateConstant = "failed to parse ahead/behind counts: %w"
	recurseSubmodulesOnDemandFlagConstant = "--recurse-submodules=on-demand"

	gitRevParseCommandConstant         = "rev-parse"
	gitStatusCommandConstant           = "status"
	gitFetchCommandConstant            = "fetch"
	gitPullCommandConstant             = "pull"
	gitPushCommandConstant             = "push"
	gitCheckoutCommandConstant         = "checkout"
	gitSymbolicRefCommandConstant      = "symbolic-ref"
	gitAddCommandConstant              = "add"
	gitCommitCommandConstant           = "commit"
	gitDiffCommandConstant             = "diff"
	gitRevListCommandConstant          = "rev-list"
	gitInsideWorkTreeFlagConstant      = "--is-inside-work-tree"
	gitShowTopLevelFlagConstant        = "--show-toplevel"
	gitAbbrevRefFlagConstant           = "--abbrev-ref"
	gitSymbolicFullNameFlagConstant    = "--symbolic-full-name"
	gitUpstreamReferenceConstant       = "@{u}"
	gitHeadToUpstreamRangeConstant     = "HEAD...@{u}"
	gitPorcelainFlagConstant           = "--porcelain"
	gitAllRemotesFlagConstant          = "--all"
	gitPruneFlagConstant               = "--prune"
	gitFastForwardOnlyFlagConstant     = "--ff-only"
	gitShortReferenceFlagConstant      = "--short"
	gitCommitMessageFlagConstant       = "-m"
	gitCachedFlagConstant              = "--cached"
	gitNameOnlyFlagConstant            = "--name-only"
	gitLeftRightFlagConstant           = "--left-right"
	gitCountFlagConstant               = "--count"
)

// ErrExecutorNotConfigured indicates the manager was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// AheadBehindCounts captures the commit counts relative to the upstream branch.
type AheadBehindCounts struct {
	Ahead  int
	Behind int
}

// RepositoryManager performs git operations scoped to explicit repository paths.
type RepositoryManager struct {
	executor GitExecutor
	logger   *zap.Logger
}

// NewRepositoryManager constructs a RepositoryManager validating its collaborators.
func NewRepositoryManager(executor GitExecutor, logger *zap.Logger) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryManager{executor: executor, logger: logger}, nil
}

// IsInsideWorkTree reports whether the path lies inside a git working tree.
func (manager *RepositoryManager) IsInsideWorkTree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRevParseCommandConstant, gitInsideWorkTreeFlagConstant)
	if executionError != nil {
		if isCommandFailure(executionError) {
			return false, nil
		}
		return false, executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput) == gitTrueOutputConstant, nil
}

// RepositoryRoot resolves the absolute path of the repository containing the provided path.
func (manager *RepositoryManager) RepositoryRoot(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRevParseCommandConstant, gitShowTopLevelFlagConstant)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// WorktreeStatus collects the typed porcelain status of the repository.
func (manager *RepositoryManager) WorktreeStatus(executionContext context.Context, repositoryPath string) (WorktreeStatus, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitStatusCommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return WorktreeStatus{}, executionError
	}
	return ParsePorcelainStatus(executionResult.StandardOutput), nil
}

// CheckCleanWorktree reports whether the repository carries no uncommitted changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	worktreeStatus, statusError := manager.WorktreeStatus(executionContext, repositoryPath)
	if statusError != nil {
		return false, statusError
	}
	return worktreeStatus.Clean(), nil
}

// GetCurrentBranch resolves the checked-out branch name, reporting detached HEAD states.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (branchName string, detached bool, err error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRevParseCommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceNameConstant)
	if executionError != nil {
		return "", false, executionError
	}

	trimmedBranchName := strings.TrimSpace(executionResult.StandardOutput)
	if trimmedBranchName == gitHeadReferenceNameConstant || len(trimmedBranchName) == 0 {
		return "", true, nil
	}
	return trimmedBranchName, false, nil
}

// GetUpstreamBranch resolves the configured upstream branch. A missing upstream is not an error.
func (manager *RepositoryManager) GetUpstreamBranch(executionContext context.Context, repositoryPath string) (upstreamName string, hasUpstream bool, err error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRevParseCommandConstant, gitAbbrevRefFlagConstant, gitSymbolicFullNameFlagConstant, gitUpstreamReferenceConstant)
	if executionError != nil {
		if isCommandFailure(executionError) {
			return "", false, nil
		}
		return "", false, executionError
	}

	trimmedUpstreamName := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedUpstreamName) == 0 {
		return "", false, nil
	}
	return trimmedUpstreamName, true, nil
}

// CountAheadBehind counts commits on HEAD relative to the upstream branch.
func (manager *RepositoryManager) CountAheadBehind(executionContext context.Context, repositoryPath string) (AheadBehindCounts, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRevListCommandConstant, gitLeftRightFlagConstant, gitCountFlagConstant, gitHeadToUpstreamRangeConstant)
	if executionError != nil {
		return AheadBehindCounts{}, executionError
	}
	return parseAheadBehindCounts(executionResult.StandardOutput)
}

// ResolveDefaultBranch determines the remote default branch. When the remote
// HEAD reference is unset it returns fallbackBranchName, or main when that is
// empty as well.
func (manager *RepositoryManager) ResolveDefaultBranch(executionContext context.Context, repositoryPath string, fallbackBranchName string) string {
	if len(fallbackBranchName) == 0 {
		fallbackBranchName = fallbackDefaultBranchNameConstant
	}
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitSymbolicRefCommandConstant, gitShortReferenceFlagConstant, gitOriginHeadReferenceConstant)
	if executionError != nil {
		return fallbackBranchName
	}

	trimmedReference := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedReference) == 0 {
		return fallbackBranchName
	}

	remotePrefix := gitOriginRemoteNameConstant + gitRemoteBranchSeparatorConstant
	return strings.TrimPrefix(trimmedReference, remotePrefix)
}

// SwitchBranch checks out the named branch.
func (manager *RepositoryManager) SwitchBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitCheckoutCommandConstant, branchName)
	return executionError
}

// FetchAllWithPrune refreshes every remote tracking reference and prunes removed branches.
func (manager *RepositoryManager) FetchAllWithPrune(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitFetchCommandConstant, gitAllRemotesFlagConstant, gitPruneFlagConstant)
	return executionError
}

// PullFastForward integrates upstream commits, refusing merges and rebases.
func (manager *RepositoryManager) PullFastForward(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitPullCommandConstant, gitFastForwardOnlyFlagConstant)
	return executionError
}

// Push publishes local commits to the upstream branch.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitPushCommandConstant)
	return executionError
}

// PushWithRecurseSubmodules publishes local commits after pushing any submodule commits they reference.
func (manager *RepositoryManager) PushWithRecurseSubmodules(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitPushCommandConstant, recurseSubmodulesOnDemandFlagConstant)
	return executionError
}

// StagePath adds the provided path to the staging area.
func (manager *RepositoryManager) StagePath(executionContext context.Context, repositoryPath string, stagePath string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitAddCommandConstant, pathspecSeparatorArgumentConstant, stagePath)
	return executionError
}

// StagedPaths lists the repository-relative paths currently staged for commit.
func (manager *RepositoryManager) StagedPaths(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitDiffCommandConstant, gitCachedFlagConstant, gitNameOnlyFlagConstant)
	if executionError != nil {
		return nil, executionError
	}

	stagedPaths := []string{}
	for _, outputLine := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		stagedPaths = append(stagedPaths, trimmedLine)
	}
	return stagedPaths, nil
}

// CreateCommit records the staged changes with the provided message.
func (manager *RepositoryManager) CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitCommitCommandConstant, gitCommitMessageFlagConstant, commitMessage)
	return executionError
}

func (manager *RepositoryManager) runGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	}
	return manager.executor.ExecuteGit(executionContext, commandDetails)
}

func parseAheadBehindCounts(output string) (AheadBehindCounts, error) {
	countFields := strings.Fields(strings.TrimSpace(output))
	if len(countFields) != revListCountFieldNumberConstant {
		return AheadBehindCounts{}, fmt.Errorf(revListMalformedOutputTemplate, output)
	}

	aheadCount, aheadParseError := strconv.Atoi(countFields[0])
	if aheadParseError != nil {
		return AheadBehindCounts{}, fmt.Errorf(aheadBehindParseErrorTemplateConstant, aheadParseError)
	}
	behindCount, behindParseError := strconv.Atoi(countFields[1])
	if behindParseError != nil {
		return AheadBehindCounts{}, fmt.Errorf(aheadBehindParseErrorTemplateConstant, behindParseError)
	}

	return AheadBehindCounts{Ahead: aheadCount, Behind: behindCount}, nil
}

func isCommandFailure(executionError error) bool {
	var commandFailure execshell.CommandFailedError
	return errors.As(executionError, &commandFailure)
}
