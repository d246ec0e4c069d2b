package sync

import (
	"context"

	"github.com/shibuido/sync-submodules/internal/gitrepo"
	"github.com/shibuido/sync-submodules/internal/submodules"
)

// RepositoryGateway describes the git repository operations the
// synchronization engine depends on.
type RepositoryGateway interface {
	IsInsideWorkTree(executionContext context.Context, repositoryPath string) (bool, error)
	RepositoryRoot(executionContext context.Context, repositoryPath string) (string, error)
	WorktreeStatus(executionContext context.Context, repositoryPath string) (gitrepo.WorktreeStatus, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, bool, error)
	GetUpstreamBranch(executionContext context.Context, repositoryPath string) (string, bool, error)
	CountAheadBehind(executionContext context.Context, repositoryPath string) (gitrepo.AheadBehindCounts, error)
	ResolveDefaultBranch(executionContext context.Context, repositoryPath string, fallbackBranchName string) string
	SwitchBranch(executionContext context.Context, repositoryPath string, branchName string) error
	FetchAllWithPrune(executionContext context.Context, repositoryPath string) error
	PullFastForward(executionContext context.Context, repositoryPath string) error
	Push(executionContext context.Context, repositoryPath string) error
	PushWithRecurseSubmodules(executionContext context.Context, repositoryPath string) error
	StagePath(executionContext context.Context, repositoryPath string, stagePath string) error
	StagedPaths(executionContext context.Context, repositoryPath string) ([]string, error)
	CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error
}

// SubmoduleGateway describes the submodule operations the synchronization
// engine depends on.
type SubmoduleGateway interface {
	LoadRegistry(executionContext context.Context, repositoryPath string) (submodules.Registry, error)
	PointerChanges(executionContext context.Context, repositoryPath string) ([]submodules.PointerChange, error)
	DiscoverTree(executionContext context.Context, repositoryPath string) (submodules.Tree, error)
	InitializeAll(executionContext context.Context, repositoryPath string) error
}

// ConfirmationPrompter asks the operator a yes/no question before a mutating
// operation runs.
type ConfirmationPrompter interface {
	Confirm(promptMessage string) (bool, error)
}
