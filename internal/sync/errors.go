package sync

import "errors"

const (
	notARepositoryMessageConstant           = "not inside a git work tree"
	dirtyWorkingTreeMessageConstant         = "working tree has uncommitted changes"
	noUpstreamConfiguredMessageConstant     = "current branch has no upstream configured"
	fastForwardFailedMessageConstant        = "fast-forward pull failed"
	pushRejectedMessageConstant             = "push was rejected by the remote"
	divergedMessageConstant                 = "local and remote branches have diverged"
	mergeConflictInSubmoduleMessageConstant = "submodule is in a merge-conflicted state"
	commitFailedMessageConstant             = "commit creation failed"
	switchBranchFailedMessageConstant       = "switching to the default branch failed"
)

// Error conditions that always terminate in operator guidance rather than an
// automatic resolution attempt.
var (
	ErrNotARepository           = errors.New(notARepositoryMessageConstant)
	ErrDirtyWorkingTree         = errors.New(dirtyWorkingTreeMessageConstant)
	ErrNoUpstreamConfigured     = errors.New(noUpstreamConfiguredMessageConstant)
	ErrFastForwardFailed        = errors.New(fastForwardFailedMessageConstant)
	ErrPushRejected             = errors.New(pushRejectedMessageConstant)
	ErrDiverged                 = errors.New(divergedMessageConstant)
	ErrMergeConflictInSubmodule = errors.New(mergeConflictInSubmoduleMessageConstant)
	ErrCommitFailed             = errors.New(commitFailedMessageConstant)
	ErrSwitchBranchFailed       = errors.New(switchBranchFailedMessageConstant)
)
