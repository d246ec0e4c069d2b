package sync

import (
	"context"
	"errors"
	"fmt"
)

const (
	inspectStatusFailureTemplateConstant   = "inspect worktree status for %s: %w"
	inspectBranchFailureTemplateConstant   = "inspect current branch for %s: %w"
	inspectUpstreamFailureTemplateConstant = "inspect upstream branch for %s: %w"
	inspectCountsFailureTemplateConstant   = "count ahead/behind commits for %s: %w"
)

// ErrRepositoriesNotConfigured indicates a component was constructed without
// a repository gateway.
var ErrRepositoriesNotConfigured = errors.New("repository gateway not configured")

// StatusInspector gathers the full decision-relevant state of a repository
// without mutating it.
type StatusInspector struct {
	repositories RepositoryGateway
}

// NewStatusInspector validates the gateway and builds an inspector.
func NewStatusInspector(repositories RepositoryGateway) (*StatusInspector, error) {
	if repositories == nil {
		return nil, ErrRepositoriesNotConfigured
	}
	return &StatusInspector{repositories: repositories}, nil
}

// Inspect reads the working tree, branch, upstream, and commit counts of the
// repository at repositoryPath. Ahead/behind counts are only computed when a
// tracking branch exists.
func (inspector *StatusInspector) Inspect(executionContext context.Context, repositoryPath string) (RepositoryStatus, error) {
	worktreeStatus, statusError := inspector.repositories.WorktreeStatus(executionContext, repositoryPath)
	if statusError != nil {
		return RepositoryStatus{}, fmt.Errorf(inspectStatusFailureTemplateConstant, repositoryPath, statusError)
	}

	branchName, isDetached, branchError := inspector.repositories.GetCurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return RepositoryStatus{}, fmt.Errorf(inspectBranchFailureTemplateConstant, repositoryPath, branchError)
	}

	repositoryStatus := RepositoryStatus{
		CurrentBranch: branchName,
		IsDetached:    isDetached,
		IsClean:       worktreeStatus.Clean(),
		DirtyPaths:    worktreeStatus.ModifiedPaths(),
	}

	upstreamName, hasUpstream, upstreamError := inspector.repositories.GetUpstreamBranch(executionContext, repositoryPath)
	if upstreamError != nil {
		return RepositoryStatus{}, fmt.Errorf(inspectUpstreamFailureTemplateConstant, repositoryPath, upstreamError)
	}
	repositoryStatus.HasTrackingBranch = hasUpstream
	repositoryStatus.UpstreamBranch = upstreamName
	if !hasUpstream {
		return repositoryStatus, nil
	}

	aheadBehindCounts, countError := inspector.repositories.CountAheadBehind(executionContext, repositoryPath)
	if countError != nil {
		return RepositoryStatus{}, fmt.Errorf(inspectCountsFailureTemplateConstant, repositoryPath, countError)
	}
	repositoryStatus.AheadCount = aheadBehindCounts.Ahead
	repositoryStatus.BehindCount = aheadBehindCounts.Behind
	return repositoryStatus, nil
}
