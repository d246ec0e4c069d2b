package sync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shibuido/sync-submodules/internal/submodules"
)

const (
	defaultRemoteNameConstant              = "origin"
	alreadyInSyncReasonConstant            = "already in sync with upstream"
	fastForwardedReasonConstant            = "fast-forwarded from upstream"
	pushedCommitsReasonConstant            = "pushed local commits to upstream"
	dryRunPullReasonConstant               = "would fast-forward from upstream"
	dryRunPushReasonConstant               = "would push local commits"
	dryRunSwitchReasonTemplateConstant     = "detached HEAD; would switch to branch %q"
	detachedSwitchFailedReasonTemplate     = "detached HEAD; %s (%q)"
	inspectionFailedReasonTemplateConstant = "status inspection failed: %s"
	fetchFailedReasonTemplateConstant      = "fetch before inspection failed: %s"
	reconcileFailedReasonTemplateConstant  = "automatic pointer reconciliation failed: %s"
	detachedHeadLogMessageConstant         = "Repository is on a detached HEAD; switching to the default branch"
	detachedSwitchFailedLogMessageConstant = "Could not leave detached HEAD; repository skipped"
	syncActionSelectedLogMessageConstant   = "Synchronization action selected"
	dirtySubmodulesOnlyLogMessageConstant  = "Superrepo dirt is exclusively submodule pointers; reconciling automatically"
	syncerRepositoryFieldNameConstant      = "repository"
	syncerBranchFieldNameConstant          = "branch"
	syncerActionFieldNameConstant          = "action"
	syncerDirtyPathsFieldNameConstant      = "dirty_paths"
)

// ErrInspectorNotConfigured indicates the syncer was constructed without a
// status inspector.
var ErrInspectorNotConfigured = errors.New("status inspector not configured")

// ErrReconcilerNotConfigured indicates the syncer was constructed without a
// reference reconciler.
var ErrReconcilerNotConfigured = errors.New("reference reconciler not configured")

// SyncerDependencies enumerates the collaborators of the repository syncer.
type SyncerDependencies struct {
	Repositories RepositoryGateway
	Submodules   SubmoduleGateway
	Inspector    *StatusInspector
	Reconciler   *ReferenceReconciler
	Logger       *zap.Logger
	// RemoteName names the remote used in remediation guidance; it defaults
	// to "origin" when empty.
	RemoteName string
	// FallbackBranch is used when a detached HEAD must be resolved and the
	// remote does not advertise a default branch.
	FallbackBranch string
}

// RepositorySyncer executes the selected synchronization action for a single
// repository. It performs at most one remote-mutating operation per
// repository and never resolves divergence on its own.
type RepositorySyncer struct {
	repositories   RepositoryGateway
	submodules     SubmoduleGateway
	inspector      *StatusInspector
	reconciler     *ReferenceReconciler
	logger         *zap.Logger
	remoteName     string
	fallbackBranch string
	options        ExecutionOptions
}

// NewRepositorySyncer validates the dependencies and builds a syncer.
func NewRepositorySyncer(dependencies SyncerDependencies, options ExecutionOptions) (*RepositorySyncer, error) {
	if dependencies.Repositories == nil {
		return nil, ErrRepositoriesNotConfigured
	}
	if dependencies.Submodules == nil {
		return nil, ErrSubmodulesNotConfigured
	}
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if dependencies.Reconciler == nil {
		return nil, ErrReconcilerNotConfigured
	}
	loggerInstance := dependencies.Logger
	if loggerInstance == nil {
		loggerInstance = zap.NewNop()
	}
	remoteName := dependencies.RemoteName
	if len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}
	return &RepositorySyncer{
		repositories:   dependencies.Repositories,
		submodules:     dependencies.Submodules,
		inspector:      dependencies.Inspector,
		reconciler:     dependencies.Reconciler,
		logger:         loggerInstance,
		remoteName:     remoteName,
		fallbackBranch: dependencies.FallbackBranch,
		options:        options,
	}, nil
}

// Sync fetches all remotes, inspects the repository behind handle, resolves a
// detached HEAD onto the default branch, and executes the action the decision
// table selects. Fetching precedes inspection so ahead/behind counts reflect
// the current remote state rather than the last fetch. Failures are folded
// into the returned outcome so that callers can continue with sibling
// repositories.
func (syncer *RepositorySyncer) Sync(executionContext context.Context, handle RepositoryHandle) SyncOutcome {
	if !syncer.options.DryRun {
		if fetchError := syncer.repositories.FetchAllWithPrune(executionContext, handle.Path); fetchError != nil {
			return failedOutcome(fmt.Sprintf(fetchFailedReasonTemplateConstant, fetchError))
		}
	}

	repositoryStatus, inspectionError := syncer.inspector.Inspect(executionContext, handle.Path)
	if inspectionError != nil {
		return failedOutcome(fmt.Sprintf(inspectionFailedReasonTemplateConstant, inspectionError))
	}

	if repositoryStatus.IsDetached {
		resolvedStatus, detachedOutcome := syncer.resolveDetachedHead(executionContext, handle)
		if detachedOutcome != nil {
			return *detachedOutcome
		}
		repositoryStatus = resolvedStatus
	}

	selectedAction := Decide(repositoryStatus)
	syncer.logger.Info(syncActionSelectedLogMessageConstant,
		zap.String(syncerRepositoryFieldNameConstant, handle.Path),
		zap.String(syncerBranchFieldNameConstant, repositoryStatus.CurrentBranch),
		zap.String(syncerActionFieldNameConstant, string(selectedAction)))

	switch selectedAction {
	case ActionSkip:
		return skippedOutcome(alreadyInSyncReasonConstant)
	case ActionPull:
		return syncer.executePull(executionContext, handle)
	case ActionPush:
		return syncer.executePush(executionContext, handle)
	case ActionBlockedDirty:
		return syncer.handleDirtyWorktree(executionContext, handle, repositoryStatus)
	case ActionBlockedNoUpstream:
		noUpstreamOutcome := manualOutcome(ErrNoUpstreamConfigured.Error(),
			BuildNoUpstreamGuidance(handle.Path, repositoryStatus.CurrentBranch, syncer.remoteName))
		noUpstreamOutcome.Advisory = true
		return noUpstreamOutcome
	default:
		return manualOutcome(ErrDiverged.Error(),
			BuildDivergedGuidance(handle.Path, repositoryStatus.CurrentBranch, repositoryStatus.UpstreamBranch,
				repositoryStatus.AheadCount, repositoryStatus.BehindCount))
	}
}

func (syncer *RepositorySyncer) resolveDetachedHead(executionContext context.Context, handle RepositoryHandle) (RepositoryStatus, *SyncOutcome) {
	defaultBranch := syncer.repositories.ResolveDefaultBranch(executionContext, handle.Path, syncer.fallbackBranch)
	if syncer.options.DryRun {
		dryRunOutcome := skippedOutcome(fmt.Sprintf(dryRunSwitchReasonTemplateConstant, defaultBranch))
		return RepositoryStatus{}, &dryRunOutcome
	}
	syncer.logger.Info(detachedHeadLogMessageConstant,
		zap.String(syncerRepositoryFieldNameConstant, handle.Path),
		zap.String(syncerBranchFieldNameConstant, defaultBranch))
	if switchError := syncer.repositories.SwitchBranch(executionContext, handle.Path, defaultBranch); switchError != nil {
		syncer.logger.Warn(detachedSwitchFailedLogMessageConstant,
			zap.String(syncerRepositoryFieldNameConstant, handle.Path),
			zap.String(syncerBranchFieldNameConstant, defaultBranch))
		switchFailedOutcome := skippedOutcome(fmt.Sprintf(detachedSwitchFailedReasonTemplate, ErrSwitchBranchFailed, defaultBranch))
		switchFailedOutcome.Instructions = BuildSwitchBranchGuidance(handle.Path, defaultBranch)
		switchFailedOutcome.Advisory = true
		return RepositoryStatus{}, &switchFailedOutcome
	}
	refreshedStatus, inspectionError := syncer.inspector.Inspect(executionContext, handle.Path)
	if inspectionError != nil {
		inspectionOutcome := failedOutcome(fmt.Sprintf(inspectionFailedReasonTemplateConstant, inspectionError))
		return RepositoryStatus{}, &inspectionOutcome
	}
	return refreshedStatus, nil
}

func (syncer *RepositorySyncer) executePull(executionContext context.Context, handle RepositoryHandle) SyncOutcome {
	if syncer.options.DryRun {
		return skippedOutcome(dryRunPullReasonConstant)
	}
	if pullError := syncer.repositories.PullFastForward(executionContext, handle.Path); pullError != nil {
		repositoryStatus, inspectionError := syncer.inspector.Inspect(executionContext, handle.Path)
		branchName := repositoryStatus.CurrentBranch
		if inspectionError != nil {
			branchName = ""
		}
		return manualOutcome(ErrFastForwardFailed.Error(),
			BuildFastForwardGuidance(handle.Path, branchName, syncer.remoteName))
	}
	return syncedOutcome(fastForwardedReasonConstant)
}

func (syncer *RepositorySyncer) executePush(executionContext context.Context, handle RepositoryHandle) SyncOutcome {
	if syncer.options.DryRun {
		return skippedOutcome(dryRunPushReasonConstant)
	}
	if pushError := syncer.repositories.Push(executionContext, handle.Path); pushError != nil {
		return manualOutcome(ErrPushRejected.Error(), BuildPushRejectedGuidance(handle.Path))
	}
	return syncedOutcome(pushedCommitsReasonConstant)
}

// handleDirtyWorktree turns a dirty repository into manual guidance, with one
// exception: when the superrepo's dirt consists solely of declared submodule
// paths the pointer reconciler is invoked instead, because that state is the
// expected product of syncing nested submodules.
func (syncer *RepositorySyncer) handleDirtyWorktree(executionContext context.Context, handle RepositoryHandle, repositoryStatus RepositoryStatus) SyncOutcome {
	registry, registryError := syncer.submodules.LoadRegistry(executionContext, handle.Path)
	if registryError != nil {
		registry = submodules.Registry{}
	}

	if handle.IsSuperrepo() && !registry.Empty() && pathsExclusivelySubmodules(repositoryStatus.DirtyPaths, registry) {
		syncer.logger.Info(dirtySubmodulesOnlyLogMessageConstant,
			zap.String(syncerRepositoryFieldNameConstant, handle.Path),
			zap.Strings(syncerDirtyPathsFieldNameConstant, repositoryStatus.DirtyPaths))
		reconcileOutcome, reconcileError := syncer.reconciler.Reconcile(executionContext, handle.Path)
		if reconcileError != nil {
			return failedOutcome(fmt.Sprintf(reconcileFailedReasonTemplateConstant, reconcileError))
		}
		return reconcileOutcome
	}

	return manualOutcome(ErrDirtyWorkingTree.Error(),
		BuildDirtyWorktreeGuidance(handle.Path, repositoryStatus.DirtyPaths,
			filterDeclaredSubmodulePaths(repositoryStatus.DirtyPaths, registry)))
}

// filterDeclaredSubmodulePaths keeps the candidate paths that the registry
// declares as submodules.
func filterDeclaredSubmodulePaths(candidatePaths []string, registry submodules.Registry) []string {
	declaredPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		if registry.ContainsPath(candidatePath) {
			declaredPaths = append(declaredPaths, candidatePath)
		}
	}
	return declaredPaths
}
