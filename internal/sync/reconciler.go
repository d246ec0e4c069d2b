package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shibuido/sync-submodules/internal/submodules"
)

const (
	pointerChangesFailureTemplateConstant     = "inspect submodule pointers in %s: %w"
	stagePointerFailureTemplateConstant       = "stage submodule %s in %s: %w"
	stagedPathsFailureTemplateConstant        = "list staged paths in %s: %w"
	loadRegistryFailureTemplateConstant       = "load submodule registry for %s: %w"
	confirmationFailureTemplateConstant       = "read commit confirmation for %s: %w"
	mixedStagingReasonConstant                = "staged changes are not exclusively submodule pointers"
	nothingToCommitReasonConstant             = "submodule pointers already reconciled"
	commitDeclinedReasonConstant              = "pointer commit declined by operator"
	dryRunReconcileReasonTemplateConstant     = "would commit %d submodule pointer update(s)"
	pointerCommittedReasonTemplateConstant    = "committed %d submodule pointer update(s)"
	pointerCommitMessageTemplateConstant      = "Update submodule references: %s"
	pointerCommitPathSeparatorConstant        = ", "
	commitConfirmationPromptTemplateConstant  = "Commit %d submodule pointer update(s) in %s (%s)?"
	behindIndexWarningMessageConstant         = "Submodule checkout is behind the committed pointer"
	conflictedPointerErrorMessageConstant     = "Submodule is merge-conflicted; reconciliation aborted"
	reconcileRepositoryFieldNameConstant      = "repository"
	reconcileSubmoduleFieldNameConstant       = "submodule"
	reconcileStagedPathsFieldNameConstant     = "staged_paths"
	reconcileConflictedPathsFieldNameConstant = "conflicted_paths"
)

// ErrSubmodulesNotConfigured indicates a component was constructed without a
// submodule gateway.
var ErrSubmodulesNotConfigured = errors.New("submodule gateway not configured")

// ErrPrompterNotConfigured indicates the reconciler was constructed without a
// confirmation prompter.
var ErrPrompterNotConfigured = errors.New("confirmation prompter not configured")

// ExecutionOptions carries the run-wide behavior toggles shared by the
// mutating components.
type ExecutionOptions struct {
	// DryRun reports intended mutations without executing them.
	DryRun bool
	// AssumeYes suppresses interactive confirmation prompts.
	AssumeYes bool
}

// ReconcilerDependencies enumerates the collaborators of the reconciler.
type ReconcilerDependencies struct {
	Repositories RepositoryGateway
	Submodules   SubmoduleGateway
	Prompter     ConfirmationPrompter
	Logger       *zap.Logger
}

// ReferenceReconciler aligns a repository's committed submodule pointers with
// the commits its submodule working trees actually sit on. It stages and
// commits pointer updates, and only pointer updates, after explicit
// confirmation.
type ReferenceReconciler struct {
	repositories RepositoryGateway
	submodules   SubmoduleGateway
	prompter     ConfirmationPrompter
	logger       *zap.Logger
	options      ExecutionOptions
}

// NewReferenceReconciler validates the dependencies and builds a reconciler.
func NewReferenceReconciler(dependencies ReconcilerDependencies, options ExecutionOptions) (*ReferenceReconciler, error) {
	if dependencies.Repositories == nil {
		return nil, ErrRepositoriesNotConfigured
	}
	if dependencies.Submodules == nil {
		return nil, ErrSubmodulesNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	loggerInstance := dependencies.Logger
	if loggerInstance == nil {
		loggerInstance = zap.NewNop()
	}
	return &ReferenceReconciler{
		repositories: dependencies.Repositories,
		submodules:   dependencies.Submodules,
		prompter:     dependencies.Prompter,
		logger:       loggerInstance,
		options:      options,
	}, nil
}

// Reconcile inspects the submodule pointers recorded in repositoryPath,
// stages the ones that moved forward, and commits and pushes them once the
// staged diff is confirmed to contain nothing else. A merge-conflicted
// submodule aborts the reconciliation before anything is staged.
func (reconciler *ReferenceReconciler) Reconcile(executionContext context.Context, repositoryPath string) (SyncOutcome, error) {
	pointerChanges, changesError := reconciler.submodules.PointerChanges(executionContext, repositoryPath)
	if changesError != nil {
		return SyncOutcome{}, fmt.Errorf(pointerChangesFailureTemplateConstant, repositoryPath, changesError)
	}

	conflictedPaths := collectChangePaths(pointerChanges, submodules.PointerConflicted)
	if len(conflictedPaths) > 0 {
		reconciler.logger.Error(conflictedPointerErrorMessageConstant,
			zap.String(reconcileRepositoryFieldNameConstant, repositoryPath),
			zap.Strings(reconcileConflictedPathsFieldNameConstant, conflictedPaths))
		return manualOutcome(ErrMergeConflictInSubmodule.Error(), BuildMergeConflictGuidance(repositoryPath, conflictedPaths)), nil
	}

	for _, behindPath := range collectChangePaths(pointerChanges, submodules.PointerBehindIndex) {
		reconciler.logger.Warn(behindIndexWarningMessageConstant,
			zap.String(reconcileRepositoryFieldNameConstant, repositoryPath),
			zap.String(reconcileSubmoduleFieldNameConstant, behindPath))
	}

	advancedPaths := collectChangePaths(pointerChanges, submodules.PointerNewCommits)
	if reconciler.options.DryRun {
		return reconciler.reconcileDryRun(executionContext, repositoryPath, advancedPaths)
	}

	for _, advancedPath := range advancedPaths {
		stagingError := reconciler.repositories.StagePath(executionContext, repositoryPath, advancedPath)
		if stagingError != nil {
			return SyncOutcome{}, fmt.Errorf(stagePointerFailureTemplateConstant, advancedPath, repositoryPath, stagingError)
		}
	}

	stagedPaths, stagedError := reconciler.repositories.StagedPaths(executionContext, repositoryPath)
	if stagedError != nil {
		return SyncOutcome{}, fmt.Errorf(stagedPathsFailureTemplateConstant, repositoryPath, stagedError)
	}
	if len(stagedPaths) == 0 {
		return syncedOutcome(nothingToCommitReasonConstant), nil
	}

	registry, registryError := reconciler.submodules.LoadRegistry(executionContext, repositoryPath)
	if registryError != nil {
		return SyncOutcome{}, fmt.Errorf(loadRegistryFailureTemplateConstant, repositoryPath, registryError)
	}
	if !pathsExclusivelySubmodules(stagedPaths, registry) {
		return manualOutcome(mixedStagingReasonConstant, BuildMixedStagingGuidance(repositoryPath, stagedPaths)), nil
	}

	if !reconciler.options.AssumeYes {
		promptMessage := fmt.Sprintf(commitConfirmationPromptTemplateConstant,
			len(stagedPaths), repositoryPath, strings.Join(stagedPaths, pointerCommitPathSeparatorConstant))
		confirmed, confirmationError := reconciler.prompter.Confirm(promptMessage)
		if confirmationError != nil {
			return SyncOutcome{}, fmt.Errorf(confirmationFailureTemplateConstant, repositoryPath, confirmationError)
		}
		if !confirmed {
			declinedOutcome := skippedOutcome(commitDeclinedReasonConstant)
			declinedOutcome.Instructions = BuildDeclinedCommitGuidance(repositoryPath, stagedPaths)
			return declinedOutcome, nil
		}
	}

	commitMessage := fmt.Sprintf(pointerCommitMessageTemplateConstant,
		strings.Join(stagedPaths, pointerCommitPathSeparatorConstant))
	if commitError := reconciler.repositories.CreateCommit(executionContext, repositoryPath, commitMessage); commitError != nil {
		return manualOutcome(ErrCommitFailed.Error(), BuildCommitFailedGuidance(repositoryPath)), nil
	}
	if pushError := reconciler.repositories.PushWithRecurseSubmodules(executionContext, repositoryPath); pushError != nil {
		return manualOutcome(ErrPushRejected.Error(), BuildPushRejectedGuidance(repositoryPath)), nil
	}
	reconciler.logger.Info(fmt.Sprintf(pointerCommittedReasonTemplateConstant, len(stagedPaths)),
		zap.String(reconcileRepositoryFieldNameConstant, repositoryPath),
		zap.Strings(reconcileStagedPathsFieldNameConstant, stagedPaths))
	return syncedOutcome(fmt.Sprintf(pointerCommittedReasonTemplateConstant, len(stagedPaths))), nil
}

func (reconciler *ReferenceReconciler) reconcileDryRun(executionContext context.Context, repositoryPath string, advancedPaths []string) (SyncOutcome, error) {
	stagedPaths, stagedError := reconciler.repositories.StagedPaths(executionContext, repositoryPath)
	if stagedError != nil {
		return SyncOutcome{}, fmt.Errorf(stagedPathsFailureTemplateConstant, repositoryPath, stagedError)
	}
	pendingCount := len(advancedPaths) + len(stagedPaths)
	if pendingCount == 0 {
		return syncedOutcome(nothingToCommitReasonConstant), nil
	}
	return skippedOutcome(fmt.Sprintf(dryRunReconcileReasonTemplateConstant, pendingCount)), nil
}

func collectChangePaths(pointerChanges []submodules.PointerChange, changeKind submodules.PointerChangeKind) []string {
	collectedPaths := make([]string, 0, len(pointerChanges))
	for _, pointerChange := range pointerChanges {
		if pointerChange.ChangeKind == changeKind {
			collectedPaths = append(collectedPaths, pointerChange.SubmodulePath)
		}
	}
	return collectedPaths
}

func pathsExclusivelySubmodules(candidatePaths []string, registry submodules.Registry) bool {
	for _, candidatePath := range candidatePaths {
		if !registry.ContainsPath(candidatePath) {
			return false
		}
	}
	return true
}
