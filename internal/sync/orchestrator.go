package sync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrWalkerNotConfigured indicates the orchestrator was constructed without a
// submodule walker.
var ErrWalkerNotConfigured = errors.New("submodule walker not configured")

const (
	workTreeProbeFailureTemplateConstant  = "determine whether %s is inside a git work tree: %w"
	notARepositoryFailureTemplateConstant = "%s: %w"
	repositoryRootFailureTemplateConstant = "resolve repository root of %s: %w"
	topReconcileFailureReasonTemplate     = "top-level pointer reconciliation failed: %s"
	runStartedLogMessageConstant          = "Starting superrepo synchronization"
	runFinishedLogMessageConstant         = "Superrepo synchronization finished"
	orchestratorRootFieldNameConstant     = "root"
	orchestratorEntriesFieldNameConstant  = "entries"
	orchestratorFailuresFieldNameConstant = "has_failures"
)

// ServiceDependencies enumerates the collaborators of the orchestrator.
type ServiceDependencies struct {
	Repositories RepositoryGateway
	Syncer       *RepositorySyncer
	Walker       *SubmoduleWalker
	Reconciler   *ReferenceReconciler
	Logger       *zap.Logger
}

// Service orchestrates a full synchronization run: the superrepo itself, the
// forward and reverse passes over the submodule tree, and a final pointer
// reconciliation at the top so nested updates land in the superrepo history.
type Service struct {
	repositories RepositoryGateway
	syncer       *RepositorySyncer
	walker       *SubmoduleWalker
	reconciler   *ReferenceReconciler
	logger       *zap.Logger
	options      ExecutionOptions
}

// NewService validates the dependencies and builds the orchestrator.
func NewService(dependencies ServiceDependencies, options ExecutionOptions) (*Service, error) {
	if dependencies.Repositories == nil {
		return nil, ErrRepositoriesNotConfigured
	}
	if dependencies.Syncer == nil {
		return nil, ErrSyncerNotConfigured
	}
	if dependencies.Walker == nil {
		return nil, ErrWalkerNotConfigured
	}
	if dependencies.Reconciler == nil {
		return nil, ErrReconcilerNotConfigured
	}
	loggerInstance := dependencies.Logger
	if loggerInstance == nil {
		loggerInstance = zap.NewNop()
	}
	return &Service{
		repositories: dependencies.Repositories,
		syncer:       dependencies.Syncer,
		walker:       dependencies.Walker,
		reconciler:   dependencies.Reconciler,
		logger:       loggerInstance,
		options:      options,
	}, nil
}

// Run synchronizes the superrepo containing workingDirectory and every
// repository in its recursive submodule tree. It returns an error without a
// report only when workingDirectory is not inside a git work tree or the
// tree cannot be enumerated; per-repository failures are carried in the
// report instead.
func (service *Service) Run(executionContext context.Context, workingDirectory string) (*SyncReport, error) {
	insideWorkTree, probeError := service.repositories.IsInsideWorkTree(executionContext, workingDirectory)
	if probeError != nil {
		return nil, fmt.Errorf(workTreeProbeFailureTemplateConstant, workingDirectory, probeError)
	}
	if !insideWorkTree {
		return nil, fmt.Errorf(notARepositoryFailureTemplateConstant, workingDirectory, ErrNotARepository)
	}

	rootPath, rootError := service.repositories.RepositoryRoot(executionContext, workingDirectory)
	if rootError != nil {
		return nil, fmt.Errorf(repositoryRootFailureTemplateConstant, workingDirectory, rootError)
	}
	service.logger.Info(runStartedLogMessageConstant, zap.String(orchestratorRootFieldNameConstant, rootPath))

	syncReport := NewSyncReport(rootPath, service.options.DryRun)
	superrepoHandle := NewSuperrepoHandle(rootPath)
	syncReport.Append(NewReportEntry(superrepoHandle, StageSync, service.syncer.Sync(executionContext, superrepoHandle)))

	walkEntries, walkError := service.walker.Walk(executionContext, rootPath)
	if walkError != nil {
		return syncReport, walkError
	}
	for _, walkEntry := range walkEntries {
		syncReport.Append(walkEntry)
	}

	topOutcome, topError := service.reconciler.Reconcile(executionContext, rootPath)
	if topError != nil {
		topOutcome = failedOutcome(fmt.Sprintf(topReconcileFailureReasonTemplate, topError))
	}
	syncReport.Append(NewReportEntry(superrepoHandle, StageReconcile, topOutcome))

	service.logger.Info(runFinishedLogMessageConstant,
		zap.String(orchestratorRootFieldNameConstant, rootPath),
		zap.Int(orchestratorEntriesFieldNameConstant, len(syncReport.Entries)),
		zap.Bool(orchestratorFailuresFieldNameConstant, syncReport.HasFailures()))
	return syncReport, nil
}
