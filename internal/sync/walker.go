package sync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrSyncerNotConfigured indicates the walker was constructed without a
// repository syncer.
var ErrSyncerNotConfigured = errors.New("repository syncer not configured")

const (
	initializeFailureTemplateConstant     = "initialize submodules under %s: %w"
	discoverTreeFailureTemplateConstant   = "discover submodule tree under %s: %w"
	nestedRegistryFailureReasonTemplate   = "load nested submodule registry failed: %s"
	nestedReconcileFailureReasonTemplate  = "nested pointer reconciliation failed: %s"
	dryRunInitializeLogMessageConstant    = "Would initialize submodules recursively"
	walkStartedLogMessageConstant         = "Walking submodule tree"
	reversePassStartedLogMessageConstant  = "Propagating submodule pointers bottom-up"
	walkerRepositoryFieldNameConstant     = "repository"
	walkerSubmoduleCountFieldNameConstant = "submodule_count"
)

// WalkerDependencies enumerates the collaborators of the submodule walker.
type WalkerDependencies struct {
	Submodules SubmoduleGateway
	Syncer     *RepositorySyncer
	Reconciler *ReferenceReconciler
	Logger     *zap.Logger
}

// SubmoduleWalker traverses the recursive submodule tree of a superrepo. The
// forward pass synchronizes every submodule parent-before-child; the reverse
// pass reconciles pointer updates child-before-parent so that nested updates
// bubble up one level at a time.
type SubmoduleWalker struct {
	submodules SubmoduleGateway
	syncer     *RepositorySyncer
	reconciler *ReferenceReconciler
	logger     *zap.Logger
	options    ExecutionOptions
}

// NewSubmoduleWalker validates the dependencies and builds a walker.
func NewSubmoduleWalker(dependencies WalkerDependencies, options ExecutionOptions) (*SubmoduleWalker, error) {
	if dependencies.Submodules == nil {
		return nil, ErrSubmodulesNotConfigured
	}
	if dependencies.Syncer == nil {
		return nil, ErrSyncerNotConfigured
	}
	if dependencies.Reconciler == nil {
		return nil, ErrReconcilerNotConfigured
	}
	loggerInstance := dependencies.Logger
	if loggerInstance == nil {
		loggerInstance = zap.NewNop()
	}
	return &SubmoduleWalker{
		submodules: dependencies.Submodules,
		syncer:     dependencies.Syncer,
		reconciler: dependencies.Reconciler,
		logger:     loggerInstance,
		options:    options,
	}, nil
}

// Walk initializes the submodule tree under rootPath and runs both passes.
// Individual repository failures are recorded in the returned entries rather
// than aborting the traversal; only failures that prevent enumerating the
// tree are returned as errors.
func (walker *SubmoduleWalker) Walk(executionContext context.Context, rootPath string) ([]ReportEntry, error) {
	if walker.options.DryRun {
		walker.logger.Info(dryRunInitializeLogMessageConstant,
			zap.String(walkerRepositoryFieldNameConstant, rootPath))
	} else {
		if initializeError := walker.submodules.InitializeAll(executionContext, rootPath); initializeError != nil {
			return nil, fmt.Errorf(initializeFailureTemplateConstant, rootPath, initializeError)
		}
	}

	submoduleTree, discoveryError := walker.submodules.DiscoverTree(executionContext, rootPath)
	if discoveryError != nil {
		return nil, fmt.Errorf(discoverTreeFailureTemplateConstant, rootPath, discoveryError)
	}
	walker.logger.Info(walkStartedLogMessageConstant,
		zap.String(walkerRepositoryFieldNameConstant, rootPath),
		zap.Int(walkerSubmoduleCountFieldNameConstant, submoduleTree.Size()))

	reportEntries := make([]ReportEntry, 0, 2*submoduleTree.Size())
	for _, treeNode := range submoduleTree.ForwardOrder() {
		submoduleHandle := buildSubmoduleHandle(rootPath, treeNode.DisplayPath, treeNode.ParentDisplayPath)
		syncOutcome := walker.syncer.Sync(executionContext, submoduleHandle)
		reportEntries = append(reportEntries, NewReportEntry(submoduleHandle, StageSync, syncOutcome))
	}

	walker.logger.Info(reversePassStartedLogMessageConstant,
		zap.String(walkerRepositoryFieldNameConstant, rootPath))
	for _, treeNode := range submoduleTree.ReverseOrder() {
		submoduleHandle := buildSubmoduleHandle(rootPath, treeNode.DisplayPath, treeNode.ParentDisplayPath)
		reconcileEntry, reconciled := walker.reconcileNested(executionContext, submoduleHandle)
		if reconciled {
			reportEntries = append(reportEntries, reconcileEntry)
		}
	}
	return reportEntries, nil
}

// reconcileNested reconciles one submodule's own pointers. Submodules without
// nested submodules of their own are left untouched.
func (walker *SubmoduleWalker) reconcileNested(executionContext context.Context, submoduleHandle RepositoryHandle) (ReportEntry, bool) {
	nestedRegistry, registryError := walker.submodules.LoadRegistry(executionContext, submoduleHandle.Path)
	if registryError != nil {
		failureOutcome := failedOutcome(fmt.Sprintf(nestedRegistryFailureReasonTemplate, registryError))
		return NewReportEntry(submoduleHandle, StageReconcile, failureOutcome), true
	}
	if nestedRegistry.Empty() {
		return ReportEntry{}, false
	}
	reconcileOutcome, reconcileError := walker.reconciler.Reconcile(executionContext, submoduleHandle.Path)
	if reconcileError != nil {
		reconcileOutcome = failedOutcome(fmt.Sprintf(nestedReconcileFailureReasonTemplate, reconcileError))
	}
	return NewReportEntry(submoduleHandle, StageReconcile, reconcileOutcome), true
}

func buildSubmoduleHandle(rootPath string, displayPath string, parentDisplayPath string) RepositoryHandle {
	parentPath := rootPath
	if len(parentDisplayPath) > 0 {
		parentPath = filepath.Join(rootPath, parentDisplayPath)
	}
	return RepositoryHandle{
		Path:        filepath.Join(rootPath, displayPath),
		DisplayName: displayPath,
		ParentPath:  parentPath,
	}
}
