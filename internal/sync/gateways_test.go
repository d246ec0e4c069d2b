package sync_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shibuido/sync-submodules/internal/gitrepo"
	"github.com/shibuido/sync-submodules/internal/submodules"
	"github.com/shibuido/sync-submodules/internal/sync"
)

const (
	testSuperrepoPathConstant      = "/workspace/superrepo"
	testSubmodulePathConstant      = "libs/alpha"
	testSecondSubmodulePath        = "libs/beta"
	testDefaultBranchConstant      = "main"
	testUpstreamBranchConstant     = "origin/main"
	testRemoteNameConstant         = "origin"
	testFetchOperationNameConstant = "fetch"
	testCountOperationNameConstant = "count"
	testRegistryPairTemplateText   = "submodule.alpha.path libs/alpha\nsubmodule.alpha.url https://example.com/alpha.git\n" +
		"submodule.beta.path libs/beta\nsubmodule.beta.url https://example.com/beta.git\n"
)

type scriptedRepositoryGateway struct {
	insideWorkTree          bool
	workTreeProbeError      error
	rootPath                string
	rootError               error
	worktreeStatuses        map[string]gitrepo.WorktreeStatus
	branchNames             map[string]string
	detachedPaths           map[string]bool
	upstreamNames           map[string]string
	aheadBehindCounts       map[string]gitrepo.AheadBehindCounts
	defaultBranches         map[string]string
	stagedPathsByRepository map[string][]string

	fetchError       error
	pullError        error
	pushError        error
	switchError      error
	commitError      error
	recursePushError error

	countAheadBehindCalls int
	operationOrder        []string

	fetchedPaths       []string
	pulledPaths        []string
	pushedPaths        []string
	switchedBranches   map[string]string
	stagedRequests     map[string][]string
	commitMessages     map[string]string
	recursePushedPaths []string
}

func newScriptedRepositoryGateway() *scriptedRepositoryGateway {
	return &scriptedRepositoryGateway{
		insideWorkTree:          true,
		rootPath:                testSuperrepoPathConstant,
		worktreeStatuses:        map[string]gitrepo.WorktreeStatus{},
		branchNames:             map[string]string{},
		detachedPaths:           map[string]bool{},
		upstreamNames:           map[string]string{},
		aheadBehindCounts:       map[string]gitrepo.AheadBehindCounts{},
		defaultBranches:         map[string]string{},
		stagedPathsByRepository: map[string][]string{},
		switchedBranches:        map[string]string{},
		stagedRequests:          map[string][]string{},
		commitMessages:          map[string]string{},
	}
}

func (gateway *scriptedRepositoryGateway) IsInsideWorkTree(_ context.Context, _ string) (bool, error) {
	return gateway.insideWorkTree, gateway.workTreeProbeError
}

func (gateway *scriptedRepositoryGateway) RepositoryRoot(_ context.Context, _ string) (string, error) {
	return gateway.rootPath, gateway.rootError
}

func (gateway *scriptedRepositoryGateway) WorktreeStatus(_ context.Context, repositoryPath string) (gitrepo.WorktreeStatus, error) {
	return gateway.worktreeStatuses[repositoryPath], nil
}

func (gateway *scriptedRepositoryGateway) GetCurrentBranch(_ context.Context, repositoryPath string) (string, bool, error) {
	branchName, branchKnown := gateway.branchNames[repositoryPath]
	if !branchKnown {
		branchName = testDefaultBranchConstant
	}
	return branchName, gateway.detachedPaths[repositoryPath], nil
}

func (gateway *scriptedRepositoryGateway) GetUpstreamBranch(_ context.Context, repositoryPath string) (string, bool, error) {
	upstreamName, hasUpstream := gateway.upstreamNames[repositoryPath]
	return upstreamName, hasUpstream, nil
}

func (gateway *scriptedRepositoryGateway) CountAheadBehind(_ context.Context, repositoryPath string) (gitrepo.AheadBehindCounts, error) {
	gateway.countAheadBehindCalls++
	gateway.operationOrder = append(gateway.operationOrder, testCountOperationNameConstant)
	return gateway.aheadBehindCounts[repositoryPath], nil
}

func (gateway *scriptedRepositoryGateway) ResolveDefaultBranch(_ context.Context, repositoryPath string, fallbackBranchName string) string {
	if resolvedBranch, branchKnown := gateway.defaultBranches[repositoryPath]; branchKnown {
		return resolvedBranch
	}
	if len(fallbackBranchName) > 0 {
		return fallbackBranchName
	}
	return testDefaultBranchConstant
}

func (gateway *scriptedRepositoryGateway) SwitchBranch(_ context.Context, repositoryPath string, branchName string) error {
	if gateway.switchError != nil {
		return gateway.switchError
	}
	gateway.switchedBranches[repositoryPath] = branchName
	gateway.detachedPaths[repositoryPath] = false
	return nil
}

func (gateway *scriptedRepositoryGateway) FetchAllWithPrune(_ context.Context, repositoryPath string) error {
	if gateway.fetchError != nil {
		return gateway.fetchError
	}
	gateway.operationOrder = append(gateway.operationOrder, testFetchOperationNameConstant)
	gateway.fetchedPaths = append(gateway.fetchedPaths, repositoryPath)
	return nil
}

func (gateway *scriptedRepositoryGateway) PullFastForward(_ context.Context, repositoryPath string) error {
	if gateway.pullError != nil {
		return gateway.pullError
	}
	gateway.pulledPaths = append(gateway.pulledPaths, repositoryPath)
	return nil
}

func (gateway *scriptedRepositoryGateway) Push(_ context.Context, repositoryPath string) error {
	if gateway.pushError != nil {
		return gateway.pushError
	}
	gateway.pushedPaths = append(gateway.pushedPaths, repositoryPath)
	return nil
}

func (gateway *scriptedRepositoryGateway) PushWithRecurseSubmodules(_ context.Context, repositoryPath string) error {
	if gateway.recursePushError != nil {
		return gateway.recursePushError
	}
	gateway.recursePushedPaths = append(gateway.recursePushedPaths, repositoryPath)
	return nil
}

func (gateway *scriptedRepositoryGateway) StagePath(_ context.Context, repositoryPath string, stagePath string) error {
	gateway.stagedRequests[repositoryPath] = append(gateway.stagedRequests[repositoryPath], stagePath)
	return nil
}

func (gateway *scriptedRepositoryGateway) StagedPaths(_ context.Context, repositoryPath string) ([]string, error) {
	combinedPaths := append([]string{}, gateway.stagedPathsByRepository[repositoryPath]...)
	combinedPaths = append(combinedPaths, gateway.stagedRequests[repositoryPath]...)
	return combinedPaths, nil
}

func (gateway *scriptedRepositoryGateway) CreateCommit(_ context.Context, repositoryPath string, commitMessage string) error {
	if gateway.commitError != nil {
		return gateway.commitError
	}
	gateway.commitMessages[repositoryPath] = commitMessage
	return nil
}

type scriptedSubmoduleGateway struct {
	registries       map[string]submodules.Registry
	registryErrors   map[string]error
	pointerChanges   map[string][]submodules.PointerChange
	trees            map[string]submodules.Tree
	initializeError  error
	initializedPaths []string
}

func newScriptedSubmoduleGateway() *scriptedSubmoduleGateway {
	return &scriptedSubmoduleGateway{
		registries:     map[string]submodules.Registry{},
		registryErrors: map[string]error{},
		pointerChanges: map[string][]submodules.PointerChange{},
		trees:          map[string]submodules.Tree{},
	}
}

func (gateway *scriptedSubmoduleGateway) LoadRegistry(_ context.Context, repositoryPath string) (submodules.Registry, error) {
	if registryError := gateway.registryErrors[repositoryPath]; registryError != nil {
		return submodules.Registry{}, registryError
	}
	return gateway.registries[repositoryPath], nil
}

func (gateway *scriptedSubmoduleGateway) PointerChanges(_ context.Context, repositoryPath string) ([]submodules.PointerChange, error) {
	return gateway.pointerChanges[repositoryPath], nil
}

func (gateway *scriptedSubmoduleGateway) DiscoverTree(_ context.Context, repositoryPath string) (submodules.Tree, error) {
	return gateway.trees[repositoryPath], nil
}

func (gateway *scriptedSubmoduleGateway) InitializeAll(_ context.Context, repositoryPath string) error {
	if gateway.initializeError != nil {
		return gateway.initializeError
	}
	gateway.initializedPaths = append(gateway.initializedPaths, repositoryPath)
	return nil
}

type recordingPrompter struct {
	answer          bool
	confirmError    error
	receivedPrompts []string
}

func (prompter *recordingPrompter) Confirm(promptMessage string) (bool, error) {
	prompter.receivedPrompts = append(prompter.receivedPrompts, promptMessage)
	return prompter.answer, prompter.confirmError
}

func buildTwoSubmoduleRegistry() submodules.Registry {
	return submodules.ParseRegistryOutput(testRegistryPairTemplateText)
}

func dirtyWorktreeStatus(paths ...string) gitrepo.WorktreeStatus {
	fileStatuses := make([]gitrepo.FileStatus, 0, len(paths))
	for _, modifiedPath := range paths {
		fileStatuses = append(fileStatuses, gitrepo.FileStatus{IndexState: ' ', WorktreeState: 'M', Path: modifiedPath})
	}
	return gitrepo.WorktreeStatus{Files: fileStatuses}
}

func newTestReconciler(testInstance *testing.T, repositories *scriptedRepositoryGateway, submoduleGateway *scriptedSubmoduleGateway, prompter sync.ConfirmationPrompter, options sync.ExecutionOptions) *sync.ReferenceReconciler {
	testInstance.Helper()
	reconciler, creationError := sync.NewReferenceReconciler(sync.ReconcilerDependencies{
		Repositories: repositories,
		Submodules:   submoduleGateway,
		Prompter:     prompter,
		Logger:       zap.NewNop(),
	}, options)
	require.NoError(testInstance, creationError)
	return reconciler
}

func newTestSyncer(testInstance *testing.T, repositories *scriptedRepositoryGateway, submoduleGateway *scriptedSubmoduleGateway, prompter sync.ConfirmationPrompter, options sync.ExecutionOptions) *sync.RepositorySyncer {
	testInstance.Helper()
	statusInspector, inspectorError := sync.NewStatusInspector(repositories)
	require.NoError(testInstance, inspectorError)
	syncer, creationError := sync.NewRepositorySyncer(sync.SyncerDependencies{
		Repositories: repositories,
		Submodules:   submoduleGateway,
		Inspector:    statusInspector,
		Reconciler:   newTestReconciler(testInstance, repositories, submoduleGateway, prompter, options),
		Logger:       zap.NewNop(),
		RemoteName:   testRemoteNameConstant,
	}, options)
	require.NoError(testInstance, creationError)
	return syncer
}
