package sync_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shibuido/sync-submodules/internal/gitrepo"
	"github.com/shibuido/sync-submodules/internal/submodules"
	"github.com/shibuido/sync-submodules/internal/sync"
)

func submoduleHandleForTests() sync.RepositoryHandle {
	return sync.RepositoryHandle{
		Path:        testSuperrepoPathConstant + "/" + testSubmodulePathConstant,
		DisplayName: testSubmodulePathConstant,
		ParentPath:  testSuperrepoPathConstant,
	}
}

func trackedRepositoryGateway(repositoryPath string, aheadCount int, behindCount int) *scriptedRepositoryGateway {
	repositories := newScriptedRepositoryGateway()
	repositories.upstreamNames[repositoryPath] = testUpstreamBranchConstant
	repositories.aheadBehindCounts[repositoryPath] = gitrepo.AheadBehindCounts{Ahead: aheadCount, Behind: behindCount}
	return repositories
}

func TestSyncerSkipsRepositoryThatIsAlreadyInSync(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 0, 0)
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeSkipped, outcome.Kind)
	require.Equal(testInstance, []string{repositoryHandle.Path}, repositories.fetchedPaths)
	require.Empty(testInstance, repositories.pulledPaths)
	require.Empty(testInstance, repositories.pushedPaths)
}

func TestSyncerFetchesBeforeInspectingAheadBehindCounts(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 0, 2)
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeSynced, outcome.Kind)
	require.Equal(testInstance, []string{testFetchOperationNameConstant, testCountOperationNameConstant}, repositories.operationOrder)
}

func TestSyncerFetchesThenFastForwardsBehindRepository(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 0, 3)
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeSynced, outcome.Kind)
	require.Equal(testInstance, []string{repositoryHandle.Path}, repositories.fetchedPaths)
	require.Equal(testInstance, []string{repositoryHandle.Path}, repositories.pulledPaths)
	require.Empty(testInstance, repositories.pushedPaths)
}

func TestSyncerPushesAheadRepository(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 2, 0)
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeSynced, outcome.Kind)
	require.Equal(testInstance, []string{repositoryHandle.Path}, repositories.fetchedPaths)
	require.Equal(testInstance, []string{repositoryHandle.Path}, repositories.pushedPaths)
}

func TestSyncerReportsFailedFastForwardWithGuidance(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 0, 1)
	repositories.pullError = context.DeadlineExceeded
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeNeedsManualIntervention, outcome.Kind)
	require.Contains(testInstance, outcome.Instructions, repositoryHandle.Path)
	require.True(testInstance, outcome.RequiresAttention())
}

func TestSyncerNeverResolvesDivergenceAutomatically(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 2, 3)
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeNeedsManualIntervention, outcome.Kind)
	require.Equal(testInstance, sync.ErrDiverged.Error(), outcome.Reason)
	require.Contains(testInstance, outcome.Instructions, "pull --no-rebase")
	require.Contains(testInstance, outcome.Instructions, "pull --rebase")
	require.Contains(testInstance, outcome.Instructions, "push --force-with-lease")
	require.Empty(testInstance, repositories.pulledPaths)
	require.Empty(testInstance, repositories.pushedPaths)
	require.Equal(testInstance, []string{repositoryHandle.Path}, repositories.fetchedPaths)
}

func TestSyncerTreatsMissingUpstreamAsAdvisory(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := newScriptedRepositoryGateway()
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeNeedsManualIntervention, outcome.Kind)
	require.True(testInstance, outcome.Advisory)
	require.False(testInstance, outcome.RequiresAttention())
	require.Contains(testInstance, outcome.Instructions, "--set-upstream")
}

func TestSyncerListsUntrackedFileInDirtyGuidance(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 0, 2)
	repositories.worktreeStatuses[repositoryHandle.Path] = gitrepo.WorktreeStatus{
		Files: []gitrepo.FileStatus{{IndexState: '?', WorktreeState: '?', Path: "notes/todo.txt"}},
	}
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeNeedsManualIntervention, outcome.Kind)
	require.Equal(testInstance, sync.ErrDirtyWorkingTree.Error(), outcome.Reason)
	require.Contains(testInstance, outcome.Instructions, "notes/todo.txt")
	require.NotContains(testInstance, outcome.Instructions, "submodule status")
	require.Empty(testInstance, repositories.pulledPaths)
}

func TestSyncerReconcilesSuperrepoDirtyWithOnlySubmodulePointers(testInstance *testing.T) {
	superrepoHandle := sync.NewSuperrepoHandle(testSuperrepoPathConstant)
	repositories := trackedRepositoryGateway(testSuperrepoPathConstant, 0, 0)
	repositories.worktreeStatuses[testSuperrepoPathConstant] = dirtyWorktreeStatus(testSubmodulePathConstant, testSecondSubmodulePath)
	submoduleGateway := newScriptedSubmoduleGateway()
	submoduleGateway.registries[testSuperrepoPathConstant] = buildTwoSubmoduleRegistry()
	submoduleGateway.pointerChanges[testSuperrepoPathConstant] = []submodules.PointerChange{
		{SubmodulePath: testSubmodulePathConstant, ChangeKind: submodules.PointerNewCommits},
		{SubmodulePath: testSecondSubmodulePath, ChangeKind: submodules.PointerNewCommits},
	}
	syncer := newTestSyncer(testInstance, repositories, submoduleGateway, &recordingPrompter{answer: true}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), superrepoHandle)
	require.Equal(testInstance, sync.OutcomeSynced, outcome.Kind)
	require.NotEmpty(testInstance, repositories.commitMessages[testSuperrepoPathConstant])
	require.Equal(testInstance, []string{testSuperrepoPathConstant}, repositories.recursePushedPaths)
}

func TestSyncerRequiresManualCleanupForMixedSuperrepoDirt(testInstance *testing.T) {
	superrepoHandle := sync.NewSuperrepoHandle(testSuperrepoPathConstant)
	repositories := trackedRepositoryGateway(testSuperrepoPathConstant, 0, 0)
	repositories.worktreeStatuses[testSuperrepoPathConstant] = dirtyWorktreeStatus(testSubmodulePathConstant, "Makefile")
	submoduleGateway := newScriptedSubmoduleGateway()
	submoduleGateway.registries[testSuperrepoPathConstant] = buildTwoSubmoduleRegistry()
	syncer := newTestSyncer(testInstance, repositories, submoduleGateway, &recordingPrompter{answer: true}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), superrepoHandle)
	require.Equal(testInstance, sync.OutcomeNeedsManualIntervention, outcome.Kind)
	require.Contains(testInstance, outcome.Instructions, "Makefile")
	require.Contains(testInstance, outcome.Instructions, "submodule status")
	require.Contains(testInstance, outcome.Instructions, testSubmodulePathConstant)
	require.Empty(testInstance, repositories.commitMessages)
}

func TestSyncerSwitchesDetachedHeadToDefaultBranchBeforeDeciding(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 0, 0)
	repositories.detachedPaths[repositoryHandle.Path] = true
	repositories.defaultBranches[repositoryHandle.Path] = "trunk"
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeSkipped, outcome.Kind)
	require.Equal(testInstance, "trunk", repositories.switchedBranches[repositoryHandle.Path])
}

func TestSyncerSkipsRepositoryWhenLeavingDetachedHeadFails(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 0, 4)
	repositories.detachedPaths[repositoryHandle.Path] = true
	repositories.switchError = context.DeadlineExceeded
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeSkipped, outcome.Kind)
	require.True(testInstance, outcome.Advisory)
	require.Empty(testInstance, repositories.pulledPaths)
}

func TestSyncerDryRunNeverTouchesRemote(testInstance *testing.T) {
	repositoryHandle := submoduleHandleForTests()
	repositories := trackedRepositoryGateway(repositoryHandle.Path, 0, 2)
	syncer := newTestSyncer(testInstance, repositories, newScriptedSubmoduleGateway(), &recordingPrompter{}, sync.ExecutionOptions{DryRun: true})

	outcome := syncer.Sync(context.Background(), repositoryHandle)
	require.Equal(testInstance, sync.OutcomeSkipped, outcome.Kind)
	require.Empty(testInstance, repositories.fetchedPaths)
	require.Empty(testInstance, repositories.pulledPaths)
	require.Empty(testInstance, repositories.pushedPaths)
}
