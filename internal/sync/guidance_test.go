package sync_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shibuido/sync-submodules/internal/sync"
)

func TestDirtyWorktreeGuidanceListsPathsAndCommands(testInstance *testing.T) {
	guidanceText := sync.BuildDirtyWorktreeGuidance(testSuperrepoPathConstant, []string{"cmd/main.go", "notes.txt"}, nil)
	require.Contains(testInstance, guidanceText, "cmd/main.go")
	require.Contains(testInstance, guidanceText, "notes.txt")
	require.Contains(testInstance, guidanceText, "git -C "+testSuperrepoPathConstant+" stash push")
	require.Contains(testInstance, guidanceText, "commit")
	require.NotContains(testInstance, guidanceText, "submodule status")
}

func TestDirtyWorktreeGuidanceSeparatesPointerDirtFromFileDirt(testInstance *testing.T) {
	guidanceText := sync.BuildDirtyWorktreeGuidance(testSuperrepoPathConstant,
		[]string{testSubmodulePathConstant, "notes.txt"}, []string{testSubmodulePathConstant})
	require.Contains(testInstance, guidanceText, "submodule pointers, not file edits")
	require.Contains(testInstance, guidanceText, "git -C "+testSuperrepoPathConstant+" submodule status")
	require.Contains(testInstance, guidanceText, testSubmodulePathConstant)
}

func TestNoUpstreamGuidanceNamesBranchAndRemote(testInstance *testing.T) {
	guidanceText := sync.BuildNoUpstreamGuidance(testSuperrepoPathConstant, "feature/x", "upstream")
	require.Contains(testInstance, guidanceText, "feature/x")
	require.Contains(testInstance, guidanceText, "push --set-upstream upstream feature/x")
}

func TestDivergedGuidancePresentsThreeResolutionChoices(testInstance *testing.T) {
	guidanceText := sync.BuildDivergedGuidance(testSuperrepoPathConstant, "main", "origin/main", 2, 5)
	require.Contains(testInstance, guidanceText, "2 ahead, 5 behind")
	require.Contains(testInstance, guidanceText, "pull --no-rebase")
	require.Contains(testInstance, guidanceText, "pull --rebase")
	require.Contains(testInstance, guidanceText, "push --force-with-lease")
}

func TestMixedStagingGuidanceListsStagedPaths(testInstance *testing.T) {
	guidanceText := sync.BuildMixedStagingGuidance(testSuperrepoPathConstant, []string{"libs/alpha", "README.md"})
	require.Contains(testInstance, guidanceText, "README.md")
	require.Contains(testInstance, guidanceText, "git -C "+testSuperrepoPathConstant+" status")
}

func TestDeclinedCommitGuidanceExplainsHowToFinish(testInstance *testing.T) {
	guidanceText := sync.BuildDeclinedCommitGuidance(testSuperrepoPathConstant, []string{"libs/alpha"})
	require.Contains(testInstance, guidanceText, "libs/alpha")
	require.Contains(testInstance, guidanceText, "--recurse-submodules=on-demand")
}
