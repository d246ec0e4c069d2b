package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shibuido/sync-submodules/internal/gitrepo"
)

const (
	testStatusCleanCaseNameConstant     = "clean_worktree"
	testStatusModifiedCaseNameConstant  = "staged_and_unstaged_entries"
	testStatusUntrackedCaseNameConstant = "untracked_entries"
	testStatusRenameCaseNameConstant    = "rename_uses_destination_path"
	testStatusConflictCaseNameConstant  = "unmerged_entries"
)

func TestParsePorcelainStatus(testInstance *testing.T) {
	testCases := []struct {
		name                string
		statusOutput        string
		expectedClean       bool
		expectedPaths       []string
		expectedStagedCount int
		expectedConflicts   int
	}{
		{
			name:          testStatusCleanCaseNameConstant,
			statusOutput:  "",
			expectedClean: true,
			expectedPaths: []string{},
		},
		{
			name:                testStatusModifiedCaseNameConstant,
			statusOutput:        "M  libs/shared\n M docs/readme.md\n",
			expectedClean:       false,
			expectedPaths:       []string{"libs/shared", "docs/readme.md"},
			expectedStagedCount: 1,
		},
		{
			name:          testStatusUntrackedCaseNameConstant,
			statusOutput:  "?? scratch.txt\n",
			expectedClean: false,
			expectedPaths: []string{"scratch.txt"},
		},
		{
			name:                testStatusRenameCaseNameConstant,
			statusOutput:        "R  old_name.go -> new_name.go\n",
			expectedClean:       false,
			expectedPaths:       []string{"new_name.go"},
			expectedStagedCount: 1,
		},
		{
			name:                testStatusConflictCaseNameConstant,
			statusOutput:        "UU libs/shared\n",
			expectedClean:       false,
			expectedPaths:       []string{"libs/shared"},
			expectedStagedCount: 1,
			expectedConflicts:   1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedStatus := gitrepo.ParsePorcelainStatus(testCase.statusOutput)

			require.Equal(testInstance, testCase.expectedClean, parsedStatus.Clean())
			require.Equal(testInstance, testCase.expectedPaths, parsedStatus.ModifiedPaths())

			stagedCount := 0
			conflictCount := 0
			for _, fileStatus := range parsedStatus.Files {
				if fileStatus.Staged() {
					stagedCount++
				}
				if fileStatus.Unmerged() {
					conflictCount++
				}
			}
			require.Equal(testInstance, testCase.expectedStagedCount, stagedCount)
			require.Equal(testInstance, testCase.expectedConflicts, conflictCount)
		})
	}
}
