package pathutils_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/shibuido/sync-submodules/internal/utils/path"
)

const (
	testResolverHomeDirectoryConstant        = "/home/tester"
	testResolverEmptyInputCaseNameConstant   = "empty_input_defaults_to_current_directory"
	testResolverWhitespaceCaseNameConstant   = "whitespace_trimmed"
	testResolverTildeCaseNameConstant        = "tilde_expanded"
	testResolverBareTildeCaseNameConstant    = "bare_tilde_expanded"
	testResolverRedundantPathCaseName        = "redundant_separators_cleaned"
	testResolverAbsolutePathCaseNameConstant = "absolute_path_preserved"
)

func TestRepositoryPathResolverResolve(testInstance *testing.T) {
	homeExpander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testResolverHomeDirectoryConstant, nil
	})
	resolver := pathutils.NewRepositoryPathResolverWithExpander(homeExpander)

	testCases := []struct {
		name          string
		candidatePath string
		expectedPath  string
	}{
		{
			name:          testResolverEmptyInputCaseNameConstant,
			candidatePath: "",
			expectedPath:  ".",
		},
		{
			name:          testResolverWhitespaceCaseNameConstant,
			candidatePath: "  repos/super  ",
			expectedPath:  filepath.Clean("repos/super"),
		},
		{
			name:          testResolverTildeCaseNameConstant,
			candidatePath: "~/repos/super",
			expectedPath:  filepath.Join(testResolverHomeDirectoryConstant, "repos", "super"),
		},
		{
			name:          testResolverBareTildeCaseNameConstant,
			candidatePath: "~",
			expectedPath:  testResolverHomeDirectoryConstant,
		},
		{
			name:          testResolverRedundantPathCaseName,
			candidatePath: "repos//super/.",
			expectedPath:  filepath.Clean("repos/super"),
		},
		{
			name:          testResolverAbsolutePathCaseNameConstant,
			candidatePath: "/workspace/superrepo",
			expectedPath:  "/workspace/superrepo",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedPath := resolver.Resolve(testCase.candidatePath)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}
