package flags_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shibuido/sync-submodules/internal/utils/flags"
)

const (
	testChoiceDefaultHighlightCaseNameConstant = "default_highlighted"
	testChoiceDuplicateCaseNameConstant        = "duplicates_removed"
	testChoiceEmptyDescriptionCaseNameConstant = "empty_description"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name          string
		defaultChoice string
		choices       []string
		description   string
		expectedUsage string
	}{
		{
			name:          testChoiceDefaultHighlightCaseNameConstant,
			defaultChoice: "info",
			choices:       []string{"debug", "info", "warn", "error"},
			description:   "Log verbosity",
			expectedUsage: "`<debug|INFO|warn|error>` Log verbosity",
		},
		{
			name:          testChoiceDuplicateCaseNameConstant,
			defaultChoice: "console",
			choices:       []string{"console", "structured", "console"},
			description:   "Log format",
			expectedUsage: "`<CONSOLE|structured>` Log format",
		},
		{
			name:          testChoiceEmptyDescriptionCaseNameConstant,
			defaultChoice: "info",
			choices:       []string{"debug", "info"},
			description:   "  ",
			expectedUsage: "`<debug|INFO>`",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			formattedUsage := flags.FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(testInstance, testCase.expectedUsage, formattedUsage)
		})
	}
}
