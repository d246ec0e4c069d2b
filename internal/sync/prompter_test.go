package sync_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shibuido/sync-submodules/internal/sync"
)

const testConfirmationQuestionConstant = "Commit 2 submodule pointer update(s)?"

func TestIOConfirmationPrompterInterpretsAnswers(testInstance *testing.T) {
	testCases := []struct {
		name                string
		typedAnswer         string
		defaultOnEmptyInput bool
		expectedDecision    bool
	}{
		{name: "lowercase_y_confirms", typedAnswer: "y\n", defaultOnEmptyInput: false, expectedDecision: true},
		{name: "uppercase_yes_confirms", typedAnswer: "YES\n", defaultOnEmptyInput: false, expectedDecision: true},
		{name: "n_declines", typedAnswer: "n\n", defaultOnEmptyInput: true, expectedDecision: false},
		{name: "arbitrary_text_declines", typedAnswer: "maybe\n", defaultOnEmptyInput: true, expectedDecision: false},
		{name: "empty_input_takes_yes_default", typedAnswer: "\n", defaultOnEmptyInput: true, expectedDecision: true},
		{name: "empty_input_takes_no_default", typedAnswer: "\n", defaultOnEmptyInput: false, expectedDecision: false},
		{name: "end_of_input_takes_default", typedAnswer: "", defaultOnEmptyInput: true, expectedDecision: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var promptOutput bytes.Buffer
			prompter := sync.NewIOConfirmationPrompter(strings.NewReader(testCase.typedAnswer), &promptOutput, testCase.defaultOnEmptyInput)

			decision, confirmError := prompter.Confirm(testConfirmationQuestionConstant)
			require.NoError(testInstance, confirmError)
			require.Equal(testInstance, testCase.expectedDecision, decision)
			require.Contains(testInstance, promptOutput.String(), testConfirmationQuestionConstant)
		})
	}
}

func TestIOConfirmationPrompterShowsDefaultInPromptSuffix(testInstance *testing.T) {
	var defaultYesOutput bytes.Buffer
	defaultYesPrompter := sync.NewIOConfirmationPrompter(strings.NewReader("\n"), &defaultYesOutput, true)
	_, _ = defaultYesPrompter.Confirm(testConfirmationQuestionConstant)
	require.Contains(testInstance, defaultYesOutput.String(), "[Y/n]")

	var defaultNoOutput bytes.Buffer
	defaultNoPrompter := sync.NewIOConfirmationPrompter(strings.NewReader("\n"), &defaultNoOutput, false)
	_, _ = defaultNoPrompter.Confirm(testConfirmationQuestionConstant)
	require.Contains(testInstance, defaultNoOutput.String(), "[y/N]")
}
