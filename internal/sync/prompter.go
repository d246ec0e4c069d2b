package sync

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	defaultYesPromptSuffixConstant     = " [Y/n] "
	defaultNoPromptSuffixConstant      = " [y/N] "
	affirmativeShortAnswerConstant     = "y"
	affirmativeLongAnswerConstant      = "yes"
	promptWriteFailureTemplateConstant = "write confirmation prompt: %w"
	promptReadFailureTemplateConstant  = "read confirmation answer: %w"
)

// IOConfirmationPrompter asks yes/no questions over a reader and writer pair.
// The answer taken for empty input is an explicit policy choice, so pressing
// Enter can stand for the recommended action.
type IOConfirmationPrompter struct {
	inputReader         *bufio.Reader
	outputWriter        io.Writer
	defaultOnEmptyInput bool
}

// NewIOConfirmationPrompter builds a prompter reading answers from input and
// writing prompts to output. defaultOnEmptyInput is returned when the
// operator answers with a bare newline.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer, defaultOnEmptyInput bool) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{
		inputReader:         bufio.NewReader(input),
		outputWriter:        output,
		defaultOnEmptyInput: defaultOnEmptyInput,
	}
}

// Confirm writes the prompt and interprets the next input line. Only "y" and
// "yes" (case-insensitive) count as confirmation; an empty line yields the
// configured default.
func (prompter *IOConfirmationPrompter) Confirm(promptMessage string) (bool, error) {
	promptSuffix := defaultNoPromptSuffixConstant
	if prompter.defaultOnEmptyInput {
		promptSuffix = defaultYesPromptSuffixConstant
	}
	if _, writeError := fmt.Fprint(prompter.outputWriter, promptMessage+promptSuffix); writeError != nil {
		return false, fmt.Errorf(promptWriteFailureTemplateConstant, writeError)
	}
	answerLine, readError := prompter.inputReader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return false, fmt.Errorf(promptReadFailureTemplateConstant, readError)
	}
	normalizedAnswer := strings.ToLower(strings.TrimSpace(answerLine))
	if len(normalizedAnswer) == 0 {
		return prompter.defaultOnEmptyInput, nil
	}
	return normalizedAnswer == affirmativeShortAnswerConstant || normalizedAnswer == affirmativeLongAnswerConstant, nil
}
