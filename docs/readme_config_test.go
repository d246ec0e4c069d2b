package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	expectedLogLevelConstant         = "info"
	expectedLogFormatConstant        = "console"
	expectedRemoteNameConstant       = "origin"
	expectedFallbackBranchConstant   = "main"
)

type readmeApplicationConfiguration struct {
	Common readmeCommonConfiguration `yaml:"common"`
	Tools  readmeToolsConfiguration  `yaml:"tools"`
}

type readmeCommonConfiguration struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type readmeToolsConfiguration struct {
	Sync readmeSyncConfiguration `yaml:"sync"`
}

type readmeSyncConfiguration struct {
	Remote         string `yaml:"remote"`
	FallbackBranch string `yaml:"fallback_branch"`
	ReportFile     string `yaml:"report_file"`
	DryRun         bool   `yaml:"dry_run"`
	AssumeYes      bool   `yaml:"assume_yes"`
}

func TestReadmeConfigurationExampleParses(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	var applicationConfiguration readmeApplicationConfiguration
	unmarshalError := yaml.Unmarshal([]byte(snippetContent), &applicationConfiguration)
	require.NoError(testInstance, unmarshalError)

	require.Equal(testInstance, expectedLogLevelConstant, applicationConfiguration.Common.LogLevel)
	require.Equal(testInstance, expectedLogFormatConstant, applicationConfiguration.Common.LogFormat)
	require.Equal(testInstance, expectedRemoteNameConstant, applicationConfiguration.Tools.Sync.Remote)
	require.Equal(testInstance, expectedFallbackBranchConstant, applicationConfiguration.Tools.Sync.FallbackBranch)
	require.Empty(testInstance, applicationConfiguration.Tools.Sync.ReportFile)
	require.False(testInstance, applicationConfiguration.Tools.Sync.DryRun)
	require.False(testInstance, applicationConfiguration.Tools.Sync.AssumeYes)
}
