package sync

import (
	"fmt"
	"strings"
)

const (
	guidanceLineSeparatorConstant           = "\n"
	guidanceListItemTemplateConstant        = "  %s"
	dirtyGuidanceHeaderTemplateConstant     = "Repository %s has uncommitted changes:"
	dirtyGuidancePointerHintHeaderTemplate  = "These dirty paths are submodule pointers, not file edits (a leading + or - in `git -C %s submodule status` marks them):"
	dirtyGuidanceCommitTemplateConstant     = "Commit them:    git -C %s add --all && git -C %s commit"
	dirtyGuidanceStashTemplateConstant      = "Or stash them:  git -C %s stash push"
	dirtyGuidanceRerunMessageConstant       = "Then re-run the synchronization."
	noUpstreamGuidanceHeaderTemplate        = "Branch %q in %s has no upstream; pushes and pulls cannot be resolved."
	noUpstreamGuidanceCommandTemplate       = "Configure one: git -C %s push --set-upstream %s %s"
	fastForwardGuidanceHeaderTemplate       = "Fast-forward pull failed in %s."
	fastForwardGuidanceInspectTemplate      = "Inspect the divergence: git -C %s log --oneline --graph %s...%s/%s"
	pushRejectedGuidanceHeaderTemplate      = "Push from %s was rejected by the remote."
	pushRejectedGuidanceCausesConstant      = "Likely causes: the remote gained new commits since the last fetch, the branch is protected, or your credentials lack write access."
	pushRejectedGuidanceRefetchTemplate     = "Refresh and retry: git -C %s fetch --all --prune && git -C %s push"
	divergedGuidanceHeaderTemplate          = "Branch %q in %s has diverged from %s (%d ahead, %d behind). Nothing was changed."
	divergedGuidanceChooseMessageConstant   = "Resolve the divergence yourself with one of:"
	divergedGuidanceMergeTemplateConstant   = "  merge:      git -C %s pull --no-rebase"
	divergedGuidanceRebaseTemplateConstant  = "  rebase:     git -C %s pull --rebase"
	divergedGuidanceForceTemplateConstant   = "  force-push: git -C %s push --force-with-lease"
	conflictGuidanceHeaderTemplateConstant  = "Submodule(s) in %s are merge-conflicted:"
	conflictGuidanceResolveTemplateConstant = "Resolve the conflict inside each submodule, then: git -C %s add <submodule-path> && git -C %s commit"
	commitFailedGuidanceTemplateConstant    = "Commit creation failed in %s. Inspect the staged state with: git -C %s status"
	switchBranchGuidanceTemplateConstant    = "Could not switch %s to branch %q. Inspect with: git -C %s status"
	mixedStagingGuidanceHeaderTemplate      = "Staged changes in %s mix submodule pointers with other content:"
	mixedStagingGuidanceReviewTemplate      = "Review and commit them yourself: git -C %s status && git -C %s commit"
	declinedCommitGuidanceHeaderTemplate    = "Submodule pointer updates in %s were left staged:"
	declinedCommitGuidanceCommitTemplate    = "Commit them when ready: git -C %s commit && git -C %s push --recurse-submodules=on-demand"
)

// BuildDirtyWorktreeGuidance lists the dirty paths of a repository together
// with the commands that clear the working tree for a retry. Dirty paths that
// are declared submodules get a hint separating pointer dirt from ordinary
// file dirt.
func BuildDirtyWorktreeGuidance(repositoryPath string, dirtyPaths []string, submodulePaths []string) string {
	guidanceLines := []string{fmt.Sprintf(dirtyGuidanceHeaderTemplateConstant, repositoryPath)}
	guidanceLines = append(guidanceLines, formatGuidanceList(dirtyPaths)...)
	if len(submodulePaths) > 0 {
		guidanceLines = append(guidanceLines, fmt.Sprintf(dirtyGuidancePointerHintHeaderTemplate, repositoryPath))
		guidanceLines = append(guidanceLines, formatGuidanceList(submodulePaths)...)
	}
	guidanceLines = append(guidanceLines,
		fmt.Sprintf(dirtyGuidanceCommitTemplateConstant, repositoryPath, repositoryPath),
		fmt.Sprintf(dirtyGuidanceStashTemplateConstant, repositoryPath),
		dirtyGuidanceRerunMessageConstant,
	)
	return strings.Join(guidanceLines, guidanceLineSeparatorConstant)
}

// BuildNoUpstreamGuidance explains how to configure a tracking branch.
func BuildNoUpstreamGuidance(repositoryPath string, branchName string, remoteName string) string {
	guidanceLines := []string{
		fmt.Sprintf(noUpstreamGuidanceHeaderTemplate, branchName, repositoryPath),
		fmt.Sprintf(noUpstreamGuidanceCommandTemplate, repositoryPath, remoteName, branchName),
	}
	return strings.Join(guidanceLines, guidanceLineSeparatorConstant)
}

// BuildFastForwardGuidance explains how to inspect a pull that could not
// fast-forward.
func BuildFastForwardGuidance(repositoryPath string, branchName string, remoteName string) string {
	guidanceLines := []string{
		fmt.Sprintf(fastForwardGuidanceHeaderTemplate, repositoryPath),
		fmt.Sprintf(fastForwardGuidanceInspectTemplate, repositoryPath, branchName, remoteName, branchName),
	}
	return strings.Join(guidanceLines, guidanceLineSeparatorConstant)
}

// BuildPushRejectedGuidance enumerates the usual causes of a rejected push.
func BuildPushRejectedGuidance(repositoryPath string) string {
	guidanceLines := []string{
		fmt.Sprintf(pushRejectedGuidanceHeaderTemplate, repositoryPath),
		pushRejectedGuidanceCausesConstant,
		fmt.Sprintf(pushRejectedGuidanceRefetchTemplate, repositoryPath, repositoryPath),
	}
	return strings.Join(guidanceLines, guidanceLineSeparatorConstant)
}

// BuildDivergedGuidance presents the three manual resolution choices for a
// diverged branch without executing any of them.
func BuildDivergedGuidance(repositoryPath string, branchName string, upstreamName string, aheadCount int, behindCount int) string {
	guidanceLines := []string{
		fmt.Sprintf(divergedGuidanceHeaderTemplate, branchName, repositoryPath, upstreamName, aheadCount, behindCount),
		divergedGuidanceChooseMessageConstant,
		fmt.Sprintf(divergedGuidanceMergeTemplateConstant, repositoryPath),
		fmt.Sprintf(divergedGuidanceRebaseTemplateConstant, repositoryPath),
		fmt.Sprintf(divergedGuidanceForceTemplateConstant, repositoryPath),
	}
	return strings.Join(guidanceLines, guidanceLineSeparatorConstant)
}

// BuildMergeConflictGuidance lists conflicted submodule paths and the commands
// that finish the resolution.
func BuildMergeConflictGuidance(repositoryPath string, conflictedPaths []string) string {
	guidanceLines := []string{fmt.Sprintf(conflictGuidanceHeaderTemplateConstant, repositoryPath)}
	guidanceLines = append(guidanceLines, formatGuidanceList(conflictedPaths)...)
	guidanceLines = append(guidanceLines, fmt.Sprintf(conflictGuidanceResolveTemplateConstant, repositoryPath, repositoryPath))
	return strings.Join(guidanceLines, guidanceLineSeparatorConstant)
}

// BuildCommitFailedGuidance points the operator at the staged state after a
// failed commit.
func BuildCommitFailedGuidance(repositoryPath string) string {
	return fmt.Sprintf(commitFailedGuidanceTemplateConstant, repositoryPath, repositoryPath)
}

// BuildSwitchBranchGuidance explains a failed checkout of the default branch.
func BuildSwitchBranchGuidance(repositoryPath string, branchName string) string {
	return fmt.Sprintf(switchBranchGuidanceTemplateConstant, repositoryPath, branchName, repositoryPath)
}

// BuildMixedStagingGuidance explains why a staged diff that mixes submodule
// pointers with other content is never committed automatically.
func BuildMixedStagingGuidance(repositoryPath string, stagedPaths []string) string {
	guidanceLines := []string{fmt.Sprintf(mixedStagingGuidanceHeaderTemplate, repositoryPath)}
	guidanceLines = append(guidanceLines, formatGuidanceList(stagedPaths)...)
	guidanceLines = append(guidanceLines, fmt.Sprintf(mixedStagingGuidanceReviewTemplate, repositoryPath, repositoryPath))
	return strings.Join(guidanceLines, guidanceLineSeparatorConstant)
}

// BuildDeclinedCommitGuidance tells the operator how to finish a pointer
// commit they declined interactively.
func BuildDeclinedCommitGuidance(repositoryPath string, stagedPaths []string) string {
	guidanceLines := []string{fmt.Sprintf(declinedCommitGuidanceHeaderTemplate, repositoryPath)}
	guidanceLines = append(guidanceLines, formatGuidanceList(stagedPaths)...)
	guidanceLines = append(guidanceLines, fmt.Sprintf(declinedCommitGuidanceCommitTemplate, repositoryPath, repositoryPath))
	return strings.Join(guidanceLines, guidanceLineSeparatorConstant)
}

func formatGuidanceList(values []string) []string {
	formattedLines := make([]string, 0, len(values))
	for _, value := range values {
		formattedLines = append(formattedLines, fmt.Sprintf(guidanceListItemTemplateConstant, value))
	}
	return formattedLines
}
