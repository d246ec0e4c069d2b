package gitrepo

import (
	"strings"
)

const (
	porcelainUntrackedMarkerConstant   = '?'
	porcelainUnmergedMarkerConstant    = 'U'
	porcelainUnmodifiedMarkerConstant  = ' '
	porcelainRenameSeparatorConstant   = " -> "
	porcelainMinimumLineLengthConstant = 4
)

// FileStatus describes one entry of machine-readable git status output.
type FileStatus struct {
	// IndexState holds the staging area marker for the entry.
	IndexState byte
	// WorktreeState holds the working tree marker for the entry.
	WorktreeState byte
	// Path is the repository-relative path of the entry. Renames report the destination path.
	Path string
}

// Untracked reports whether the entry describes an untracked file.
func (status FileStatus) Untracked() bool {
	return status.IndexState == porcelainUntrackedMarkerConstant && status.WorktreeState == porcelainUntrackedMarkerConstant
}

// Staged reports whether the entry has staged modifications.
func (status FileStatus) Staged() bool {
	return status.IndexState != porcelainUnmodifiedMarkerConstant && status.IndexState != porcelainUntrackedMarkerConstant
}

// Unstaged reports whether the entry has unstaged modifications.
func (status FileStatus) Unstaged() bool {
	return status.WorktreeState != porcelainUnmodifiedMarkerConstant && status.WorktreeState != porcelainUntrackedMarkerConstant
}

// Unmerged reports whether the entry carries merge conflict markers.
func (status FileStatus) Unmerged() bool {
	return status.IndexState == porcelainUnmergedMarkerConstant || status.WorktreeState == porcelainUnmergedMarkerConstant
}

// WorktreeStatus aggregates the parsed entries of one git status invocation.
type WorktreeStatus struct {
	Files []FileStatus
}

// Clean reports whether the worktree carries no modifications of any kind.
func (status WorktreeStatus) Clean() bool {
	return len(status.Files) == 0
}

// ModifiedPaths returns the repository-relative paths of every entry.
func (status WorktreeStatus) ModifiedPaths() []string {
	modifiedPaths := make([]string, 0, len(status.Files))
	for _, fileStatus := range status.Files {
		modifiedPaths = append(modifiedPaths, fileStatus.Path)
	}
	return modifiedPaths
}

// ParsePorcelainStatus parses `git status --porcelain` output into typed entries.
func ParsePorcelainStatus(output string) WorktreeStatus {
	parsedStatus := WorktreeStatus{}
	statusLines := strings.Split(output, "\n")
	for _, statusLine := range statusLines {
		if len(statusLine) < porcelainMinimumLineLengthConstant {
			continue
		}

		entryPath := statusLine[3:]
		if renameSeparatorIndex := strings.Index(entryPath, porcelainRenameSeparatorConstant); renameSeparatorIndex >= 0 {
			entryPath = entryPath[renameSeparatorIndex+len(porcelainRenameSeparatorConstant):]
		}
		entryPath = strings.Trim(strings.TrimSpace(entryPath), `"`)
		if len(entryPath) == 0 {
			continue
		}

		parsedStatus.Files = append(parsedStatus.Files, FileStatus{
			IndexState:    statusLine[0],
			WorktreeState: statusLine[1],
			Path:          entryPath,
		})
	}
	return parsedStatus
}
