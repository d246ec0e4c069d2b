package submodules

import (
	"strings"
)

const (
	statusNewCommitsMarkerConstant   = '+'
	statusBehindIndexMarkerConstant  = '-'
	statusConflictedMarkerConstant   = 'U'
	statusInSyncMarkerConstant       = ' '
	statusMinimumLineLengthConstant  = 3
	statusDescribeSuffixOpenConstant = " ("
)

// PointerChangeKind classifies how a submodule checkout relates to the recorded pointer.
type PointerChangeKind string

// Pointer change classifications derived from submodule status markers.
const (
	PointerInSync       PointerChangeKind = "in-sync"
	PointerNewCommits   PointerChangeKind = "new-commits"
	PointerBehindIndex  PointerChangeKind = "behind-index"
	PointerConflicted   PointerChangeKind = "conflicted"
	PointerUnclassified PointerChangeKind = "unclassified"
)

// PointerChange describes one submodule's pointer state.
type PointerChange struct {
	// SubmodulePath is the display path of the submodule.
	SubmodulePath string
	// ChangeKind classifies the relation between checkout and recorded pointer.
	ChangeKind PointerChangeKind
}

// RequiresStaging reports whether the change should be staged in the parent repository.
func (change PointerChange) RequiresStaging() bool {
	return change.ChangeKind == PointerNewCommits
}

// ParseStatusOutput converts `git submodule status` output into typed pointer changes.
func ParseStatusOutput(output string) []PointerChange {
	pointerChanges := []PointerChange{}

	for _, outputLine := range strings.Split(output, "\n") {
		if len(outputLine) < statusMinimumLineLengthConstant {
			continue
		}

		changeKind := classifyStatusMarker(outputLine[0])
		submodulePath := extractStatusPath(outputLine[1:])
		if len(submodulePath) == 0 {
			continue
		}

		pointerChanges = append(pointerChanges, PointerChange{
			SubmodulePath: submodulePath,
			ChangeKind:    changeKind,
		})
	}

	return pointerChanges
}

func classifyStatusMarker(marker byte) PointerChangeKind {
	switch marker {
	case statusNewCommitsMarkerConstant:
		return PointerNewCommits
	case statusBehindIndexMarkerConstant:
		return PointerBehindIndex
	case statusConflictedMarkerConstant:
		return PointerConflicted
	case statusInSyncMarkerConstant:
		return PointerInSync
	default:
		return PointerUnclassified
	}
}

func extractStatusPath(lineRemainder string) string {
	trimmedRemainder := strings.TrimSpace(lineRemainder)
	remainderFields := strings.SplitN(trimmedRemainder, " ", 2)
	if len(remainderFields) < 2 {
		return ""
	}

	pathWithDescribe := remainderFields[1]
	if describeIndex := strings.Index(pathWithDescribe, statusDescribeSuffixOpenConstant); describeIndex >= 0 {
		pathWithDescribe = pathWithDescribe[:describeIndex]
	}
	return strings.TrimSpace(pathWithDescribe)
}
