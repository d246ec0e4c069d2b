package sync

const (
	superrepoDisplayNameConstant = "."
)

// RepositoryHandle identifies one repository participating in a
// synchronization run.
type RepositoryHandle struct {
	// Path holds the absolute filesystem path of the repository.
	Path string
	// DisplayName holds the path shown to the operator, relative to the
	// superrepo root ("." for the superrepo itself).
	DisplayName string
	// ParentPath holds the absolute path of the enclosing repository and is
	// empty for the superrepo.
	ParentPath string
}

// IsSuperrepo reports whether the handle refers to the outermost repository.
func (handle RepositoryHandle) IsSuperrepo() bool {
	return len(handle.ParentPath) == 0
}

// NewSuperrepoHandle builds the handle for the outermost repository.
func NewSuperrepoHandle(repositoryPath string) RepositoryHandle {
	return RepositoryHandle{
		Path:        repositoryPath,
		DisplayName: superrepoDisplayNameConstant,
	}
}

// RepositoryStatus captures the observed state of a repository at decision
// time. All fields are filled by the StatusInspector before any mutating
// operation runs.
type RepositoryStatus struct {
	CurrentBranch     string
	IsDetached        bool
	IsClean           bool
	DirtyPaths        []string
	HasTrackingBranch bool
	UpstreamBranch    string
	AheadCount        int
	BehindCount       int
}

// SyncAction names the single synchronization action selected for a
// repository by the decision table.
type SyncAction string

const (
	ActionSkip              SyncAction = "skip"
	ActionPull              SyncAction = "pull"
	ActionPush              SyncAction = "push"
	ActionBlockedDirty      SyncAction = "blocked-dirty"
	ActionBlockedNoUpstream SyncAction = "blocked-no-upstream"
	ActionBlockedDiverged   SyncAction = "blocked-diverged"
)

// OutcomeKind classifies the terminal state of one repository after a
// synchronization attempt.
type OutcomeKind string

const (
	OutcomeSkipped                 OutcomeKind = "skipped"
	OutcomeSynced                  OutcomeKind = "synced"
	OutcomeFailed                  OutcomeKind = "failed"
	OutcomeNeedsManualIntervention OutcomeKind = "needs-manual-intervention"
)

// SyncOutcome records how a repository finished a synchronization run.
type SyncOutcome struct {
	// Kind holds the terminal classification.
	Kind OutcomeKind
	// Reason holds a short operator-facing explanation.
	Reason string
	// Instructions holds copy-paste remediation guidance for outcomes that
	// require manual follow-up, and is empty otherwise.
	Instructions string
	// Advisory marks outcomes that should be surfaced as warnings without
	// failing the overall run, such as a missing upstream.
	Advisory bool
}

// RequiresAttention reports whether the outcome should fail the overall run.
func (outcome SyncOutcome) RequiresAttention() bool {
	if outcome.Advisory {
		return false
	}
	return outcome.Kind == OutcomeFailed || outcome.Kind == OutcomeNeedsManualIntervention
}

func skippedOutcome(reason string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeSkipped, Reason: reason}
}

func syncedOutcome(reason string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeSynced, Reason: reason}
}

func failedOutcome(reason string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeFailed, Reason: reason}
}

func manualOutcome(reason string, instructions string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeNeedsManualIntervention, Reason: reason, Instructions: instructions}
}
