package sync

// Decide selects the synchronization action for a repository from its
// observed status. The function is pure and total: every status maps to
// exactly one action, and divergence is never resolved automatically.
//
// Dirtiness dominates every other condition, and a missing tracking branch
// dominates every comparison against the upstream. Only a clean repository
// with a configured upstream is compared commit-wise.
func Decide(status RepositoryStatus) SyncAction {
	if !status.IsClean {
		return ActionBlockedDirty
	}
	if !status.HasTrackingBranch {
		return ActionBlockedNoUpstream
	}
	isAhead := status.AheadCount > 0
	isBehind := status.BehindCount > 0
	switch {
	case isAhead && isBehind:
		return ActionBlockedDiverged
	case isBehind:
		return ActionPull
	case isAhead:
		return ActionPush
	default:
		return ActionSkip
	}
}
