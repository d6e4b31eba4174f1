package history

import "fmt"

// FirstFeatureCommit finds the first commit unique to a feature branch:
// the divergence point between the feature branch and its base. Both
// lists are ordered newest first and must share their oldest commit;
// each is expected to carry one extra boundary commit past the true
// divergence point so that a shared commit always exists.
//
// A nil result with a nil error means there is nothing to attribute (no
// feature commits in the window). Errors wrap ErrWindowMismatch or
// ErrDisconnectedHistory and carry the endpoint ids involved.
func FirstFeatureCommit(baseCommits, featureCommits []Commit) (*Commit, error) {
	if len(featureCommits) == 0 {
		return nil, nil
	}

	oldestFeature := featureCommits[len(featureCommits)-1]
	if len(baseCommits) == 0 {
		return nil, fmt.Errorf("%w: feature window ends at %s but base window is empty",
			ErrWindowMismatch, oldestFeature.ID)
	}
	oldestBase := baseCommits[len(baseCommits)-1]
	if oldestFeature.ID != oldestBase.ID {
		return nil, fmt.Errorf("%w: base ends at %s, feature ends at %s",
			ErrWindowMismatch, oldestBase.ID, oldestFeature.ID)
	}

	// If the feature tip never made it into base, the branch is
	// unmerged: the first feature commit is the newest one whose
	// mainline parent sits on base.
	if !containsCommit(featureCommits[0].ID, baseCommits) {
		for i := range featureCommits {
			parent, ok := featureCommits[i].FirstParent()
			if ok && containsCommit(parent, baseCommits) {
				return &featureCommits[i], nil
			}
		}
		return nil, fmt.Errorf("%w: no ancestor of feature tip %s found among %d base commits ending at %s",
			ErrDisconnectedHistory, featureCommits[0].ID, len(baseCommits), oldestBase.ID)
	}

	// The branch was integrated. Look for the divergence point via the
	// shared-parent chase along the base mainline.
	for i := range featureCommits {
		if hasSharedParentOnBase(featureCommits[i], baseCommits) {
			return &featureCommits[i], nil
		}
	}

	// Neither an unmerged branch nor an explicit merge: the integration
	// was a fast-forward, so the divergence point is the second-oldest
	// feature commit (the oldest is the shared boundary commit).
	if len(featureCommits) < 2 {
		return nil, fmt.Errorf("%w: feature window holds only boundary commit %s",
			ErrWindowMismatch, featureCommits[0].ID)
	}
	return &featureCommits[len(featureCommits)-2], nil
}

// hasSharedParentOnBase walks the base mainline backward from its most
// recent commit, checking at each step whether the feature commit's
// mainline parent appears among the current base commit's parents. A
// match means the two commits fork from the same ancestor, which marks
// the feature commit as the divergence point.
func hasSharedParentOnBase(featureCommit Commit, baseCommits []Commit) bool {
	featureParent, hasParent := featureCommit.FirstParent()
	baseCommit := &baseCommits[0]
	for baseCommit != nil {
		if hasParent && baseCommit.ID != featureCommit.ID && containsID(featureParent, baseCommit.ParentIDs) {
			return true
		}
		// The first parent is always the branch being merged into, so
		// following it keeps the chase on the base mainline.
		next, ok := baseCommit.FirstParent()
		if !ok {
			return false
		}
		baseCommit = findCommit(next, baseCommits)
	}
	return false
}

// FixupFirstFeatureCommit corrects an initial divergence guess against
// the set of known merge commits. Any commit up to and including a merge
// commit in the feature branch history cannot be the first commit on the
// branch, so the result moves to the commit chronologically after the
// most recent such merge. The branch tip itself does not count; a merged
// feature branch legitimately ends in a merge commit.
func FixupFirstFeatureCommit(featureCommits []Commit, initialGuess Commit, mergeCommits []Commit) Commit {
	if len(featureCommits) == 0 {
		return initialGuess
	}
	mergeIDs := make(map[string]bool, len(mergeCommits))
	for _, m := range mergeCommits {
		mergeIDs[m.ID] = true
	}

	tip := featureCommits[0]
	var successor *Commit
	for i := range featureCommits {
		c := &featureCommits[i]
		if mergeIDs[c.ID] && c.ID != tip.ID {
			if successor != nil {
				return *successor
			}
			return *c
		}
		successor = c
	}
	return initialGuess
}

func containsID(id string, ids []string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
