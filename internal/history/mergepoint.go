package history

// MergePoint finds the commit that integrated a feature branch into
// base, given the commit at the tip of the feature branch and the base
// commits ordered newest first.
//
// ok is false when the branch was never merged. When the tip is present
// in base but no explicit merge commit records it, the integration was a
// fast-forward and the tip itself is returned: it became part of base
// directly.
func MergePoint(featureTip Commit, baseCommits []Commit) (*Commit, bool) {
	if len(baseCommits) == 0 {
		return nil, false
	}

	tipIndex := -1
	for i := range baseCommits {
		if baseCommits[i].ID == featureTip.ID {
			tipIndex = i
			break
		}
	}
	if tipIndex == -1 {
		return nil, false
	}

	// Scan the commits more recent than the tip, oldest to newest, for
	// an explicit merge commit whose second parent is the tip.
	for i := tipIndex - 1; i >= 0; i-- {
		c := &baseCommits[i]
		if len(c.ParentIDs) > 1 && c.ParentIDs[1] == featureTip.ID {
			return c, true
		}
	}
	return &featureTip, true
}
