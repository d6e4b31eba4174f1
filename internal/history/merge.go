package history

// MergeParentPair holds the two parents of a merge commit: the mainline
// side that was merged into and the side that was merged in.
type MergeParentPair struct {
	Mainline string `json:"mainline"`
	Merged   string `json:"merged"`
}

// IdentifyMergeParents scans every commit's parent list and emits one
// pair per merge commit, preserving input order. A commit is a merge
// commit iff it has more than one parent; for merges of more than two
// lines only the first two parents are reported.
func IdentifyMergeParents(parentLists [][]string) []MergeParentPair {
	var pairs []MergeParentPair
	for _, parents := range parentLists {
		if len(parents) > 1 {
			pairs = append(pairs, MergeParentPair{Mainline: parents[0], Merged: parents[1]})
		}
	}
	return pairs
}

// MergeCommits returns the commits in the window with more than one
// parent, in window order.
func MergeCommits(commits []Commit) []Commit {
	var merges []Commit
	for _, c := range commits {
		if c.IsMerge() {
			merges = append(merges, c)
		}
	}
	return merges
}
