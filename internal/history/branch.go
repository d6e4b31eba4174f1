package history

import "sort"

// BranchPath is one reconstructed line of development as an ordered,
// oldest-first sequence of commit ids. Distinct paths may share commits;
// overlap at fork and merge points is expected.
//
// Truncated distinguishes the two conditions that end a first-parent
// walk: false means the walk reached a true root (a commit with no
// parents), true means the next parent id lay outside the supplied
// window, so the real start of the branch was not fetched.
type BranchPath struct {
	Commits   []string `json:"commits"`
	Truncated bool     `json:"truncated"`
}

// ReconstructPaths assembles the full branch set for a commit window:
// two paths per merge commit (the mainline side and the merged-in side),
// one path per unmerged ref, and a single synthesized path when the
// window has commits but neither merges nor refs.
//
// refs maps ref names to target commit ids; both branches and tags
// participate, since an unmerged line of work is only discoverable
// through a ref that points at its tip.
func ReconstructPaths(g *Graph, refs map[string]string) []BranchPath {
	pairs := IdentifyMergeParents(g.ParentLists())
	paths := mergePaths(g, pairs)
	paths = append(paths, unmergedRefPaths(g, refs)...)
	if len(paths) == 0 && g.Len() > 0 {
		paths = append(paths, fallbackPath(g))
	}
	return paths
}

// mergePaths walks out both sides of every merge commit. Each path
// starts at the merge commit itself and follows first parents back in
// time, equivalent to:
//
//	git log --reverse --first-parent <side>
func mergePaths(g *Graph, pairs []MergeParentPair) []BranchPath {
	var paths []BranchPath
	for _, pair := range pairs {
		mergeID, ok := findMergeCommit(g, pair)
		if !ok {
			continue
		}
		for _, side := range []string{pair.Mainline, pair.Merged} {
			path, truncated := firstParentWalk(g, side)
			path = append([]string{mergeID}, path...)
			paths = append(paths, BranchPath{Commits: reversed(path), Truncated: truncated})
		}
	}
	return paths
}

// findMergeCommit locates the commit whose parent list starts with the
// given pair.
func findMergeCommit(g *Graph, pair MergeParentPair) (string, bool) {
	for i, parents := range g.ParentLists() {
		if len(parents) > 1 && parents[0] == pair.Mainline && parents[1] == pair.Merged {
			return g.IDs()[i], true
		}
	}
	return "", false
}

// unmergedRefPaths finds branches with no merge record: refs whose
// target commit never appears as any commit's parent. Those tips would
// otherwise be invisible to merge-based reconstruction. Refs pointing
// outside the window are skipped; the window never fetched that line of
// work.
func unmergedRefPaths(g *Graph, refs map[string]string) []BranchPath {
	parentSet := make(map[string]bool)
	for _, parents := range g.ParentLists() {
		for _, id := range parents {
			parentSet[id] = true
		}
	}

	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)

	var paths []BranchPath
	for _, name := range names {
		tip := refs[name]
		if parentSet[tip] || !g.Contains(tip) {
			continue
		}
		path, truncated := firstParentWalk(g, tip)
		paths = append(paths, BranchPath{Commits: reversed(path), Truncated: truncated})
	}
	return paths
}

// fallbackPath synthesizes a path for a window with no branches and no
// tags at all, so the output is never empty when commits exist. It walks
// first parents from the final window entry.
func fallbackPath(g *Graph) BranchPath {
	path, truncated := firstParentWalk(g, g.IDs()[g.Len()-1])
	return BranchPath{Commits: reversed(path), Truncated: truncated}
}

// firstParentWalk follows first parents from start while the current id
// is inside the window, collecting visited ids newest first. truncated
// reports that the walk ended because a parent id was absent from the
// window rather than because a root was reached. This bound is the sole
// termination guarantee over partial input.
func firstParentWalk(g *Graph, start string) (path []string, truncated bool) {
	cur := start
	for g.Contains(cur) {
		path = append(path, cur)
		parents, _ := g.Parents(cur)
		if len(parents) == 0 {
			return path, false
		}
		cur = parents[0]
	}
	return path, true
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
