package history

import "fmt"

// Graph indexes one window of a commit history for O(1) lookup from a
// commit id to its parent list and its position in the window. Parent
// ids that reference commits outside the window are legitimate: a
// fetched window may truncate ancestry arbitrarily, so lookups simply
// report absence and graph walks treat the absent id as a boundary.
type Graph struct {
	ids     []string
	parents [][]string
	index   map[string]int
}

// NewGraph builds a Graph from parallel id and parent-list slices, both
// ordered most recent first. The slices must line up element for
// element.
func NewGraph(ids []string, parents [][]string) (*Graph, error) {
	if len(ids) != len(parents) {
		return nil, fmt.Errorf("commit ids and parent lists differ in length: %d vs %d", len(ids), len(parents))
	}
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return &Graph{ids: ids, parents: parents, index: index}, nil
}

// GraphFromCommits builds a Graph from normalized commit records.
func GraphFromCommits(commits []Commit) *Graph {
	ids := make([]string, len(commits))
	parents := make([][]string, len(commits))
	for i, c := range commits {
		ids[i] = c.ID
		parents[i] = c.ParentIDs
	}
	g, _ := NewGraph(ids, parents)
	return g
}

// Len returns the number of commits in the window.
func (g *Graph) Len() int {
	return len(g.ids)
}

// IDs returns the commit ids in window order.
func (g *Graph) IDs() []string {
	return g.ids
}

// ParentLists returns every commit's parent list in window order.
func (g *Graph) ParentLists() [][]string {
	return g.parents
}

// Contains reports whether the commit id is inside the window.
func (g *Graph) Contains(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Parents returns the parent ids of the given commit. ok is false when
// the id lies outside the window.
func (g *Graph) Parents(id string) ([]string, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.parents[i], true
}

// IndexOf returns the position of the commit in the window.
func (g *Graph) IndexOf(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}
