package source

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/coursemark/coursemark/internal/history"
)

// Static serves a snapshot loaded from a YAML document. It backs tests
// and replays of exported history where no repository is reachable.
type Static struct {
	snapshot Snapshot
}

// staticDoc is the on-disk shape of a snapshot document. Branches and
// tags are name to commit-id maps; commits and events reuse the
// normalized record shapes.
type staticDoc struct {
	Commits  []history.Commit  `yaml:"commits"`
	Branches map[string]string `yaml:"branches"`
	Tags     map[string]string `yaml:"tags"`
	Events   []history.Event   `yaml:"events"`
}

// LoadStatic reads a snapshot document from disk.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return ParseStatic(data)
}

// ParseStatic builds a Static source from YAML bytes.
func ParseStatic(data []byte) (*Static, error) {
	var doc staticDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	snap := Snapshot{Commits: doc.Commits, Events: doc.Events}
	for name, id := range doc.Branches {
		snap.Branches = append(snap.Branches, history.Branch{Name: name, CommitID: id})
	}
	for name, id := range doc.Tags {
		snap.Tags = append(snap.Tags, history.Tag{Name: name, CommitID: id})
	}
	sort.Slice(snap.Branches, func(i, j int) bool { return snap.Branches[i].Name < snap.Branches[j].Name })
	sort.Slice(snap.Tags, func(i, j int) bool { return snap.Tags[i].Name < snap.Tags[j].Name })
	return &Static{snapshot: snap}, nil
}

// NewStatic wraps an in-memory snapshot.
func NewStatic(snap Snapshot) *Static {
	return &Static{snapshot: snap}
}

func (s *Static) Commits(ctx context.Context, w Window) ([]history.Commit, error) {
	var commits []history.Commit
	for _, c := range s.snapshot.Commits {
		if !w.Since.IsZero() && c.Timestamp.Before(w.Since) {
			continue
		}
		if !w.Until.IsZero() && c.Timestamp.After(w.Until) {
			continue
		}
		commits = append(commits, c)
	}
	if w.Branch == "" {
		return commits, nil
	}

	// A branch window keeps only commits reachable from the branch tip
	// over any parent, bounded by the document.
	tip, ok := s.refTarget(w.Branch)
	if !ok {
		return nil, fmt.Errorf("unknown branch %q in snapshot", w.Branch)
	}
	return reachableFrom(tip, commits), nil
}

func (s *Static) refTarget(name string) (string, bool) {
	for _, b := range s.snapshot.Branches {
		if b.Name == name {
			return b.CommitID, true
		}
	}
	for _, t := range s.snapshot.Tags {
		if t.Name == name {
			return t.CommitID, true
		}
	}
	return "", false
}

// reachableFrom filters commits to those reachable from tip, preserving
// the document's newest-first order. The walk is bounded by the commit
// set: parents outside the document terminate their own branch of the
// search.
func reachableFrom(tip string, commits []history.Commit) []history.Commit {
	byID := make(map[string]*history.Commit, len(commits))
	for i := range commits {
		byID[commits[i].ID] = &commits[i]
	}

	reachable := make(map[string]bool)
	queue := []string{tip}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if reachable[id] {
			continue
		}
		c, ok := byID[id]
		if !ok {
			continue
		}
		reachable[id] = true
		queue = append(queue, c.ParentIDs...)
	}

	var out []history.Commit
	for _, c := range commits {
		if reachable[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func (s *Static) Branches(ctx context.Context) ([]history.Branch, error) {
	return s.snapshot.Branches, nil
}

func (s *Static) Tags(ctx context.Context) ([]history.Tag, error) {
	return s.snapshot.Tags, nil
}

func (s *Static) Events(ctx context.Context) ([]history.Event, error) {
	return s.snapshot.Events, nil
}
