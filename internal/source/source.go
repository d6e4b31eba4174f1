// Package source materializes history snapshots from pluggable backends.
// The analysis engine never talks to a repository directly; it consumes
// the normalized commit, ref and event records produced here.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/coursemark/coursemark/internal/config"
	"github.com/coursemark/coursemark/internal/history"
)

// Window bounds a commit listing. Zero times mean unbounded; an empty
// branch means the backend's default branch.
type Window struct {
	Since  time.Time
	Until  time.Time
	Branch string
}

// Source is one backend able to produce history snapshots.
type Source interface {
	// Commits lists the commits in the window, most recent first.
	Commits(ctx context.Context, w Window) ([]history.Commit, error)
	// Branches lists all branch refs.
	Branches(ctx context.Context) ([]history.Branch, error)
	// Tags lists all tag refs, annotated tags resolved to their targets.
	Tags(ctx context.Context) ([]history.Tag, error)
	// Events returns the ref-lifecycle event log, newest first. Backends
	// without an event record return an empty log.
	Events(ctx context.Context) ([]history.Event, error)
}

// New selects a backend from configuration.
func New(cfg config.Source) (Source, error) {
	switch cfg.Kind {
	case config.SourceLocal:
		return OpenLocal(cfg.Path, cfg.Branch)
	case config.SourceStatic:
		return LoadStatic(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// Snapshot bundles everything a full analysis needs from one source.
type Snapshot struct {
	Commits  []history.Commit
	Branches []history.Branch
	Tags     []history.Tag
	Events   []history.Event
}

// Refs flattens branches and tags into a name to commit-id map, the
// shape branch-path reconstruction consumes.
func (s *Snapshot) Refs() map[string]string {
	refs := make(map[string]string, len(s.Branches)+len(s.Tags))
	for _, b := range s.Branches {
		refs[b.Name] = b.CommitID
	}
	for _, t := range s.Tags {
		refs[t.Name] = t.CommitID
	}
	return refs
}

// Take materializes a full snapshot from a source.
func Take(ctx context.Context, src Source, w Window) (*Snapshot, error) {
	commits, err := src.Commits(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("fetching commits: %w", err)
	}
	branches, err := src.Branches(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching branches: %w", err)
	}
	tags, err := src.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching tags: %w", err)
	}
	events, err := src.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	return &Snapshot{Commits: commits, Branches: branches, Tags: tags, Events: events}, nil
}
