package source

import (
	"context"
	"fmt"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/coursemark/coursemark/internal/history"
)

// Local reads snapshots from a git repository on disk. Listings for a
// given window are cached for the lifetime of the Local instance, keyed
// by the exact window tuple; within one analysis session the repository
// is treated as immutable, so no invalidation is needed.
type Local struct {
	repo          *gogit.Repository
	defaultBranch string

	mu    sync.Mutex
	cache map[Window][]history.Commit
}

// OpenLocal opens the repository at path. branch is the default branch
// used when a window does not name one.
func OpenLocal(path, branch string) (*Local, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}
	return NewLocal(repo, branch), nil
}

// NewLocal wraps an already-open repository.
func NewLocal(repo *gogit.Repository, defaultBranch string) *Local {
	return &Local{
		repo:          repo,
		defaultBranch: defaultBranch,
		cache:         make(map[Window][]history.Commit),
	}
}

func (l *Local) Commits(ctx context.Context, w Window) ([]history.Commit, error) {
	l.mu.Lock()
	cached, ok := l.cache[w]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	branch := w.Branch
	if branch == "" {
		branch = l.defaultBranch
	}
	from, err := l.resolveBranch(branch)
	if err != nil {
		return nil, err
	}

	opts := &gogit.LogOptions{From: from, Order: gogit.LogOrderCommitterTime}
	if !w.Since.IsZero() {
		since := w.Since
		opts.Since = &since
	}
	if !w.Until.IsZero() {
		until := w.Until
		opts.Until = &until
	}

	iter, err := l.repo.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("listing commits on %s: %w", branch, err)
	}
	defer iter.Close()

	var commits []history.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, convertCommit(c))
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[w] = commits
	l.mu.Unlock()
	return commits, nil
}

func (l *Local) resolveBranch(name string) (plumbing.Hash, error) {
	ref, err := l.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving branch %s: %w", name, err)
	}
	return ref.Hash(), nil
}

func (l *Local) Branches(ctx context.Context) ([]history.Branch, error) {
	iter, err := l.repo.Branches()
	if err != nil {
		return nil, err
	}
	var branches []history.Branch
	err = iter.ForEach(func(r *plumbing.Reference) error {
		branches = append(branches, history.Branch{
			Name:     r.Name().Short(),
			CommitID: r.Hash().String(),
		})
		return nil
	})
	return branches, err
}

func (l *Local) Tags(ctx context.Context) ([]history.Tag, error) {
	iter, err := l.repo.Tags()
	if err != nil {
		return nil, err
	}
	var tags []history.Tag
	err = iter.ForEach(func(r *plumbing.Reference) error {
		hash := r.Hash()
		// Annotated tags point at a tag object; resolve to the commit.
		if tagObj, err := l.repo.TagObject(hash); err == nil {
			hash = tagObj.Target
		}
		tags = append(tags, history.Tag{
			Name:     r.Name().Short(),
			CommitID: hash.String(),
		})
		return nil
	})
	return tags, err
}

// Events returns an empty log: a plain repository does not record ref
// lifecycle history the way a hosting server does.
func (l *Local) Events(ctx context.Context) ([]history.Event, error) {
	return nil, nil
}

func convertCommit(c *object.Commit) history.Commit {
	parents := make([]string, len(c.ParentHashes))
	for i, h := range c.ParentHashes {
		parents[i] = h.String()
	}
	return history.Commit{
		ID:        c.Hash.String(),
		ParentIDs: parents,
		Timestamp: c.Committer.When,
		Author:    c.Author.Name,
		Message:   c.Message,
	}
}
