package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared fixture: b0 is the common boundary commit, base advances with
// b1 while f1..f2 grow a feature branch from b0.
var (
	b0 = Commit{ID: "b0", ParentIDs: []string{"x"}}
	b1 = Commit{ID: "b1", ParentIDs: []string{"b0"}}
	f1 = Commit{ID: "f1", ParentIDs: []string{"b0"}}
	f2 = Commit{ID: "f2", ParentIDs: []string{"f1"}}
	m  = Commit{ID: "m", ParentIDs: []string{"b1", "f2"}}
)

func TestFirstFeatureCommit(t *testing.T) {
	t.Run("NoFeatureCommits", func(t *testing.T) {
		c, err := FirstFeatureCommit([]Commit{b1, b0}, nil)
		require.NoError(t, err)
		assert.Nil(t, c, "nothing to attribute")
	})

	t.Run("OldestCommitsMustMatch", func(t *testing.T) {
		other := Commit{ID: "other"}
		_, err := FirstFeatureCommit([]Commit{b1, b0}, []Commit{f2, f1, other})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrWindowMismatch)
		assert.Contains(t, err.Error(), "b0")
		assert.Contains(t, err.Error(), "other")
	})

	t.Run("EmptyBase", func(t *testing.T) {
		_, err := FirstFeatureCommit(nil, []Commit{f1, b0})
		assert.ErrorIs(t, err, ErrWindowMismatch)
	})

	t.Run("UnmergedBranch", func(t *testing.T) {
		// Feature tip is absent from base: the first feature commit is
		// the newest one whose mainline parent sits on base.
		c, err := FirstFeatureCommit([]Commit{b1, b0}, []Commit{f2, f1, b0})
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "f1", c.ID)
	})

	t.Run("DisconnectedHistory", func(t *testing.T) {
		orphan := Commit{ID: "f1", ParentIDs: []string{"gone"}}
		_, err := FirstFeatureCommit([]Commit{b1, b0}, []Commit{f2, orphan, b0})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDisconnectedHistory)
		assert.NotErrorIs(t, err, ErrWindowMismatch)
	})

	t.Run("ExplicitMerge", func(t *testing.T) {
		// m merged f2 into b1; base history now includes the feature
		// commits, and f1 is found via the shared-parent chase.
		base := []Commit{m, b1, f2, f1, b0}
		c, err := FirstFeatureCommit(base, []Commit{f2, f1, b0})
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "f1", c.ID)
	})

	t.Run("FastForward", func(t *testing.T) {
		// Base was simply advanced to the feature tip: no merge commit
		// exists, so the divergence point is the second-oldest feature
		// commit.
		base := []Commit{f2, f1, b0}
		c, err := FirstFeatureCommit(base, []Commit{f2, f1, b0})
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "f1", c.ID)
	})

	t.Run("FeatureWindowTooNarrow", func(t *testing.T) {
		_, err := FirstFeatureCommit([]Commit{b0}, []Commit{b0})
		assert.ErrorIs(t, err, ErrWindowMismatch)
	})
}

func TestFixupFirstFeatureCommit(t *testing.T) {
	merge := Commit{ID: "m2", ParentIDs: []string{"f1", "other"}}
	f3 := Commit{ID: "f3", ParentIDs: []string{"m2"}}

	t.Run("NoMergesKeepsGuess", func(t *testing.T) {
		got := FixupFirstFeatureCommit([]Commit{f2, f1, b0}, f1, nil)
		assert.Equal(t, "f1", got.ID)
	})

	t.Run("MergeBelowTipMovesGuessForward", func(t *testing.T) {
		// A merge commit inside the feature history caps how far back
		// the first commit can be: the commit right after it wins.
		got := FixupFirstFeatureCommit([]Commit{f3, merge, f1, b0}, f1, []Commit{merge})
		assert.Equal(t, "f3", got.ID)
	})

	t.Run("TipMergeDoesNotCount", func(t *testing.T) {
		tip := Commit{ID: "tipmerge", ParentIDs: []string{"f2", "zz"}}
		got := FixupFirstFeatureCommit([]Commit{tip, f2, f1}, f1, []Commit{tip})
		assert.Equal(t, "f1", got.ID)
	})

	t.Run("EmptyFeatureKeepsGuess", func(t *testing.T) {
		got := FixupFirstFeatureCommit(nil, f1, []Commit{merge})
		assert.Equal(t, "f1", got.ID)
	})
}

func TestMergePoint(t *testing.T) {
	t.Run("EmptyBase", func(t *testing.T) {
		_, ok := MergePoint(f2, nil)
		assert.False(t, ok)
	})

	t.Run("NotMerged", func(t *testing.T) {
		_, ok := MergePoint(f2, []Commit{b1, b0})
		assert.False(t, ok)
	})

	t.Run("ExplicitMergeCommit", func(t *testing.T) {
		c, ok := MergePoint(f2, []Commit{m, b1, f2, f1, b0})
		require.True(t, ok)
		assert.Equal(t, "m", c.ID)
	})

	t.Run("FastForward", func(t *testing.T) {
		// Tip is on base but nothing records an explicit merge: the tip
		// itself became part of base.
		c, ok := MergePoint(f2, []Commit{f2, f1, b0})
		require.True(t, ok)
		assert.Equal(t, "f2", c.ID)
	})

	t.Run("IgnoresUnrelatedMerges", func(t *testing.T) {
		unrelated := Commit{ID: "u", ParentIDs: []string{"b1", "zz"}}
		c, ok := MergePoint(f2, []Commit{unrelated, f2, f1, b0})
		require.True(t, ok)
		assert.Equal(t, "f2", c.ID, "merge of a different branch must not match")
	})
}
