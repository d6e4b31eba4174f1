package assess

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursemark/coursemark/internal/history"
	"github.com/coursemark/coursemark/internal/source"
)

// snapshot models a merged feature branch: b0 is the shared root, the
// feature commits f1 and f2 land on master through the merge commit m.
func testSnapshot() source.Snapshot {
	day := func(h, m int) time.Time {
		return time.Date(2024, 10, 1, h, m, 0, 0, time.UTC)
	}
	return source.Snapshot{
		Commits: []history.Commit{
			{ID: "m", ParentIDs: []string{"b1", "f2"}, Timestamp: day(12, 0), Message: "merge feature"},
			{ID: "b1", ParentIDs: []string{"b0"}, Timestamp: day(11, 0), Message: "mainline work"},
			{ID: "f2", ParentIDs: []string{"f1"}, Timestamp: day(10, 30), Message: "implement report parser"},
			{ID: "f1", ParentIDs: []string{"b0"}, Timestamp: day(10, 0), Message: "start feature"},
			{ID: "b0", ParentIDs: nil, Timestamp: day(9, 0), Message: "initial"},
		},
		Branches: []history.Branch{
			{Name: "feature", CommitID: "f2"},
			{Name: "master", CommitID: "m"},
		},
		Tags: []history.Tag{
			{Name: "late", CommitID: "f2"},
			{Name: "milestone1", CommitID: "b1"},
		},
		Events: []history.Event{
			{Date: time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC), Action: history.ActionPushedNew, RefType: history.RefTypeTag, RefName: "late", CommitID: "f2"},
			{Date: time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC), Action: history.ActionDeleted, RefType: history.RefTypeTag, RefName: "milestone2", CommitID: "f1"},
		},
	}
}

func writeScheme(t *testing.T, dir, id, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".yaml"), []byte(body), 0o644))
}

func newTestEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	src := source.NewStatic(testSnapshot())
	return NewEngine(NewLoader(dir), src, log.New(io.Discard))
}

func TestEvaluate(t *testing.T) {
	dir := t.TempDir()
	writeScheme(t, dir, "week1", `
id: week1
title: Week 1 submission
base_branch: master
deadline: 2024-10-01T18:00:00Z
checks:
  - type: branch_exists
    description: feature branch exists
    branch: feature
  - type: branch_merged
    description: feature branch merged into master
    branch: feature
  - type: first_commit_before_deadline
    description: feature work started before the deadline
    branch: feature
  - type: tag_at_deadline
    description: milestone1 tagged by the deadline
    tag: milestone1
  - type: commit_message
    description: parser commit present
    branch: feature
    message_pattern: report parser
`)
	e := newTestEngine(t, dir)

	report, err := e.Evaluate(context.Background(), "week1")
	require.NoError(t, err)
	assert.True(t, report.Success)
	require.Len(t, report.Results, 5)
	for _, r := range report.Results {
		assert.True(t, r.Passed, r.Description)
	}
	assert.Equal(t, "week1", report.SchemeID)
	assert.Len(t, report.ID, 36, "report id is a uuid")
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestEvaluateFailures(t *testing.T) {
	dir := t.TempDir()
	writeScheme(t, dir, "strict", `
id: strict
base_branch: master
deadline: 2024-10-01T09:30:00Z
checks:
  - type: branch_exists
    description: bugfix branch exists
    branch: bugfix
  - type: first_commit_before_deadline
    description: feature work started before the early deadline
    branch: feature
  - type: tag_at_deadline
    description: late tag counts
    tag: late
  - type: bogus
    description: unknown check type
`)
	e := newTestEngine(t, dir)

	report, err := e.Evaluate(context.Background(), "strict")
	require.NoError(t, err)
	assert.False(t, report.Success)
	require.Len(t, report.Results, 4)
	for _, r := range report.Results {
		assert.False(t, r.Passed, r.Description)
	}
	assert.Contains(t, report.Results[1].Detail, "after the deadline")
	assert.Contains(t, report.Results[2].Detail, "did not exist")
}

func TestEvaluateDeletedTagRestored(t *testing.T) {
	// milestone2 is absent from the current tags but was deleted after
	// the deadline, so replay restores it.
	dir := t.TempDir()
	writeScheme(t, dir, "replay", `
id: replay
base_branch: master
deadline: 2024-10-01T18:00:00Z
checks:
  - type: tag_at_deadline
    description: milestone2 existed at the deadline
    tag: milestone2
`)
	e := newTestEngine(t, dir)

	report, err := e.Evaluate(context.Background(), "replay")
	require.NoError(t, err)
	assert.True(t, report.Success)
}

func TestEvaluateNegate(t *testing.T) {
	dir := t.TempDir()
	writeScheme(t, dir, "negated", `
id: negated
base_branch: master
deadline: 2024-10-01T18:00:00Z
checks:
  - type: branch_exists
    description: no stray wip branch
    branch: wip
    negate: true
`)
	e := newTestEngine(t, dir)

	report, err := e.Evaluate(context.Background(), "negated")
	require.NoError(t, err)
	assert.True(t, report.Success)
}

func TestEvaluateUnknownScheme(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	_, err := e.Evaluate(context.Background(), "missing")
	assert.Error(t, err)
}

func TestEvaluateUnknownBaseBranch(t *testing.T) {
	dir := t.TempDir()
	writeScheme(t, dir, "badbase", `
id: badbase
base_branch: trunk
checks: []
`)
	e := newTestEngine(t, dir)
	_, err := e.Evaluate(context.Background(), "badbase")
	assert.Error(t, err)
}
