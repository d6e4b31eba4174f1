// Package history reconstructs branch topology and temporal state from
// flat snapshots of a git history: commit ids, per-commit parent lists,
// named refs and a ref-lifecycle event log. All operations are pure
// functions over an immutable snapshot; nothing here performs I/O.
package history

import "time"

// Commit is a normalized commit record. Identity is by ID only; two
// Commit values with the same ID denote the same commit regardless of
// any other field.
type Commit struct {
	ID        string    `json:"id" yaml:"id"`
	ParentIDs []string  `json:"parents" yaml:"parents"` // mainline parent at index 0; empty for a root
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// IsMerge reports whether the commit integrates two lines of history.
// Only a merge commit can have more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.ParentIDs) > 1
}

// FirstParent returns the mainline parent id, or false for a root commit.
func (c Commit) FirstParent() (string, bool) {
	if len(c.ParentIDs) == 0 {
		return "", false
	}
	return c.ParentIDs[0], true
}

// Branch is a named pointer to the tip commit of a line of development.
type Branch struct {
	Name     string `json:"name" yaml:"name"`
	CommitID string `json:"commitId" yaml:"commit_id"`
}

// Tag is a named pointer to a commit. Tags carry their pointed-to commit
// id so that lifecycle replay can match push and delete events exactly.
type Tag struct {
	Name     string `json:"name" yaml:"name"`
	CommitID string `json:"commitId" yaml:"commit_id"`
}

// EventAction is the kind of ref-pointer change recorded in an event log.
type EventAction string

const (
	ActionPushedNew EventAction = "pushed-new"
	ActionPushedTo  EventAction = "pushed-to"
	ActionDeleted   EventAction = "deleted"
)

// Ref types appearing in event logs.
const (
	RefTypeBranch = "branch"
	RefTypeTag    = "tag"
	RefTypeCommit = "commit"
)

// Event records one change to a ref pointer. The event log is the
// authoritative record of ref changes over time and is naturally ordered
// newest first, though nothing here depends on that ordering.
type Event struct {
	Date     time.Time   `json:"date" yaml:"date"`
	Action   EventAction `json:"action" yaml:"action"`
	RefType  string      `json:"refType" yaml:"ref_type"`
	RefName  string      `json:"refName" yaml:"ref_name"`
	CommitID string      `json:"commitId" yaml:"commit_id"`
}

// findCommit returns a pointer to the commit with the given id, or nil.
func findCommit(id string, commits []Commit) *Commit {
	for i := range commits {
		if commits[i].ID == id {
			return &commits[i]
		}
	}
	return nil
}

// containsCommit reports whether any commit in the list has the given id.
func containsCommit(id string, commits []Commit) bool {
	return findCommit(id, commits) != nil
}
