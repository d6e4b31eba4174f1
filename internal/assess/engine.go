package assess

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/coursemark/coursemark/internal/history"
	"github.com/coursemark/coursemark/internal/source"
)

// Engine evaluates marking schemes against a history source.
type Engine struct {
	Loader *Loader
	Source source.Source
	Logger *log.Logger
}

func NewEngine(loader *Loader, src source.Source, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Loader: loader, Source: src, Logger: logger}
}

// Evaluate runs every check in the named scheme and produces a report.
// Individual check failures never abort the evaluation; only a broken
// scheme or an unreachable source is an error.
func (e *Engine) Evaluate(ctx context.Context, schemeID string) (*Report, error) {
	s, err := e.Loader.LoadScheme(schemeID)
	if err != nil {
		return nil, err
	}
	return e.EvaluateScheme(ctx, s)
}

// EvaluateScheme evaluates an already-loaded scheme.
func (e *Engine) EvaluateScheme(ctx context.Context, s *Scheme) (*Report, error) {
	if s.BaseBranch == "" {
		s.BaseBranch = "master"
	}
	baseCommits, err := e.Source.Commits(ctx, source.Window{Branch: s.BaseBranch})
	if err != nil {
		return nil, fmt.Errorf("loading base branch %s: %w", s.BaseBranch, err)
	}

	report := &Report{
		ID:          uuid.NewString(),
		SchemeID:    s.ID,
		GeneratedAt: time.Now().UTC(),
		Success:     true,
	}
	for _, check := range s.Checks {
		passed, detail := e.runCheck(ctx, s, check, baseCommits)
		if check.Negate {
			passed = !passed
		}
		if !passed {
			report.Success = false
		}
		e.Logger.Debug("check evaluated", "scheme", s.ID, "type", check.Type, "passed", passed)
		report.Results = append(report.Results, CheckResult{
			Description: check.Description,
			Passed:      passed,
			Detail:      detail,
		})
	}
	return report, nil
}

func (e *Engine) runCheck(ctx context.Context, s *Scheme, check Check, baseCommits []history.Commit) (bool, string) {
	switch check.Type {
	case "branch_exists":
		branches, err := e.Source.Branches(ctx)
		if err != nil {
			return false, err.Error()
		}
		for _, b := range branches {
			if b.Name == check.Branch {
				return true, ""
			}
		}
		return false, fmt.Sprintf("branch %s not found", check.Branch)

	case "branch_merged":
		tip, detail, ok := e.branchTip(ctx, check.Branch)
		if !ok {
			return false, detail
		}
		mp, merged := history.MergePoint(history.Commit{ID: tip}, baseCommits)
		if !merged {
			return false, fmt.Sprintf("branch %s was not merged into %s", check.Branch, s.BaseBranch)
		}
		if mp.ID == tip {
			return true, "fast-forward merge"
		}
		return true, fmt.Sprintf("merged at %s", mp.ID)

	case "first_commit_before_deadline":
		featureCommits, err := e.Source.Commits(ctx, source.Window{Branch: check.Branch})
		if err != nil {
			return false, err.Error()
		}
		first, err := history.FirstFeatureCommit(baseCommits, featureCommits)
		if err != nil {
			return false, err.Error()
		}
		if first == nil {
			return false, fmt.Sprintf("no commits on branch %s", check.Branch)
		}
		fixed := history.FixupFirstFeatureCommit(featureCommits, *first, history.MergeCommits(featureCommits))
		if fixed.Timestamp.After(s.Deadline) {
			return false, fmt.Sprintf("first commit %s is dated %s, after the deadline", fixed.ID, fixed.Timestamp.Format(time.RFC3339))
		}
		return true, fmt.Sprintf("first commit %s", fixed.ID)

	case "tag_at_deadline":
		tags, err := e.Source.Tags(ctx)
		if err != nil {
			return false, err.Error()
		}
		events, err := e.Source.Events(ctx)
		if err != nil {
			return false, err.Error()
		}
		for _, tag := range history.TagsAtDate(s.Deadline, tags, events) {
			if tag.Name == check.Tag {
				return true, fmt.Sprintf("tag pointed at %s", tag.CommitID)
			}
		}
		return false, fmt.Sprintf("tag %s did not exist at the deadline", check.Tag)

	case "commit_message":
		branch := check.Branch
		if branch == "" {
			branch = s.BaseBranch
		}
		commits, err := e.Source.Commits(ctx, source.Window{Branch: branch})
		if err != nil {
			return false, err.Error()
		}
		for _, c := range commits {
			if strings.Contains(c.Message, check.MessagePattern) {
				return true, fmt.Sprintf("matched commit %s", c.ID)
			}
		}
		return false, fmt.Sprintf("no commit message matching %q", check.MessagePattern)

	default:
		return false, fmt.Sprintf("unknown check type %q", check.Type)
	}
}

func (e *Engine) branchTip(ctx context.Context, name string) (string, string, bool) {
	branches, err := e.Source.Branches(ctx)
	if err != nil {
		return "", err.Error(), false
	}
	for _, b := range branches {
		if b.Name == name {
			return b.CommitID, "", true
		}
	}
	return "", fmt.Sprintf("branch %s not found", name), false
}
