package assess

import "time"

// Scheme defines one marking scheme loaded from YAML. A scheme names the
// branches under assessment, the deadline, and the checks to run against
// the reconstructed history.
type Scheme struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	BaseBranch  string    `yaml:"base_branch" json:"baseBranch"`
	Deadline    time.Time `yaml:"deadline" json:"deadline"`
	Checks      []Check   `yaml:"checks" json:"checks"`
}

type Check struct {
	Type           string `yaml:"type"`            // branch_exists, branch_merged, first_commit_before_deadline, tag_at_deadline, commit_message
	Description    string `yaml:"description"`     // User facing description
	Branch         string `yaml:"branch"`          // Feature branch for branch checks
	Tag            string `yaml:"tag"`             // For tag_at_deadline
	MessagePattern string `yaml:"message_pattern"` // For commit_message
	Negate         bool   `yaml:"negate"`          // If true, inverts the pass condition
}

// Report is the outcome of evaluating one scheme against one history.
type Report struct {
	ID          string        `json:"id"`
	SchemeID    string        `json:"schemeId"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Success     bool          `json:"success"`
	Results     []CheckResult `json:"results"`
}

type CheckResult struct {
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
	Detail      string `json:"detail,omitempty"`
}
