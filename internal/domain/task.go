package domain

import "time"

// TaskStatus is the closed set of installation task states. The agent may
// only report one of these; anything else is rejected at the API boundary.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusError      TaskStatus = "error"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusError:
		return true
	}
	return false
}

// Terminal reports whether no further transition out of s is permitted.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. Agents may skip in_progress and report a terminal result directly
// from pending. Re-reporting the current non-terminal state is allowed so an
// agent can refresh the log mid-install.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case TaskStatusPending:
		return true
	case TaskStatusInProgress:
		return next == TaskStatusCompleted || next == TaskStatusError
	}
	return false
}

// InstallationTask is one unit of dispatched work: install software X on
// host Y. Hostname and installer URL are snapshots taken at creation and
// never rewritten; only status, log and updated_at change afterwards.
type InstallationTask struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SoftwareID uint      `gorm:"not null;index" json:"software_id"`
	Software   *Software `gorm:"constraint:OnDelete:CASCADE" json:"software,omitempty"`

	Hostname     string     `gorm:"size:255;not null;index" json:"hostname"`
	Status       TaskStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	InstallerURL string     `gorm:"size:500;not null" json:"installer_url"`
	Log          string     `gorm:"type:text" json:"log"`
}

func (InstallationTask) TableName() string {
	return "installation_tasks"
}

// ResolvedHostname is the session-scoped answer of the directory resolver.
// Found=false is a cacheable result in its own right (negative cache): the
// identity could not be mapped to a machine and installs stay blocked for
// the rest of the session.
type ResolvedHostname struct {
	Hostname string
	Found    bool
}
