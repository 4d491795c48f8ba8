package domain

import "time"

type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on-hold"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the enumerated experiment statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// Attachment is embedded in the experiment document and persisted as part
// of its JSONB attachments array. The list is only ever replaced whole, so
// concurrent edits are last-write-wins.
type Attachment struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Experiment is owned by exactly one user; OwnerID is set at creation and
// never changes. Every access path filters by it.
type Experiment struct {
	ID            string
	OwnerID       string
	Title         string
	Description   string
	ResearchFocus string
	Status        Status
	CollectedData string
	StartDate     time.Time
	EndDate       *time.Time
	Attachments   []Attachment
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
