package manual

import (
	"time"
)

// DocumentStatus is the lifecycle state of a manual.
type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "draft"
	DocumentStatusInReview DocumentStatus = "in_review"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusObsolete DocumentStatus = "obsolete"
)

// DocumentStatuses lists every valid status, in lifecycle order.
var DocumentStatuses = []DocumentStatus{
	DocumentStatusDraft,
	DocumentStatusInReview,
	DocumentStatusApproved,
	DocumentStatusObsolete,
}

// CanTransitionTo reports whether a document may move from s to next.
// Any status may become obsolete; review can be sent back to draft.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	if s == next || next == DocumentStatusObsolete {
		return true
	}
	switch s {
	case DocumentStatusDraft:
		return next == DocumentStatusInReview
	case DocumentStatusInReview:
		return next == DocumentStatusApproved || next == DocumentStatusDraft
	case DocumentStatusApproved:
		return next == DocumentStatusInReview
	}
	return false
}

type Document struct {
	ID          int64          `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Status      DocumentStatus `json:"status" db:"status"`
	Version     string         `json:"version" db:"version"`
	CreatedBy   *string        `json:"created_by" db:"created_by"`
	UpdatedBy   *string        `json:"updated_by" db:"updated_by"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
