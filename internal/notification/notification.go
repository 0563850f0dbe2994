// Package notification delivers assignment emails. Delivery is best-effort:
// callers treat a send failure as a flag in the response, never as a reason
// to fail or roll back the assignment itself.
package notification

import (
	"context"
	"time"
)

// AssignmentNotification carries everything the mail body needs.
type AssignmentNotification struct {
	RecordCode     string
	RecordTitle    string
	RecipientEmail string
	RecipientName  string
	ActorName      string
	Notes          string
	DueDate        *time.Time
}

// Notifier sends an assignment notification to the new holder of a record.
type Notifier interface {
	SendAssignmentNotification(ctx context.Context, n AssignmentNotification) error
}
