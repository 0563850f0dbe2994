package domain

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int        `db:"id"`
	EmployeeID   string     `db:"employee_id"`
	Username     string     `db:"username"`
	FullName     string     `db:"full_name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	Department   string     `db:"department"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
}

type RecordStatus string

const (
	RecordStatusOpen          RecordStatus = "Open"
	RecordStatusInvestigating RecordStatus = "Investigating"
	RecordStatusResolved      RecordStatus = "Resolved"
	RecordStatusClosed        RecordStatus = "Closed"
)

// Record is a tracked knowledge-error entry. ErrorID is the human-readable
// fiscal-year-scoped code; it is immutable once assigned. Owner is a display
// cache of the owner's full name, OwnerID is the durable reference.
type Record struct {
	ID              int          `db:"id"`
	ErrorID         string       `db:"error_id"`
	Title           string       `db:"title"`
	Description     string       `db:"description"`
	RootCause       string       `db:"root_cause"`
	Impact          string       `db:"impact"`
	Category        string       `db:"category"`
	Subcategory     string       `db:"subcategory"`
	Workaround      string       `db:"workaround"`
	Resolution      *string      `db:"resolution"`
	Status          RecordStatus `db:"status"`
	DateIdentified  time.Time    `db:"date_identified"`
	Environment     string       `db:"environment"`
	Priority        string       `db:"priority"`
	LinkedIncidents *string      `db:"linked_incidents"`
	Owner           string       `db:"owner"`
	OwnerID         *int         `db:"owner_id"`
	LastUpdated     time.Time    `db:"last_updated"`
	CreatedAt       time.Time    `db:"created_at"`
}

type AssignmentStatus string

const (
	AssignmentActive     AssignmentStatus = "active"
	AssignmentReassigned AssignmentStatus = "reassigned"
	AssignmentReverted   AssignmentStatus = "reverted"
)

// Assignment is one custody period of a record by a user. At most one row
// per record has status 'active'; the storage layer enforces this with a
// partial unique index.
type Assignment struct {
	ID         int              `db:"id"`
	RecordID   int              `db:"record_id"`
	AssignedTo int              `db:"assigned_to"`
	AssignedBy int              `db:"assigned_by"`
	AssignedAt time.Time        `db:"assigned_at"`
	DueDate    *time.Time       `db:"due_date"`
	Notes      *string          `db:"notes"`
	Status     AssignmentStatus `db:"status"`
}

// HistoryEntry is an immutable audit record of one ownership change.
// PreviousOwner is nil for the very first assignment of a record.
type HistoryEntry struct {
	ID            int        `db:"id"`
	RecordID      int        `db:"record_id"`
	PreviousOwner *int       `db:"previous_owner"`
	NewOwner      int        `db:"new_owner"`
	ChangedBy     int        `db:"changed_by"`
	ChangedAt     time.Time  `db:"changed_at"`
	Notes         *string    `db:"notes"`
	DurationDays  *int       `db:"duration_days"`
}

// AssignmentDetail is an Assignment joined with user directory data for
// display.
type AssignmentDetail struct {
	Assignment
	AssigneeName  string `db:"assignee_name"`
	AssigneeEmail string `db:"assignee_email"`
	AssignerName  string `db:"assigner_name"`
}

// HistoryDetail is a HistoryEntry joined with user names.
type HistoryDetail struct {
	HistoryEntry
	PreviousOwnerName *string `db:"previous_owner_name"`
	NewOwnerName      string  `db:"new_owner_name"`
	ChangedByName     string  `db:"changed_by_name"`
}

// AssignedRecord is a record enriched with the caller's active assignment
// data, used for the "my records" listing.
type AssignedRecord struct {
	Record
	DueDate    *time.Time `db:"due_date"`
	AssignedAt *time.Time `db:"assigned_at"`
}

// Draft is an unsubmitted, user-private copy of record form data. Fields
// that a half-filled form may leave empty are nullable.
type Draft struct {
	ID              int        `db:"id"`
	DraftID         string     `db:"draft_id"`
	UserID          int        `db:"user_id"`
	Title           string     `db:"title"`
	Description     string     `db:"description"`
	RootCause       string     `db:"root_cause"`
	Impact          string     `db:"impact"`
	Category        string     `db:"category"`
	Subcategory     string     `db:"subcategory"`
	Workaround      string     `db:"workaround"`
	Resolution      *string    `db:"resolution"`
	DateIdentified  *time.Time `db:"date_identified"`
	Environment     string     `db:"environment"`
	Priority        string     `db:"priority"`
	LinkedIncidents *string    `db:"linked_incidents"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}
