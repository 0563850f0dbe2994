// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the service layer.
package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/mkosyakov/kedb-service/internal/domain"
)

// RecordRepository defines the contract for knowledge-error record data.
type RecordRepository interface {
	// Create inserts a new record and returns its numeric id.
	// It returns apperrors.ErrDuplicateErrorID if the generated code is
	// already taken (concurrent creation under the same fiscal prefix).
	Create(ctx context.Context, tx *sqlx.Tx, rec *domain.Record) (int, error)

	// GetByID retrieves a record by its numeric id.
	// It returns apperrors.ErrNotFound if the record does not exist.
	GetByID(ctx context.Context, id int) (*domain.Record, error)

	// GetByIDForUpdate retrieves a record inside a transaction and acquires
	// a row-level lock ("FOR UPDATE"), serializing assignment transitions
	// for that record.
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*domain.Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]domain.Record, error)

	// Update overwrites the mutable fields of a record and touches
	// last_updated. It returns apperrors.ErrNotFound for unknown ids.
	Update(ctx context.Context, id int, rec *domain.Record) error

	// UpdateStatus patches the lifecycle status (and optionally the
	// resolution text) of a record.
	UpdateStatus(ctx context.Context, id int, status domain.RecordStatus, resolution *string) error

	// Delete hard-deletes a record. Administrative use only.
	Delete(ctx context.Context, id int) error

	// TouchLastUpdated bumps the record's last_updated timestamp within a
	// transaction.
	TouchLastUpdated(ctx context.Context, tx *sqlx.Tx, id int) error

	// MaxErrorSequence returns the highest numeric suffix among record codes
	// sharing the given fiscal prefix, 0 when none exist. The ext argument
	// allows running inside the record-creation transaction.
	MaxErrorSequence(ctx context.Context, ext sqlx.ExtContext, prefix string) (int, error)
}

// UserRepository defines the contract for the user directory.
type UserRepository interface {
	// Create inserts a directory entry and returns its id.
	Create(ctx context.Context, u *domain.User) (int, error)

	// GetByID returns apperrors.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id int) (*domain.User, error)

	// GetByUsername resolves a login name. Returns apperrors.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByFullName resolves a display name to a directory entry. Kept for
	// record submissions that still post a free-text owner name; resolved
	// once at write time, never re-resolved.
	GetByFullName(ctx context.Context, fullName string) (*domain.User, error)

	// UpdateLastLogin stamps the user's last successful login.
	UpdateLastLogin(ctx context.Context, id int) error
}

// AssignmentCommandRepository defines write operations on the assignment
// ledger and history log. All methods run within a transaction.
type AssignmentCommandRepository interface {
	// GetActiveForUpdate fetches the record's active ledger row with a
	// row-level lock, or (nil, nil) when the record was never assigned.
	GetActiveForUpdate(ctx context.Context, tx *sqlx.Tx, recordID int) (*domain.Assignment, error)

	// RetireActive transitions every active row of a record to the given
	// status. Used by Assign to mark the outgoing holder as reassigned.
	RetireActive(ctx context.Context, tx *sqlx.Tx, recordID int, to domain.AssignmentStatus) error

	// UpdateStatusByID transitions one specific ledger row, tracked by its
	// own id rather than re-derived by a secondary query.
	UpdateStatusByID(ctx context.Context, tx *sqlx.Tx, assignmentID int, to domain.AssignmentStatus) error

	// Insert appends a new ledger row and returns its id. The partial
	// unique index on (record_id) WHERE status='active' surfaces concurrent
	// double-assignment as apperrors.ErrAssignmentConflict.
	Insert(ctx context.Context, tx *sqlx.Tx, a *domain.Assignment) (int, error)

	// LatestPreviousHolder finds the most recent reassigned row whose
	// assignee differs from excludeUserID, or (nil, nil) when no such row
	// exists.
	LatestPreviousHolder(ctx context.Context, tx *sqlx.Tx, recordID, excludeUserID int) (*domain.Assignment, error)

	// InsertHistory appends an immutable audit entry.
	InsertHistory(ctx context.Context, tx *sqlx.Tx, e *domain.HistoryEntry) (int, error)
}

// AssignmentQueryRepository defines read-only ledger and history access.
type AssignmentQueryRepository interface {
	// GetActiveDetail returns the active assignment joined with user names,
	// or (nil, nil) when the record has no active assignment.
	GetActiveDetail(ctx context.Context, recordID int) (*domain.AssignmentDetail, error)

	// ListHistory returns the full audit trail for a record, newest first.
	ListHistory(ctx context.Context, recordID int) ([]domain.HistoryDetail, error)

	// ListAssignedOrOwned returns records the user owns or currently holds,
	// enriched with the active assignment's due date.
	ListAssignedOrOwned(ctx context.Context, userID int) ([]domain.AssignedRecord, error)
}

// DraftRepository defines the contract for user-private draft records.
type DraftRepository interface {
	// Insert stores a draft. The ext argument allows running inside the same
	// transaction that generated the draft code.
	Insert(ctx context.Context, ext sqlx.ExtContext, d *domain.Draft) (int, error)

	ListByUser(ctx context.Context, userID int) ([]domain.Draft, error)

	// GetByID scopes the lookup to the owning user; other users' drafts
	// surface as apperrors.ErrNotFound. The ext argument allows running
	// inside the draft-submission transaction.
	GetByID(ctx context.Context, ext sqlx.ExtContext, id, userID int) (*domain.Draft, error)

	Update(ctx context.Context, id, userID int, d *domain.Draft) error

	Delete(ctx context.Context, ext sqlx.ExtContext, id, userID int) error

	// MaxDraftSequence returns the highest draft sequence for a fiscal
	// prefix, 0 when none exist.
	MaxDraftSequence(ctx context.Context, ext sqlx.ExtContext, prefix string) (int, error)
}
