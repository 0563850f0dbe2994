package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/domain"
	"github.com/mkosyakov/kedb-service/internal/notification"
	"github.com/mkosyakov/kedb-service/internal/repository"
	"github.com/mkosyakov/kedb-service/pkg/logger/sl"
)

type AssignInput struct {
	RecordID     int
	AssigneeID   int
	DueDate      *time.Time
	Notes        string
	ActingUserID int
}

type RevertInput struct {
	RecordID     int
	Notes        string
	ActingUserID int
}

type AssignResult struct {
	AssignedTo string `json:"assignedTo"`
	EmailSent  bool   `json:"emailSent"`
}

type CurrentAssignee struct {
	UserID        int        `json:"userId"`
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	AssignedBy    string     `json:"assignedBy"`
	AssignedAt    time.Time  `json:"assignedAt"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	DaysRemaining *int       `json:"daysRemaining,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

type HistoryEntry struct {
	PreviousOwner *string    `json:"previousOwner"`
	NewOwner      string     `json:"newOwner"`
	ChangedBy     string     `json:"changedBy"`
	ChangedAt     time.Time  `json:"changedAt"`
	Notes         *string    `json:"notes,omitempty"`
	DurationDays  *int       `json:"durationDays,omitempty"`
}

type HistoryResult struct {
	Owner           string           `json:"owner"`
	CurrentAssignee *CurrentAssignee `json:"currentAssignee"`
	History         []HistoryEntry   `json:"history"`
}

type AssignedRecord struct {
	ID            int        `json:"id"`
	ErrorID       string     `json:"errorId"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	Owner         string     `json:"owner"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	DaysRemaining *int       `json:"daysRemaining,omitempty"`
	LastUpdated   time.Time  `json:"lastUpdated"`
}

type AssignmentService interface {
	// Assign transfers custody of a record to another user, appending an
	// audit entry and notifying the new holder best-effort.
	Assign(ctx context.Context, in AssignInput) (*AssignResult, error)

	// Revert undoes the most recent reassignment, restoring the previous
	// holder with their prior due date.
	Revert(ctx context.Context, in RevertInput) (*AssignResult, error)

	// GetHistory returns the record owner, the current assignee and the
	// full ordered audit trail.
	GetHistory(ctx context.Context, recordID int) (*HistoryResult, error)

	// ListAssigned returns the records the user owns or currently holds.
	ListAssigned(ctx context.Context, userID int) ([]AssignedRecord, error)
}

type AssignmentServiceImpl struct {
	BaseService
	records  repository.RecordRepository
	users    repository.UserRepository
	asgCmd   repository.AssignmentCommandRepository
	asgQuery repository.AssignmentQueryRepository
	notifier notification.Notifier
}

func NewAssignmentService(
	db Transactor,
	log *slog.Logger,
	records repository.RecordRepository,
	users repository.UserRepository,
	asgCmd repository.AssignmentCommandRepository,
	asgQuery repository.AssignmentQueryRepository,
	notifier notification.Notifier,
) *AssignmentServiceImpl {
	return &AssignmentServiceImpl{
		BaseService: NewBaseService(db, log),
		records:     records,
		users:       users,
		asgCmd:      asgCmd,
		asgQuery:    asgQuery,
		notifier:    notifier,
	}
}

func (s *AssignmentServiceImpl) Assign(ctx context.Context, in AssignInput) (*AssignResult, error) {
	const op = "internal.service.assignment.Assign"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("record_id", in.RecordID),
		slog.Int("assignee_id", in.AssigneeID),
	)

	record, err := s.records.GetByID(ctx, in.RecordID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	assignee, err := s.users.GetByID(ctx, in.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve assignee: %w", op, err)
	}

	actor, err := s.users.GetByID(ctx, in.ActingUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve acting user: %w", op, err)
	}

	now := time.Now().UTC()

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		// Locking the record row serializes concurrent transitions on the
		// same record; the partial unique index on active rows backstops it.
		if _, err := s.records.GetByIDForUpdate(ctx, tx, in.RecordID); err != nil {
			return fmt.Errorf("%s: failed to lock record: %w", op, err)
		}

		prev, err := s.asgCmd.GetActiveForUpdate(ctx, tx, in.RecordID)
		if err != nil {
			return fmt.Errorf("%s: failed to get active assignment: %w", op, err)
		}

		var (
			prevOwner *int
			duration  *int
		)

		if prev != nil {
			d := durationDays(prev.AssignedAt, now)
			duration = &d
			prevOwner = &prev.AssignedTo

			if err := s.asgCmd.RetireActive(ctx, tx, in.RecordID, domain.AssignmentReassigned); err != nil {
				return fmt.Errorf("%s: failed to retire active assignment: %w", op, err)
			}
		}

		if _, err := s.asgCmd.Insert(ctx, tx, &domain.Assignment{
			RecordID:   in.RecordID,
			AssignedTo: assignee.ID,
			AssignedBy: actor.ID,
			AssignedAt: now,
			DueDate:    in.DueDate,
			Notes:      optionalString(in.Notes),
			Status:     domain.AssignmentActive,
		}); err != nil {
			return fmt.Errorf("%s: failed to insert assignment: %w", op, err)
		}

		if _, err := s.asgCmd.InsertHistory(ctx, tx, &domain.HistoryEntry{
			RecordID:      in.RecordID,
			PreviousOwner: prevOwner,
			NewOwner:      assignee.ID,
			ChangedBy:     actor.ID,
			ChangedAt:     now,
			Notes:         optionalString(in.Notes),
			DurationDays:  duration,
		}); err != nil {
			return fmt.Errorf("%s: failed to insert history entry: %w", op, err)
		}

		return s.records.TouchLastUpdated(ctx, tx, in.RecordID)
	})
	if err != nil {
		return nil, err
	}

	log.Info("record assigned", slog.String("assignee", assignee.FullName))

	emailSent := s.notify(ctx, log, notification.AssignmentNotification{
		RecordCode:     record.ErrorID,
		RecordTitle:    record.Title,
		RecipientEmail: assignee.Email,
		RecipientName:  assignee.FullName,
		ActorName:      actor.FullName,
		Notes:          in.Notes,
		DueDate:        in.DueDate,
	})

	return &AssignResult{
		AssignedTo: assignee.FullName,
		EmailSent:  emailSent,
	}, nil
}

func (s *AssignmentServiceImpl) Revert(ctx context.Context, in RevertInput) (*AssignResult, error) {
	const op = "internal.service.assignment.Revert"
	log := s.log.With(slog.String("op", op), slog.Int("record_id", in.RecordID))

	record, err := s.records.GetByID(ctx, in.RecordID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	actor, err := s.users.GetByID(ctx, in.ActingUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve acting user: %w", op, err)
	}

	now := time.Now().UTC()
	revertNotes := "Reverted: " + in.Notes

	var restoredTo int

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if _, err := s.records.GetByIDForUpdate(ctx, tx, in.RecordID); err != nil {
			return fmt.Errorf("%s: failed to lock record: %w", op, err)
		}

		active, err := s.asgCmd.GetActiveForUpdate(ctx, tx, in.RecordID)
		if err != nil {
			return fmt.Errorf("%s: failed to get active assignment: %w", op, err)
		}

		if active == nil {
			return fmt.Errorf("%s: %w", op, apperrors.ErrNoActiveAssignment)
		}

		prevHolder, err := s.asgCmd.LatestPreviousHolder(ctx, tx, in.RecordID, active.AssignedTo)
		if err != nil {
			return fmt.Errorf("%s: failed to find previous holder: %w", op, err)
		}

		if prevHolder == nil {
			return fmt.Errorf("%s: %w", op, apperrors.ErrNoPreviousHolder)
		}

		duration := durationDays(active.AssignedAt, now)

		// Close the specific row being ended, tracked by its own id.
		if err := s.asgCmd.UpdateStatusByID(ctx, tx, active.ID, domain.AssignmentReverted); err != nil {
			return fmt.Errorf("%s: failed to revert active assignment: %w", op, err)
		}

		if _, err := s.asgCmd.Insert(ctx, tx, &domain.Assignment{
			RecordID:   in.RecordID,
			AssignedTo: prevHolder.AssignedTo,
			AssignedBy: actor.ID,
			AssignedAt: now,
			DueDate:    prevHolder.DueDate,
			Notes:      optionalString(revertNotes),
			Status:     domain.AssignmentActive,
		}); err != nil {
			return fmt.Errorf("%s: failed to insert assignment: %w", op, err)
		}

		if _, err := s.asgCmd.InsertHistory(ctx, tx, &domain.HistoryEntry{
			RecordID:      in.RecordID,
			PreviousOwner: &active.AssignedTo,
			NewOwner:      prevHolder.AssignedTo,
			ChangedBy:     actor.ID,
			ChangedAt:     now,
			Notes:         &revertNotes,
			DurationDays:  &duration,
		}); err != nil {
			return fmt.Errorf("%s: failed to insert history entry: %w", op, err)
		}

		restoredTo = prevHolder.AssignedTo

		return s.records.TouchLastUpdated(ctx, tx, in.RecordID)
	})
	if err != nil {
		return nil, err
	}

	restored, err := s.users.GetByID(ctx, restoredTo)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve restored holder: %w", op, err)
	}

	log.Info("assignment reverted", slog.String("restored_to", restored.FullName))

	emailSent := s.notify(ctx, log, notification.AssignmentNotification{
		RecordCode:     record.ErrorID,
		RecordTitle:    record.Title,
		RecipientEmail: restored.Email,
		RecipientName:  restored.FullName,
		ActorName:      actor.FullName,
		Notes:          revertNotes,
	})

	return &AssignResult{
		AssignedTo: restored.FullName,
		EmailSent:  emailSent,
	}, nil
}

func (s *AssignmentServiceImpl) GetHistory(ctx context.Context, recordID int) (*HistoryResult, error) {
	const op = "internal.service.assignment.GetHistory"

	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	detail, err := s.asgQuery.GetActiveDetail(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get active assignment: %w", op, err)
	}

	history, err := s.asgQuery.ListHistory(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list history: %w", op, err)
	}

	result := &HistoryResult{
		Owner:   record.Owner,
		History: make([]HistoryEntry, len(history)),
	}

	if detail != nil {
		current := &CurrentAssignee{
			UserID:     detail.AssignedTo,
			FullName:   detail.AssigneeName,
			Email:      detail.AssigneeEmail,
			AssignedBy: detail.AssignerName,
			AssignedAt: detail.AssignedAt,
			DueDate:    detail.DueDate,
			Notes:      detail.Notes,
		}

		if detail.DueDate != nil {
			remaining := daysRemaining(*detail.DueDate, time.Now().UTC())
			current.DaysRemaining = &remaining
		}

		result.CurrentAssignee = current
	}

	for i, h := range history {
		result.History[i] = HistoryEntry{
			PreviousOwner: h.PreviousOwnerName,
			NewOwner:      h.NewOwnerName,
			ChangedBy:     h.ChangedByName,
			ChangedAt:     h.ChangedAt,
			Notes:         h.Notes,
			DurationDays:  h.DurationDays,
		}
	}

	return result, nil
}

func (s *AssignmentServiceImpl) ListAssigned(ctx context.Context, userID int) ([]AssignedRecord, error) {
	const op = "internal.service.assignment.ListAssigned"

	records, err := s.asgQuery.ListAssignedOrOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list assigned records: %w", op, err)
	}

	now := time.Now().UTC()

	result := make([]AssignedRecord, len(records))
	for i, r := range records {
		ar := AssignedRecord{
			ID:          r.ID,
			ErrorID:     r.ErrorID,
			Title:       r.Title,
			Status:      string(r.Status),
			Priority:    r.Priority,
			Owner:       r.Owner,
			DueDate:     r.DueDate,
			LastUpdated: r.LastUpdated,
		}

		if r.DueDate != nil {
			remaining := daysRemaining(*r.DueDate, now)
			ar.DaysRemaining = &remaining
		}

		result[i] = ar
	}

	return result, nil
}

// notify delivers the assignment mail best-effort. A failure is logged and
// reported back only through the emailSent flag.
func (s *AssignmentServiceImpl) notify(ctx context.Context, log *slog.Logger, n notification.AssignmentNotification) bool {
	if s.notifier == nil {
		return false
	}

	if err := s.notifier.SendAssignmentNotification(ctx, n); err != nil {
		log.Warn("assignment notification failed", sl.Err(err))
		return false
	}

	return true
}
