package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/domain"
	"github.com/mkosyakov/kedb-service/internal/identifier"
	"github.com/mkosyakov/kedb-service/internal/repository"
)

type RecordInput struct {
	Title           string
	Description     string
	RootCause       string
	Impact          string
	Category        string
	Subcategory     string
	Workaround      string
	Resolution      string
	Status          string
	DateIdentified  time.Time
	Environment     string
	Priority        string
	LinkedIncidents string
	Owner           string
}

type CreateRecordResult struct {
	ID      int    `json:"id"`
	ErrorID string `json:"errorId"`
}

type RecordService interface {
	// Create inserts a new record with a freshly generated fiscal-year code.
	// When the posted owner name resolves to a directory entry, the record
	// also gets its initial active assignment and first history entry.
	Create(ctx context.Context, in RecordInput, actingUserID int) (*CreateRecordResult, error)

	List(ctx context.Context) ([]domain.Record, error)

	GetByID(ctx context.Context, id int) (*domain.Record, error)

	Update(ctx context.Context, id int, in RecordInput) error

	UpdateStatus(ctx context.Context, id int, status string, resolution string) error

	Delete(ctx context.Context, id int) error
}

type RecordServiceImpl struct {
	BaseService
	records repository.RecordRepository
	users   repository.UserRepository
	asgCmd  repository.AssignmentCommandRepository
}

func NewRecordService(
	db Transactor,
	log *slog.Logger,
	records repository.RecordRepository,
	users repository.UserRepository,
	asgCmd repository.AssignmentCommandRepository,
) *RecordServiceImpl {
	return &RecordServiceImpl{
		BaseService: NewBaseService(db, log),
		records:     records,
		users:       users,
		asgCmd:      asgCmd,
	}
}

func (s *RecordServiceImpl) Create(ctx context.Context, in RecordInput, actingUserID int) (*CreateRecordResult, error) {
	const op = "internal.service.record.Create"
	log := s.log.With(slog.String("op", op))

	// The posted owner is a display name. Resolve it to a durable user id
	// once, at write time; an unknown name keeps the display value with no
	// directory link.
	var ownerID *int
	if in.Owner != "" {
		owner, err := s.users.GetByFullName(ctx, in.Owner)
		switch {
		case err == nil:
			ownerID = &owner.ID
		case errors.Is(err, apperrors.ErrNotFound):
			log.Warn("owner name not found in directory", slog.String("owner", in.Owner))
		default:
			return nil, fmt.Errorf("%s: failed to resolve owner: %w", op, err)
		}
	}

	now := time.Now().UTC()
	prefix := identifier.FiscalYearPrefix(now)

	status := domain.RecordStatus(in.Status)
	if status == "" {
		status = domain.RecordStatusOpen
	}

	result := &CreateRecordResult{}

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		maxSeq, err := s.records.MaxErrorSequence(ctx, tx, prefix)
		if err != nil {
			return fmt.Errorf("%s: failed to get max sequence: %w", op, err)
		}

		errorID := identifier.NextErrorID(prefix, maxSeq)

		id, err := s.records.Create(ctx, tx, &domain.Record{
			ErrorID:         errorID,
			Title:           in.Title,
			Description:     in.Description,
			RootCause:       in.RootCause,
			Impact:          in.Impact,
			Category:        in.Category,
			Subcategory:     in.Subcategory,
			Workaround:      in.Workaround,
			Resolution:      optionalString(in.Resolution),
			Status:          status,
			DateIdentified:  in.DateIdentified,
			Environment:     in.Environment,
			Priority:        in.Priority,
			LinkedIncidents: optionalString(in.LinkedIncidents),
			Owner:           in.Owner,
			OwnerID:         ownerID,
		})
		if err != nil {
			return fmt.Errorf("%s: failed to create record: %w", op, err)
		}

		if ownerID != nil {
			if _, err := s.asgCmd.Insert(ctx, tx, &domain.Assignment{
				RecordID:   id,
				AssignedTo: *ownerID,
				AssignedBy: actingUserID,
				AssignedAt: now,
				Status:     domain.AssignmentActive,
			}); err != nil {
				return fmt.Errorf("%s: failed to insert initial assignment: %w", op, err)
			}

			if _, err := s.asgCmd.InsertHistory(ctx, tx, &domain.HistoryEntry{
				RecordID:  id,
				NewOwner:  *ownerID,
				ChangedBy: actingUserID,
				ChangedAt: now,
			}); err != nil {
				return fmt.Errorf("%s: failed to insert history entry: %w", op, err)
			}
		}

		result.ID = id
		result.ErrorID = errorID

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("record created",
		slog.Int("id", result.ID),
		slog.String("error_id", result.ErrorID),
	)

	return result, nil
}

func (s *RecordServiceImpl) List(ctx context.Context) ([]domain.Record, error) {
	const op = "internal.service.record.List"

	records, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list records: %w", op, err)
	}

	return records, nil
}

func (s *RecordServiceImpl) GetByID(ctx context.Context, id int) (*domain.Record, error) {
	const op = "internal.service.record.GetByID"

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	return record, nil
}

func (s *RecordServiceImpl) Update(ctx context.Context, id int, in RecordInput) error {
	const op = "internal.service.record.Update"

	var ownerID *int
	if in.Owner != "" {
		owner, err := s.users.GetByFullName(ctx, in.Owner)
		switch {
		case err == nil:
			ownerID = &owner.ID
		case errors.Is(err, apperrors.ErrNotFound):
			s.log.Warn("owner name not found in directory",
				slog.String("op", op), slog.String("owner", in.Owner))
		default:
			return fmt.Errorf("%s: failed to resolve owner: %w", op, err)
		}
	}

	err := s.records.Update(ctx, id, &domain.Record{
		Title:           in.Title,
		Description:     in.Description,
		RootCause:       in.RootCause,
		Impact:          in.Impact,
		Category:        in.Category,
		Subcategory:     in.Subcategory,
		Workaround:      in.Workaround,
		Resolution:      optionalString(in.Resolution),
		Status:          domain.RecordStatus(in.Status),
		DateIdentified:  in.DateIdentified,
		Environment:     in.Environment,
		Priority:        in.Priority,
		LinkedIncidents: optionalString(in.LinkedIncidents),
		Owner:           in.Owner,
		OwnerID:         ownerID,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to update record: %w", op, err)
	}

	return nil
}

func (s *RecordServiceImpl) UpdateStatus(ctx context.Context, id int, status string, resolution string) error {
	const op = "internal.service.record.UpdateStatus"

	if err := s.records.UpdateStatus(ctx, id, domain.RecordStatus(status), optionalString(resolution)); err != nil {
		return fmt.Errorf("%s: failed to update status: %w", op, err)
	}

	return nil
}

func (s *RecordServiceImpl) Delete(ctx context.Context, id int) error {
	const op = "internal.service.record.Delete"

	if err := s.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete record: %w", op, err)
	}

	s.log.Info("record deleted", slog.String("op", op), slog.Int("id", id))

	return nil
}
