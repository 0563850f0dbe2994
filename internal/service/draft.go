package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mkosyakov/kedb-service/internal/domain"
	"github.com/mkosyakov/kedb-service/internal/identifier"
	"github.com/mkosyakov/kedb-service/internal/repository"
)

type DraftInput struct {
	Title           string
	Description     string
	RootCause       string
	Impact          string
	Category        string
	Subcategory     string
	Workaround      string
	Resolution      string
	DateIdentified  *time.Time
	Environment     string
	Priority        string
	LinkedIncidents string
}

type SaveDraftResult struct {
	ID      int    `json:"id"`
	DraftID string `json:"draftId"`
}

type DraftService interface {
	// Save stores a new user-private draft under a fresh DRAFT code.
	Save(ctx context.Context, in DraftInput, userID int) (*SaveDraftResult, error)

	// List returns the caller's drafts, most recently touched first.
	List(ctx context.Context, userID int) ([]domain.Draft, error)

	Update(ctx context.Context, id, userID int, in DraftInput) error

	Delete(ctx context.Context, id, userID int) error

	// Submit promotes a draft into a real record in one transaction: the
	// record gets a fresh fiscal-year code and an initial self-assignment,
	// and the draft is deleted.
	Submit(ctx context.Context, id, userID int) (*CreateRecordResult, error)
}

type DraftServiceImpl struct {
	BaseService
	drafts  repository.DraftRepository
	records repository.RecordRepository
	asgCmd  repository.AssignmentCommandRepository
	users   repository.UserRepository
}

func NewDraftService(
	db Transactor,
	log *slog.Logger,
	drafts repository.DraftRepository,
	records repository.RecordRepository,
	asgCmd repository.AssignmentCommandRepository,
	users repository.UserRepository,
) *DraftServiceImpl {
	return &DraftServiceImpl{
		BaseService: NewBaseService(db, log),
		drafts:      drafts,
		records:     records,
		asgCmd:      asgCmd,
		users:       users,
	}
}

func (s *DraftServiceImpl) Save(ctx context.Context, in DraftInput, userID int) (*SaveDraftResult, error) {
	const op = "internal.service.draft.Save"

	prefix := identifier.FiscalYearPrefix(time.Now().UTC())

	result := &SaveDraftResult{}

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		maxSeq, err := s.drafts.MaxDraftSequence(ctx, tx, prefix)
		if err != nil {
			return fmt.Errorf("%s: failed to get max draft sequence: %w", op, err)
		}

		draftID := identifier.NextDraftID(prefix, maxSeq)

		id, err := s.drafts.Insert(ctx, tx, draftFromInput(draftID, userID, in))
		if err != nil {
			return fmt.Errorf("%s: failed to insert draft: %w", op, err)
		}

		result.ID = id
		result.DraftID = draftID

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("draft saved",
		slog.String("op", op),
		slog.Int("id", result.ID),
		slog.String("draft_id", result.DraftID),
	)

	return result, nil
}

func (s *DraftServiceImpl) List(ctx context.Context, userID int) ([]domain.Draft, error) {
	const op = "internal.service.draft.List"

	drafts, err := s.drafts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list drafts: %w", op, err)
	}

	return drafts, nil
}

func (s *DraftServiceImpl) Update(ctx context.Context, id, userID int, in DraftInput) error {
	const op = "internal.service.draft.Update"

	if err := s.drafts.Update(ctx, id, userID, draftFromInput("", userID, in)); err != nil {
		return fmt.Errorf("%s: failed to update draft: %w", op, err)
	}

	return nil
}

func (s *DraftServiceImpl) Delete(ctx context.Context, id, userID int) error {
	const op = "internal.service.draft.Delete"

	return s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if err := s.drafts.Delete(ctx, tx, id, userID); err != nil {
			return fmt.Errorf("%s: failed to delete draft: %w", op, err)
		}

		return nil
	})
}

func (s *DraftServiceImpl) Submit(ctx context.Context, id, userID int) (*CreateRecordResult, error) {
	const op = "internal.service.draft.Submit"

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve user: %w", op, err)
	}

	now := time.Now().UTC()
	prefix := identifier.FiscalYearPrefix(now)

	result := &CreateRecordResult{}

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		draft, err := s.drafts.GetByID(ctx, tx, id, userID)
		if err != nil {
			return fmt.Errorf("%s: failed to get draft: %w", op, err)
		}

		maxSeq, err := s.records.MaxErrorSequence(ctx, tx, prefix)
		if err != nil {
			return fmt.Errorf("%s: failed to get max sequence: %w", op, err)
		}

		errorID := identifier.NextErrorID(prefix, maxSeq)

		dateIdentified := now
		if draft.DateIdentified != nil {
			dateIdentified = *draft.DateIdentified
		}

		recordID, err := s.records.Create(ctx, tx, &domain.Record{
			ErrorID:         errorID,
			Title:           draft.Title,
			Description:     draft.Description,
			RootCause:       draft.RootCause,
			Impact:          draft.Impact,
			Category:        draft.Category,
			Subcategory:     draft.Subcategory,
			Workaround:      draft.Workaround,
			Resolution:      draft.Resolution,
			Status:          domain.RecordStatusOpen,
			DateIdentified:  dateIdentified,
			Environment:     draft.Environment,
			Priority:        draft.Priority,
			LinkedIncidents: draft.LinkedIncidents,
			Owner:           user.FullName,
			OwnerID:         &user.ID,
		})
		if err != nil {
			return fmt.Errorf("%s: failed to create record: %w", op, err)
		}

		if _, err := s.asgCmd.Insert(ctx, tx, &domain.Assignment{
			RecordID:   recordID,
			AssignedTo: user.ID,
			AssignedBy: user.ID,
			AssignedAt: now,
			Status:     domain.AssignmentActive,
		}); err != nil {
			return fmt.Errorf("%s: failed to insert initial assignment: %w", op, err)
		}

		if _, err := s.asgCmd.InsertHistory(ctx, tx, &domain.HistoryEntry{
			RecordID:  recordID,
			NewOwner:  user.ID,
			ChangedBy: user.ID,
			ChangedAt: now,
		}); err != nil {
			return fmt.Errorf("%s: failed to insert history entry: %w", op, err)
		}

		if err := s.drafts.Delete(ctx, tx, id, userID); err != nil {
			return fmt.Errorf("%s: failed to delete draft: %w", op, err)
		}

		result.ID = recordID
		result.ErrorID = errorID

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("draft submitted",
		slog.String("op", op),
		slog.Int("draft_id", id),
		slog.String("error_id", result.ErrorID),
	)

	return result, nil
}

func draftFromInput(draftID string, userID int, in DraftInput) *domain.Draft {
	return &domain.Draft{
		DraftID:         draftID,
		UserID:          userID,
		Title:           in.Title,
		Description:     in.Description,
		RootCause:       in.RootCause,
		Impact:          in.Impact,
		Category:        in.Category,
		Subcategory:     in.Subcategory,
		Workaround:      in.Workaround,
		Resolution:      optionalString(in.Resolution),
		DateIdentified:  in.DateIdentified,
		Environment:     in.Environment,
		Priority:        in.Priority,
		LinkedIncidents: optionalString(in.LinkedIncidents),
	}
}
