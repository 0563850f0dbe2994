package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/domain"
)

var draftColumns = []string{
	"id", "draft_id", "user_id", "title", "description", "root_cause",
	"impact", "category", "subcategory", "workaround", "resolution",
	"date_identified", "environment", "priority", "linked_incidents",
	"created_at", "updated_at",
}

type DraftRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewDraftRepository(db *sqlx.DB, log *slog.Logger) *DraftRepository {
	return &DraftRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (dr *DraftRepository) Insert(ctx context.Context, ext sqlx.ExtContext, d *domain.Draft) (int, error) {
	const op = "internal.repository.postgres.draft.Insert"

	query, args, err := dr.sq.Insert("draft_records").
		Columns(
			"draft_id", "user_id", "title", "description", "root_cause",
			"impact", "category", "subcategory", "workaround", "resolution",
			"date_identified", "environment", "priority", "linked_incidents",
		).
		Values(
			d.DraftID, d.UserID, d.Title, d.Description, d.RootCause,
			d.Impact, d.Category, d.Subcategory, d.Workaround, d.Resolution,
			d.DateIdentified, d.Environment, d.Priority, d.LinkedIncidents,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var id int
	if err := ext.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return id, nil
}

func (dr *DraftRepository) ListByUser(ctx context.Context, userID int) ([]domain.Draft, error) {
	const op = "internal.repository.postgres.draft.ListByUser"

	query, args, err := dr.sq.Select(draftColumns...).
		From("draft_records").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var drafts []domain.Draft
	if err := dr.db.SelectContext(ctx, &drafts, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return drafts, nil
}

func (dr *DraftRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id, userID int) (*domain.Draft, error) {
	const op = "internal.repository.postgres.draft.GetByID"

	query, args, err := dr.sq.Select(draftColumns...).
		From("draft_records").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var d domain.Draft
	if err := sqlx.GetContext(ctx, ext, &d, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, &apperrors.DraftNotFoundError{DraftID: id})
		}

		return nil, fmt.Errorf("%s: failed to get draft: %w", op, err)
	}

	return &d, nil
}

func (dr *DraftRepository) Update(ctx context.Context, id, userID int, d *domain.Draft) error {
	const op = "internal.repository.postgres.draft.Update"

	query, args, err := dr.sq.Update("draft_records").
		Set("title", d.Title).
		Set("description", d.Description).
		Set("root_cause", d.RootCause).
		Set("impact", d.Impact).
		Set("category", d.Category).
		Set("subcategory", d.Subcategory).
		Set("workaround", d.Workaround).
		Set("resolution", d.Resolution).
		Set("date_identified", d.DateIdentified).
		Set("environment", d.Environment).
		Set("priority", d.Priority).
		Set("linked_incidents", d.LinkedIncidents).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := dr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, &apperrors.DraftNotFoundError{DraftID: id})
	}

	return nil
}

func (dr *DraftRepository) Delete(ctx context.Context, ext sqlx.ExtContext, id, userID int) error {
	const op = "internal.repository.postgres.draft.Delete"

	query, args, err := dr.sq.Delete("draft_records").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, &apperrors.DraftNotFoundError{DraftID: id})
	}

	return nil
}

func (dr *DraftRepository) MaxDraftSequence(ctx context.Context, ext sqlx.ExtContext, prefix string) (int, error) {
	const op = "internal.repository.postgres.draft.MaxDraftSequence"

	query, args, err := dr.sq.Select("COALESCE(MAX(CAST(SPLIT_PART(draft_id, '-', 3) AS INTEGER)), 0)").
		From("draft_records").
		Where(sq.Like{"draft_id": "DRAFT-" + prefix + "-%"}).
		Where("SPLIT_PART(draft_id, '-', 3) ~ '^[0-9]+$'").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var maxSeq int
	if err := sqlx.GetContext(ctx, ext, &maxSeq, query, args...); err != nil {
		return 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return maxSeq, nil
}
