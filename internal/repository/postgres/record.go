package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/domain"
)

var recordColumns = []string{
	"id", "error_id", "title", "description", "root_cause", "impact",
	"category", "subcategory", "workaround", "resolution", "status",
	"date_identified", "environment", "priority", "linked_incidents",
	"owner", "owner_id", "last_updated", "created_at",
}

type RecordRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewRecordRepository(db *sqlx.DB, log *slog.Logger) *RecordRepository {
	return &RecordRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RecordRepository) Create(ctx context.Context, tx *sqlx.Tx, rec *domain.Record) (int, error) {
	const op = "internal.repository.postgres.record.Create"

	query, args, err := r.sq.Insert("knowledge_errors").
		Columns(
			"error_id", "title", "description", "root_cause", "impact",
			"category", "subcategory", "workaround", "resolution", "status",
			"date_identified", "environment", "priority", "linked_incidents",
			"owner", "owner_id",
		).
		Values(
			rec.ErrorID, rec.Title, rec.Description, rec.RootCause, rec.Impact,
			rec.Category, rec.Subcategory, rec.Workaround, rec.Resolution, rec.Status,
			rec.DateIdentified, rec.Environment, rec.Priority, rec.LinkedIncidents,
			rec.Owner, rec.OwnerID,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var id int
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return 0, fmt.Errorf("%s: %w: '%s'", op, apperrors.ErrDuplicateErrorID, rec.ErrorID)
			}

			if pqErr.Code == "23503" {
				return 0, fmt.Errorf("%s: %w: owner reference", op, apperrors.ErrNotFound)
			}
		}

		return 0, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return id, nil
}

func (r *RecordRepository) GetByID(ctx context.Context, id int) (*domain.Record, error) {
	const op = "internal.repository.postgres.record.GetByID"

	query, args, err := r.sq.Select(recordColumns...).
		From("knowledge_errors").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rec domain.Record
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, &apperrors.RecordNotFoundError{RecordID: id})
		}

		return nil, fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	return &rec, nil
}

func (r *RecordRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*domain.Record, error) {
	const op = "internal.repository.postgres.record.GetByIDForUpdate"

	query, args, err := r.sq.Select(recordColumns...).
		From("knowledge_errors").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rec domain.Record
	if err := tx.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, &apperrors.RecordNotFoundError{RecordID: id})
		}

		return nil, fmt.Errorf("%s: failed to get record with lock: %w", op, err)
	}

	return &rec, nil
}

func (r *RecordRepository) List(ctx context.Context) ([]domain.Record, error) {
	const op = "internal.repository.postgres.record.List"

	query, args, err := r.sq.Select(recordColumns...).
		From("knowledge_errors").
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var records []domain.Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return records, nil
}

func (r *RecordRepository) Update(ctx context.Context, id int, rec *domain.Record) error {
	const op = "internal.repository.postgres.record.Update"

	query, args, err := r.sq.Update("knowledge_errors").
		Set("title", rec.Title).
		Set("description", rec.Description).
		Set("root_cause", rec.RootCause).
		Set("impact", rec.Impact).
		Set("category", rec.Category).
		Set("subcategory", rec.Subcategory).
		Set("workaround", rec.Workaround).
		Set("resolution", rec.Resolution).
		Set("status", rec.Status).
		Set("date_identified", rec.DateIdentified).
		Set("environment", rec.Environment).
		Set("priority", rec.Priority).
		Set("linked_incidents", rec.LinkedIncidents).
		Set("last_updated", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, &apperrors.RecordNotFoundError{RecordID: id})
	}

	return nil
}

func (r *RecordRepository) UpdateStatus(ctx context.Context, id int, status domain.RecordStatus, resolution *string) error {
	const op = "internal.repository.postgres.record.UpdateStatus"

	updateBuilder := r.sq.Update("knowledge_errors").
		Set("status", status).
		Set("last_updated", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	if resolution != nil {
		updateBuilder = updateBuilder.Set("resolution", *resolution)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, &apperrors.RecordNotFoundError{RecordID: id})
	}

	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, id int) error {
	const op = "internal.repository.postgres.record.Delete"

	query, args, err := r.sq.Delete("knowledge_errors").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, &apperrors.RecordNotFoundError{RecordID: id})
	}

	return nil
}

func (r *RecordRepository) TouchLastUpdated(ctx context.Context, tx *sqlx.Tx, id int) error {
	const op = "internal.repository.postgres.record.TouchLastUpdated"

	query, args, err := r.sq.Update("knowledge_errors").
		Set("last_updated", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return nil
}

func (r *RecordRepository) MaxErrorSequence(ctx context.Context, ext sqlx.ExtContext, prefix string) (int, error) {
	const op = "internal.repository.postgres.record.MaxErrorSequence"

	// The suffix regex guards the cast against legacy codes that carry a
	// non-numeric tail.
	query, args, err := r.sq.Select("COALESCE(MAX(CAST(SUBSTRING(error_id FROM 5) AS INTEGER)), 0)").
		From("knowledge_errors").
		Where(sq.Like{"error_id": prefix + "%"}).
		Where("SUBSTRING(error_id FROM 5) ~ '^[0-9]+$'").
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
