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

var assignmentColumns = []string{
	"id", "record_id", "assigned_to", "assigned_by", "assigned_at",
	"due_date", "notes", "status",
}

type AssignmentRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewAssignmentRepository(db *sqlx.DB, log *slog.Logger) *AssignmentRepository {
	return &AssignmentRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (ar *AssignmentRepository) GetActiveForUpdate(ctx context.Context, tx *sqlx.Tx, recordID int) (*domain.Assignment, error) {
	const op = "internal.repository.postgres.assignment.GetActiveForUpdate"

	query, args, err := ar.sq.Select(assignmentColumns...).
		From("record_assignments").
		Where(sq.Eq{"record_id": recordID, "status": domain.AssignmentActive}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var a domain.Assignment
	if err := tx.GetContext(ctx, &a, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: failed to get active assignment: %w", op, err)
	}

	return &a, nil
}

func (ar *AssignmentRepository) RetireActive(ctx context.Context, tx *sqlx.Tx, recordID int, to domain.AssignmentStatus) error {
	const op = "internal.repository.postgres.assignment.RetireActive"

	query, args, err := ar.sq.Update("record_assignments").
		Set("status", to).
		Where(sq.Eq{"record_id": recordID, "status": domain.AssignmentActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return nil
}

func (ar *AssignmentRepository) UpdateStatusByID(ctx context.Context, tx *sqlx.Tx, assignmentID int, to domain.AssignmentStatus) error {
	const op = "internal.repository.postgres.assignment.UpdateStatusByID"

	query, args, err := ar.sq.Update("record_assignments").
		Set("status", to).
		Where(sq.Eq{"id": assignmentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w: assignment with id '%d'", op, apperrors.ErrNotFound, assignmentID)
	}

	return nil
}

func (ar *AssignmentRepository) Insert(ctx context.Context, tx *sqlx.Tx, a *domain.Assignment) (int, error) {
	const op = "internal.repository.postgres.assignment.Insert"

	query, args, err := ar.sq.Insert("record_assignments").
		Columns("record_id", "assigned_to", "assigned_by", "assigned_at", "due_date", "notes", "status").
		Values(a.RecordID, a.AssignedTo, a.AssignedBy, a.AssignedAt, a.DueDate, a.Notes, a.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var id int
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return 0, fmt.Errorf("%s: %w: record '%d'", op, apperrors.ErrAssignmentConflict, a.RecordID)
			}

			if pqErr.Code == "23503" {
				return 0, fmt.Errorf("%s: %w: record or user reference", op, apperrors.ErrNotFound)
			}
		}

		return 0, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return id, nil
}

func (ar *AssignmentRepository) LatestPreviousHolder(ctx context.Context, tx *sqlx.Tx, recordID, excludeUserID int) (*domain.Assignment, error) {
	const op = "internal.repository.postgres.assignment.LatestPreviousHolder"

	query, args, err := ar.sq.Select(assignmentColumns...).
		From("record_assignments").
		Where(sq.Eq{"record_id": recordID, "status": domain.AssignmentReassigned}).
		Where(sq.NotEq{"assigned_to": excludeUserID}).
		OrderBy("assigned_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var a domain.Assignment
	if err := tx.GetContext(ctx, &a, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: failed to get previous holder: %w", op, err)
	}

	return &a, nil
}

func (ar *AssignmentRepository) InsertHistory(ctx context.Context, tx *sqlx.Tx, e *domain.HistoryEntry) (int, error) {
	const op = "internal.repository.postgres.assignment.InsertHistory"

	query, args, err := ar.sq.Insert("assignment_history").
		Columns("record_id", "previous_owner", "new_owner", "changed_by", "changed_at", "notes", "duration_days").
		Values(e.RecordID, e.PreviousOwner, e.NewOwner, e.ChangedBy, e.ChangedAt, e.Notes, e.DurationDays).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var id int
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return id, nil
}

func (ar *AssignmentRepository) GetActiveDetail(ctx context.Context, recordID int) (*domain.AssignmentDetail, error) {
	const op = "internal.repository.postgres.assignment.GetActiveDetail"

	query, args, err := ar.sq.Select(
		"a.id", "a.record_id", "a.assigned_to", "a.assigned_by", "a.assigned_at",
		"a.due_date", "a.notes", "a.status",
		"u.full_name AS assignee_name",
		"u.email AS assignee_email",
		"b.full_name AS assigner_name",
	).
		From("record_assignments a").
		Join("users u ON u.id = a.assigned_to").
		Join("users b ON b.id = a.assigned_by").
		Where(sq.Eq{"a.record_id": recordID, "a.status": domain.AssignmentActive}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var detail domain.AssignmentDetail
	if err := ar.db.GetContext(ctx, &detail, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: failed to get active assignment: %w", op, err)
	}

	return &detail, nil
}

func (ar *AssignmentRepository) ListHistory(ctx context.Context, recordID int) ([]domain.HistoryDetail, error) {
	const op = "internal.repository.postgres.assignment.ListHistory"

	query, args, err := ar.sq.Select(
		"h.id", "h.record_id", "h.previous_owner", "h.new_owner", "h.changed_by",
		"h.changed_at", "h.notes", "h.duration_days",
		"p.full_name AS previous_owner_name",
		"n.full_name AS new_owner_name",
		"c.full_name AS changed_by_name",
	).
		From("assignment_history h").
		LeftJoin("users p ON p.id = h.previous_owner").
		Join("users n ON n.id = h.new_owner").
		Join("users c ON c.id = h.changed_by").
		Where(sq.Eq{"h.record_id": recordID}).
		OrderBy("h.changed_at DESC", "h.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var history []domain.HistoryDetail
	if err := ar.db.SelectContext(ctx, &history, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return history, nil
}

func (ar *AssignmentRepository) ListAssignedOrOwned(ctx context.Context, userID int) ([]domain.AssignedRecord, error) {
	const op = "internal.repository.postgres.assignment.ListAssignedOrOwned"

	columns := make([]string, 0, len(recordColumns)+2)
	for _, c := range recordColumns {
		columns = append(columns, "r."+c)
	}
	columns = append(columns, "a.due_date", "a.assigned_at")

	query, args, err := ar.sq.Select(columns...).
		From("knowledge_errors r").
		LeftJoin("record_assignments a ON a.record_id = r.id AND a.status = 'active'").
		Where(sq.Or{sq.Eq{"r.owner_id": userID}, sq.Eq{"a.assigned_to": userID}}).
		OrderBy("r.last_updated DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var records []domain.AssignedRecord
	if err := ar.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return records, nil
}
