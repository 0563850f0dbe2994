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

var userColumns = []string{
	"id", "employee_id", "username", "full_name", "email", "password_hash",
	"role", "department", "last_login_at", "created_at",
}

type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewUserRepository(db *sqlx.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (ur *UserRepository) Create(ctx context.Context, u *domain.User) (int, error) {
	const op = "internal.repository.postgres.user.Create"

	query, args, err := ur.sq.Insert("users").
		Columns("employee_id", "username", "full_name", "email", "password_hash", "role", "department").
		Values(u.EmployeeID, u.Username, u.FullName, u.Email, u.PasswordHash, u.Role, u.Department).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var id int
	if err := ur.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%s: user '%s' already exists: %w", op, u.Username, err)
		}

		return 0, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return id, nil
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	const op = "internal.repository.postgres.user.GetByID"

	query, args, err := ur.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := ur.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, &apperrors.UserNotFoundError{UserID: id})
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return &user, nil
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const op = "internal.repository.postgres.user.GetByUsername"

	query, args, err := ur.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := ur.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with username '%s'", op, apperrors.ErrNotFound, username)
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return &user, nil
}

func (ur *UserRepository) GetByFullName(ctx context.Context, fullName string) (*domain.User, error) {
	const op = "internal.repository.postgres.user.GetByFullName"

	query, args, err := ur.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"full_name": fullName}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := ur.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with name '%s'", op, apperrors.ErrNotFound, fullName)
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return &user, nil
}

func (ur *UserRepository) UpdateLastLogin(ctx context.Context, id int) error {
	const op = "internal.repository.postgres.user.UpdateLastLogin"

	query, args, err := ur.sq.Update("users").
		Set("last_login_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := ur.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, &apperrors.UserNotFoundError{UserID: id})
	}

	return nil
}
