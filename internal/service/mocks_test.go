package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/mkosyakov/kedb-service/internal/domain"
	"github.com/mkosyakov/kedb-service/internal/notification"
	"github.com/mkosyakov/kedb-service/internal/repository"
)

type TransactorMock struct {
	mock.Mock
}

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx

	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		tx = args.Get(0).(*sqlx.Tx)
	}

	return tx, args.Error(1)
}

type RecordRepositoryMock struct {
	mock.Mock
}

var _ repository.RecordRepository = (*RecordRepositoryMock)(nil)

func (m *RecordRepositoryMock) Create(ctx context.Context, tx *sqlx.Tx, rec *domain.Record) (int, error) {
	args := m.Called(ctx, tx, rec)
	return args.Int(0), args.Error(1)
}

func (m *RecordRepositoryMock) GetByID(ctx context.Context, id int) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *RecordRepositoryMock) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*domain.Record, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *RecordRepositoryMock) List(ctx context.Context) ([]domain.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *RecordRepositoryMock) Update(ctx context.Context, id int, rec *domain.Record) error {
	args := m.Called(ctx, id, rec)
	return args.Error(0)
}

func (m *RecordRepositoryMock) UpdateStatus(ctx context.Context, id int, status domain.RecordStatus, resolution *string) error {
	args := m.Called(ctx, id, status, resolution)
	return args.Error(0)
}

func (m *RecordRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RecordRepositoryMock) TouchLastUpdated(ctx context.Context, tx *sqlx.Tx, id int) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *RecordRepositoryMock) MaxErrorSequence(ctx context.Context, ext sqlx.ExtContext, prefix string) (int, error) {
	args := m.Called(ctx, ext, prefix)
	return args.Int(0), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) Create(ctx context.Context, u *domain.User) (int, error) {
	args := m.Called(ctx, u)
	return args.Int(0), args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id int) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetByFullName(ctx context.Context, fullName string) (*domain.User, error) {
	args := m.Called(ctx, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) UpdateLastLogin(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AssignmentCommandRepositoryMock struct {
	mock.Mock
}

var _ repository.AssignmentCommandRepository = (*AssignmentCommandRepositoryMock)(nil)

func (m *AssignmentCommandRepositoryMock) GetActiveForUpdate(ctx context.Context, tx *sqlx.Tx, recordID int) (*domain.Assignment, error) {
	args := m.Called(ctx, tx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *AssignmentCommandRepositoryMock) RetireActive(ctx context.Context, tx *sqlx.Tx, recordID int, to domain.AssignmentStatus) error {
	args := m.Called(ctx, tx, recordID, to)
	return args.Error(0)
}

func (m *AssignmentCommandRepositoryMock) UpdateStatusByID(ctx context.Context, tx *sqlx.Tx, assignmentID int, to domain.AssignmentStatus) error {
	args := m.Called(ctx, tx, assignmentID, to)
	return args.Error(0)
}

func (m *AssignmentCommandRepositoryMock) Insert(ctx context.Context, tx *sqlx.Tx, a *domain.Assignment) (int, error) {
	args := m.Called(ctx, tx, a)
	return args.Int(0), args.Error(1)
}

func (m *AssignmentCommandRepositoryMock) LatestPreviousHolder(ctx context.Context, tx *sqlx.Tx, recordID, excludeUserID int) (*domain.Assignment, error) {
	args := m.Called(ctx, tx, recordID, excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *AssignmentCommandRepositoryMock) InsertHistory(ctx context.Context, tx *sqlx.Tx, e *domain.HistoryEntry) (int, error) {
	args := m.Called(ctx, tx, e)
	return args.Int(0), args.Error(1)
}

type AssignmentQueryRepositoryMock struct {
	mock.Mock
}

var _ repository.AssignmentQueryRepository = (*AssignmentQueryRepositoryMock)(nil)

func (m *AssignmentQueryRepositoryMock) GetActiveDetail(ctx context.Context, recordID int) (*domain.AssignmentDetail, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.AssignmentDetail), args.Error(1)
}

func (m *AssignmentQueryRepositoryMock) ListHistory(ctx context.Context, recordID int) ([]domain.HistoryDetail, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.HistoryDetail), args.Error(1)
}

func (m *AssignmentQueryRepositoryMock) ListAssignedOrOwned(ctx context.Context, userID int) ([]domain.AssignedRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.AssignedRecord), args.Error(1)
}

type DraftRepositoryMock struct {
	mock.Mock
}

var _ repository.DraftRepository = (*DraftRepositoryMock)(nil)

func (m *DraftRepositoryMock) Insert(ctx context.Context, ext sqlx.ExtContext, d *domain.Draft) (int, error) {
	args := m.Called(ctx, ext, d)
	return args.Int(0), args.Error(1)
}

func (m *DraftRepositoryMock) ListByUser(ctx context.Context, userID int) ([]domain.Draft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Draft), args.Error(1)
}

func (m *DraftRepositoryMock) GetByID(ctx context.Context, ext sqlx.ExtContext, id, userID int) (*domain.Draft, error) {
	args := m.Called(ctx, ext, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *DraftRepositoryMock) Update(ctx context.Context, id, userID int, d *domain.Draft) error {
	args := m.Called(ctx, id, userID, d)
	return args.Error(0)
}

func (m *DraftRepositoryMock) Delete(ctx context.Context, ext sqlx.ExtContext, id, userID int) error {
	args := m.Called(ctx, ext, id, userID)
	return args.Error(0)
}

func (m *DraftRepositoryMock) MaxDraftSequence(ctx context.Context, ext sqlx.ExtContext, prefix string) (int, error) {
	args := m.Called(ctx, ext, prefix)
	return args.Int(0), args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

var _ notification.Notifier = (*NotifierMock)(nil)

func (m *NotifierMock) SendAssignmentNotification(ctx context.Context, n notification.AssignmentNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
