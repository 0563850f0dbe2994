package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkosyakov/kedb-service/internal/domain"
	"github.com/mkosyakov/kedb-service/internal/service"
)

type AuthServiceMock struct {
	mock.Mock
}

var _ service.AuthService = (*AuthServiceMock)(nil)

func (m *AuthServiceMock) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.LoginResult), args.Error(1)
}

type RecordServiceMock struct {
	mock.Mock
}

var _ service.RecordService = (*RecordServiceMock)(nil)

func (m *RecordServiceMock) Create(ctx context.Context, in service.RecordInput, actingUserID int) (*service.CreateRecordResult, error) {
	args := m.Called(ctx, in, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.CreateRecordResult), args.Error(1)
}

func (m *RecordServiceMock) List(ctx context.Context) ([]domain.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *RecordServiceMock) GetByID(ctx context.Context, id int) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *RecordServiceMock) Update(ctx context.Context, id int, in service.RecordInput) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *RecordServiceMock) UpdateStatus(ctx context.Context, id int, status string, resolution string) error {
	args := m.Called(ctx, id, status, resolution)
	return args.Error(0)
}

func (m *RecordServiceMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AssignmentServiceMock struct {
	mock.Mock
}

var _ service.AssignmentService = (*AssignmentServiceMock)(nil)

func (m *AssignmentServiceMock) Assign(ctx context.Context, in service.AssignInput) (*service.AssignResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.AssignResult), args.Error(1)
}

func (m *AssignmentServiceMock) Revert(ctx context.Context, in service.RevertInput) (*service.AssignResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.AssignResult), args.Error(1)
}

func (m *AssignmentServiceMock) GetHistory(ctx context.Context, recordID int) (*service.HistoryResult, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.HistoryResult), args.Error(1)
}

func (m *AssignmentServiceMock) ListAssigned(ctx context.Context, userID int) ([]service.AssignedRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]service.AssignedRecord), args.Error(1)
}

type DraftServiceMock struct {
	mock.Mock
}

var _ service.DraftService = (*DraftServiceMock)(nil)

func (m *DraftServiceMock) Save(ctx context.Context, in service.DraftInput, userID int) (*service.SaveDraftResult, error) {
	args := m.Called(ctx, in, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.SaveDraftResult), args.Error(1)
}

func (m *DraftServiceMock) List(ctx context.Context, userID int) ([]domain.Draft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Draft), args.Error(1)
}

func (m *DraftServiceMock) Update(ctx context.Context, id, userID int, in service.DraftInput) error {
	args := m.Called(ctx, id, userID, in)
	return args.Error(0)
}

func (m *DraftServiceMock) Delete(ctx context.Context, id, userID int) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *DraftServiceMock) Submit(ctx context.Context, id, userID int) (*service.CreateRecordResult, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.CreateRecordResult), args.Error(1)
}
