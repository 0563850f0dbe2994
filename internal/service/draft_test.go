package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/domain"
	"github.com/mkosyakov/kedb-service/internal/identifier"
)

func TestDraftServiceImpl_Save(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	prefix := identifier.FiscalYearPrefix(time.Now().UTC())
	wantDraftID := identifier.NextDraftID(prefix, 4)

	transactorMock := new(TransactorMock)
	draftsMock := new(DraftRepositoryMock)

	_, mockedTx, smock := newMockDBAndTx(t)
	smock.ExpectCommit()

	transactorMock.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(mockedTx, nil).Once()
	draftsMock.On("MaxDraftSequence", mock.Anything, mockedTx, prefix).Return(4, nil).Once()
	draftsMock.On("Insert", mock.Anything, mockedTx, mock.MatchedBy(func(d *domain.Draft) bool {
		return d.DraftID == wantDraftID && d.UserID == 3 && d.Title == "half-filled form"
	})).Return(9, nil).Once()

	service := NewDraftService(transactorMock, logger, draftsMock, nil, nil, nil)
	result, err := service.Save(ctx, DraftInput{Title: "half-filled form"}, 3)

	assert.NoError(t, err)
	assert.Equal(t, &SaveDraftResult{ID: 9, DraftID: wantDraftID}, result)

	transactorMock.AssertExpectations(t)
	draftsMock.AssertExpectations(t)
}

func TestDraftServiceImpl_Submit(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	prefix := identifier.FiscalYearPrefix(time.Now().UTC())
	wantErrorID := identifier.NextErrorID(prefix, 7)

	dateIdentified := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)

	draft := &domain.Draft{
		ID:             9,
		DraftID:        "DRAFT-" + prefix + "-5",
		UserID:         3,
		Title:          "Payment gateway timeout",
		Description:    "Gateway drops connections under load",
		DateIdentified: &dateIdentified,
	}

	testCases := []struct {
		name            string
		setupMocks      func(transactor *TransactorMock, drafts *DraftRepositoryMock, records *RecordRepositoryMock, users *UserRepositoryMock, asgCmd *AssignmentCommandRepositoryMock)
		expectedErrorIs error
		expectedResult  *CreateRecordResult
	}{
		{
			name: "Success - record created, draft deleted, self-assignment",
			setupMocks: func(transactor *TransactorMock, drafts *DraftRepositoryMock, records *RecordRepositoryMock, users *UserRepositoryMock, asgCmd *AssignmentCommandRepositoryMock) {
				_, mockedTx, smock := newMockDBAndTx(t)
				smock.ExpectCommit()

				users.On("GetByID", ctx, 3).Return(testActor, nil).Once()
				transactor.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(mockedTx, nil).Once()
				drafts.On("GetByID", mock.Anything, mockedTx, 9, 3).Return(draft, nil).Once()
				records.On("MaxErrorSequence", mock.Anything, mockedTx, prefix).Return(7, nil).Once()
				records.On("Create", mock.Anything, mockedTx, mock.MatchedBy(func(rec *domain.Record) bool {
					return rec.ErrorID == wantErrorID && rec.Title == draft.Title &&
						rec.Status == domain.RecordStatusOpen &&
						rec.OwnerID != nil && *rec.OwnerID == 3 &&
						rec.DateIdentified.Equal(dateIdentified)
				})).Return(70, nil).Once()
				asgCmd.On("Insert", mock.Anything, mockedTx, mock.MatchedBy(func(a *domain.Assignment) bool {
					return a.RecordID == 70 && a.AssignedTo == 3 && a.AssignedBy == 3
				})).Return(30, nil).Once()
				asgCmd.On("InsertHistory", mock.Anything, mockedTx, mock.MatchedBy(func(e *domain.HistoryEntry) bool {
					return e.RecordID == 70 && e.NewOwner == 3 && e.PreviousOwner == nil
				})).Return(300, nil).Once()
				drafts.On("Delete", mock.Anything, mockedTx, 9, 3).Return(nil).Once()
			},
			expectedResult: &CreateRecordResult{ID: 70, ErrorID: wantErrorID},
		},
		{
			name: "Failure - draft not found for user",
			setupMocks: func(transactor *TransactorMock, drafts *DraftRepositoryMock, records *RecordRepositoryMock, users *UserRepositoryMock, asgCmd *AssignmentCommandRepositoryMock) {
				_, mockedTx, smock := newMockDBAndTx(t)
				smock.ExpectRollback()

				users.On("GetByID", ctx, 3).Return(testActor, nil).Once()
				transactor.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(mockedTx, nil).Once()
				drafts.On("GetByID", mock.Anything, mockedTx, 9, 3).Return(nil, &apperrors.DraftNotFoundError{DraftID: 9}).Once()
			},
			expectedErrorIs: apperrors.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			transactorMock := new(TransactorMock)
			draftsMock := new(DraftRepositoryMock)
			recordsMock := new(RecordRepositoryMock)
			usersMock := new(UserRepositoryMock)
			asgCmdMock := new(AssignmentCommandRepositoryMock)
			tc.setupMocks(transactorMock, draftsMock, recordsMock, usersMock, asgCmdMock)

			service := NewDraftService(transactorMock, logger, draftsMock, recordsMock, asgCmdMock, usersMock)
			result, err := service.Submit(ctx, 9, 3)

			if tc.expectedErrorIs != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectedErrorIs))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedResult, result)
			}

			transactorMock.AssertExpectations(t)
			draftsMock.AssertExpectations(t)
			recordsMock.AssertExpectations(t)
			usersMock.AssertExpectations(t)
			asgCmdMock.AssertExpectations(t)
		})
	}
}
