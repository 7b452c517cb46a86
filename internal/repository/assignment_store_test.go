package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/expoflow/exhibition-backend/internal/assignment"
)

func newMockedStore(t *testing.T) (*AssignmentStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := NewAssignmentStore(db,
		NewEventRepo(db), NewStandRepo(db), NewRequestRepo(db),
		NewCompanyRepo(db), NewConflictRepo(db), NewHistoryRepo(db))
	return store, mock
}

func testAssignment(requestID, eventID, standID uint64) assignment.Assignment {
	return assignment.Assignment{
		Request: assignment.Request{ID: requestID, EventID: eventID},
		Stand:   assignment.Stand{ID: standID},
	}
}

// A lost reservation race must not leave the request row marked
// assigned inside the still-open transaction: the savepoint rolls
// the request update back together with the failed reserve, so the
// later commit persists nothing for the skipped item.
func TestRecordAssignmentRevertsRequestWhenStandTaken(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT item_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE assignment_requests").
		WithArgs(uint64(10), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1)) // request row updated
	mock.ExpectExec("UPDATE stand_event_availability").
		WithArgs(uint64(10), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // concurrent run won the stand
	mock.ExpectExec("ROLLBACK TO SAVEPOINT item_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	uow, err := store.Begin(context.Background())
	require.NoError(t, err)

	err = uow.RecordAssignment(context.Background(), testAssignment(7, 1, 10))
	require.ErrorIs(t, err, ErrStandTaken)

	require.NoError(t, uow.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

// Successful items release their savepoint, and a failed item does
// not disturb the numbering or outcome of the items after it.
func TestRecordAssignmentReleasesSavepointAndContinues(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectBegin()
	// item 1 loses the stand
	mock.ExpectExec("SAVEPOINT item_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE assignment_requests").
		WithArgs(uint64(10), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE stand_event_availability").
		WithArgs(uint64(10), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT item_1").WillReturnResult(sqlmock.NewResult(0, 0))
	// item 2 lands both writes
	mock.ExpectExec("SAVEPOINT item_2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE assignment_requests").
		WithArgs(uint64(11), uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE stand_event_availability").
		WithArgs(uint64(11), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("RELEASE SAVEPOINT item_2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	uow, err := store.Begin(context.Background())
	require.NoError(t, err)

	err = uow.RecordAssignment(context.Background(), testAssignment(7, 1, 10))
	require.ErrorIs(t, err, ErrStandTaken)

	err = uow.RecordAssignment(context.Background(), testAssignment(8, 1, 11))
	require.NoError(t, err)

	require.NoError(t, uow.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

// An already-assigned request fails the first write of the pair;
// the savepoint still reverts cleanly.
func TestRecordAssignmentRevertsWhenRequestAlreadyAssigned(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT item_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE assignment_requests").
		WithArgs(uint64(10), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // another writer assigned it first
	mock.ExpectExec("ROLLBACK TO SAVEPOINT item_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	uow, err := store.Begin(context.Background())
	require.NoError(t, err)

	err = uow.RecordAssignment(context.Background(), testAssignment(7, 1, 10))
	require.ErrorIs(t, err, ErrRequestAssigned)

	require.NoError(t, uow.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}
