package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, nil), mock
}

func TestLoadPrimesSet(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT est_id FROM user_favorites").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"est_id"}).AddRow(7).AddRow(12))

	ids := s.Load(context.Background(), "user-1")
	assert.Equal(t, map[int64]struct{}{7: {}, 12: {}}, ids)
	assert.True(t, s.IsFavorite("user-1", 7))
	assert.Equal(t, 2, s.Count("user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFailsOpenToEmptySet(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT est_id FROM user_favorites").
		WithArgs("user-1").
		WillReturnError(errors.New("connection refused"))

	ids := s.Load(context.Background(), "user-1")
	assert.Empty(t, ids)
	assert.Equal(t, 0, s.Count("user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureLoadsOnceThenServesCache(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT est_id FROM user_favorites").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"est_id"}).AddRow(3))

	first := s.Ensure(context.Background(), "user-1")
	second := s.Ensure(context.Background(), "user-1")
	assert.Equal(t, first, second)

	// Mutating the returned copy must not touch the cached set.
	delete(second, 3)
	assert.True(t, s.IsFavorite("user-1", 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUpdatesSetAfterWrite(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO user_favorites").
		WithArgs("user-1", int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Add(context.Background(), "user-1", 5))
	assert.True(t, s.IsFavorite("user-1", 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDuplicateIsIdempotent(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO user_favorites").
		WithArgs("user-1", int64(5)).
		WillReturnError(&pq.Error{Code: "23505"})

	require.NoError(t, s.Add(context.Background(), "user-1", 5))
	assert.True(t, s.IsFavorite("user-1", 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFailureLeavesSetUnchanged(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO user_favorites").
		WithArgs("user-1", int64(5)).
		WillReturnError(errors.New("write timeout"))

	err := s.Add(context.Background(), "user-1", 5)
	require.Error(t, err)
	assert.False(t, s.IsFavorite("user-1", 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemove(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO user_favorites").
		WithArgs("user-1", int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("user-1", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Add(context.Background(), "user-1", 5))
	require.NoError(t, s.Remove(context.Background(), "user-1", 5))
	assert.False(t, s.IsFavorite("user-1", 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleRoundTrip(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO user_favorites").
		WithArgs("user-1", int64(9)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("user-1", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	on, err := s.Toggle(context.Background(), "user-1", 9)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsFavorite("user-1", 9))

	off, err := s.Toggle(context.Background(), "user-1", 9)
	require.NoError(t, err)
	assert.False(t, off)
	assert.False(t, s.IsFavorite("user-1", 9))
	require.NoError(t, mock.ExpectationsWereMet())
}
