package record

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSession(t *testing.T) (*Session, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSession(sqlx.NewDb(db, "sqlmock")), mock
}

func expectNextID(mock sqlmock.Sqlmock, table string, id int64) {
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE sequence SET last_value = last_value + 1 WHERE name = ?")).
		WithArgs(table).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT last_value FROM sequence WHERE name = ?")).
		WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(id))
}

func TestSaveInsertsNewRecord(t *testing.T) {
	sess, mock := newMockSession(t)
	r := New(ownerSchema())
	require.NoError(t, r.Set("login", "jane"))

	mock.ExpectBegin()
	expectNextID(mock, "owner", 5)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO owner (id, login) VALUES (?, ?)")).
		WithArgs(int64(5), "jane").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	n, err := r.Save(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, r.IsNew())
	assert.False(t, r.IsModified(), "dirty set must be empty after save")
	assert.Equal(t, int64(5), r.ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUpdatesDirtyColumnsOnly(t *testing.T) {
	sess, mock := newMockSession(t)
	r := New(showSchema(ownerSchema()))
	_, err := r.Hydrate([]any{int64(7), "Old", "A", int64(0), nil, int64(0), nil}, 0)
	require.NoError(t, err)
	require.NoError(t, r.Set("title", "New Title"))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE show SET title = ? WHERE id = ?")).
		WithArgs("New Title", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := r.Save(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTwiceSecondIsNoWrite(t *testing.T) {
	sess, mock := newMockSession(t)
	r := New(ownerSchema())
	require.NoError(t, r.Set("login", "jane"))

	mock.ExpectBegin()
	expectNextID(mock, "owner", 5)
	mock.ExpectExec("INSERT INTO owner").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	_, err := r.Save(context.Background(), sess)
	require.NoError(t, err)

	// Second save with no intervening mutation: the unit of work opens
	// and commits with zero statements.
	mock.ExpectBegin()
	mock.ExpectCommit()

	n, err := r.Save(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCascadesNewRelatedFirst(t *testing.T) {
	sess, mock := newMockSession(t)
	owner := ownerSchema()
	show := showSchema(owner)

	o := New(owner)
	require.NoError(t, o.Set("login", "jane"))
	s := New(show)
	require.NoError(t, s.Set("title", "Morning Show"))
	require.NoError(t, s.SetRelated("owner", o))

	mock.ExpectBegin()
	expectNextID(mock, "owner", 2)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO owner (id, login) VALUES (?, ?)")).
		WithArgs(int64(2), "jane").
		WillReturnResult(sqlmock.NewResult(2, 1))
	expectNextID(mock, "show", 7)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO show (id, title, owner) VALUES (?, ?, ?)")).
		WithArgs(int64(7), "Morning Show", int64(2)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	n, err := s.Save(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "affected count includes the cascaded save")
	assert.Equal(t, int64(2), s.GetInt("owner"), "FK re-linked from the assigned key")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRollsBackOnFailure(t *testing.T) {
	sess, mock := newMockSession(t)
	r := New(ownerSchema())
	require.NoError(t, r.Set("login", "jane"))

	boom := errors.New("disk full")
	mock.ExpectBegin()
	expectNextID(mock, "owner", 5)
	mock.ExpectExec("INSERT INTO owner").WillReturnError(boom)
	mock.ExpectRollback()

	_, err := r.Save(context.Background(), sess)
	require.Error(t, err)
	var pe *PersistenceError
	assert.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByPrimaryKey(t *testing.T) {
	sess, mock := newMockSession(t)
	r := New(ownerSchema())
	_, err := r.Hydrate([]any{int64(5), "jane"}, 0)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM owner WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, r.Delete(context.Background(), sess))
	assert.True(t, r.IsDeleted())

	// Deleted records are inert.
	err = r.Delete(context.Background(), sess)
	assert.ErrorIs(t, err, ErrDeleted)
	_, err = r.Save(context.Background(), sess)
	assert.ErrorIs(t, err, ErrDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUnsavedFails(t *testing.T) {
	sess, _ := newMockSession(t)
	r := New(ownerSchema())
	err := r.Delete(context.Background(), sess)
	assert.ErrorIs(t, err, ErrUnsaved)
}

func TestReloadRehydratesInPlace(t *testing.T) {
	sess, mock := newMockSession(t)
	r := New(ownerSchema())
	_, err := r.Hydrate([]any{int64(5), "stale"}, 0)
	require.NoError(t, err)
	require.NoError(t, r.Set("login", "dirty-edit"))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, login FROM owner WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "login"}).AddRow(int64(5), "fresh"))

	require.NoError(t, r.Reload(context.Background(), sess, false))
	assert.Equal(t, "fresh", r.GetString("login"))
	assert.False(t, r.IsModified())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReloadNewRecordFails(t *testing.T) {
	sess, _ := newMockSession(t)
	r := New(ownerSchema())
	err := r.Reload(context.Background(), sess, false)
	assert.ErrorIs(t, err, ErrUnsaved)
}

func TestFindByIDNotFound(t *testing.T) {
	sess, mock := newMockSession(t)
	mock.ExpectQuery("SELECT id, login FROM owner").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "login"}))

	_, err := FindByID(context.Background(), sess, ownerSchema(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelatedLazyLoadsAndCaches(t *testing.T) {
	sess, mock := newMockSession(t)
	owner := ownerSchema()
	s := New(showSchema(owner))
	_, err := s.Hydrate([]any{int64(7), "Morning Show", nil, int64(0), nil, int64(0), int64(2)}, 0)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, login FROM owner WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "login"}).AddRow(int64(2), "jane"))

	rel, err := s.Related(context.Background(), sess, "owner")
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, "jane", rel.GetString("login"))

	// Second call answers from cache; no further query expected.
	again, err := s.Related(context.Background(), sess, "owner")
	require.NoError(t, err)
	assert.Same(t, rel, again)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextIDCreatesSequenceRow(t *testing.T) {
	sess, mock := newMockSession(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE sequence SET last_value = last_value + 1 WHERE name = ?")).
		WithArgs("podcast").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO sequence (name, last_value) VALUES (?, 1)")).
		WithArgs("podcast").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT last_value FROM sequence WHERE name = ?")).
		WithArgs("podcast").
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(1)))
	mock.ExpectCommit()

	err := sess.Transact(context.Background(), func(tx *sqlx.Tx) error {
		id, err := NextID(context.Background(), tx, "podcast")
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), id)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
