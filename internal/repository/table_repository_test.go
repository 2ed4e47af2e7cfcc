package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func newTableMock(t *testing.T) (*TableRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewTableRepo(db), mock
}

func TestTableCreateTrimsName(t *testing.T) {
    repo, mock := newTableMock(t)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tables (name, capacity) VALUES (?, ?)")).
        WithArgs("VIP", 12).
        WillReturnResult(sqlmock.NewResult(3, 1))

    id, err := repo.Create(context.Background(), "  VIP  ", 12)
    require.NoError(t, err)
    assert.Equal(t, uint64(3), id)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableCreateDuplicateName(t *testing.T) {
    repo, mock := newTableMock(t)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tables")).
        WillReturnError(errors.New("Error 1062: Duplicate entry 'VIP' for key 'tables.name'"))

    _, err := repo.Create(context.Background(), "VIP", 12)
    assert.ErrorIs(t, err, ErrTableExists)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableDeleteBlockedWhileReserved(t *testing.T) {
    repo, mock := newTableMock(t)

    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations WHERE table_id = ?")).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

    err := repo.Delete(context.Background(), 3)
    assert.ErrorIs(t, err, ErrConflict)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableDeleteFree(t *testing.T) {
    repo, mock := newTableMock(t)

    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations WHERE table_id = ?")).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tables WHERE id = ?")).
        WithArgs(uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    require.NoError(t, repo.Delete(context.Background(), 3))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableDeleteMissing(t *testing.T) {
    repo, mock := newTableMock(t)

    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
        WithArgs(uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tables")).
        WithArgs(uint64(9)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    err := repo.Delete(context.Background(), 9)
    assert.ErrorIs(t, err, ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
