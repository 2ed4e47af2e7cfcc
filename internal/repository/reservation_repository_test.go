package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewReservationRepo(db), mock
}

func TestReservationCreate(t *testing.T) {
    repo, mock := newMockDB(t)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations (user_id, table_id) VALUES (?, ?)")).
        WithArgs(uint64(1), uint64(10)).
        WillReturnResult(sqlmock.NewResult(7, 1))

    id, err := repo.Create(context.Background(), 1, 10)
    require.NoError(t, err)
    assert.Equal(t, uint64(7), id)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateDuplicateTable(t *testing.T) {
    repo, mock := newMockDB(t)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
        WillReturnError(errors.New("Error 1062: Duplicate entry '10' for key 'reservations.uq_reservations_table'"))

    _, err := repo.Create(context.Background(), 1, 10)
    assert.ErrorIs(t, err, ErrTableReserved)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationDeleteScopedToOwner(t *testing.T) {
    repo, mock := newMockDB(t)

    // The delete carries both id and owner; zero rows means the
    // reservation is missing or belongs to someone else.
    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reservations WHERE id = ? AND user_id = ?")).
        WithArgs(uint64(7), uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    err := repo.Delete(context.Background(), 7, 2)
    assert.ErrorIs(t, err, ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationListByUser(t *testing.T) {
    repo, mock := newMockDB(t)

    now := time.Now()
    mock.ExpectQuery("FROM reservations r").
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows(
            []string{"id", "user_id", "table_id", "name", "capacity", "reserved_at"}).
            AddRow(7, 1, 10, "1", 8, now))

    list, err := repo.ListByUser(context.Background(), 1)
    require.NoError(t, err)
    require.Len(t, list, 1)
    assert.Equal(t, "1", list[0].TableNumber)
    assert.Equal(t, 8, list[0].Capacity)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalChairsSumsQuotaAndTables(t *testing.T) {
    repo, mock := newMockDB(t)

    mock.ExpectQuery("UNION ALL").
        WithArgs(uint64(1), uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(10))

    total, err := repo.TotalChairs(context.Background(), 1)
    require.NoError(t, err)
    assert.Equal(t, 10, total)
    assert.NoError(t, mock.ExpectationsWereMet())
}
