package service

import (
    "context"
    "errors"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/event-seating/internal/repository"
)

func newTableMapFixture(t *testing.T) (*TableMapService, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })

    svc := NewTableMapService(db,
        repository.NewEventConfigRepo(db),
        repository.NewTableRepo(db),
        repository.NewReservationRepo(db))
    return svc, mock
}

const emptyDoc = `{"version":1,"markers":[],"markerSize":24}`

func expectDocForUpdate(mock sqlmock.Sqlmock, doc string) {
    mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM event_config WHERE id = ? FOR UPDATE")).
        WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(doc))
}

func TestPlaceMarkerCreatesTableAndMarkerTogether(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, emptyDoc)
    mock.ExpectQuery("CAST\\(COALESCE\\(MAX\\(CAST\\(name AS UNSIGNED\\)\\), 0\\) \\+ 1 AS CHAR\\)").
        WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow("1"))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tables (name, capacity) VALUES (?, ?)")).
        WithArgs("1", 8).
        WillReturnResult(sqlmock.NewResult(5, 1))
    mock.ExpectExec(regexp.QuoteMeta("UPDATE event_config SET value = ? WHERE id = ?")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    marker, err := svc.PlaceMarker(context.Background(), 25.5, 40, 8)
    require.NoError(t, err)
    assert.Equal(t, uint64(1), marker.ID)
    assert.Equal(t, uint64(5), marker.TableID)
    assert.Equal(t, "1", marker.TableNumber)
    assert.Equal(t, 8, marker.Chairs)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceMarkerFloorsChairsAtOne(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, emptyDoc)
    mock.ExpectQuery("CAST").
        WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow("1"))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tables")).
        WithArgs("1", 1).
        WillReturnResult(sqlmock.NewResult(9, 1))
    mock.ExpectExec(regexp.QuoteMeta("UPDATE event_config")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    marker, err := svc.PlaceMarker(context.Background(), 0, 0, 0)
    require.NoError(t, err)
    assert.Equal(t, 1, marker.Chairs)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceMarkerRetriesOnNameCollision(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    // First attempt loses the insert to a concurrent writer.
    mock.ExpectBegin()
    expectDocForUpdate(mock, emptyDoc)
    mock.ExpectQuery("CAST").
        WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow("3"))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tables")).
        WillReturnError(errors.New("Error 1062: Duplicate entry '3' for key 'tables.name'"))
    mock.ExpectRollback()

    // Second attempt sees the new maximum and succeeds.
    mock.ExpectBegin()
    expectDocForUpdate(mock, emptyDoc)
    mock.ExpectQuery("CAST").
        WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow("4"))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tables")).
        WithArgs("4", 6).
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectExec(regexp.QuoteMeta("UPDATE event_config")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    marker, err := svc.PlaceMarker(context.Background(), 1, 2, 6)
    require.NoError(t, err)
    assert.Equal(t, "4", marker.TableNumber)
    assert.NoError(t, mock.ExpectationsWereMet())
}

const oneMarkerDoc = `{"version":1,"markers":[{"id":1,"x":10,"y":20,"chairs":8,"table_id":5,"table_number":"1"}],"markerSize":24}`

func TestUpdateMarkerChairsPropagateToTable(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, oneMarkerDoc)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE tables SET capacity = ? WHERE id = ?")).
        WithArgs(10, uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta("UPDATE event_config")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    chairs := 10
    marker, err := svc.UpdateMarker(context.Background(), 1, nil, nil, &chairs)
    require.NoError(t, err)
    assert.Equal(t, 10, marker.Chairs)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMarkerMoveOnlySkipsTableWrite(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, oneMarkerDoc)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE event_config")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    x, y := 55.0, 66.0
    marker, err := svc.UpdateMarker(context.Background(), 1, &x, &y, nil)
    require.NoError(t, err)
    assert.Equal(t, 55.0, marker.X)
    assert.Equal(t, 66.0, marker.Y)
    assert.Equal(t, 8, marker.Chairs)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMarkerUnknownID(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, emptyDoc)
    mock.ExpectRollback()

    _, err := svc.UpdateMarker(context.Background(), 42, nil, nil, nil)
    assert.ErrorIs(t, err, repository.ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMarkerBlockedWhileTableReserved(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, oneMarkerDoc)
    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations WHERE table_id = ?")).
        WithArgs(uint64(5)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
    mock.ExpectRollback()

    err := svc.RemoveMarker(context.Background(), 1)
    assert.ErrorIs(t, err, repository.ErrConflict)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMarkerDeletesTableAndMarker(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, oneMarkerDoc)
    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations WHERE table_id = ?")).
        WithArgs(uint64(5)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tables WHERE id = ?")).
        WithArgs(uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta("UPDATE event_config")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    require.NoError(t, svc.RemoveMarker(context.Background(), 1))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMarkerSizeIgnoresOutOfRange(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, emptyDoc)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE event_config")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    size, err := svc.SetMarkerSize(context.Background(), 100)
    require.NoError(t, err)
    assert.Equal(t, 24, size)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMarkerSizeAcceptsInRange(t *testing.T) {
    svc, mock := newTableMapFixture(t)

    mock.ExpectBegin()
    expectDocForUpdate(mock, emptyDoc)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE event_config")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    size, err := svc.SetMarkerSize(context.Background(), 32)
    require.NoError(t, err)
    assert.Equal(t, 32, size)
    assert.NoError(t, mock.ExpectationsWereMet())
}
