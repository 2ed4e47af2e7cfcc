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
    "golang.org/x/crypto/bcrypt"
)

func newUserMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewUserRepo(db), mock
}

func TestUserCreateHashesPassword(t *testing.T) {
    repo, mock := newUserMock(t)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
        WithArgs("Alice", "alice", sqlmock.AnyArg(), 1, 2).
        WillReturnResult(sqlmock.NewResult(4, 1))

    id, err := repo.Create(context.Background(), "Alice", " alice ", "secret", 1, 2, bcrypt.MinCost)
    require.NoError(t, err)
    assert.Equal(t, uint64(4), id)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateUsername(t *testing.T) {
    repo, mock := newUserMock(t)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
        WillReturnError(errors.New("Error 1062: Duplicate entry 'alice' for key 'users.username'"))

    _, err := repo.Create(context.Background(), "Alice", "alice", "secret", 1, 2, bcrypt.MinCost)
    assert.ErrorIs(t, err, ErrUsernameExists)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByUsernameNotFound(t *testing.T) {
    repo, mock := newUserMock(t)

    mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
        WithArgs("ghost").
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "name", "username", "password_hash", "is_admin",
            "mesa_quota", "cadeira_extra_quota", "created_at"}))

    _, err := repo.GetByUsername(context.Background(), "ghost")
    assert.ErrorIs(t, err, ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByUsernameNullName(t *testing.T) {
    repo, mock := newUserMock(t)

    mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
        WithArgs("alice").
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "name", "username", "password_hash", "is_admin",
            "mesa_quota", "cadeira_extra_quota", "created_at"}).
            AddRow(4, nil, "alice", "$2a$04$hash", false, 1, 2, time.Now()))

    u, err := repo.GetByUsername(context.Background(), "alice")
    require.NoError(t, err)
    assert.Equal(t, "", u.Name)
    assert.Equal(t, 1, u.MesaQuota)
    assert.Equal(t, 2, u.CadeiraExtraQuota)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateMissingUser(t *testing.T) {
    repo, mock := newUserMock(t)

    mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE id = ?")).
        WithArgs(uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"1"}))

    err := repo.Update(context.Background(), 9, "x", "x", 0, 0, "")
    assert.ErrorIs(t, err, ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDeleteNeverRemovesAdmins(t *testing.T) {
    repo, mock := newUserMock(t)

    // The admin row does not match "is_admin = 0", so zero rows come back.
    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ? AND is_admin = 0")).
        WithArgs(uint64(1)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    err := repo.Delete(context.Background(), 1)
    assert.ErrorIs(t, err, ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
