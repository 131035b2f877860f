package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibe-gaming/signup/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close()
	})

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password", "is_verified", "created_at", "updated_at"})
}

func TestAccount_FindByEmailOrUsername(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)SELECT .+ FROM account\s+WHERE email = \? OR LOWER\(username\) = LOWER\(\?\)\s+ORDER BY CASE WHEN email = \?`).
		WithArgs("a@x.com", "alice", "a@x.com").
		WillReturnRows(accountRows().AddRow(id.String(), "alice", "a@x.com", "pw1", false, now, now))

	account, err := repo.FindByEmailOrUsername(context.Background(), "a@x.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.False(t, account.IsVerified)
}

func TestAccount_FindByEmailOrUsername_NotFound(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	mock.ExpectQuery(`SELECT .+ FROM account`).
		WithArgs("a@x.com", "alice", "a@x.com").
		WillReturnRows(accountRows())

	_, err := repo.FindByEmailOrUsername(context.Background(), "a@x.com", "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccount_CreateProvisional(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	account := &domain.Account{ID: uuid.New(), Username: "alice", Email: "a@x.com", Password: "pw1"}
	mock.ExpectExec(`INSERT INTO account`).
		WithArgs(account.ID, "alice", "a@x.com", "pw1", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateProvisional(context.Background(), account))
}

func TestAccount_CreateProvisional_Duplicate(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	mock.ExpectExec(`INSERT INTO account`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'uq_account_email'"})

	err := repo.CreateProvisional(context.Background(), &domain.Account{ID: uuid.New(), Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func TestAccount_CreateProvisional_DBError(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	mock.ExpectExec(`INSERT INTO account`).WillReturnError(errors.New("db down"))

	err := repo.CreateProvisional(context.Background(), &domain.Account{ID: uuid.New()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicateEntry)
	assert.Contains(t, err.Error(), "db down")
}

func TestAccount_FindUnverifiedByEmail(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	mock.ExpectQuery(`SELECT .+ FROM account WHERE email = \? AND is_verified = \?`).
		WithArgs("a@x.com", false).
		WillReturnRows(accountRows())

	_, err := repo.FindUnverifiedByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccount_Promote(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	account := &domain.Account{ID: uuid.New(), Password: "pw1"}
	mock.ExpectExec(`(?s)UPDATE account\s+SET password = \?, is_verified = \?.+WHERE id = \? AND is_verified = \?`).
		WithArgs("hash", true, account.ID, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Promote(context.Background(), account, "hash"))
	assert.True(t, account.IsVerified)
	assert.Equal(t, "hash", account.Password)
}

func TestAccount_Promote_AlreadyVerified(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	account := &domain.Account{ID: uuid.New(), Password: "pw1"}
	mock.ExpectExec(`UPDATE account`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Promote(context.Background(), account, "hash")
	assert.ErrorIs(t, err, domain.ErrNoRowsAffected)
	assert.False(t, account.IsVerified)
}

func TestAccount_Delete(t *testing.T) {
	dbConn, mock := newMockDB(t)
	repo := newAccountRepository(dbConn)

	account := &domain.Account{ID: uuid.New()}
	mock.ExpectExec(`DELETE FROM account WHERE id = \? AND is_verified = \?`).
		WithArgs(account.ID, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), account))
}
