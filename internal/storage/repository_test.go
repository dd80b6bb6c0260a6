package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/core"
	"cuentas/internal/store"
	"cuentas/internal/store/storetest"
)

func openTemp(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "cuentas.db"), Options{MaxRetries: 3})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openTemp(t)
	})
}

func TestSQLiteRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cuentas.db")

	repo, err := NewSQLiteRepository(path, Options{})
	require.NoError(t, err)
	id, err := repo.CreateAccount(ctx, storetest.SampleAccount("BBVA", 1000))
	require.NoError(t, err)
	require.NoError(t, repo.SetSetting(ctx, store.KeyAccountOrder, `["`+id+`"]`))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path, Options{})
	require.NoError(t, err)
	defer reopened.Close()

	a, err := reopened.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "BBVA", a.Bank)

	order, found, err := reopened.GetSetting(ctx, store.KeyAccountOrder)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["`+id+`"]`, order)
}

func TestSQLiteReplaceAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	keep, err := repo.CreateAccount(ctx, storetest.SampleAccount("Keep", 10))
	require.NoError(t, err)

	dup := storetest.SampleAccount("Dup", 1)
	dup.ID = "same"
	err = repo.ReplaceAll(ctx, []core.Account{dup, dup}, nil)
	require.Error(t, err)

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, keep, accounts[0].ID)
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuentas.db")
	v1, err := RunMigrations(path, nil)
	require.NoError(t, err)
	v2, err := RunMigrations(path, nil)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.EqualValues(t, 1, v1)
}

func newMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db, Options{MaxRetries: 2}), mock
}

func TestListAccountsQueryError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM accounts ORDER BY seq").WillReturnError(errors.New("disk I/O error"))

	_, err := repo.ListAccounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list accounts")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM accounts WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReturnNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("DELETE FROM returns WHERE id").
		WithArgs("r9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteReturn(context.Background(), "r9")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM returns").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM accounts").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO accounts").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	a := storetest.SampleAccount("BBVA", 1)
	a.ID = "1"
	err := repo.ReplaceAll(context.Background(), []core.Account{a}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountCascadeRollsBackWhenAccountDeleteFails(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM returns WHERE account_id").WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM accounts WHERE id").WithArgs("a1").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	removed, err := repo.DeleteAccountCascade(context.Background(), "a1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.Zero(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountCascadeUnknownAccountRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM returns WHERE account_id").WithArgs("x").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM accounts WHERE id").WithArgs("x").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.DeleteAccountCascade(context.Background(), "x")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountRetriesWhenBusy(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO accounts").WillReturnError(busyError{})
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.CreateAccount(context.Background(), storetest.SampleAccount("BBVA", 1))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseRejectsFurtherCalls(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectClose()

	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	_, err := repo.ListReturns(context.Background())
	assert.ErrorIs(t, err, store.ErrClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}
