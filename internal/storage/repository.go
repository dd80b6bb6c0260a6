package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"cuentas/internal/core"
	"cuentas/internal/log"
	"cuentas/internal/store"

	_ "modernc.org/sqlite"
)

// Options tunes a SQLiteRepository. Zero values pick defaults.
type Options struct {
	IDGen      store.IDGenerator
	MaxRetries int
	Logger     *log.Logger
}

// SQLiteRepository is the durable store.Store backed by a single SQLite file.
// Rows carry an autoincrement seq column so listing follows insertion order.
type SQLiteRepository struct {
	db      *sql.DB
	idGen   store.IDGenerator
	retrier *Retrier
	logger  *log.Logger
	closed  atomic.Bool
}

var _ store.Store = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// migrates it to the latest schema.
func NewSQLiteRepository(dbPath string, opts Options) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(0)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dsn, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("sqlite store opened", log.FieldPath, dbPath)
	return NewWithDB(db, opts), nil
}

// NewWithDB wraps an already migrated database handle.
func NewWithDB(db *sql.DB, opts Options) *SQLiteRepository {
	if opts.IDGen == nil {
		opts.IDGen = store.NewULIDGenerator()
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &SQLiteRepository{
		db:      db,
		idGen:   opts.IDGen,
		retrier: NewRetrier(opts.MaxRetries, opts.Logger),
		logger:  opts.Logger,
	}
}

func (r *SQLiteRepository) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const accountColumns = `id, bank, account_type, holder, holder2, current_balance, category, color, account_number, is_value_account`

const returnColumns = `id, account_id, amount, date, return_type, note`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var (
		a       core.Account
		balance string
		isValue int64
	)
	if err := row.Scan(&a.ID, &a.Bank, &a.AccountType, &a.Holder, &a.Holder2, &balance,
		&a.Category, &a.Color, &a.AccountNumber, &isValue); err != nil {
		return core.Account{}, err
	}
	d, err := decimal.NewFromString(balance)
	if err != nil {
		return core.Account{}, fmt.Errorf("account %s: decode balance %q: %w", a.ID, balance, err)
	}
	a.CurrentBalance = d
	a.IsValueAccount = isValue != 0
	return a, nil
}

func scanReturn(row rowScanner) (core.Return, error) {
	var (
		ret          core.Return
		amount, date string
		typ          string
	)
	if err := row.Scan(&ret.ID, &ret.AccountID, &amount, &date, &typ, &ret.Note); err != nil {
		return core.Return{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Return{}, fmt.Errorf("return %s: decode amount %q: %w", ret.ID, amount, err)
	}
	day, err := core.ParseDate(date)
	if err != nil {
		return core.Return{}, fmt.Errorf("return %s: %w", ret.ID, err)
	}
	ret.Amount = d
	ret.Date = day
	ret.ReturnType = core.ReturnType(typ)
	return ret, nil
}

func accountArgs(a core.Account) []any {
	return []any{a.ID, a.Bank, a.AccountType, a.Holder, a.Holder2, a.CurrentBalance.String(),
		a.Category, a.Color, a.AccountNumber, boolToInt(a.IsValueAccount)}
}

func returnArgs(ret core.Return) []any {
	return []any{ret.ID, ret.AccountID, ret.Amount.String(), ret.Date.String(), string(ret.ReturnType), ret.Note}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAccount(ctx context.Context, ex execer, a core.Account) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		accountArgs(a)...)
	return err
}

func insertReturn(ctx context.Context, ex execer, ret core.Return) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO returns (`+returnColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		returnArgs(ret)...)
	return err
}

func (r *SQLiteRepository) checkOpen() error {
	if r.closed.Load() {
		return store.ErrClosed
	}
	return nil
}

// CreateAccount inserts a under a freshly generated id.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (string, error) {
	if err := r.checkOpen(); err != nil {
		return "", err
	}
	a.ID = r.idGen.Generate()
	err := r.retrier.Retry(ctx, func() error {
		return insertAccount(ctx, r.db, a)
	})
	if err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}
	r.logger.DebugContext(ctx, "account created", log.FieldAccountID, a.ID)
	return a.ID, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	if err := r.checkOpen(); err != nil {
		return core.Account{}, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}
	return a, nil
}

// UpdateAccount applies patch inside a transaction so the read-modify-write is
// not interleaved with another writer.
func (r *SQLiteRepository) UpdateAccount(ctx context.Context, id string, patch core.AccountPatch) (core.Account, error) {
	if err := r.checkOpen(); err != nil {
		return core.Account{}, err
	}
	var updated core.Account
	err := r.retrier.Retry(ctx, func() error {
		return r.inTx(ctx, func(tx *sql.Tx) error {
			cur, err := scanAccount(tx.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
			if err != nil {
				return err
			}
			updated = patch.Apply(cur)
			_, err = tx.ExecContext(ctx, `UPDATE accounts SET bank = ?, account_type = ?, holder = ?, holder2 = ?,
				current_balance = ?, category = ?, color = ?, account_number = ?, is_value_account = ?
				WHERE id = ?`,
				updated.Bank, updated.AccountType, updated.Holder, updated.Holder2, updated.CurrentBalance.String(),
				updated.Category, updated.Color, updated.AccountNumber, boolToInt(updated.IsValueAccount), id)
			return err
		})
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("update account %s: %w", id, err)
	}
	return updated, nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	n, err := r.deleteWhere(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (r *SQLiteRepository) CreateReturn(ctx context.Context, ret core.Return) (string, error) {
	if err := r.checkOpen(); err != nil {
		return "", err
	}
	ret.ID = r.idGen.Generate()
	err := r.retrier.Retry(ctx, func() error {
		return insertReturn(ctx, r.db, ret)
	})
	if err != nil {
		return "", fmt.Errorf("create return: %w", err)
	}
	r.logger.DebugContext(ctx, "return created", log.FieldReturnID, ret.ID, log.FieldAccountID, ret.AccountID)
	return ret.ID, nil
}

func (r *SQLiteRepository) GetReturn(ctx context.Context, id string) (core.Return, error) {
	if err := r.checkOpen(); err != nil {
		return core.Return{}, err
	}
	ret, err := scanReturn(r.db.QueryRowContext(ctx, `SELECT `+returnColumns+` FROM returns WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Return{}, fmt.Errorf("return %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Return{}, fmt.Errorf("get return %s: %w", id, err)
	}
	return ret, nil
}

func (r *SQLiteRepository) UpdateReturn(ctx context.Context, id string, patch core.ReturnPatch) (core.Return, error) {
	if err := r.checkOpen(); err != nil {
		return core.Return{}, err
	}
	var updated core.Return
	err := r.retrier.Retry(ctx, func() error {
		return r.inTx(ctx, func(tx *sql.Tx) error {
			cur, err := scanReturn(tx.QueryRowContext(ctx, `SELECT `+returnColumns+` FROM returns WHERE id = ?`, id))
			if err != nil {
				return err
			}
			updated = patch.Apply(cur)
			_, err = tx.ExecContext(ctx, `UPDATE returns SET account_id = ?, amount = ?, date = ?, return_type = ?, note = ?
				WHERE id = ?`,
				updated.AccountID, updated.Amount.String(), updated.Date.String(), string(updated.ReturnType), updated.Note, id)
			return err
		})
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Return{}, fmt.Errorf("return %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Return{}, fmt.Errorf("update return %s: %w", id, err)
	}
	return updated, nil
}

func (r *SQLiteRepository) DeleteReturn(ctx context.Context, id string) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	n, err := r.deleteWhere(ctx, `DELETE FROM returns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete return %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("return %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListReturns(ctx context.Context) ([]core.Return, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+returnColumns+` FROM returns ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	var returns []core.Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("list returns: %w", err)
		}
		returns = append(returns, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return returns, nil
}

func (r *SQLiteRepository) DeleteReturnsByAccount(ctx context.Context, accountID string) (int, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	n, err := r.deleteWhere(ctx, `DELETE FROM returns WHERE account_id = ?`, accountID)
	if err != nil {
		return 0, fmt.Errorf("delete returns of account %s: %w", accountID, err)
	}
	r.logger.InfoContext(ctx, "returns removed with account",
		log.FieldAccountID, accountID, log.FieldCount, n)
	return int(n), nil
}

// DeleteAccountCascade deletes the returns of id and then the account in one
// transaction. If either statement fails nothing is removed.
func (r *SQLiteRepository) DeleteAccountCascade(ctx context.Context, id string) (int, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	var removed int64
	err := r.retrier.Retry(ctx, func() error {
		return r.inTx(ctx, func(tx *sql.Tx) error {
			res, err := tx.ExecContext(ctx, `DELETE FROM returns WHERE account_id = ?`, id)
			if err != nil {
				return fmt.Errorf("delete returns: %w", err)
			}
			if removed, err = res.RowsAffected(); err != nil {
				return err
			}
			res, err = tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
			if err != nil {
				return fmt.Errorf("delete account: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return core.ErrNotFound
			}
			return nil
		})
	})
	if errors.Is(err, core.ErrNotFound) {
		return 0, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("delete account %s with returns: %w", id, err)
	}
	r.logger.InfoContext(ctx, "account deleted with returns",
		log.FieldAccountID, id, log.FieldCount, removed)
	return int(removed), nil
}

// ReplaceAll clears both tables and inserts the given records in one
// transaction. Either the whole data set is replaced or nothing changes.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, accounts []core.Account, returns []core.Return) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	err := r.retrier.Retry(ctx, func() error {
		return r.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM returns`); err != nil {
				return fmt.Errorf("clear returns: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
				return fmt.Errorf("clear accounts: %w", err)
			}
			for _, a := range accounts {
				if err := insertAccount(ctx, tx, a); err != nil {
					return fmt.Errorf("insert account %s: %w", a.ID, err)
				}
			}
			for _, ret := range returns {
				if err := insertReturn(ctx, tx, ret); err != nil {
					return fmt.Errorf("insert return %s: %w", ret.ID, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("replace all: %w", err)
	}
	r.logger.InfoContext(ctx, "data set replaced",
		log.FieldOperation, log.OpReplace,
		"accounts", len(accounts),
		"returns", len(returns))
	return nil
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	if err := r.checkOpen(); err != nil {
		return "", false, err
	}
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	err := r.retrier.Retry(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) deleteWhere(ctx context.Context, query string, arg any) (int64, error) {
	var n int64
	err := r.retrier.Retry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, arg)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
