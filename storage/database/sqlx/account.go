package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
)

const accountColumns = `id, email, role, school_id, student_id, password_hash, created_at, updated_at`

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{db: db}
}

type accountRow struct {
	ID           string      `db:"id"`
	Email        string      `db:"email"`
	Role         string      `db:"role"`
	SchoolID     null.String `db:"school_id"`
	StudentID    null.String `db:"student_id"`
	PasswordHash []byte      `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r accountRow) unpack() account.Account {
	return account.Account{
		ID:           r.ID,
		Email:        r.Email,
		Role:         account.Role(r.Role),
		SchoolID:     r.SchoolID,
		StudentID:    r.StudentID,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func packAccount(acct account.Account) accountRow {
	return accountRow{
		ID:           acct.ID,
		Email:        acct.Email,
		Role:         acct.Role.String(),
		SchoolID:     acct.SchoolID,
		StudentID:    acct.StudentID,
		PasswordHash: acct.PasswordHash,
		CreatedAt:    acct.CreatedAt.UTC(),
		UpdatedAt:    acct.UpdatedAt.UTC(),
	}
}

func unpackAccounts(rows []accountRow) []account.Account {
	accts := make([]account.Account, 0, len(rows))
	for _, r := range rows {
		accts = append(accts, r.unpack())
	}
	return accts
}

func (repo accountRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedAccounts ...account.Account) error {
	q := `SELECT EXISTS (SELECT 1 FROM account WHERE email = ?`
	args := []interface{}{email}
	if len(excludedAccounts) > 0 {
		ids := make([]string, 0, len(excludedAccounts))
		for _, acct := range excludedAccounts {
			ids = append(ids, acct.ID)
		}
		q += ` AND id NOT IN (?)`
		args = append(args, ids)
	}
	q += `)`

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}
	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return account.ErrEmailExists
	}
	return nil
}

func (repo accountRepository) CreateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	acct.ID = uuid.New().String()
	q := `INSERT INTO account (` + accountColumns + `)
		  VALUES (:id, :email, :role, :school_id, :student_id, :password_hash, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, packAccount(acct)); err != nil {
		return account.Account{}, trapUniqueErr(err, account.ErrEmailExists, "email", "creating account")
	}
	return acct, nil
}

func (repo accountRepository) QueryAccounts(ctx context.Context, scope core.Scope) ([]account.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM account`
	args := make([]interface{}, 0, 1)
	if scope.Restricted() {
		q += ` WHERE school_id = $1`
		args = append(args, scope.SchoolID.String)
	}
	q += ` ORDER BY created_at, id`

	var rows []accountRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying accounts")
	}
	return unpackAccounts(rows), nil
}

func (repo accountRepository) GetAccountByID(ctx context.Context, id string) (account.Account, error) {
	var row accountRow
	q := `SELECT ` + accountColumns + ` FROM account WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return account.Account{}, trapNoRowsErr(err, account.ErrNotFound, "getting account by ID")
	}
	return row.unpack(), nil
}

func (repo accountRepository) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	var row accountRow
	q := `SELECT ` + accountColumns + ` FROM account WHERE email = $1`
	if err := repo.db.GetContext(ctx, &row, q, email); err != nil {
		return account.Account{}, trapNoRowsErr(err, account.ErrNotFound, "getting account by email")
	}
	return row.unpack(), nil
}

func (repo accountRepository) UpdateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	q := `UPDATE account
		  SET email = :email, password_hash = :password_hash, updated_at = :updated_at
		  WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, packAccount(acct))
	if err != nil {
		return account.Account{}, trapUniqueErr(err, account.ErrEmailExists, "email", "updating account")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return account.Account{}, account.ErrNotFound
	}
	return acct, nil
}

func (repo accountRepository) DeleteAccountByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM account WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting account")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return account.ErrNotFound
	}
	return nil
}
