package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
)

type accountRepository struct {
	db *accountTable
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) *accountRepository {
	return &accountRepository{db: db.account}
}

// query returns matching accounts in insertion order. Callers must hold the lock.
func (repo *accountRepository) query(scope core.Scope) []account.Account {
	entries := make([]*accountEntry, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		if scope.Restricted() && (!e.acct.SchoolID.Valid || e.acct.SchoolID.String != scope.SchoolID.String) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	accts := make([]account.Account, 0, len(entries))
	for _, e := range entries {
		accts = append(accts, e.acct)
	}
	return accts
}

func (repo *accountRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedAccounts ...account.Account) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, acct := range repo.query(core.Scope{}) {
		if acct.Email == email && !accountExcluded(acct, excludedAccounts) {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	acct.ID = uuid.New().String()
	repo.db.table[acct.ID] = &accountEntry{seq: repo.db.seq, acct: acct}
	return acct, nil
}

func (repo *accountRepository) QueryAccounts(ctx context.Context, scope core.Scope) ([]account.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(scope), nil
}

func (repo *accountRepository) GetAccountByID(ctx context.Context, id string) (account.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return e.acct, nil
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, acct := range repo.query(core.Scope{}) {
		if acct.Email == email {
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e, ok := repo.db.table[acct.ID]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	e.acct = acct
	return acct, nil
}

func (repo *accountRepository) DeleteAccountByID(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return account.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func accountExcluded(acct account.Account, excluded []account.Account) bool {
	for _, excl := range excluded {
		if acct.ID == excl.ID {
			return true
		}
	}
	return false
}
