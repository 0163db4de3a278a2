package main

import (
	"context"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
)

// addSuperAdmin updates or creates a superadmin account.Account
func (cli *commandLine) addSuperAdmin(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	acct, err := cli.acctRepo.GetAccountByEmail(ctx, email)
	if err != nil {
		if err != account.ErrNotFound {
			return err
		}
		acct = account.Account{
			Email:     email,
			Role:      account.RoleSuperAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := acct.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.acctRepo.CreateAccount(ctx, acct)
		return err
	}

	if err := acct.SetPassword(pwd); err != nil {
		return err
	}
	acct.UpdatedAt = now
	_, err = cli.acctRepo.UpdateAccount(ctx, acct)
	return err
}
