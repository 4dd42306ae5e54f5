package cli

import (
	"context"

	"github.com/dmitrijs2005/recipebook/internal/common"
)

// getSimpleText, getWithDefault, getMultiline and getPassword are
// indirections used to facilitate testing. They point to interactive input
// helpers and can be swapped in tests.
var (
	getSimpleText  = GetSimpleText
	getWithDefault = GetWithDefault
	getMultiline   = GetMultiline
	getPassword    = GetPassword
)

// Register prompts for an email, a name and a password and creates the
// account. The outcome is printed by the store subscriber.
func (a *App) Register(ctx context.Context) error {
	a.store.Reset()

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.Register(ctx, email, name, string(password)); err != nil {
		return err
	}
	printlnFn("Account created, you can log in now")
	return nil
}

// Login prompts for credentials, stores the token and loads the profile.
func (a *App) Login(ctx context.Context) error {
	a.store.Reset()

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.Login(ctx, email, string(password)); err != nil {
		return err
	}
	if err := a.store.FetchProfile(ctx); err != nil {
		a.logger.Warn(ctx, "profile not loaded after login", "error", err)
	}
	return nil
}

// Logout forgets the stored token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return report(err)
	}
	printlnFn("Logged out")
	return nil
}
