package cli

import (
	"errors"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/router"
	"github.com/dmitrijs2005/recipebook/internal/client/session"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// render is the store subscriber. It prints error and success transitions.
func (a *App) render(st session.State) {
	if st.ErrorMessage != "" && st.ErrorMessage != a.last.ErrorMessage {
		printlnFn("Error:", st.ErrorMessage)
	}
	if st.IsSuccessful && !a.last.IsSuccessful {
		printlnFn("Success!")
	}
	a.last = st
}

func (a *App) getStatus() string {
	st := a.store.State()
	switch {
	case st.User != nil && st.User.Email != "":
		return "(" + st.User.Email + ")"
	case st.LoggedIn():
		return "(logged in)"
	}
	return ""
}

// report prints a user-facing line for err and returns it unchanged.
func report(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		printlnFn("Please log in first")
	case errors.Is(err, client.ErrUnauthorized):
		printlnFn("Your session has expired, please log in again")
	case errors.Is(err, client.ErrNotFound):
		printlnFn("Not found")
	case errors.Is(err, client.ErrUnavailable):
		printlnFn("Server unavailable, try again later")
	case errors.Is(err, router.ErrNoRoute):
		printlnFn("Unknown location, try 'help'")
	default:
		printlnFn("Error:", err.Error())
	}
	return err
}
