package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/router"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// registerViews binds the router components to their screens.
func (a *App) registerViews() {
	views := map[string]router.ViewFunc{
		router.LayoutDefault:    a.showLayout,
		router.ViewHome:         a.showHome,
		router.ViewUserProfile:  a.showProfile,
		router.ViewCreateRecipe: a.showRecipeForm,
		router.ViewListRecipes:  a.showRecipeList,
	}
	for component, view := range views {
		a.router.Register(component, func() (router.View, error) {
			a.logger.Debug(context.Background(), "view loaded", "component", component)
			return view, nil
		})
	}
}

func (a *App) showLayout(_ context.Context, m router.Match) error {
	title := m.Name
	if title == "" {
		title = m.Path
	}
	printlnFn(fmt.Sprintf("== %s ==", title))
	return nil
}

func (a *App) showHome(_ context.Context, _ router.Match) error {
	st := a.store.State()
	switch {
	case st.User != nil:
		printlnFn(fmt.Sprintf("Hello, %s!", st.User.Name))
		printlnFn("Try: recipes, create, profile, tags, ingredients, export <dest>")
	case st.LoggedIn():
		printlnFn("You are logged in. Try: recipes, create, profile")
	default:
		printlnFn("You are not logged in. Use 'register' to create an account or 'login'.")
	}
	return nil
}

func (a *App) showProfile(ctx context.Context, _ router.Match) error {
	if !a.isLoggedIn() {
		return report(common.ErrNotAuthenticated)
	}
	if err := a.store.FetchProfile(ctx); err != nil {
		printlnFn("Could not load profile")
		return err
	}

	var current models.User
	if u := a.store.State().User; u != nil {
		current = *u
	}
	printlnFn("Profile:", current.String())
	if at, ok := a.tokenSavedAt(ctx); ok {
		printlnFn("Signed in since", at.Local().Format(time.DateTime))
	}

	answer, err := getSimpleText(a.reader, "Edit profile? (y/N)", a.out)
	if err != nil || !strings.EqualFold(answer, "y") {
		return err
	}

	a.store.Reset()
	email, err := getWithDefault(a.reader, "Enter email", current.Email, a.out)
	if err != nil {
		return err
	}
	name, err := getWithDefault(a.reader, "Enter name", current.Name, a.out)
	if err != nil {
		return err
	}
	printlnFn("Leave the password empty to keep it")
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.UpdateProfile(ctx, email, name, string(password)); err != nil {
		return err
	}
	if !a.store.State().IsSuccessful {
		printlnFn("Nothing to update")
	}
	return nil
}

// tokenSavedAt reports when the current token was stored, if the token store
// keeps that.
func (a *App) tokenSavedAt(ctx context.Context) (time.Time, bool) {
	ts, ok := a.tokens.(interface {
		SavedAt(ctx context.Context) (time.Time, bool, error)
	})
	if !ok {
		return time.Time{}, false
	}
	at, ok, err := ts.SavedAt(ctx)
	if err != nil {
		a.logger.Warn(ctx, "error reading token timestamp", "error", err)
		return time.Time{}, false
	}
	return at, ok
}

// showRecipeForm creates a recipe, or edits one when the route carries a
// recipe id.
func (a *App) showRecipeForm(ctx context.Context, m router.Match) error {
	if !a.isLoggedIn() {
		return report(common.ErrNotAuthenticated)
	}

	var rec models.Recipe
	if raw, ok := m.Params[router.ParamRecipeID]; ok {
		id, err := parseID(raw)
		if err != nil {
			return report(err)
		}
		existing, err := a.recipes.Get(ctx, id)
		if err != nil {
			return report(err)
		}
		rec = *existing
		rec.ID = &id
		printlnFn("Editing", rec.String())
	}

	if err := a.fillRecipe(&rec); err != nil {
		return err
	}

	saved, err := a.recipes.Save(ctx, rec)
	if err != nil {
		return report(err)
	}
	printlnFn("Saved:", saved.String())
	return nil
}

func (a *App) fillRecipe(rec *models.Recipe) error {
	var err error
	ask := func(prompt, current string) string {
		if err != nil {
			return current
		}
		var v string
		v, err = getWithDefault(a.reader, prompt, current, a.out)
		return v
	}

	minutes := ""
	if rec.TimeMinutes > 0 {
		minutes = strconv.Itoa(rec.TimeMinutes)
	}

	rec.Title = ask("Title", rec.Title)
	minutes = ask("Time in minutes", minutes)
	rec.Price = ask("Price", rec.Price)
	rec.Link = ask("Link", rec.Link)
	tags := ask("Tags (comma separated)", tagNames(rec.Tags))
	ingredients := ask("Ingredients (comma separated)", ingredientNames(rec.Ingredients))
	if err != nil {
		return err
	}

	description, err := getMultiline(a.reader, "Description (empty line to finish, blank keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(description) != "" {
		rec.Description = description
	}

	rec.TimeMinutes = 0
	if minutes = strings.TrimSpace(minutes); minutes != "" {
		n, convErr := strconv.Atoi(minutes)
		if convErr != nil {
			return report(fmt.Errorf("%w: %q", models.ErrTimeNotNumber, minutes))
		}
		rec.TimeMinutes = n
	}
	rec.Tags = models.TagsFromNames(models.ParseNames(tags))
	rec.Ingredients = models.IngredientsFromNames(models.ParseNames(ingredients))
	return nil
}

func (a *App) showRecipeList(ctx context.Context, m router.Match) error {
	if !a.isLoggedIn() {
		return report(common.ErrNotAuthenticated)
	}

	var (
		f   models.RecipeFilter
		err error
	)
	if f.Tags, err = models.ParseIDList(m.Query.Get("tags")); err != nil {
		return report(err)
	}
	if f.Ingredients, err = models.ParseIDList(m.Query.Get("ingredients")); err != nil {
		return report(err)
	}

	list, err := a.recipes.List(ctx, f)
	if err != nil {
		return report(err)
	}
	if len(list) == 0 {
		printlnFn("No recipes yet, use 'create' to add one")
		return nil
	}
	for _, r := range list {
		printlnFn(r.String())
	}
	return nil
}

func tagNames(tags []models.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func ingredientNames(ings []models.Ingredient) string {
	names := make([]string, len(ings))
	for i, t := range ings {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}
