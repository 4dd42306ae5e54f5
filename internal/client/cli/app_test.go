package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake API ----

type fakeAPI struct {
	user     models.User
	token    string
	loginErr error
	recipes  map[int64]models.Recipe
	tags     []models.Tag
	nextID   int64

	LastFilter      models.RecipeFilter
	LastSaved       models.Recipe
	LastPatchMe     models.ProfilePatch
	LastPatchRecipe models.RecipePatch
	Deleted         []int64
	Closed          bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		user:    models.User{Email: "ann@example.org", Name: "Ann"},
		token:   "tok-1",
		recipes: map[int64]models.Recipe{},
		nextID:  1,
	}
}

func (f *fakeAPI) authorized(token string) error {
	if token != f.token {
		return &client.APIError{Status: 401}
	}
	return nil
}

func (f *fakeAPI) Close() error { f.Closed = true; return nil }

func (f *fakeAPI) CreateUser(context.Context, string, string, string) error { return nil }

func (f *fakeAPI) CreateToken(_ context.Context, email, _ string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAPI) GetMe(_ context.Context, token string) (*models.User, error) {
	if err := f.authorized(token); err != nil {
		return nil, err
	}
	u := f.user
	return &u, nil
}

func (f *fakeAPI) UpdateMe(_ context.Context, _ string, u models.ProfileUpdate) (*models.User, error) {
	f.user = models.User{Email: u.Email, Name: u.Name}
	return &f.user, nil
}

func (f *fakeAPI) PatchMe(_ context.Context, _ string, p models.ProfilePatch) (*models.User, error) {
	f.LastPatchMe = p
	if p.Name != nil {
		f.user.Name = *p.Name
	}
	if p.Email != nil {
		f.user.Email = *p.Email
	}
	return &f.user, nil
}

func (f *fakeAPI) ListRecipes(_ context.Context, token string, flt models.RecipeFilter) ([]models.Recipe, error) {
	if err := f.authorized(token); err != nil {
		return nil, err
	}
	f.LastFilter = flt
	var out []models.Recipe
	for id := int64(1); id < f.nextID; id++ {
		if r, ok := f.recipes[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetRecipe(_ context.Context, _ string, id int64) (*models.Recipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return nil, &client.APIError{Status: 404}
	}
	return &r, nil
}

func (f *fakeAPI) CreateRecipe(_ context.Context, _ string, r models.Recipe) (*models.Recipe, error) {
	id := f.nextID
	f.nextID++
	r.ID = &id
	f.recipes[id] = r
	f.LastSaved = r
	return &r, nil
}

func (f *fakeAPI) UpdateRecipe(_ context.Context, _ string, id int64, r models.Recipe) (*models.Recipe, error) {
	r.ID = &id
	f.recipes[id] = r
	f.LastSaved = r
	return &r, nil
}

func (f *fakeAPI) PatchRecipe(_ context.Context, token string, id int64, p models.RecipePatch) (*models.Recipe, error) {
	if err := f.authorized(token); err != nil {
		return nil, err
	}
	rec, ok := f.recipes[id]
	if !ok {
		return nil, &client.APIError{Status: 404}
	}
	f.LastPatchRecipe = p
	if p.Tags != nil {
		rec.Tags = *p.Tags
	}
	if p.Ingredients != nil {
		rec.Ingredients = *p.Ingredients
	}
	f.recipes[id] = rec
	return &rec, nil
}

func (f *fakeAPI) DeleteRecipe(_ context.Context, _ string, id int64) error {
	if _, ok := f.recipes[id]; !ok {
		return &client.APIError{Status: 404}
	}
	delete(f.recipes, id)
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *fakeAPI) UploadRecipeImage(_ context.Context, _ string, id int64, filename string, _ io.Reader) (string, error) {
	return "http://cdn/" + filename, nil
}

func (f *fakeAPI) ListTags(context.Context, string, bool) ([]models.Tag, error) { return f.tags, nil }

func (f *fakeAPI) UpdateTag(_ context.Context, _ string, id int64, name string) (*models.Tag, error) {
	return &models.Tag{ID: &id, Name: name}, nil
}

func (f *fakeAPI) DeleteTag(context.Context, string, int64) error { return nil }

func (f *fakeAPI) ListIngredients(context.Context, string, bool) ([]models.Ingredient, error) {
	return nil, nil
}

func (f *fakeAPI) UpdateIngredient(_ context.Context, _ string, id int64, name string) (*models.Ingredient, error) {
	return &models.Ingredient{ID: &id, Name: name}, nil
}

func (f *fakeAPI) DeleteIngredient(context.Context, string, int64) error { return nil }

// ---- helpers ----

type memTokens struct{ token string }

func (m *memTokens) Load(context.Context) (string, error)   { return m.token, nil }
func (m *memTokens) Save(_ context.Context, t string) error { m.token = t; return nil }
func (m *memTokens) Clear(context.Context) error            { m.token = ""; return nil }

func newTestApp(t *testing.T, api *fakeAPI, token string) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	a, err := newApp(context.Background(), cfg, logging.Discard(), api, &memTokens{token: token},
		bufio.NewReader(strings.NewReader("")), io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// stubAnswers feeds prompts from answers in order and the password prompt
// from password.
func stubAnswers(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origWD, origML, origGP := getSimpleText, getWithDefault, getMultiline, getPassword

	next := func() (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		v := answers[0]
		answers = answers[1:]
		return v, nil
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getWithDefault = func(_ *bufio.Reader, _ string, current string, _ io.Writer) (string, error) {
		v, err := next()
		if err == nil && v == "" {
			v = current
		}
		return v, err
	}
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }

	t.Cleanup(func() {
		getSimpleText, getWithDefault, getMultiline, getPassword = origST, origWD, origML, origGP
	})
}

func joined(out *[]string) string { return strings.Join(*out, "\n") }

// ---- tests ----

func TestLogin_PrintsSuccessAndLoadsProfile(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "")
	stubAnswers(t, "secret1", "ann@example.org")

	require.NoError(t, a.Login(context.Background()))

	assert.Contains(t, *out, "Success!")
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(ann@example.org)", a.getStatus())
}

func TestLogin_ValidationErrorPrinted(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "")
	stubAnswers(t, "123", "ann@example.org")

	require.Error(t, a.Login(context.Background()))

	assert.Contains(t, *out, "Error: Password must be at least 6 characters")
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.getStatus())
}

func TestLogin_APIErrorPrinted(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	api.loginErr = &client.APIError{Status: 400, Body: client.ErrorBody{
		"nonFieldErrors": {"Unable to authenticate with provided credentials."},
	}}
	a := newTestApp(t, api, "")
	stubAnswers(t, "secret1", "ann@example.org")

	require.Error(t, a.Login(context.Background()))
	assert.Contains(t, *out, "Error: Unable to authenticate with provided credentials.")
}

func TestRegister_NameRequired(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "")
	stubAnswers(t, "abcdef", "x@x.com", "")

	require.Error(t, a.Register(context.Background()))
	assert.Contains(t, *out, "Error: Name is required")
}

func TestRegister_Success(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "")
	stubAnswers(t, "abcdef", "x@x.com", "Xavier")

	require.NoError(t, a.Register(context.Background()))
	assert.Contains(t, *out, "Success!")
	assert.Contains(t, *out, "Account created, you can log in now")
	assert.False(t, a.isLoggedIn())
}

func TestLogout(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "tok-1")

	require.NoError(t, a.Logout(context.Background()))
	assert.Contains(t, *out, "Logged out")
	assert.False(t, a.isLoggedIn())
}

func TestNavigate_HomeAndUnknown(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "")

	require.NoError(t, a.Navigate(context.Background(), "/"))
	assert.Contains(t, *out, "== home ==")
	assert.Contains(t, joined(out), "You are not logged in")

	require.Error(t, a.Navigate(context.Background(), "/nowhere"))
	assert.Contains(t, *out, "Unknown location, try 'help'")
}

func TestProfile_RequiresLogin(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "")

	require.Error(t, a.Navigate(context.Background(), "/profile"))
	assert.Contains(t, *out, "Please log in first")
}

func TestProfile_ShowAndEditName(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	a := newTestApp(t, api, "tok-1")
	stubAnswers(t, "", "y", "", "Annie")

	require.NoError(t, a.Navigate(context.Background(), "/profile"))

	assert.Contains(t, *out, "Profile: Ann <ann@example.org>")
	assert.Contains(t, *out, "Success!")
	require.NotNil(t, api.LastPatchMe.Name)
	assert.Equal(t, "Annie", *api.LastPatchMe.Name)
	assert.Nil(t, api.LastPatchMe.Email)
	assert.Equal(t, "Annie", a.store.State().User.Name)
}

func TestProfile_NothingChanged(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "tok-1")
	stubAnswers(t, "", "y", "", "")

	require.NoError(t, a.Navigate(context.Background(), "/profile"))
	assert.Contains(t, *out, "Nothing to update")
	assert.False(t, a.store.State().Loading)
}

func TestCreateAndEditRecipe(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	a := newTestApp(t, api, "tok-1")

	stubAnswers(t, "", "Soup", "15", "4.50", "", "dinner, hot", "water", "Boil it")
	require.NoError(t, a.Navigate(context.Background(), "/create-recipe"))

	assert.Equal(t, "Soup", api.LastSaved.Title)
	assert.Equal(t, 15, api.LastSaved.TimeMinutes)
	assert.Equal(t, []models.Tag{{Name: "dinner"}, {Name: "hot"}}, api.LastSaved.Tags)
	assert.Contains(t, joined(out), "Saved: [1] Soup, 15 min, $4.50 #dinner #hot")

	stubAnswers(t, "", "Cold soup", "", "", "", "", "", "")
	require.NoError(t, a.Edit(context.Background(), "1"))

	assert.Equal(t, "Cold soup", api.LastSaved.Title)
	assert.Equal(t, 15, api.LastSaved.TimeMinutes)
	assert.Equal(t, "4.50", api.LastSaved.Price)
	assert.Equal(t, "Boil it", api.LastSaved.Description)
	assert.Contains(t, *out, "== edit-recipe ==")
}

func TestCreateRecipe_InvalidInputReported(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	a := newTestApp(t, api, "tok-1")

	stubAnswers(t, "", "Soup", "abc", "4.50", "", "", "", "")
	err := a.Navigate(context.Background(), "/create-recipe")
	require.ErrorIs(t, err, models.ErrTimeNotNumber)

	assert.Empty(t, api.recipes)
	assert.Contains(t, joined(out), `time in minutes must be a whole number: "abc"`)
	assert.NotContains(t, joined(out), "time in minutes must be positive")

	stubAnswers(t, "", "Soup", "0", "4.50", "", "", "", "")
	require.Error(t, a.Navigate(context.Background(), "/create-recipe"))
	assert.Empty(t, api.recipes)
	assert.Contains(t, joined(out), "time in minutes must be positive")
}

func TestEdit_InvalidID(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "tok-1")

	require.Error(t, a.Edit(context.Background(), "abc"))
	assert.Contains(t, joined(out), `invalid id "abc"`)
}

func TestListRecipes_WithFilter(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	id := int64(1)
	api.recipes[1] = models.Recipe{ID: &id, Title: "Pie", TimeMinutes: 30, Price: "3.00"}
	api.nextID = 2
	a := newTestApp(t, api, "tok-1")

	require.NoError(t, a.Navigate(context.Background(), "/my-recipes?tags=1%2C2&ingredients=3"))

	assert.Equal(t, []int64{1, 2}, api.LastFilter.Tags)
	assert.Equal(t, []int64{3}, api.LastFilter.Ingredients)
	assert.Contains(t, *out, "[1] Pie, 30 min, $3.00")
}

func TestListRecipes_EmptyAndExpiredSession(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "tok-1")

	require.NoError(t, a.Navigate(context.Background(), "/my-recipes"))
	assert.Contains(t, *out, "No recipes yet, use 'create' to add one")

	b := newTestApp(t, newFakeAPI(), "stale")
	require.Error(t, b.Navigate(context.Background(), "/my-recipes"))
	assert.Contains(t, *out, "Your session has expired, please log in again")
}

func TestDelete(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	api.recipes[4] = models.Recipe{Title: "x"}
	a := newTestApp(t, api, "tok-1")

	require.NoError(t, a.Delete(context.Background(), "4"))
	assert.Equal(t, []int64{4}, api.Deleted)
	assert.Contains(t, *out, "Deleted recipe 4")

	require.Error(t, a.Delete(context.Background(), "4"))
	assert.Contains(t, *out, "Not found")
}

func TestRetag(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	id := int64(5)
	api.recipes[5] = models.Recipe{ID: &id, Title: "Stew", TimeMinutes: 60, Price: "7.00"}
	a := newTestApp(t, api, "tok-1")

	require.NoError(t, a.Retag(context.Background(), "5", "winter, slow"))

	require.NotNil(t, api.LastPatchRecipe.Tags)
	assert.Equal(t, []models.Tag{{Name: "winter"}, {Name: "slow"}}, *api.LastPatchRecipe.Tags)
	assert.Nil(t, api.LastPatchRecipe.Title)
	assert.Contains(t, joined(out), "Saved: [5] Stew, 60 min, $7.00 #winter #slow")

	require.NoError(t, a.Retag(context.Background(), "5", ""))
	require.NotNil(t, api.LastPatchRecipe.Tags)
	assert.Empty(t, *api.LastPatchRecipe.Tags)

	require.Error(t, a.Retag(context.Background(), "x", "a"))
}

func TestReingredient_ClearsIngredients(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	id := int64(6)
	api.recipes[6] = models.Recipe{ID: &id, Title: "Tea", TimeMinutes: 3, Price: "1.00",
		Ingredients: []models.Ingredient{{Name: "leaves"}, {Name: "water"}}}
	a := newTestApp(t, api, "tok-1")

	require.NoError(t, a.Reingredient(context.Background(), "6", ""))

	require.NotNil(t, api.LastPatchRecipe.Ingredients)
	assert.Empty(t, *api.LastPatchRecipe.Ingredients)
	assert.Nil(t, api.LastPatchRecipe.Tags)
	assert.Empty(t, api.recipes[6].Ingredients)
	assert.Contains(t, joined(out), "Saved: [6] Tea, 3 min, $1.00")

	require.NoError(t, a.Reingredient(context.Background(), "6", "mint"))
	assert.Equal(t, []models.Ingredient{{Name: "mint"}}, *api.LastPatchRecipe.Ingredients)
}

func TestUploadImage(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "tok-1")
	path := filepath.Join(t.TempDir(), "pie.png")
	require.NoError(t, os.WriteFile(path, []byte("PNG"), 0o600))

	require.NoError(t, a.UploadImage(context.Background(), "2", path))
	assert.Contains(t, *out, "Image uploaded: http://cdn/pie.png")
}

func TestTagsCommands(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	id := int64(5)
	api.tags = []models.Tag{{ID: &id, Name: "dinner"}}
	a := newTestApp(t, api, "tok-1")
	ctx := context.Background()

	require.NoError(t, a.Tags(ctx, nil))
	assert.Contains(t, *out, "[5] dinner")

	require.NoError(t, a.Tags(ctx, []string{"rename", "5", "late", "dinner"}))
	assert.Contains(t, *out, "Renamed")

	require.NoError(t, a.Ingredients(ctx, []string{"delete", "5"}))
	assert.Contains(t, *out, "Deleted")

	require.NoError(t, a.Ingredients(ctx, []string{"assigned"}))
	assert.Contains(t, *out, "Nothing here yet")

	require.NoError(t, a.Tags(ctx, []string{"bogus"}))
	assert.Contains(t, joined(out), "Usage: tags")
}

func TestExport_ToFile(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	id := int64(1)
	api.recipes[1] = models.Recipe{ID: &id, Title: "Pie", TimeMinutes: 30, Price: "3.00"}
	api.nextID = 2
	a := newTestApp(t, api, "tok-1")

	dest := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, a.Export(context.Background(), dest))
	assert.Contains(t, *out, "Exported to "+dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var snap struct {
		User    models.User     `json:"user"`
		Recipes []models.Recipe `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "Ann", snap.User.Name)
	require.Len(t, snap.Recipes, 1)
	assert.Equal(t, "Pie", snap.Recipes[0].Title)
}

func TestExport_NotLoggedIn(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, newFakeAPI(), "")

	require.Error(t, a.Export(context.Background(), filepath.Join(t.TempDir(), "x.json")))
	assert.Contains(t, *out, "Please log in first")
}

func TestReport(t *testing.T) {
	out := captureOutput(t)

	assert.NoError(t, report(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, report(boom), boom)
	assert.Contains(t, *out, "Error: boom")

	report(client.ErrUnavailable)
	assert.Contains(t, *out, "Server unavailable, try again later")
}

func TestApp_PersistsTokenInDatabase(t *testing.T) {
	captureOutput(t)
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "recipebook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	tokens := metadata.NewTokenStorage(db)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	a, err := newApp(ctx, cfg, logging.Discard(), newFakeAPI(), tokens, bufio.NewReader(strings.NewReader("")), io.Discard)
	require.NoError(t, err)
	stubAnswers(t, "secret1", "ann@example.org")
	require.NoError(t, a.Login(ctx))

	saved, err := tokens.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", saved)

	b, err := newApp(ctx, cfg, logging.Discard(), newFakeAPI(), tokens, bufio.NewReader(strings.NewReader("")), io.Discard)
	require.NoError(t, err)
	assert.True(t, b.isLoggedIn())

	out := captureOutput(t)
	stubAnswers(t, "", "n")
	require.NoError(t, b.Navigate(ctx, "/profile"))
	assert.Contains(t, joined(out), "Signed in since")
}

func TestRun_ExitsOnQuit(t *testing.T) {
	out := captureOutput(t)
	api := newFakeAPI()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	a, err := newApp(context.Background(), cfg, logging.Discard(), api, &memTokens{token: "tok-1"},
		bufio.NewReader(strings.NewReader("quit\n")), io.Discard)
	require.NoError(t, err)

	a.Run(context.Background())

	assert.Contains(t, *out, "Hello, Ann!")
	assert.Contains(t, *out, "rb (ann@example.org)>")
	assert.Contains(t, *out, "Bye!")
	assert.True(t, api.Closed)
}
