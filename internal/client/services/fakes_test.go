package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

// fakeClient implements client.Client. It is safe for concurrent use.
type fakeClient struct {
	mu sync.Mutex

	Recipes      []models.Recipe
	Details      map[int64]models.Recipe
	TagList      []models.Tag
	IngList      []models.Ingredient
	Me           *models.User
	Err          error
	GetRecipeErr error

	Calls []string

	LastToken    string
	LastFilter   models.RecipeFilter
	LastRecipe   models.Recipe
	LastID       int64
	LastPatch    models.RecipePatch
	LastName     string
	LastAssigned bool
	LastFilename string
	LastImage    []byte
}

func (f *fakeClient) rec(call, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
	f.LastToken = token
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) CreateUser(context.Context, string, string, string) error { return nil }

func (f *fakeClient) CreateToken(context.Context, string, string) (string, error) { return "", nil }

func (f *fakeClient) GetMe(_ context.Context, token string) (*models.User, error) {
	f.rec("GetMe", token)
	return f.Me, f.Err
}

func (f *fakeClient) UpdateMe(context.Context, string, models.ProfileUpdate) (*models.User, error) {
	return nil, nil
}

func (f *fakeClient) PatchMe(context.Context, string, models.ProfilePatch) (*models.User, error) {
	return nil, nil
}

func (f *fakeClient) ListRecipes(_ context.Context, token string, flt models.RecipeFilter) ([]models.Recipe, error) {
	f.rec("ListRecipes", token)
	f.mu.Lock()
	f.LastFilter = flt
	f.mu.Unlock()
	return f.Recipes, f.Err
}

func (f *fakeClient) GetRecipe(_ context.Context, token string, id int64) (*models.Recipe, error) {
	f.rec("GetRecipe", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastID = id
	if f.GetRecipeErr != nil {
		return nil, f.GetRecipeErr
	}
	r := f.Details[id]
	return &r, nil
}

func (f *fakeClient) CreateRecipe(_ context.Context, token string, r models.Recipe) (*models.Recipe, error) {
	f.rec("CreateRecipe", token)
	f.LastRecipe = r
	id := int64(100)
	r.ID = &id
	return &r, f.Err
}

func (f *fakeClient) UpdateRecipe(_ context.Context, token string, id int64, r models.Recipe) (*models.Recipe, error) {
	f.rec("UpdateRecipe", token)
	f.LastID = id
	f.LastRecipe = r
	return &r, f.Err
}

func (f *fakeClient) PatchRecipe(_ context.Context, token string, id int64, p models.RecipePatch) (*models.Recipe, error) {
	f.rec("PatchRecipe", token)
	f.LastID = id
	f.LastPatch = p
	return &models.Recipe{}, f.Err
}

func (f *fakeClient) DeleteRecipe(_ context.Context, token string, id int64) error {
	f.rec("DeleteRecipe", token)
	f.LastID = id
	return f.Err
}

func (f *fakeClient) UploadRecipeImage(_ context.Context, token string, id int64, filename string, image io.Reader) (string, error) {
	f.rec("UploadRecipeImage", token)
	f.LastID = id
	f.LastFilename = filename
	f.LastImage, _ = io.ReadAll(image)
	return "http://cdn/" + filename, f.Err
}

func (f *fakeClient) ListTags(_ context.Context, token string, assignedOnly bool) ([]models.Tag, error) {
	f.rec("ListTags", token)
	f.mu.Lock()
	f.LastAssigned = assignedOnly
	f.mu.Unlock()
	return f.TagList, f.Err
}

func (f *fakeClient) UpdateTag(_ context.Context, token string, id int64, name string) (*models.Tag, error) {
	f.rec("UpdateTag", token)
	f.LastID = id
	f.LastName = name
	return &models.Tag{ID: &id, Name: name}, f.Err
}

func (f *fakeClient) DeleteTag(_ context.Context, token string, id int64) error {
	f.rec("DeleteTag", token)
	f.LastID = id
	return f.Err
}

func (f *fakeClient) ListIngredients(_ context.Context, token string, assignedOnly bool) ([]models.Ingredient, error) {
	f.rec("ListIngredients", token)
	f.mu.Lock()
	f.LastAssigned = assignedOnly
	f.mu.Unlock()
	return f.IngList, f.Err
}

func (f *fakeClient) UpdateIngredient(_ context.Context, token string, id int64, name string) (*models.Ingredient, error) {
	f.rec("UpdateIngredient", token)
	f.LastID = id
	f.LastName = name
	return &models.Ingredient{ID: &id, Name: name}, f.Err
}

func (f *fakeClient) DeleteIngredient(_ context.Context, token string, id int64) error {
	f.rec("DeleteIngredient", token)
	f.LastID = id
	return f.Err
}

func idPtr(id int64) *int64 { return &id }
