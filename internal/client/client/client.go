package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// Client is the transport-agnostic contract of the recipe API.
// Authenticated calls take the session token explicitly; the client itself
// holds no session state.
type Client interface {
	Close() error

	CreateUser(ctx context.Context, email, password, name string) error
	CreateToken(ctx context.Context, email, password string) (string, error)
	GetMe(ctx context.Context, token string) (*models.User, error)
	UpdateMe(ctx context.Context, token string, u models.ProfileUpdate) (*models.User, error)
	PatchMe(ctx context.Context, token string, p models.ProfilePatch) (*models.User, error)

	ListRecipes(ctx context.Context, token string, f models.RecipeFilter) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, token string, id int64) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, token string, r models.Recipe) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, token string, id int64, r models.Recipe) (*models.Recipe, error)
	PatchRecipe(ctx context.Context, token string, id int64, p models.RecipePatch) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, token string, id int64) error
	UploadRecipeImage(ctx context.Context, token string, id int64, filename string, image io.Reader) (string, error)

	ListTags(ctx context.Context, token string, assignedOnly bool) ([]models.Tag, error)
	UpdateTag(ctx context.Context, token string, id int64, name string) (*models.Tag, error)
	DeleteTag(ctx context.Context, token string, id int64) error

	ListIngredients(ctx context.Context, token string, assignedOnly bool) ([]models.Ingredient, error)
	UpdateIngredient(ctx context.Context, token string, id int64, name string) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, token string, id int64) error
}

var _ Client = (*HTTPClient)(nil)
