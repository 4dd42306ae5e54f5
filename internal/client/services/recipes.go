package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// TokenSource yields the bearer token of the current session.
type TokenSource interface {
	Token() string
}

// RecipeService manages the current user's recipes, tags and ingredients.
// Every call fails with common.ErrNotAuthenticated when nobody is logged in.
type RecipeService interface {
	List(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error)
	Get(ctx context.Context, id int64) (*models.Recipe, error)
	// Save creates rec when it has no ID and replaces it otherwise.
	Save(ctx context.Context, rec models.Recipe) (*models.Recipe, error)
	Patch(ctx context.Context, id int64, p models.RecipePatch) (*models.Recipe, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, path string) (string, error)

	Tags(ctx context.Context, assignedOnly bool) ([]models.Tag, error)
	RenameTag(ctx context.Context, id int64, name string) (*models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error

	Ingredients(ctx context.Context, assignedOnly bool) ([]models.Ingredient, error)
	RenameIngredient(ctx context.Context, id int64, name string) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id int64) error
}

type recipeService struct {
	client client.Client
	tokens TokenSource
}

func NewRecipeService(c client.Client, tokens TokenSource) RecipeService {
	return &recipeService{client: c, tokens: tokens}
}

func (s *recipeService) token() (string, error) {
	t := s.tokens.Token()
	if t == "" {
		return "", common.ErrNotAuthenticated
	}
	return t, nil
}

func (s *recipeService) List(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.ListRecipes(ctx, token, f)
}

func (s *recipeService) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.GetRecipe(ctx, token, id)
}

func (s *recipeService) Save(ctx context.Context, rec models.Recipe) (*models.Recipe, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorIncorrectRecipe, err)
	}
	if rec.ID == nil {
		return s.client.CreateRecipe(ctx, token, rec)
	}
	return s.client.UpdateRecipe(ctx, token, *rec.ID, rec)
}

func (s *recipeService) Patch(ctx context.Context, id int64, p models.RecipePatch) (*models.Recipe, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorIncorrectRecipe, err)
	}
	if p.IsEmpty() {
		return s.client.GetRecipe(ctx, token, id)
	}
	return s.client.PatchRecipe(ctx, token, id, p)
}

func (s *recipeService) Delete(ctx context.Context, id int64) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.client.DeleteRecipe(ctx, token, id)
}

func (s *recipeService) UploadImage(ctx context.Context, id int64, path string) (string, error) {
	token, err := s.token()
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	return s.client.UploadRecipeImage(ctx, token, id, filepath.Base(path), f)
}

func (s *recipeService) Tags(ctx context.Context, assignedOnly bool) ([]models.Tag, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.ListTags(ctx, token, assignedOnly)
}

func (s *recipeService) RenameTag(ctx context.Context, id int64, name string) (*models.Tag, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.client.UpdateTag(ctx, token, id, name)
}

func (s *recipeService) DeleteTag(ctx context.Context, id int64) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.client.DeleteTag(ctx, token, id)
}

func (s *recipeService) Ingredients(ctx context.Context, assignedOnly bool) ([]models.Ingredient, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.ListIngredients(ctx, token, assignedOnly)
}

func (s *recipeService) RenameIngredient(ctx context.Context, id int64, name string) (*models.Ingredient, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.client.UpdateIngredient(ctx, token, id, name)
}

func (s *recipeService) DeleteIngredient(ctx context.Context, id int64) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.client.DeleteIngredient(ctx, token, id)
}
