package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/storage"
	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
	"golang.org/x/sync/errgroup"
)

// detailFetchLimit bounds concurrent recipe detail requests during export.
const detailFetchLimit = 4

// Snapshot is the exported document.
type Snapshot struct {
	ExportedAt  time.Time           `json:"exportedAt"`
	User        *models.User        `json:"user,omitempty"`
	Recipes     []models.Recipe     `json:"recipes"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

// SinkFactory opens the sink for a destination string.
type SinkFactory func(ctx context.Context, dest string) (storage.Sink, error)

// ExportService writes a snapshot of the user's recipes to a destination.
type ExportService interface {
	// Export returns the location the snapshot was written to.
	Export(ctx context.Context, dest string) (string, error)
}

type exportService struct {
	client client.Client
	tokens TokenSource
	sinks  SinkFactory
	logger logging.Logger
	now    func() time.Time
}

func NewExportService(c client.Client, tokens TokenSource, sinks SinkFactory, logger logging.Logger) ExportService {
	return &exportService{
		client: c,
		tokens: tokens,
		sinks:  sinks,
		logger: logger,
		now:    time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, dest string) (string, error) {
	token := s.tokens.Token()
	if token == "" {
		return "", common.ErrNotAuthenticated
	}

	sink, err := s.sinks(ctx, dest)
	if err != nil {
		return "", err
	}

	snap, err := s.snapshot(ctx, token)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := sink.Write(ctx, data); err != nil {
		return "", err
	}

	s.logger.Info(ctx, "export written",
		"location", sink.Location(),
		"recipes", len(snap.Recipes),
		"bytes", len(data))
	return sink.Location(), nil
}

func (s *exportService) snapshot(ctx context.Context, token string) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: s.now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.client.GetMe(gctx, token)
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		snap.User = u
		return nil
	})
	g.Go(func() error {
		recipes, err := s.client.ListRecipes(gctx, token, models.RecipeFilter{})
		if err != nil {
			return fmt.Errorf("list recipes: %w", err)
		}
		snap.Recipes = recipes
		return nil
	})
	g.Go(func() error {
		tags, err := s.client.ListTags(gctx, token, false)
		if err != nil {
			return fmt.Errorf("list tags: %w", err)
		}
		snap.Tags = tags
		return nil
	})
	g.Go(func() error {
		ings, err := s.client.ListIngredients(gctx, token, false)
		if err != nil {
			return fmt.Errorf("list ingredients: %w", err)
		}
		snap.Ingredients = ings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	details, err := s.details(ctx, token, snap.Recipes)
	if err != nil {
		return nil, err
	}
	snap.Recipes = details

	if snap.Recipes == nil {
		snap.Recipes = []models.Recipe{}
	}
	if snap.Tags == nil {
		snap.Tags = []models.Tag{}
	}
	if snap.Ingredients == nil {
		snap.Ingredients = []models.Ingredient{}
	}
	return snap, nil
}

// details replaces list entries with full recipes, keeping the order.
func (s *exportService) details(ctx context.Context, token string, list []models.Recipe) ([]models.Recipe, error) {
	out := make([]models.Recipe, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)
	for i, r := range list {
		if r.ID == nil {
			out[i] = r
			continue
		}
		g.Go(func() error {
			full, err := s.client.GetRecipe(gctx, token, *r.ID)
			if err != nil {
				return fmt.Errorf("fetch recipe %d: %w", *r.ID, err)
			}
			out[i] = *full
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
