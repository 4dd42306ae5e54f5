package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/router"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// Navigate shows the screen at path.
func (a *App) Navigate(ctx context.Context, path string) error {
	_, err := a.router.Navigate(ctx, path)
	if err != nil {
		a.logger.Debug(ctx, "navigation failed", "path", path, "error", err)
	}
	if errors.Is(err, router.ErrNoRoute) {
		return report(err)
	}
	return err
}

// Edit opens the recipe form for an existing recipe.
func (a *App) Edit(ctx context.Context, rawID string) error {
	if _, err := parseID(rawID); err != nil {
		return report(err)
	}
	path, err := a.router.Path(router.RouteEditRecipe, router.Params{router.ParamRecipeID: rawID})
	if err != nil {
		return report(err)
	}
	return a.Navigate(ctx, path)
}

func (a *App) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return report(err)
	}
	if err := a.recipes.Delete(ctx, id); err != nil {
		return report(err)
	}
	printlnFn("Deleted recipe", id)
	return nil
}

// Retag replaces the tags of a recipe with the comma separated names,
// leaving the other fields untouched. Empty names clear the tags.
func (a *App) Retag(ctx context.Context, rawID, names string) error {
	tags := models.TagsFromNames(models.ParseNames(names))
	return a.patchRecipe(ctx, rawID, models.RecipePatch{Tags: &tags})
}

// Reingredient does for ingredients what Retag does for tags.
func (a *App) Reingredient(ctx context.Context, rawID, names string) error {
	ings := models.IngredientsFromNames(models.ParseNames(names))
	return a.patchRecipe(ctx, rawID, models.RecipePatch{Ingredients: &ings})
}

func (a *App) patchRecipe(ctx context.Context, rawID string, p models.RecipePatch) error {
	id, err := parseID(rawID)
	if err != nil {
		return report(err)
	}
	rec, err := a.recipes.Patch(ctx, id, p)
	if err != nil {
		return report(err)
	}
	printlnFn("Saved:", rec.String())
	return nil
}

func (a *App) UploadImage(ctx context.Context, rawID, path string) error {
	id, err := parseID(rawID)
	if err != nil {
		return report(err)
	}
	url, err := a.recipes.UploadImage(ctx, id, path)
	if err != nil {
		return report(err)
	}
	printlnFn("Image uploaded:", url)
	return nil
}

// Tags lists tags, or renames or deletes one:
//
//	tags [assigned]
//	tags rename <id> <name>
//	tags delete <id>
func (a *App) Tags(ctx context.Context, args []string) error {
	return a.labels(ctx, args, labelOps{
		list: func(assigned bool) ([]string, error) {
			tags, err := a.recipes.Tags(ctx, assigned)
			if err != nil {
				return nil, err
			}
			out := make([]string, len(tags))
			for i, t := range tags {
				out[i] = labelLine(t.ID, t.Name)
			}
			return out, nil
		},
		rename: func(id int64, name string) error {
			_, err := a.recipes.RenameTag(ctx, id, name)
			return err
		},
		remove: func(id int64) error { return a.recipes.DeleteTag(ctx, id) },
		usage:  "Usage: tags [assigned] | tags rename <id> <name> | tags delete <id>",
	})
}

// Ingredients works like Tags for ingredients.
func (a *App) Ingredients(ctx context.Context, args []string) error {
	return a.labels(ctx, args, labelOps{
		list: func(assigned bool) ([]string, error) {
			ings, err := a.recipes.Ingredients(ctx, assigned)
			if err != nil {
				return nil, err
			}
			out := make([]string, len(ings))
			for i, t := range ings {
				out[i] = labelLine(t.ID, t.Name)
			}
			return out, nil
		},
		rename: func(id int64, name string) error {
			_, err := a.recipes.RenameIngredient(ctx, id, name)
			return err
		},
		remove: func(id int64) error { return a.recipes.DeleteIngredient(ctx, id) },
		usage:  "Usage: ingredients [assigned] | ingredients rename <id> <name> | ingredients delete <id>",
	})
}

type labelOps struct {
	list   func(assigned bool) ([]string, error)
	rename func(id int64, name string) error
	remove func(id int64) error
	usage  string
}

func labelLine(id *int64, name string) string {
	if id == nil {
		return name
	}
	return fmt.Sprintf("[%d] %s", *id, name)
}

func (a *App) labels(_ context.Context, args []string, ops labelOps) error {
	if len(args) == 0 || (len(args) == 1 && args[0] == "assigned") {
		lines, err := ops.list(len(args) == 1)
		if err != nil {
			return report(err)
		}
		if len(lines) == 0 {
			printlnFn("Nothing here yet")
		}
		for _, l := range lines {
			printlnFn(l)
		}
		return nil
	}

	switch {
	case args[0] == "rename" && len(args) >= 3:
		id, err := parseID(args[1])
		if err != nil {
			return report(err)
		}
		if err := ops.rename(id, strings.Join(args[2:], " ")); err != nil {
			return report(err)
		}
		printlnFn("Renamed")
	case args[0] == "delete" && len(args) == 2:
		id, err := parseID(args[1])
		if err != nil {
			return report(err)
		}
		if err := ops.remove(id); err != nil {
			return report(err)
		}
		printlnFn("Deleted")
	default:
		printlnFn(ops.usage)
	}
	return nil
}

// Export writes a snapshot of the user's data to dest (a file path or
// s3://bucket/key).
func (a *App) Export(ctx context.Context, dest string) error {
	loc, err := a.export.Export(ctx, dest)
	if err != nil {
		return report(err)
	}
	printlnFn("Exported to", loc)
	return nil
}
