// Package common defines shared constants and sentinel errors used across
// client layers of recipebook. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Validation errors for recipe input.
	ErrorIncorrectRecipe = errors.New("incorrect recipe")
)
