package models

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidTime   = errors.New("time in minutes must be positive")
	ErrTimeNotNumber = errors.New("time in minutes must be a whole number")
	ErrInvalidPrice  = errors.New("price must be a decimal with at most two fraction digits")
	ErrInvalidIDList = errors.New("id list must be comma separated numbers")
)

var priceRe = regexp.MustCompile(`^\d{1,3}(\.\d{1,2})?$`)

// Tag is a user-owned label attached to recipes.
type Tag struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name"`
}

// Ingredient is a user-owned ingredient attached to recipes.
type Ingredient struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name"`
}

// Recipe mirrors the recipe detail representation of the API.
// ID is assigned by the server and absent on create.
type Recipe struct {
	ID          *int64       `json:"id,omitempty"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"timeMinutes"`
	Price       string       `json:"price"`
	Link        string       `json:"link,omitempty"`
	Tags        []Tag        `json:"tags,omitempty"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	Description string       `json:"description,omitempty"`
	Image       string       `json:"image,omitempty"`
}

// Validate checks the fields the API requires before a create or update.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	if r.TimeMinutes <= 0 {
		return ErrInvalidTime
	}
	if !priceRe.MatchString(r.Price) {
		return ErrInvalidPrice
	}
	return nil
}

func (r Recipe) String() string {
	id := "-"
	if r.ID != nil {
		id = strconv.FormatInt(*r.ID, 10)
	}
	names := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		names = append(names, t.Name)
	}
	s := fmt.Sprintf("[%s] %s, %d min, $%s", id, r.Title, r.TimeMinutes, r.Price)
	if len(names) > 0 {
		s += " #" + strings.Join(names, " #")
	}
	return s
}

// RecipePatch is a partial recipe update. Nil fields are left unchanged.
type RecipePatch struct {
	Title       *string       `json:"title,omitempty"`
	TimeMinutes *int          `json:"timeMinutes,omitempty"`
	Price       *string       `json:"price,omitempty"`
	Link        *string       `json:"link,omitempty"`
	Description *string       `json:"description,omitempty"`
	Tags        *[]Tag        `json:"tags,omitempty"`
	Ingredients *[]Ingredient `json:"ingredients,omitempty"`
}

// IsEmpty reports whether the patch would not change anything.
func (p RecipePatch) IsEmpty() bool {
	return p.Title == nil && p.TimeMinutes == nil && p.Price == nil && p.Link == nil &&
		p.Description == nil && p.Tags == nil && p.Ingredients == nil
}

// Validate applies the Recipe rules to the fields that are set.
func (p RecipePatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	if p.TimeMinutes != nil && *p.TimeMinutes <= 0 {
		return ErrInvalidTime
	}
	if p.Price != nil && !priceRe.MatchString(*p.Price) {
		return ErrInvalidPrice
	}
	return nil
}

// TagsFromNames builds new tags from names; the API creates missing ones.
func TagsFromNames(names []string) []Tag {
	tags := make([]Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, Tag{Name: n})
	}
	return tags
}

// IngredientsFromNames builds new ingredients from names.
func IngredientsFromNames(names []string) []Ingredient {
	out := make([]Ingredient, 0, len(names))
	for _, n := range names {
		out = append(out, Ingredient{Name: n})
	}
	return out
}

// RecipeFilter narrows the recipe list to recipes carrying any of the given
// tag or ingredient ids.
type RecipeFilter struct {
	Tags        []int64
	Ingredients []int64
}

// Query encodes the filter as the API expects: comma separated id lists.
func (f RecipeFilter) Query() url.Values {
	q := url.Values{}
	if len(f.Tags) > 0 {
		q.Set("tags", joinIDs(f.Tags))
	}
	if len(f.Ingredients) > 0 {
		q.Set("ingredients", joinIDs(f.Ingredients))
	}
	return q
}

// ParseIDList parses "1,2,3" into ids. An empty string yields nil.
func ParseIDList(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, ErrInvalidIDList
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseNames splits a comma separated list of tag or ingredient names,
// dropping blanks.
func ParseNames(s string) []string {
	var names []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func joinIDs(ids []int64) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(s, ",")
}
