package metadata

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/dbx"
)

const tokenSavedAtKey = "token_saved_at"

// TokenStorage keeps the session token durable across runs. The token is the
// plain string under common.TokenMetadataKey.
type TokenStorage struct {
	db  *sql.DB
	now func() time.Time
}

func NewTokenStorage(db *sql.DB) *TokenStorage {
	return &TokenStorage{db: db, now: time.Now}
}

// Load returns the stored token, or "" when none has been saved.
func (s *TokenStorage) Load(ctx context.Context) (string, error) {
	v, err := NewSQLiteRepository(s.db).Get(ctx, common.TokenMetadataKey)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Save stores token together with the time it was saved.
func (s *TokenStorage) Save(ctx context.Context, token string) error {
	savedAt := s.now().UTC().Format(time.RFC3339)
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.TokenMetadataKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, tokenSavedAtKey, []byte(savedAt))
	})
}

// SavedAt reports when the current token was saved. ok is false if there is
// no token.
func (s *TokenStorage) SavedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	v, err := NewSQLiteRepository(s.db).Get(ctx, tokenSavedAtKey)
	if errors.Is(err, common.ErrorNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Clear removes the token.
func (s *TokenStorage) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.TokenMetadataKey); err != nil {
			return err
		}
		return repo.Delete(ctx, tokenSavedAtKey)
	})
}
