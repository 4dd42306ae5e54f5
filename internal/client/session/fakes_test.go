package session

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

type fakeClient struct {
	CreateUserErr  error
	CreateTokenRet string
	CreateTokenErr error
	GetMeRet       *models.User
	GetMeErr       error
	UpdateMeErr    error
	PatchMeErr     error

	// OnCall runs inside every call, before it returns.
	OnCall func(method string)

	Calls []string

	LastCreateUser  models.Credentials
	LastCreateToken models.Credentials
	LastGetMeToken  string
	LastUpdate      models.ProfileUpdate
	LastPatch       models.ProfilePatch
	LastToken       string
}

func (f *fakeClient) record(method string) {
	f.Calls = append(f.Calls, method)
	if f.OnCall != nil {
		f.OnCall(method)
	}
}

func (f *fakeClient) CreateUser(_ context.Context, email, password, name string) error {
	f.LastCreateUser = models.Credentials{Email: email, Password: password, Name: name}
	f.record("CreateUser")
	return f.CreateUserErr
}

func (f *fakeClient) CreateToken(_ context.Context, email, password string) (string, error) {
	f.LastCreateToken = models.Credentials{Email: email, Password: password}
	f.record("CreateToken")
	return f.CreateTokenRet, f.CreateTokenErr
}

func (f *fakeClient) GetMe(_ context.Context, token string) (*models.User, error) {
	f.LastGetMeToken = token
	f.record("GetMe")
	if f.GetMeErr != nil {
		return nil, f.GetMeErr
	}
	u := *f.GetMeRet
	return &u, nil
}

func (f *fakeClient) UpdateMe(_ context.Context, token string, u models.ProfileUpdate) (*models.User, error) {
	f.LastToken = token
	f.LastUpdate = u
	f.record("UpdateMe")
	if f.UpdateMeErr != nil {
		return nil, f.UpdateMeErr
	}
	return &models.User{Email: u.Email, Name: u.Name}, nil
}

func (f *fakeClient) PatchMe(_ context.Context, token string, p models.ProfilePatch) (*models.User, error) {
	f.LastToken = token
	f.LastPatch = p
	f.record("PatchMe")
	return &models.User{}, f.PatchMeErr
}

// ---- fake token store ----

type fakeTokens struct {
	mu sync.Mutex

	Token    string
	LoadErr  error
	SaveErr  error
	ClearErr error

	Saved   []string
	Cleared int
}

func (f *fakeTokens) Load(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Token, f.LoadErr
}

func (f *fakeTokens) Save(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saved = append(f.Saved, token)
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Token = token
	return nil
}

func (f *fakeTokens) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cleared++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.Token = ""
	return nil
}

func newTestStore(t *testing.T, c AccountClient, tokens *fakeTokens) *Store {
	t.Helper()
	if tokens == nil {
		tokens = &fakeTokens{}
	}
	s, err := NewStore(context.Background(), c, tokens, logging.Discard())
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }
