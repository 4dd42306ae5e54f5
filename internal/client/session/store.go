package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// AccountClient is the part of client.Client the store talks to.
type AccountClient interface {
	CreateUser(ctx context.Context, email, password, name string) error
	CreateToken(ctx context.Context, email, password string) (string, error)
	GetMe(ctx context.Context, token string) (*models.User, error)
	UpdateMe(ctx context.Context, token string, u models.ProfileUpdate) (*models.User, error)
	PatchMe(ctx context.Context, token string, p models.ProfilePatch) (*models.User, error)
}

// TokenStore keeps the bearer token across runs.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// State is a snapshot of the session. ErrorMessage is empty when there is
// no error to show.
type State struct {
	User         *models.User
	Token        string
	Loading      bool
	ErrorMessage string
	IsSuccessful bool
}

// LoggedIn reports whether a token is present.
func (s State) LoggedIn() bool {
	return s.Token != ""
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

type subscriber struct {
	id int
	fn func(State)
}

// Store holds the session state and performs account operations.
//
// Operations may be called from several goroutines; each state change is
// applied atomically, but concurrent operations still overwrite each
// other's flags in completion order. Subscribers see snapshots in the order
// the changes were applied, one call at a time, and the last snapshot they
// see matches State.
type Store struct {
	client AccountClient
	tokens TokenStore
	logger logging.Logger

	mu     sync.Mutex
	state  State
	seq    uint64
	subs   []subscriber
	nextID int

	notifyMu  sync.Mutex
	delivered uint64
}

// NewStore builds a store whose token mirrors what tokens holds.
func NewStore(ctx context.Context, c AccountClient, tokens TokenStore, logger logging.Logger) (*Store, error) {
	token, err := tokens.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Store{
		client: c,
		tokens: tokens,
		logger: logger,
		state:  State{Token: token},
	}, nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// apply mutates the state under the lock and publishes the result.
// Subscribers run outside the state lock and may read the store, but must
// not change it. A snapshot older than one already delivered is dropped.
func (s *Store) apply(delta func(*State)) {
	s.mu.Lock()
	delta(&s.state)
	s.seq++
	seq := s.seq
	snapshot := s.state.clone()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.delivered {
		return
	}
	s.delivered = seq
	for _, sub := range subs {
		sub.fn(snapshot.clone())
	}
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *Store) fail(f *ValidationFailure) error {
	s.apply(func(st *State) { st.ErrorMessage = f.Message })
	return f
}

func (s *Store) startLoading() {
	s.apply(func(st *State) {
		st.ErrorMessage = ""
		st.Loading = true
	})
}

// Register creates an account. It does not log the user in.
func (s *Store) Register(ctx context.Context, email, name, password string) error {
	if f := firstFailure(checkEmail(email), checkName(name), checkPassword(password)); f != nil {
		return s.fail(f)
	}

	s.startLoading()
	err := s.client.CreateUser(ctx, email, password, name)
	if err == nil {
		s.apply(func(st *State) {
			st.Loading = false
			st.IsSuccessful = true
			st.ErrorMessage = ""
		})
		return nil
	}

	msg := registerMessage(err)
	s.logger.Warn(ctx, "register failed", "email", email, "error", err)
	s.apply(func(st *State) {
		st.Loading = false
		st.ErrorMessage = msg
	})
	return classify(err, msg)
}

func registerMessage(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		return MsgRegisterFailed
	}
	body := apiErr.Body
	switch {
	case body.Has(client.FieldEmail) && body.Has(client.FieldName):
		return MsgUserExists
	case body.Has(client.FieldEmail):
		return body.First(client.FieldEmail)
	case body.Has(client.FieldName):
		return body.First(client.FieldName)
	}
	return MsgRegisterFailed
}

// Login exchanges credentials for a token and persists it.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if f := firstFailure(checkEmail(email), checkPassword(password)); f != nil {
		return s.fail(f)
	}

	s.startLoading()
	token, err := s.client.CreateToken(ctx, email, password)
	if err != nil {
		msg := loginMessage(err)
		s.logger.Warn(ctx, "login failed", "email", email, "error", err)
		s.apply(func(st *State) {
			st.Loading = false
			st.ErrorMessage = msg
		})
		return classify(err, msg)
	}

	if err := s.tokens.Save(ctx, token); err != nil {
		s.logger.Error(ctx, "saving token failed", "error", err)
	}
	s.apply(func(st *State) {
		if st.Token != token {
			st.User = nil
		}
		st.Loading = false
		st.Token = token
		st.IsSuccessful = true
		st.ErrorMessage = ""
	})
	return nil
}

func loginMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		if msg := apiErr.Body.First(client.FieldNonFieldErrors); msg != "" {
			return msg
		}
	}
	return MsgLoginFailed
}

// FetchProfile replaces the current user with the server's copy. Failures
// are logged and returned but never shown through ErrorMessage.
func (s *Store) FetchProfile(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return &ValidationFailure{Field: FieldToken, Message: MsgNotLoggedIn}
	}

	s.apply(func(st *State) { st.Loading = true })
	u, err := s.client.GetMe(ctx, token)
	if err != nil {
		s.logger.Error(ctx, "fetching profile failed", "error", err)
		s.apply(func(st *State) { st.Loading = false })
		return classify(err, "")
	}

	s.apply(func(st *State) {
		st.Loading = false
		st.User = u
	})
	return nil
}

// UpdateProfile changes the profile. When email and name both differ from
// the current user and a password is given the profile is replaced with
// PUT; otherwise only the changed fields are sent with PATCH. Nothing is
// sent when nothing changed. An empty password keeps the current one.
func (s *Store) UpdateProfile(ctx context.Context, email, name, password string) error {
	checks := []*ValidationFailure{checkEmail(email), checkName(name)}
	if password != "" {
		checks = append(checks, checkPassword(password))
	}
	if f := firstFailure(checks...); f != nil {
		return s.fail(f)
	}

	snap := s.State()
	if snap.Token == "" {
		return s.fail(&ValidationFailure{Field: FieldToken, Message: MsgNotLoggedIn})
	}
	var current models.User
	if snap.User != nil {
		current = *snap.User
	}

	var send func() error
	switch {
	case email != current.Email && name != current.Name && password != "":
		send = func() error {
			_, err := s.client.UpdateMe(ctx, snap.Token, models.ProfileUpdate{Email: email, Name: name, Password: password})
			return err
		}
	default:
		patch := profilePatch(current, email, name, password)
		if patch.IsEmpty() {
			s.logger.Debug(ctx, "profile unchanged, nothing to send")
			return nil
		}
		send = func() error {
			_, err := s.client.PatchMe(ctx, snap.Token, patch)
			return err
		}
	}

	s.startLoading()
	if err := send(); err != nil {
		s.logger.Error(ctx, "updating profile failed", "error", err)
		msg := err.Error()
		s.apply(func(st *State) {
			st.Loading = false
			st.ErrorMessage = msg
		})
		return classify(err, msg)
	}

	// a failed refresh is logged by FetchProfile and does not undo the update
	_ = s.FetchProfile(ctx)
	s.apply(func(st *State) {
		st.Loading = false
		st.IsSuccessful = true
	})
	return nil
}

func profilePatch(current models.User, email, name, password string) models.ProfilePatch {
	var p models.ProfilePatch
	if email != current.Email {
		p.Email = &email
	}
	if name != current.Name {
		p.Name = &name
	}
	if password != "" {
		p.Password = &password
	}
	return p
}

// Logout forgets the token locally and in durable storage. The in-memory
// session is cleared even when storage fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.tokens.Clear(ctx)
	s.apply(func(st *State) { *st = State{} })
	if err != nil {
		s.logger.Error(ctx, "clearing token failed", "error", err)
		return &TransportFailure{Message: MsgLogoutFailed, Err: err}
	}
	return nil
}

// Reset clears the outcome of the previous operation before a new form.
func (s *Store) Reset() {
	s.apply(func(st *State) {
		st.ErrorMessage = ""
		st.IsSuccessful = false
	})
}
