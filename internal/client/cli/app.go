package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/client/router"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/client/session"
	"github.com/dmitrijs2005/recipebook/internal/client/storage"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	api     client.Client
	store   *session.Store
	router  *router.Router
	recipes services.RecipeService
	export  services.ExportService
	tokens  session.TokenStore
	reader  *bufio.Reader
	out     io.Writer

	last        session.State
	unsubscribe func()
}

// NewApp opens the local database, connects the API client and wires the
// session store, router and services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a, err := newApp(ctx, c, logger, api, metadata.NewTokenStorage(db), bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, api client.Client,
	tokens session.TokenStore, reader *bufio.Reader, out io.Writer) (*App, error) {

	store, err := session.NewStore(ctx, api, tokens, logger)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	r, err := router.New(router.Routes)
	if err != nil {
		return nil, err
	}

	s3opts := storage.S3Options{
		Region:       c.S3.Region,
		Endpoint:     c.S3.Endpoint,
		AccessKey:    c.S3.AccessKey,
		SecretKey:    c.S3.SecretKey,
		UsePathStyle: c.S3.UsePathStyle,
	}
	sinks := func(ctx context.Context, dest string) (storage.Sink, error) {
		return storage.NewSink(ctx, dest, s3opts)
	}

	a := &App{
		config:  c,
		logger:  logger,
		api:     api,
		store:   store,
		router:  r,
		recipes: services.NewRecipeService(api, store),
		export:  services.NewExportService(api, store, sinks, logger),
		tokens:  tokens,
		reader:  reader,
		out:     out,
		last:    store.State(),
	}
	a.registerViews()
	a.unsubscribe = store.Subscribe(a.render)
	return a, nil
}

func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	err := a.api.Close()
	if a.db != nil {
		if dbErr := a.db.Close(); err == nil {
			err = dbErr
		}
	}
	return err
}

// Run refreshes the profile of a remembered session and starts the REPL.
// It blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to recipebook CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		if err := a.store.FetchProfile(ctx); err != nil {
			printlnFn("Could not refresh your profile, please log in again if commands fail")
		}
	}
	_ = a.Navigate(ctx, "/")

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.store.State().LoggedIn()
}
