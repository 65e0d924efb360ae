package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OkiljonDadakhanov/icho-platform/internal/client/apiclient"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/config"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/localdb"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/services"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/tokenstore"
	"github.com/OkiljonDadakhanov/icho-platform/internal/logging"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	api         *apiclient.Client
	authService services.AuthService
	repos       *localdb.Repositories
	userName    string
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the local database and builds the one API client every
// command shares.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := localdb.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := apiclient.New(ctx, apiclient.Options{
		BaseURL:   c.APIBaseURL,
		PortalURL: c.PortalURL,
		Store:     tokenstore.New(repos.Metadata),
		Logger:    log,
		Timeout:   c.RequestTimeout,
	})
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &App{
		config:      c,
		log:         log,
		api:         api,
		authService: services.NewAuthService(api, repos.Metadata),
		repos:       repos,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Close removes documents still open in the viewer and closes the local
// database.
func (a *App) Close() error {
	var errs []error
	if a.api != nil {
		errs = append(errs, a.api.Close())
	}
	if a.repos != nil {
		errs = append(errs, a.repos.Close())
	}
	return errors.Join(errs...)
}

// Run blocks in the REPL until the user exits or ctx is canceled.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to the ICHO portal CLI (type 'help' for commands)")
	if a.api.BaseURL() == "" {
		printlnFn("API url is not configured: requests will fail until -a or ICHO_API_URL is set")
	}

	a.restoreUserName(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		a.userName = ""
		return ""
	}
	if a.userName != "" {
		return fmt.Sprintf(" (%s)", a.userName)
	}
	return " (logged in)"
}
