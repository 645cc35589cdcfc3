package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/lustre-atelier/backoffice/internal/app"
	"github.com/lustre-atelier/backoffice/internal/config"
	"github.com/lustre-atelier/backoffice/internal/feedback"
	"github.com/lustre-atelier/backoffice/internal/httpclient"
	"github.com/lustre-atelier/backoffice/internal/remote"
)

type ContextKey string

const (
	// RestyClientKey lets tests inject a resty client with a mocked transport.
	RestyClientKey ContextKey = "restyClient"
	// EnvKey carries an already open Env, e.g. the one of the interactive shell.
	EnvKey ContextKey = "env"
)

// Env is what a command needs to run: the validated config and an authenticated session.
type Env struct {
	Config      config.Config
	Session     *app.Session
	Interactive bool // Notifications are rendered as they arrive
}

// CreateRestClient creates a new REST client for the given root URL.
// A resty client found in the context is reused.
func CreateRestClient(ctx context.Context, url string) *httpclient.HttpClient {
	slog.Debug("Creating REST client...", "url", url)
	if ctx != nil {
		if client, ok := ctx.Value(RestyClientKey).(*resty.Client); ok && client != nil {
			return httpclient.NewWithClient(client.SetBaseURL(url))
		}
	}
	return httpclient.New(url)
}

// AuthenticateRestClient sets the bearer token, logging in first if no token was given
func AuthenticateRestClient(ctx context.Context, c *httpclient.HttpClient, auth config.AuthConfig) error {
	if auth.Token != "" {
		slog.Debug("using provided auth token")
		c.SetAuthToken(auth.Token)
		return nil
	}
	return remote.Login(ctx, c, auth.Username, auth.Password)
}

// OpenEnv returns the Env of the command, opening a new session if none is attached to its context.
func OpenEnv(cmd *cobra.Command) (*Env, error) {
	ctx := cmd.Context()
	if ctx != nil {
		if env, ok := ctx.Value(EnvKey).(*Env); ok && env != nil {
			return env, nil
		}
	}

	cfg := LoadConfigFromCLI()
	slog.Debug("args", "config", cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	authConfig := LoadAuthConfigFromCLI()
	if err := authConfig.Validate(); err != nil {
		return nil, err
	}

	client := CreateRestClient(ctx, cfg.Url)
	if err := AuthenticateRestClient(ctx, client, authConfig); err != nil {
		return nil, err
	}

	session := app.New(client, app.Options{Sequenced: cfg.Sequenced, ToastTTL: cfg.ToastTTL})
	return &Env{Config: cfg, Session: session}, nil
}

// printToasts renders the notifications still visible
func printToasts(w io.Writer, ch *feedback.Channel) {
	for _, n := range ch.Active() {
		fmt.Fprintln(w, feedback.Render(n))
	}
}
