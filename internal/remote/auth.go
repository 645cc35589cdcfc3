package remote

import (
	"context"
	"errors"
	"log/slog"

	pkgerrors "github.com/pkg/errors"

	"github.com/lustre-atelier/backoffice/internal/httpclient"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	Data        struct {
		Token string `json:"token"`
	} `json:"data"`
}

// Value returns whichever token field the server filled.
func (t Token) Value() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.Data.Token
}

// Login authenticates against the API and sets the bearer token on the client.
func Login(ctx context.Context, c *httpclient.HttpClient, username, password string) error {
	slog.Info("Authenticating...", "username", username, "password", "[REDACTED]")

	var token Token
	response, err := c.R(ctx).
		SetBody(&Credentials{Username: username, Password: password}).
		SetResult(&token).
		SetError(&errorBody{}).
		Post(LoginEndpoint)
	if err := checkResponse(response, err); err != nil {
		slog.Error("could not login", "error", err)
		return pkgerrors.WithMessage(err, ErrorAuthenticating)
	}

	if token.Value() == "" {
		slog.Error("empty token returned")
		return errors.New("empty token returned")
	}

	slog.Debug("setting auth token")
	c.SetAuthToken(token.Value())
	return nil
}
