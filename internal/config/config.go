package config

import (
	"fmt"
	"net/url"
	"time"
)

// Output formats of the CLI.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Config represents the configuration shared by every command
type Config struct {
	Url       string
	Output    string
	Sequenced bool          // Discard responses overtaken by a newer applied request
	ToastTTL  time.Duration // How long feedback notifications stay visible
}

// Validate the Config making sure all required fields are present and valid
func (c Config) Validate() error {
	if c.Url == "" {
		return fmt.Errorf("url is required")
	}

	u, err := url.ParseRequestURI(c.Url)
	if err != nil {
		return fmt.Errorf("could not parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}

	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output format: %s", c.Output)
	}

	if c.ToastTTL < 0 {
		return fmt.Errorf("toast TTL must be >= 0")
	}

	return nil
}

// AuthConfig holds either a bearer token or the credentials to obtain one.
type AuthConfig struct {
	Token    string // Bearer token, skips the login when set
	Username string // The username to authenticate with
	Password string // The password to authenticate with
}

func (c AuthConfig) Validate() error {
	if c.Token != "" {
		return nil
	}

	if c.Username == "" {
		return fmt.Errorf("username is required")
	}

	if c.Password == "" {
		return fmt.Errorf("password is required")
	}

	return nil
}
