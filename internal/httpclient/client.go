package httpclient

import (
	"context"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	ContentType     = "Content-Type"
	ContentTypeJSON = "application/json"
	RequestIDHeader = "X-Request-ID"
)

// HttpClient is a wrapper around the resty.Client
type HttpClient struct {
	Client *resty.Client
}

// New creates a client for the API rooted at baseURL.
// No retry is configured: a failed call is reported to the caller as is.
func New(baseURL string) *HttpClient {
	return NewWithClient(resty.New().SetBaseURL(baseURL))
}

// NewWithClient wraps an existing resty client, e.g. one with a mocked transport.
func NewWithClient(client *resty.Client) *HttpClient {
	client.
		SetHeader("Accept", ContentTypeJSON).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(RequestIDHeader) == "" {
				r.SetHeader(RequestIDHeader, uuid.NewString())
			}
			slog.Debug("request", "method", r.Method, "url", r.URL, "requestID", r.Header.Get(RequestIDHeader))
			return nil
		})
	return &HttpClient{Client: client}
}

// SetAuthToken sets the bearer token sent with every request.
func (c *HttpClient) SetAuthToken(token string) {
	c.Client.SetAuthToken(token)
}

// HasAuthToken returns true once a bearer token was set.
func (c *HttpClient) HasAuthToken() bool {
	return c.Client.Token != ""
}

// R returns a new request bound to ctx.
func (c *HttpClient) R(ctx context.Context) *resty.Request {
	return c.Client.R().SetContext(ctx)
}
