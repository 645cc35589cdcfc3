package remote

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/lustre-atelier/backoffice/internal/httpclient"
)

// MediaField is the multipart field of an upload.
const MediaField = "file"

// MediaClient uploads images referenced by resources (cover images, banners, product photos).
type MediaClient struct {
	http *httpclient.HttpClient
}

func NewMediaClient(http *httpclient.HttpClient) *MediaClient {
	return &MediaClient{http: http}
}

// Upload sends a file and returns the URL the server stored it at.
func (c *MediaClient) Upload(ctx context.Context, file Attachment) (string, error) {
	var env uploadEnvelope
	req := c.http.R(ctx).
		SetFileReader(MediaField, file.Name, file.Content).
		SetResult(&env).
		SetError(&errorBody{})
	if err := checkResponse(req.Post(MediaUploadEndpoint)); err != nil {
		return "", errors.WithMessage(err, ErrorUploading)
	}

	if env.Data.FileURL == "" {
		return "", errors.WithMessage(&Error{Kind: ServerError, Message: "response did not contain a file url"}, ErrorUploading)
	}

	slog.Debug("uploaded media", "name", file.Name, "url", env.Data.FileURL)
	return env.Data.FileURL, nil
}
