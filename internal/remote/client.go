package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/pkg/errors"

	"github.com/lustre-atelier/backoffice/internal/httpclient"
	"github.com/lustre-atelier/backoffice/internal/resource"
)

// ImageField is the multipart field carrying the image attached to a create request.
const ImageField = "image"

// ListQuery selects a page of a collection.
type ListQuery struct {
	Page    int               // 1-based, 0 lets the server pick
	Search  string            // Free text search
	Filters map[string]string // Extra query parameters, e.g. status=draft
}

// Attachment is a file sent as part of a multipart request.
type Attachment struct {
	Name    string
	Content io.Reader
}

// CreateInput is the payload of a create request.
// When Image is set the request is sent as multipart/form-data instead of JSON.
type CreateInput struct {
	Fields resource.Fields
	Image  *Attachment
}

// Client issues the CRUD calls of one resource kind. It holds no state besides the transport.
type Client[T resource.Resource] struct {
	http *httpclient.HttpClient
	kind resource.Kind
}

func NewClient[T resource.Resource](http *httpclient.HttpClient, kind resource.Kind) *Client[T] {
	return &Client[T]{http: http, kind: kind}
}

func (c *Client[T]) Kind() resource.Kind {
	return c.kind
}

// List retrieves one page of the collection.
func (c *Client[T]) List(ctx context.Context, q ListQuery) (*Page[T], error) {
	var env listEnvelope[T]
	req := c.http.R(ctx).SetResult(&env).SetError(&errorBody{})
	if q.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		req.SetQueryParam("search", q.Search)
	}
	for k, v := range q.Filters {
		req.SetQueryParam(k, v)
	}

	if err := checkResponse(req.Get(GetCollectionEndpoint(c.kind))); err != nil {
		return nil, errors.WithMessage(err, ErrorListing)
	}

	items := env.Data.Items
	if items == nil {
		items = []T{}
	}
	slog.Debug("listed resources", "kind", c.kind.Plural, "count", len(items), "total", env.Total, "page", env.CurrentPage)
	return &Page[T]{
		Items:       items,
		Total:       env.Total,
		CurrentPage: env.CurrentPage,
		TotalPages:  env.TotalPages,
	}, nil
}

// Get retrieves a single resource by id.
func (c *Client[T]) Get(ctx context.Context, id resource.ID) (T, error) {
	var env itemEnvelope[T]
	req := c.http.R(ctx).
		SetPathParam("id", id.String()).
		SetResult(&env).
		SetError(&errorBody{})
	if err := checkResponse(req.Get(GetItemEndpoint(c.kind))); err != nil {
		var zero T
		return zero, errors.WithMessage(err, ErrorGetting)
	}
	return c.item(&env, ErrorGetting)
}

// Create creates a resource and returns it as stored by the server.
func (c *Client[T]) Create(ctx context.Context, in CreateInput) (T, error) {
	var env itemEnvelope[T]
	req := c.http.R(ctx).SetResult(&env).SetError(&errorBody{})

	if in.Image != nil {
		form, err := formData(in.Fields)
		if err != nil {
			var zero T
			return zero, errors.WithMessage(err, ErrorCreating)
		}
		req.SetMultipartFormData(form).SetFileReader(ImageField, in.Image.Name, in.Image.Content)
	} else {
		body := in.Fields
		if body == nil {
			body = resource.Fields{}
		}
		req.SetBody(body)
	}

	if err := checkResponse(req.Post(GetCollectionEndpoint(c.kind))); err != nil {
		var zero T
		return zero, errors.WithMessage(err, ErrorCreating)
	}
	return c.item(&env, ErrorCreating)
}

// Update applies a partial update to a resource.
func (c *Client[T]) Update(ctx context.Context, id resource.ID, patch resource.Fields) (T, error) {
	var env itemEnvelope[T]
	if patch == nil {
		patch = resource.Fields{}
	}
	req := c.http.R(ctx).
		SetPathParam("id", id.String()).
		SetBody(patch).
		SetResult(&env).
		SetError(&errorBody{})
	if err := checkResponse(req.Patch(GetItemEndpoint(c.kind))); err != nil {
		var zero T
		return zero, errors.WithMessage(err, ErrorUpdating)
	}
	return c.item(&env, ErrorUpdating)
}

// Delete removes a resource. Any 2xx answer, with or without a body, is a success.
func (c *Client[T]) Delete(ctx context.Context, id resource.ID) error {
	req := c.http.R(ctx).
		SetPathParam("id", id.String()).
		SetError(&errorBody{})
	if err := checkResponse(req.Delete(GetItemEndpoint(c.kind))); err != nil {
		return errors.WithMessage(err, ErrorDeleting)
	}
	slog.Debug("deleted resource", "kind", c.kind.Name, "id", id)
	return nil
}

// SetStatus moves a resource to another status and returns the updated resource.
func (c *Client[T]) SetStatus(ctx context.Context, id resource.ID, status resource.Status) (T, error) {
	var env itemEnvelope[T]
	req := c.http.R(ctx).
		SetPathParam("id", id.String()).
		SetBody(map[string]resource.Status{"status": status}).
		SetResult(&env).
		SetError(&errorBody{})
	if err := checkResponse(req.Put(GetStatusEndpoint(c.kind))); err != nil {
		var zero T
		return zero, errors.WithMessage(err, ErrorSettingStatus)
	}
	return c.item(&env, ErrorSettingStatus)
}

func (c *Client[T]) item(env *itemEnvelope[T], msg string) (T, error) {
	if env.Data.Item == nil || (*env.Data.Item).ResourceID() == "" {
		var zero T
		err := &Error{Kind: ServerError, Message: fmt.Sprintf("response did not contain a %s", c.kind.Name)}
		return zero, errors.WithMessage(err, msg)
	}
	slog.Debug("resource", "kind", c.kind.Name, "item", *env.Data.Item)
	return *env.Data.Item, nil
}

// formData flattens fields into multipart values. Non string values are JSON encoded.
func formData(fields resource.Fields) (map[string]string, error) {
	form := make(map[string]string, len(fields))
	for k, v := range fields {
		switch value := v.(type) {
		case string:
			form[k] = value
		case nil:
			continue
		default:
			data, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("failed to encode field %q: %w", k, err)
			}
			form[k] = string(data)
		}
	}
	return form, nil
}
