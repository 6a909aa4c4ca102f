package backend

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Object is one entry of a bucket listing.
type Object struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Metadata  struct {
		Size     int64  `json:"size"`
		Mimetype string `json:"mimetype"`
	} `json:"metadata"`
}

// IsFolder reports whether the entry is a virtual folder placeholder.
func (o Object) IsFolder() bool {
	return o.ID == ""
}

func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// Upload stores data at bucket/path. Existing objects are not overwritten.
func (c *Client) Upload(ctx context.Context, token, bucket, path string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/" + url.PathEscape(bucket) + "/" + escapePath(path),
		token:       token,
		body:        bytes.NewReader(data),
		contentType: contentType,
		headers: map[string]string{
			"Cache-Control": "max-age=3600",
			"x-upsert":      "false",
		},
	}, nil)
}

// List returns the objects directly under prefix.
func (c *Client) List(ctx context.Context, token, bucket, prefix string) ([]Object, error) {
	body, err := jsonBody(map[string]any{
		"prefix": strings.Trim(prefix, "/"),
		"limit":  1000,
		"offset": 0,
		"sortBy": map[string]string{"column": "created_at", "order": "desc"},
	})
	if err != nil {
		return nil, err
	}
	var objects []Object
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/list/" + url.PathEscape(bucket),
		token:       token,
		body:        body,
		contentType: "application/json",
	}, &objects)
	if err != nil {
		return nil, err
	}
	return objects, nil
}

// PublicURL is the unauthenticated download URL of an object in a public bucket.
func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/public/" + url.PathEscape(bucket) + "/" + escapePath(path)
}

// Remove deletes objects by path. Missing objects are ignored by the backend.
func (c *Client) Remove(ctx context.Context, token, bucket string, paths []string) error {
	body, err := jsonBody(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method:      http.MethodDelete,
		path:        "/storage/v1/object/" + url.PathEscape(bucket),
		token:       token,
		body:        body,
		contentType: "application/json",
	}, nil)
}
