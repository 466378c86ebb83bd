package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPStore writes objects with PUT and removes them with DELETE against an
// object store that accepts bearer tokens.
type HTTPStore struct {
	client    *resty.Client
	publicURL string
}

func NewHTTPStore(baseURL, publicBase, token string) *HTTPStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(60 * time.Second)
	if token != "" {
		client.SetAuthToken(token)
	}
	if publicBase == "" {
		publicBase = baseURL
	}
	return &HTTPStore{client: client, publicURL: publicBase}
}

func (s *HTTPStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body)
	if size >= 0 {
		req.SetContentLength(true)
	}

	resp, err := req.Put("/" + key)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("object store returned status %d", resp.StatusCode())
	}
	return publicURL(s.publicURL, key), nil
}

func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	resp, err := s.client.R().SetContext(ctx).Delete("/" + key)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("object store returned status %d", resp.StatusCode())
	}
	return nil
}
