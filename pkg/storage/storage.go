// Package storage is a small client for the hosted object storage that keeps
// product and category images. It speaks the Supabase storage REST API.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rivacortez/management-demo/pkg/config"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// PhotoPrefix is the folder every uploaded image is stored under
const PhotoPrefix = "photos"

// ErrNotConfigured is returned when no storage URL was configured
var ErrNotConfigured = errors.New("object storage is not configured")

// Client uploads and removes objects in a single bucket
type Client struct {
	baseURL string
	bucket  string
	client  *resty.Client
	now     func() time.Time
}

// New creates a storage client from configuration
func New(cfg config.StorageConfig) *Client {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	if cfg.ServiceKey != "" {
		client.SetAuthToken(cfg.ServiceKey)
		client.SetHeader("apikey", cfg.ServiceKey)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		bucket:  cfg.Bucket,
		client:  client,
		now:     time.Now,
	}
}

// Upload stores data under a new photos/ key and returns the key and its public URL
func (s *Client) Upload(ctx context.Context, name, contentType string, data []byte) (string, string, error) {
	if s.baseURL == "" {
		return "", "", ErrNotConfigured
	}

	key := s.NewKey(name)
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetBody(data).
		Post(s.objectURL(key))
	if err == nil && resp.IsError() {
		err = fmt.Errorf("upload %s: status %d: %s", key, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	prometheus.RecordStorageOperation("upload", err)
	if err != nil {
		return "", "", err
	}

	return key, s.PublicURL(key), nil
}

// Delete removes one object. Removing a key that does not exist is not an error.
func (s *Client) Delete(ctx context.Context, key string) error {
	if s.baseURL == "" {
		return ErrNotConfigured
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string][]string{"prefixes": {key}}).
		Delete(fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, s.bucket))
	if err == nil && resp.IsError() {
		err = fmt.Errorf("delete %s: status %d: %s", key, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	prometheus.RecordStorageOperation("delete", err)
	return err
}

// PublicURL returns the URL an uploaded object is served from
func (s *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

// KeyFromURL maps a public URL produced by PublicURL back to its object key.
// It reports false for URLs that point anywhere else.
func (s *Client) KeyFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	u.RawQuery = ""
	u.Fragment = ""

	prefix := s.PublicURL("")
	key, found := strings.CutPrefix(u.String(), prefix)
	if !found || key == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, true
}

// NewKey builds photos/<unix millis>-<name> with the name reduced to a safe set of characters
func (s *Client) NewKey(name string) string {
	clean := sanitizeName(path.Base(name))
	if clean == "" {
		clean = uuid.NewString()
	}
	return fmt.Sprintf("%s/%d-%s", PhotoPrefix, s.now().UnixMilli(), clean)
}

func (s *Client) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, key)
}

func sanitizeName(name string) string {
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-.")
}
