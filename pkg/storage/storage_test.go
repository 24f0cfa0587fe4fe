package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rivacortez/management-demo/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1700000000123)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(config.StorageConfig{
		BaseURL:    srv.URL,
		Bucket:     "management-demo",
		ServiceKey: "service-key",
		Timeout:    5 * time.Second,
	})
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestUpload(t *testing.T) {
	var gotPath, gotType, gotAuth string
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"management-demo/photos/x"}`))
	})

	key, url, err := c.Upload(context.Background(), "shelf photo.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "photos/1700000000123-shelf-photo.png", key)
	assert.Equal(t, c.baseURL+"/storage/v1/object/public/management-demo/photos/1700000000123-shelf-photo.png", url)
	assert.Equal(t, "/storage/v1/object/management-demo/photos/1700000000123-shelf-photo.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, []byte("png-bytes"), gotBody)
}

func TestUploadErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Duplicate"}`))
	})

	_, _, err := c.Upload(context.Background(), "a.png", "image/png", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestDelete(t *testing.T) {
	var body struct {
		Prefixes []string `json:"prefixes"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/storage/v1/object/management-demo", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	})

	require.NoError(t, c.Delete(context.Background(), "photos/1-a.png"))
	assert.Equal(t, []string{"photos/1-a.png"}, body.Prefixes)
}

func TestNotConfigured(t *testing.T) {
	c := New(config.StorageConfig{Bucket: "management-demo"})

	_, _, err := c.Upload(context.Background(), "a.png", "image/png", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, c.Delete(context.Background(), "photos/a.png"), ErrNotConfigured)
}

func TestKeyFromURL(t *testing.T) {
	c := New(config.StorageConfig{BaseURL: "https://files.example.com/", Bucket: "management-demo"})

	key, ok := c.KeyFromURL("https://files.example.com/storage/v1/object/public/management-demo/photos/17-a.png?t=1")
	assert.True(t, ok)
	assert.Equal(t, "photos/17-a.png", key)

	_, ok = c.KeyFromURL("https://cdn.other.com/photos/17-a.png")
	assert.False(t, ok)

	_, ok = c.KeyFromURL("https://files.example.com/storage/v1/object/public/management-demo/")
	assert.False(t, ok)
}

func TestNewKeyFallsBackToUUID(t *testing.T) {
	c := New(config.StorageConfig{BaseURL: "https://files.example.com", Bucket: "b"})
	c.now = func() time.Time { return fixedNow }

	key := c.NewKey("///")
	assert.Regexp(t, `^photos/1700000000123-[0-9a-f-]{36}$`, key)
	assert.Equal(t, "photos/1700000000123-report.pdf", c.NewKey("../../report.pdf"))
}
