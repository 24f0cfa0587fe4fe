package handler

import (
	"context"

	"github.com/rivacortez/management-demo/pkg/logger"

	"go.uber.org/zap"
)

// ImageStore keeps uploaded images
type ImageStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// removeImages deletes the stored objects behind urls. Failures are logged and skipped
// so that a storage outage never blocks a catalog change.
func removeImages(ctx context.Context, store ImageStore, urls ...string) {
	if store == nil {
		return
	}
	log := logger.FromStdContext(ctx)
	for _, url := range urls {
		key, ok := store.KeyFromURL(url)
		if !ok {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			log.Warn("Failed to delete image", zap.String("key", key), zap.Error(err))
		}
	}
}

// droppedURLs returns the urls of before that are not in after
func droppedURLs(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}
	var dropped []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			dropped = append(dropped, u)
		}
	}
	return dropped
}
