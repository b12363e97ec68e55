// ABOUTME: Resolves message sender ids to usernames with caching
// ABOUTME: Deleted accounts (nil sender id) render as "deleted"

package users

import (
	"context"
	"log/slog"
	"time"

	"github.com/parlorchat/parlor/internal/api"
)

// DeletedUsername is shown for messages whose sender account was deleted.
const DeletedUsername = "deleted"

const (
	defaultCacheTTL  = 10 * time.Minute
	defaultCacheSize = 1024
)

// Lookup is what the directory needs from the chat service.
type Lookup interface {
	User(ctx context.Context, id int64) (*api.User, error)
}

// Directory resolves sender ids to usernames. Every message rendered asks
// for its sender's name, so resolved profiles are cached; the same sender
// in a page of history costs one fetch, not one per message.
type Directory struct {
	lookup Lookup
	cache  *cache
	logger *slog.Logger
}

// NewDirectory creates a Directory. Zero ttl or cacheSize select defaults.
// Pass nil logger for default.
func NewDirectory(lookup Lookup, ttl time.Duration, cacheSize int, logger *slog.Logger) *Directory {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		lookup: lookup,
		cache:  newCache(ttl, cacheSize),
		logger: logger.With("component", "users"),
	}
}

// Username resolves the sender of a message. A nil senderID means the
// account was deleted. Lookup failures propagate; callers decide how to
// render an unresolved sender.
func (d *Directory) Username(ctx context.Context, senderID *int64) (string, error) {
	if senderID == nil {
		return DeletedUsername, nil
	}

	if user, ok := d.cache.get(*senderID); ok {
		return user.Username, nil
	}

	user, err := d.lookup.User(ctx, *senderID)
	if err != nil {
		return "", err
	}

	d.cache.put(*user)
	return user.Username, nil
}

// Close stops the cache's background cleanup.
func (d *Directory) Close() {
	d.cache.close()
}
