// Package redis is the alternate persistence backend. Each page's
// highlight records are one JSON blob under a prefixed key, with a set
// of page indexes alongside; marks are a single JSON blob. Layout
// mirrors the file backend's two-resource split, so the same migration
// and codec apply.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/store"
)

// Backend persists annotations in redis.
type Backend struct {
	client *goredis.Client
	log    logger.Logger
}

// New creates a redis backend over an established client.
func New(client *goredis.Client, log logger.Logger) *Backend {
	return &Backend{client: client, log: log}
}

func (b *Backend) LoadHighlights(ctx context.Context) (store.PageRecords, error) {
	members, err := b.client.SMembers(ctx, KeyHighlightPages).Result()
	if err != nil {
		return nil, fmt.Errorf("load highlight page set: %w", err)
	}

	pages := make(store.PageRecords, len(members))
	for _, member := range members {
		page, err := ParsePageMember(member)
		if err != nil {
			b.log.Warn("dropping invalid page index member",
				logger.String("member", member))
			continue
		}
		data, err := b.client.Get(ctx, HighlightsKey(page)).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load highlights for page %d: %w", page, err)
		}
		recs, err := store.DecodeHighlightRecords(data, page, b.log)
		if err != nil {
			b.log.Warn("dropping unreadable highlight page",
				logger.Int("page", page),
				logger.Error(err))
			continue
		}
		if len(recs) > 0 {
			pages[page] = recs
		}
	}
	return pages, nil
}

func (b *Backend) SaveHighlights(ctx context.Context, pages store.PageRecords) error {
	// Drop blobs for pages that no longer have highlights, otherwise a
	// fully-deleted page would leave an orphaned key behind.
	stale, err := b.client.SMembers(ctx, KeyHighlightPages).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("load highlight page set: %w", err)
	}

	pipe := b.client.TxPipeline()
	for _, member := range stale {
		if page, err := ParsePageMember(member); err == nil {
			pipe.Del(ctx, HighlightsKey(page))
		}
	}
	pipe.Del(ctx, KeyHighlightPages)

	for page, recs := range pages {
		data, err := store.EncodeHighlightRecords(recs)
		if err != nil {
			return fmt.Errorf("encode highlights for page %d: %w", page, err)
		}
		pipe.Set(ctx, HighlightsKey(page), data, 0)
		pipe.SAdd(ctx, KeyHighlightPages, strconv.Itoa(page))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save highlights: %w", err)
	}
	return nil
}

func (b *Backend) LoadMarks(ctx context.Context) ([]store.MarkRecord, error) {
	data, err := b.client.Get(ctx, KeyMarks).Bytes()
	if errors.Is(err, goredis.Nil) {
		b.log.Info("no marks stored, starting fresh")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load marks: %w", err)
	}
	return store.DecodeMarks(data, b.log)
}

func (b *Backend) SaveMarks(ctx context.Context, marks []store.MarkRecord) error {
	data, err := store.EncodeMarks(marks)
	if err != nil {
		return fmt.Errorf("encode marks: %w", err)
	}
	if err := b.client.Set(ctx, KeyMarks, data, 0).Err(); err != nil {
		return fmt.Errorf("save marks: %w", err)
	}
	return nil
}
