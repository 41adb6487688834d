package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/nimasrn/transaction-eda/pkg/redis"
	"github.com/pkg/errors"
)

// Querier runs a named SQL statement and returns its result table.
type Querier interface {
	QueryNamed(ctx context.Context, name, sqlText string) (*table.Table, error)
}

const DefaultCacheTTL = time.Hour

// CachedEngine memoises query results in Redis. Keys cover the SQL text and
// the size and modification time of the source file, so regenerating the
// dataset invalidates earlier entries. Cache failures never fail a query.
type CachedEngine struct {
	next   Querier
	store  redis.RedisAdapter
	ttl    time.Duration
	source string
}

func NewCachedEngine(next Querier, store redis.RedisAdapter, source string, ttl time.Duration) *CachedEngine {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedEngine{next: next, store: store, ttl: ttl, source: source}
}

func (c *CachedEngine) QueryNamed(ctx context.Context, name, sqlText string) (*table.Table, error) {
	key, err := c.key(sqlText)
	if err != nil {
		logger.Warn("query cache disabled for this query", "query", name, "error", err)
		return c.next.QueryNamed(ctx, name, sqlText)
	}

	if t, ok := c.lookup(ctx, key); ok {
		logger.Info("query served from cache", "query", name, "key", key)
		return t, nil
	}

	t, err := c.next.QueryNamed(ctx, name, sqlText)
	if err != nil {
		return nil, err
	}
	c.save(ctx, name, key, t)
	return t, nil
}

func (c *CachedEngine) key(sqlText string) (string, error) {
	info, err := os.Stat(c.source)
	if err != nil {
		return "", errors.Wrapf(err, "stat %s", c.source)
	}
	h := sha256.New()
	h.Write([]byte(sqlText))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(info.Size(), 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(info.ModTime().UnixNano(), 10)))
	return "query:" + hex.EncodeToString(h.Sum(nil)), nil
}

func (c *CachedEngine) lookup(ctx context.Context, key string) (*table.Table, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.NilError) {
			logger.Warn("query cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var t table.Table
	if err := json.Unmarshal(raw, &t); err != nil {
		logger.Warn("query cache entry is corrupt", "key", key, "error", err)
		return nil, false
	}
	return &t, true
}

func (c *CachedEngine) save(ctx context.Context, name, key string, t *table.Table) {
	raw, err := json.Marshal(t)
	if err != nil {
		logger.Warn("query result not cacheable", "query", name, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		logger.Warn("query cache write failed", "query", name, "error", err)
	}
}
