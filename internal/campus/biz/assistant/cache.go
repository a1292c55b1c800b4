package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/kart-io/campusgpt/internal/model"
	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
	"github.com/kart-io/campusgpt/pkg/llm"
	"github.com/kart-io/campusgpt/pkg/storage/kv"
	"github.com/kart-io/campusgpt/pkg/utils/json"
)

// ReplyCache stores assistant replies for identical questions.
type ReplyCache interface {
	// Get looks key up. slot names where a fresh reply for key belongs and
	// is handed back to Set; an empty slot means the reply must not be cached.
	Get(ctx context.Context, key string) (reply *Reply, slot string, ok bool)
	Set(ctx context.Context, slot string, reply *Reply)
	// Invalidate drops every cached reply.
	Invalidate(ctx context.Context)
}

// generationKey holds the invalidation counter next to the entries, so
// every process sharing the backend sees the same generation.
const generationKey = "generation"

// prefixDeleter is implemented by backends that can drop a whole
// generation at once.
type prefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// KVReplyCache is a ReplyCache over a kv.Storage. Entries live under
// "<generation>:<key>"; Invalidate increments the stored generation and
// superseded entries age out by TTL or are deleted when the backend allows.
type KVReplyCache struct {
	store kv.Storage
	ttl   time.Duration
}

var _ ReplyCache = (*KVReplyCache)(nil)

func NewKVReplyCache(store kv.Storage, ttl time.Duration) *KVReplyCache {
	return &KVReplyCache{store: store, ttl: ttl}
}

func (c *KVReplyCache) generation(ctx context.Context) (int64, error) {
	raw, found, err := c.store.Get(ctx, generationKey)
	if err != nil || !found {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

func genPrefix(gen int64) string {
	return strconv.FormatInt(gen, 10) + ":"
}

// Get implements ReplyCache. Backend errors count as a miss.
func (c *KVReplyCache) Get(ctx context.Context, key string) (*Reply, string, bool) {
	log := applogger.GetLogger(ctx)
	gen, err := c.generation(ctx)
	if err != nil {
		log.Warnw("reply cache generation unreadable", "error", err.Error())
		return nil, "", false
	}

	slot := genPrefix(gen) + key
	raw, found, err := c.store.Get(ctx, slot)
	if err != nil {
		log.Warnw("reply cache read failed", "error", err.Error())
		return nil, slot, false
	}
	if !found {
		return nil, slot, false
	}
	var r Reply
	if err := json.Unmarshal(raw, &r); err != nil {
		log.Warnw("reply cache entry is corrupt", "error", err.Error())
		return nil, slot, false
	}
	return &r, slot, true
}

// Set implements ReplyCache. A reply generated while the knowledge base
// changed lands in a superseded generation and is never served.
func (c *KVReplyCache) Set(ctx context.Context, slot string, reply *Reply) {
	if slot == "" {
		return
	}
	raw, err := json.Marshal(reply)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, slot, raw, c.ttl); err != nil {
		applogger.GetLogger(ctx).Warnw("reply cache write failed", "error", err.Error())
	}
}

// Invalidate implements ReplyCache.
func (c *KVReplyCache) Invalidate(ctx context.Context) {
	log := applogger.GetLogger(ctx)
	gen, err := c.store.Incr(ctx, generationKey)
	if err != nil {
		log.Errorw("reply cache invalidation failed", "error", err.Error())
		return
	}
	if d, ok := c.store.(prefixDeleter); ok {
		if _, err := d.DeletePrefix(ctx, genPrefix(gen-1)); err != nil {
			log.Warnw("reply cache cleanup failed", "error", err.Error())
		}
	}
}

// CacheKey identifies a query by the caller's role, history and message.
func CacheKey(role model.Role, message string, history []llm.Message) string {
	h := sha256.New()
	h.Write([]byte(role))
	for _, m := range history {
		h.Write([]byte{0})
		h.Write([]byte(m.Role))
		h.Write([]byte{1})
		h.Write([]byte(m.Content))
	}
	h.Write([]byte{0})
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
