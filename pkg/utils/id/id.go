// Package id mints ULIDs for posts, tickets, request ids and token ids.
// ULIDs sort by creation time, so ids double as a coarse ordering key.
//
//	postID := id.NewULID() // "01ARZ3NDEKTSV4RRFFQ69G5FAV"
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator mints unique ids.
type Generator interface {
	Generate() string
}

// ULIDGenerator mints strictly increasing ULIDs, even within one
// millisecond. It is safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

// ULIDOption configures a ULIDGenerator.
type ULIDOption func(*ULIDGenerator)

// WithClock 替换时间源，测试中使用。
func WithClock(now func() time.Time) ULIDOption {
	return func(g *ULIDGenerator) { g.now = now }
}

func NewULIDGenerator(opts ...ULIDOption) *ULIDGenerator {
	g := &ULIDGenerator{now: time.Now, entropy: rand.Reader}
	for _, o := range opts {
		o(g)
	}
	g.entropy = ulid.Monotonic(g.entropy, 0)
	return g
}

func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

// GenerateN mints n ids in ascending order.
func (g *ULIDGenerator) GenerateN(n int) []string {
	out := make([]string, 0, n)
	for range n {
		out = append(out, g.Generate())
	}
	return out
}

var std = NewULIDGenerator()

// NewULID mints an id from the shared generator.
func NewULID() string { return std.Generate() }
