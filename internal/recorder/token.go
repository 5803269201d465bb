package recorder

import (
	"sync"

	"github.com/google/uuid"
)

// TokenSource generates run and case tokens.
type TokenSource interface {
	NewToken() string
}

// UUIDSource generates time-sortable UUIDv7 tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so tokens sort
// by creation time, which keeps run and case identifiers scannable in
// recorded output.
//
// Thread-safety: UUIDSource is stateless and safe for concurrent use.
type UUIDSource struct{}

// NewToken creates a new UUIDv7 as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDSource) NewToken() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokens returns predetermined tokens for testing.
//
// This enables deterministic recorded output and golden comparison: tests
// provide a known sequence of tokens and verify the exact document.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a source that returns tokens in order.
//
// Example:
//
//	src := NewFixedTokens("run-1", "case-1")
//	src.NewToken() // "run-1"
//	src.NewToken() // "case-1"
//	src.NewToken() // panic: all tokens exhausted
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// NewToken returns the next predetermined token.
//
// Panics if all tokens have been consumed; a test asking for more tokens
// than it provided is a test bug.
func (f *FixedTokens) NewToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.tokens) {
		panic("FixedTokens: all tokens exhausted")
	}
	tok := f.tokens[f.idx]
	f.idx++
	return tok
}
