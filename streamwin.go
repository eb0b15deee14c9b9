// Package streamwin implements a subject buffer for pattern matching over
// streamed input of unknown or unbounded length. The matching engine never
// sees the whole input; instead a [SubjectBuffer] presents it with a growable
// window of bytes, keeps enough trailing context across window shifts that
// matches spanning a shift boundary stay correct, and translates
// window-relative positions into absolute positions in the source.
//
// The buffer is driven in a fixed loop: [SubjectBuffer.Read] refills the
// window, the matching engine scans the exposed bytes, matches are checked
// with [SubjectBuffer.VerifyMatch] and reported via
// [SubjectBuffer.AbsoluteOffset], and the loop repeats until Read signals that
// the source is exhausted. [Scanner] packages that loop for callers that only
// want a stream of matches.
//
// The package contains no matching algorithm of its own. Matching engines are
// plugged in through the [Matcher] interface; the literal subpackage provides
// a multi-pattern implementation.
package streamwin

import (
	"errors"
	"fmt"
)

// ErrConfig reports an invalid buffer configuration. It is only returned at
// construction time; the configuration must be fixed and the buffer created
// anew.
var ErrConfig = errors.New("streamwin: invalid configuration")

// ErrCapacityExceeded is returned by [SubjectBuffer.Read] when the window
// would have to grow beyond the configured maximum capacity while no byte can
// be discarded. It means the pattern's lookbehind plus an unresolved match
// span don't fit the memory budget; retrying with the same configuration
// cannot succeed.
var ErrCapacityExceeded = errors.New(
	"streamwin: match length would exceed maximum buffer capacity")

// Config holds the size parameters of a [SubjectBuffer]. All three values are
// fixed for the lifetime of the buffer.
type Config struct {
	// MinCapacity is the smallest window size in bytes. The first Read
	// grows the window to this size. It must exceed MaxLookbehind so that
	// the window can always hold at least one byte of real content.
	MinCapacity int
	// MaxCapacity limits window growth. Read fails with
	// ErrCapacityExceeded once doubling the window would exceed it. It is
	// not validated against MinCapacity; a MaxCapacity smaller than
	// MinCapacity only surfaces as a growth failure.
	MaxCapacity int
	// MaxLookbehind is the number of trailing bytes that must stay
	// available before any position the matching engine may reference. It
	// is a property of the pattern, not of the buffer.
	MaxLookbehind int
}

// Verify checks the configuration. MaxCapacity is deliberately left
// unchecked; see the field documentation.
func (cfg *Config) Verify() error {
	if cfg.MinCapacity < 1 {
		return fmt.Errorf("%w: MinCapacity=%d; must be positive",
			ErrConfig, cfg.MinCapacity)
	}
	if cfg.MaxLookbehind < 0 {
		return fmt.Errorf("%w: MaxLookbehind=%d; must not be negative",
			ErrConfig, cfg.MaxLookbehind)
	}
	if cfg.MinCapacity <= cfg.MaxLookbehind {
		return fmt.Errorf(
			"%w: MinCapacity=%d must exceed MaxLookbehind=%d",
			ErrConfig, cfg.MinCapacity, cfg.MaxLookbehind)
	}
	return nil
}
