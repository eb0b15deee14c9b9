package streamwin

import (
	"fmt"
	"io"
)

// SubjectBuffer holds the window of source bytes currently visible to the
// matching engine. The window grows and shifts as the source is consumed;
// the absolute source position of the window start is tracked so that
// window-relative match positions can be reported in source coordinates.
//
// Before the true start of the source the window is padded with
// MaxLookbehind zero bytes. The padding guarantees that a lookbehind of up
// to MaxLookbehind bytes is always structurally possible, but it is
// indistinguishable by value from real zero bytes; [SubjectBuffer.VerifyMatch]
// detects it by position arithmetic.
//
// A SubjectBuffer is owned by a single matching loop. It is not safe for
// concurrent use, and views returned by Bytes, BytesToProcess and Snapshot
// are only valid until the next call to Read.
type SubjectBuffer struct {
	// data holds the window storage; len(data) is the current capacity.
	data []byte
	// n is the number of valid bytes in data.
	n int
	// matchPos is the window position where matching stopped.
	matchPos int
	// off is the absolute source position of data[0]. It starts at
	// -MaxLookbehind because of the synthetic padding and only ever
	// increases.
	off int64

	cfg Config
}

// New creates a subject buffer for the given configuration.
func New(cfg Config) (*SubjectBuffer, error) {
	b := new(SubjectBuffer)
	if err := b.Init(cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// Init initializes the buffer. The window starts as cfg.MaxLookbehind zero
// bytes of synthetic padding standing in for "before the start of the
// source".
func (b *SubjectBuffer) Init(cfg Config) error {
	if err := cfg.Verify(); err != nil {
		return err
	}
	*b = SubjectBuffer{
		data:     make([]byte, cfg.MaxLookbehind),
		n:        cfg.MaxLookbehind,
		matchPos: cfg.MaxLookbehind,
		off:      -int64(cfg.MaxLookbehind),
		cfg:      cfg,
	}
	return nil
}

// Len returns the number of valid bytes in the window.
func (b *SubjectBuffer) Len() int { return b.n }

// MaxLookbehind returns the configured lookbehind requirement. It is also
// the correct match position for the first call to Read.
func (b *SubjectBuffer) MaxLookbehind() int { return b.cfg.MaxLookbehind }

// MinCapacity returns the configured minimum window capacity.
func (b *SubjectBuffer) MinCapacity() int { return b.cfg.MinCapacity }

// MaxCapacity returns the configured maximum window capacity. It may be
// smaller than MinCapacity; growth simply fails in that case.
func (b *SubjectBuffer) MaxCapacity() int { return b.cfg.MaxCapacity }

// SourceOffset returns the absolute source position of window index 0. It is
// negative while synthetic padding is still present.
func (b *SubjectBuffer) SourceOffset() int64 { return b.off }

// Read makes space in the window and fills it from r. matchPos reports how
// far matching progressed in the current window:
//
//   - on the first call it must equal MaxLookbehind,
//   - afterwards it must point to the start of an incomplete match that
//     needs more bytes, or equal Len() if no further matches are possible,
//   - it must never be smaller than the value the previous Read returned.
//
// If matchPos has moved past the mandatory lookbehind, the consumed bytes
// are discarded and the window contents shift to the front; otherwise the
// window must grow, to MinCapacity first and doubling afterwards. The
// returned position points at the same logical byte as matchPos but in the
// possibly shifted window.
//
// done reports that the source is exhausted: no byte was obtained from r.
// Growth beyond MaxCapacity fails with [ErrCapacityExceeded]; errors from r
// are returned wrapped and unretried.
func (b *SubjectBuffer) Read(matchPos int, r io.Reader) (pos int, done bool, err error) {
	b.matchPos = matchPos
	if b.matchPos <= b.cfg.MaxLookbehind {
		// No byte can be discarded without losing required lookbehind
		// context. Grow the window instead. On the first Read the
		// capacity is still below MinCapacity.
		next := b.cfg.MinCapacity
		if len(b.data) >= b.cfg.MinCapacity {
			next = 2 * len(b.data)
			if next > b.cfg.MaxCapacity {
				return b.matchPos, false, ErrCapacityExceeded
			}
		}
		t := make([]byte, next)
		copy(t, b.data[:b.n])
		b.data = t
	} else {
		// Steady state: everything before matchPos except the
		// mandatory lookbehind has been consumed. Drop it and move
		// the remaining bytes to the front. Memory stays bounded no
		// matter how long the source is.
		d := b.matchPos - b.cfg.MaxLookbehind
		copy(b.data, b.data[d:b.n])
		b.n -= d
		b.matchPos -= d
		b.off += int64(d)
	}

	k, err := r.Read(b.data[b.n:])
	b.n += k
	if err != nil && err != io.EOF {
		return b.matchPos, false, fmt.Errorf(
			"streamwin: read from source: %w", err)
	}
	return b.matchPos, k == 0, nil
}

// Bytes returns the window contents. The slice aliases internal storage and
// is invalidated by the next call to Read.
func (b *SubjectBuffer) Bytes() []byte { return b.data[:b.n] }

// BytesToProcess returns the window contents at and after the current match
// position. The slice aliases internal storage and is invalidated by the
// next call to Read.
func (b *SubjectBuffer) BytesToProcess() []byte {
	return b.data[b.matchPos:b.n]
}

// Snapshot is a view of the window contents together with the match
// position. The match position is always preceded by enough bytes to
// satisfy the lookbehind requirement; at the start of the source this is
// achieved with zero-byte padding.
type Snapshot struct {
	Data     []byte
	MatchPos int
}

// Snapshot returns the current window view. The Data slice aliases internal
// storage and is invalidated by the next call to Read.
func (b *SubjectBuffer) Snapshot() Snapshot {
	return Snapshot{Data: b.data[:b.n], MatchPos: b.matchPos}
}

// VerifyMatch reports whether the window position pos, expressed with the
// match's lookbehind already applied, lies in real source content rather
// than in the synthetic zero padding before the source start. A match whose
// lookbehind reaches into the padding matched synthetic data and must be
// discarded by the caller.
func (b *SubjectBuffer) VerifyMatch(pos int) bool {
	if b.off >= 0 {
		// All padding has been shifted out of the window.
		return true
	}
	return int64(pos) >= -b.off
}

// AbsoluteOffset translates a window position into the absolute position in
// the source. The result is negative for positions inside the synthetic
// padding.
func (b *SubjectBuffer) AbsoluteOffset(pos int) int64 {
	return int64(pos) + b.off
}
