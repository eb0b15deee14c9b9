package streamwin

import (
	"fmt"
	"io"
)

// Kilobytes and megabytes defined as the more precise kibibyte and mebibyte.
const (
	_KiB = 1 << 10
	_MiB = 1 << 20
)

// Span describes a match in window coordinates. Start may include positions
// inside the synthetic padding at the source start; the Scanner rejects such
// matches with VerifyMatch before reporting them.
type Span struct {
	Start, End int
	// Pattern identifies the matched pattern for matchers that track
	// several; single-pattern matchers leave it zero.
	Pattern int
}

// Match describes an accepted match in absolute source coordinates.
type Match struct {
	Start, End int64
	Pattern    int
}

// Matcher is the incremental matching engine driven by a [Scanner]. The
// Scanner owns the subject buffer; the matcher only ever sees the current
// window view.
type Matcher interface {
	// Scan examines data[pos:] and returns the spans of all matches
	// found, together with the position where matching should resume:
	// the start of an incomplete match that needs more bytes, or
	// len(data) if no further matches are possible with the current
	// content. next must not be smaller than pos. The matcher may
	// inspect up to Lookbehind() bytes before any reported span start.
	//
	// atEOF reports that no more data will arrive, so an incomplete
	// match can never be resolved and must not hold back the resume
	// position.
	Scan(data []byte, pos int, atEOF bool) (spans []Span, next int)

	// Lookbehind returns the number of context bytes the patterns
	// require before a match start. It is a property of the patterns and
	// becomes the subject buffer's MaxLookbehind.
	Lookbehind() int
}

// ScanConfig holds the buffer sizing for a [Scanner]. The lookbehind
// requirement comes from the matcher, not from this configuration.
type ScanConfig struct {
	// MinCapacity is the initial window size.
	MinCapacity int
	// MaxCapacity limits window growth for unresolved match spans.
	MaxCapacity int
}

// ApplyDefaults sets the defaults for the scan configuration.
//
//	MinCapacity:  32 KiB
//	MaxCapacity:   8 MiB
func (cfg *ScanConfig) ApplyDefaults() {
	if cfg.MinCapacity == 0 {
		cfg.MinCapacity = 32 * _KiB
	}
	if cfg.MaxCapacity == 0 {
		cfg.MaxCapacity = 8 * _MiB
	}
}

// Verify checks the scan configuration.
func (cfg *ScanConfig) Verify() error {
	if cfg.MinCapacity < 1 {
		return fmt.Errorf("%w: MinCapacity=%d; must be positive",
			ErrConfig, cfg.MinCapacity)
	}
	if cfg.MaxCapacity < cfg.MinCapacity {
		return fmt.Errorf(
			"%w: MaxCapacity=%d must not be less than MinCapacity=%d",
			ErrConfig, cfg.MaxCapacity, cfg.MinCapacity)
	}
	return nil
}

// Scanner drives the fixed matching loop over a streamed source: refill the
// subject buffer, run the matcher over the window, verify matches against
// the synthetic padding and translate them to absolute source positions.
// The caller consumes matches one by one with Next.
type Scanner struct {
	r io.Reader
	m Matcher

	buf     SubjectBuffer
	pos     int
	pending []Match
	err     error
}

// NewScanner creates a scanner reading from r and matching with m. The
// matcher's lookbehind requirement must be smaller than the configured (or
// default) minimum capacity.
func NewScanner(r io.Reader, m Matcher, cfg ScanConfig) (*Scanner, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	s := &Scanner{r: r, m: m}
	bcfg := Config{
		MinCapacity:   cfg.MinCapacity,
		MaxCapacity:   cfg.MaxCapacity,
		MaxLookbehind: m.Lookbehind(),
	}
	if err := s.buf.Init(bcfg); err != nil {
		return nil, err
	}
	s.pos = s.buf.MaxLookbehind()
	return s, nil
}

// Next returns the next match in source order. It returns io.EOF once the
// source is exhausted and all matches have been reported. Any other error is
// either [ErrCapacityExceeded] or a wrapped source read error; the scanner
// does not recover from errors.
func (s *Scanner) Next() (Match, error) {
	for {
		if len(s.pending) > 0 {
			m := s.pending[0]
			s.pending = s.pending[1:]
			return m, nil
		}
		if s.err != nil {
			return Match{}, s.err
		}
		s.fill()
	}
}

// fill performs one pass of the matching loop and queues accepted matches.
func (s *Scanner) fill() {
	pos, done, err := s.buf.Read(s.pos, s.r)
	if err != nil {
		s.err = err
		return
	}
	s.pos = pos

	spans, next := s.m.Scan(s.buf.Bytes(), s.pos, done)
	lb := s.buf.MaxLookbehind()
	for _, sp := range spans {
		v := sp.Start - lb
		if v < 0 {
			v = 0
		}
		if !s.buf.VerifyMatch(v) {
			// The lookbehind of this match reaches into the
			// synthetic padding before the source start.
			continue
		}
		s.pending = append(s.pending, Match{
			Start:   s.buf.AbsoluteOffset(sp.Start),
			End:     s.buf.AbsoluteOffset(sp.End),
			Pattern: sp.Pattern,
		})
	}
	s.pos = next
	if done {
		s.err = io.EOF
	}
}
