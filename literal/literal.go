// Package literal provides a streamwin.Matcher for fixed sets of literal
// byte patterns, backed by an Aho-Corasick automaton.
package literal

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/coregx/ahocorasick"
	"golang.org/x/exp/slices"

	"github.com/coregx/streamwin"
)

// Matcher matches a fixed set of literal patterns against a subject window.
// Matches are reported non-overlapping and left to right. Plain literals
// need no lookbehind context, so Lookbehind is always zero.
type Matcher struct {
	auto     *ahocorasick.Automaton
	patterns [][]byte
	index    map[string]int
	maxLen   int
}

// New builds a matcher for the given patterns. Duplicates are removed;
// patterns are indexed in sorted order. Empty patterns and empty pattern
// sets are rejected.
func New(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, errors.New("literal: no patterns")
	}
	ps := slices.Clone(patterns)
	slices.Sort(ps)
	ps = slices.Compact(ps)

	m := &Matcher{index: make(map[string]int, len(ps))}
	builder := ahocorasick.NewBuilder()
	for i, p := range ps {
		if p == "" {
			return nil, errors.New("literal: empty pattern")
		}
		pb := []byte(p)
		builder.AddPattern(pb)
		m.patterns = append(m.patterns, pb)
		m.index[p] = i
		if len(pb) > m.maxLen {
			m.maxLen = len(pb)
		}
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("literal: building automaton: %w", err)
	}
	m.auto = auto
	return m, nil
}

// NumPatterns returns the number of distinct patterns.
func (m *Matcher) NumPatterns() int { return len(m.patterns) }

// Pattern returns the pattern with index i, as reported in a span or match.
func (m *Matcher) Pattern(i int) string { return string(m.patterns[i]) }

// Lookbehind implements streamwin.Matcher.
func (m *Matcher) Lookbehind() int { return 0 }

// Scan implements streamwin.Matcher. Unless atEOF is set, the resume
// position retains any window suffix that is a proper prefix of a pattern,
// so a literal straddling a refill boundary is still found.
func (m *Matcher) Scan(data []byte, pos int, atEOF bool) (spans []streamwin.Span, next int) {
	at := pos
	for at < len(data) {
		match := m.auto.Find(data, at)
		if match == nil {
			break
		}
		spans = append(spans, streamwin.Span{
			Start:   match.Start,
			End:     match.End,
			Pattern: m.index[string(data[match.Start:match.End])],
		})
		at = match.End
	}
	if atEOF {
		return spans, len(data)
	}
	return spans, len(data) - m.tail(data, at)
}

// tail returns the length of the longest suffix of data[at:] that is a
// proper prefix of one of the patterns. Those bytes may still become a match
// once more data arrives.
func (m *Matcher) tail(data []byte, at int) int {
	k := m.maxLen - 1
	if k > len(data)-at {
		k = len(data) - at
	}
	for l := k; l > 0; l-- {
		suffix := data[len(data)-l:]
		for _, p := range m.patterns {
			if bytes.HasPrefix(p, suffix) {
				return l
			}
		}
	}
	return 0
}
