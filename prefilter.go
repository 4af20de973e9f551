package cre

import (
	"github.com/coregx/ahocorasick"
)

// prefilter accelerates unanchored search for patterns whose every
// match starts with one of a fixed set of literals. An Aho-Corasick
// automaton over the literal set locates candidate start offsets and
// the engine is run only there. The prefilter never changes which
// match is found, only which offsets are attempted.
type prefilter struct {
	auto *ahocorasick.Automaton
}

// buildPrefilter extracts the required literal prefixes of the pattern
// and compiles the automaton. It returns nil when the pattern has no
// usable prefix set.
func buildPrefilter(root *Expr) *prefilter {
	lits, ok := requiredPrefixes(root)
	if !ok || len(lits) == 0 {
		return nil
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		if lit == "" {
			return nil
		}
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &prefilter{auto: auto}
}

// next returns the earliest offset at or after pos where a required
// prefix occurs, or -1 when none does.
func (p *prefilter) next(haystack []byte, pos int) int {
	if pos >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, pos)
	if m == nil {
		return -1
	}
	return m.Start
}

// requiredPrefixes computes a set of literals such that every match of
// e starts with one of them. ok is false when no such set exists (the
// node is optional, or it starts with a class, anchor or reference).
func requiredPrefixes(e *Expr) ([]string, bool) {
	if e.Min < 1 {
		return nil, false
	}
	switch e.Op {
	case OpLiteral:
		return []string{string(e.Rune)}, true

	case OpGroup:
		var run []rune
		for _, c := range e.Sub {
			if c.Op == OpLiteral && c.Min >= 1 {
				run = append(run, c.Rune)
				if c.Max != 1 {
					break
				}
				continue
			}
			if len(run) > 0 {
				break
			}
			return requiredPrefixes(c)
		}
		if len(run) == 0 {
			return nil, false
		}
		return []string{string(run)}, true

	case OpAlternate:
		var lits []string
		for _, b := range e.Sub {
			sub, ok := requiredPrefixes(b)
			if !ok {
				return nil, false
			}
			lits = append(lits, sub...)
		}
		return lits, true
	}
	return nil, false
}

// startAnchored reports whether every match of e must begin at the
// start of the subject. False negatives are harmless; they only cost
// the full unanchored scan.
func startAnchored(e *Expr) bool {
	if e.Min < 1 {
		return false
	}
	switch e.Op {
	case OpBeginText:
		return true
	case OpGroup:
		if len(e.Sub) == 0 {
			return false
		}
		return startAnchored(e.Sub[0])
	case OpAlternate:
		for _, b := range e.Sub {
			if !startAnchored(b) {
				return false
			}
		}
		return true
	}
	return false
}
