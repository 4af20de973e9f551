package cre

import (
	"fmt"
	"strings"
)

// Op identifies the kind of an expression node.
type Op int

const (
	OpLiteral   Op = iota // single rune
	OpCharClass           // [a-z0-9], possibly negated
	OpAnyChar             // . (any rune except newline)
	OpBeginText           // ^
	OpEndText             // $
	OpWordBoundary
	OpNoWordBoundary
	OpGroup     // ordered sequence of children
	OpAlternate // ordered branches, first match wins
	OpBackref   // \1 or (?P=name)
)

// Unbounded marks a quantifier with no upper repetition limit, as in a* or a{2,}.
const Unbounded = -1

// RuneRange is an inclusive range of runes inside a character class.
type RuneRange struct {
	Lo, Hi rune
}

// Expr is a node of a compiled pattern tree. Every node carries its own
// repetition bounds; a plain unquantified atom has Min == Max == 1.
// The tree is immutable after Compile and may be shared by concurrent
// searches; all mutable match state lives in the per-run machine,
// keyed by the node index.
type Expr struct {
	Op      Op
	Rune    rune        // OpLiteral
	Ranges  []RuneRange // OpCharClass
	Negated bool        // OpCharClass
	Sub     []*Expr     // OpGroup children, OpAlternate branches
	Ref     int         // OpBackref: referenced capture index

	Min, Max int // repetition bounds; Max == Unbounded means no limit
	Greedy   bool

	Cap  int    // capture index, 0 if the node does not capture
	Name string // group name, "" if unnamed

	index int // dense node id, assigned by Compile
}

// String reconstructs a pattern string for the subtree rooted at e.
// The result is equivalent to, but not necessarily identical with, the
// source pattern the tree was compiled from.
func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	switch e.Op {
	case OpLiteral:
		if strings.ContainsRune(`.*+?|()[]{}^$\`, e.Rune) {
			b.WriteByte('\\')
		}
		b.WriteRune(e.Rune)
	case OpCharClass:
		b.WriteByte('[')
		if e.Negated {
			b.WriteByte('^')
		}
		for _, r := range e.Ranges {
			b.WriteRune(r.Lo)
			if r.Hi != r.Lo {
				b.WriteByte('-')
				b.WriteRune(r.Hi)
			}
		}
		b.WriteByte(']')
	case OpAnyChar:
		b.WriteByte('.')
	case OpBeginText:
		b.WriteByte('^')
	case OpEndText:
		b.WriteByte('$')
	case OpWordBoundary:
		b.WriteString(`\b`)
	case OpNoWordBoundary:
		b.WriteString(`\B`)
	case OpBackref:
		fmt.Fprintf(b, `\%d`, e.Ref)
	case OpGroup:
		// A bare unquantified sequence needs no wrapper.
		if e.Cap == 0 && e.Min == 1 && e.Max == 1 && e.Greedy {
			for _, c := range e.Sub {
				c.write(b)
			}
			return
		}
		switch {
		case e.Name != "":
			fmt.Fprintf(b, "(?P<%s>", e.Name)
		case e.Cap > 0:
			b.WriteByte('(')
		default:
			b.WriteString("(?:")
		}
		for _, c := range e.Sub {
			c.write(b)
		}
		b.WriteByte(')')
	case OpAlternate:
		b.WriteString("(?:")
		for i, br := range e.Sub {
			if i > 0 {
				b.WriteByte('|')
			}
			br.write(b)
		}
		b.WriteByte(')')
	}
	b.WriteString(e.quant())
}

// quant renders the node's quantifier suffix, "" for the default {1,1}.
func (e *Expr) quant() string {
	if e.Min == 1 && e.Max == 1 {
		return ""
	}
	var q string
	switch {
	case e.Min == 0 && e.Max == Unbounded:
		q = "*"
	case e.Min == 1 && e.Max == Unbounded:
		q = "+"
	case e.Min == 0 && e.Max == 1:
		q = "?"
	case e.Min == e.Max:
		q = fmt.Sprintf("{%d}", e.Min)
	case e.Max == Unbounded:
		q = fmt.Sprintf("{%d,}", e.Min)
	default:
		q = fmt.Sprintf("{%d,%d}", e.Min, e.Max)
	}
	if !e.Greedy {
		q += "?"
	}
	return q
}

// composite reports whether the node is evaluated through the sequence
// machinery (groups and alternations) rather than as a single atom.
func (e *Expr) composite() bool {
	return e.Op == OpGroup || e.Op == OpAlternate
}
