// Package cre implements regular-expression matching with a
// backtracking interpreter. Patterns are compiled into a tree of
// expression nodes; matching walks the tree against the subject,
// allocating characters to each node's repetitions and systematically
// reallocating them on downstream failure until a globally consistent
// assignment is found or the search space is exhausted.
//
// The package favors fidelity of the backtracking semantics (greedy
// and nongreedy quantifiers, named groups, nested group repetition,
// back-references) over speed; it does no NFA or DFA compilation.
package cre

import (
	"errors"
	"fmt"
	"io"
)

// ErrStepLimit is reported when a search exceeds the step budget set
// with SetMaxSteps. It is distinct from a no-match result: the search
// was abandoned, not proven to fail.
var ErrStepLimit = errors.New("cre: step limit exceeded")

// Regexp is a compiled regular expression. It is immutable during
// matching and safe for concurrent use; every search run allocates its
// own evaluation state.
type Regexp struct {
	expr     string
	root     *Expr
	skip     *Expr   // synthetic nongreedy .{0,} driving unanchored search
	seq      []*Expr // skip then root
	numNodes int

	captures    int
	subexpNames []string

	anchored  bool
	prefilter *prefilter
	maxSteps  int
}

// Compile parses a regular expression and returns a Regexp ready for
// matching.
func Compile(expr string) (*Regexp, error) {
	p := newParser(expr)
	root, err := p.parse()
	if err != nil {
		return nil, err
	}

	// The skip node consumes an arbitrary prefix of the subject,
	// nongreedily, so unanchored search is the ordinary sequence
	// [skip, pattern] under the same retry protocol: retrying the
	// skip advances the attempted start offset by one rune.
	skip := &Expr{Op: OpCharClass, Negated: true, Min: 0, Max: Unbounded}

	names := make([]string, p.captures+1)
	for name, idx := range p.names {
		names[idx] = name
	}

	re := &Regexp{
		expr:        expr,
		root:        root,
		skip:        skip,
		seq:         []*Expr{skip, root},
		captures:    p.captures,
		subexpNames: names,
		anchored:    startAnchored(root),
	}
	n := 0
	indexExpr(skip, &n)
	indexExpr(root, &n)
	re.numNodes = n
	if !re.anchored {
		re.prefilter = buildPrefilter(root)
	}
	return re, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Regexp {
	re, err := Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("cre: Compile(%q): %v", expr, err))
	}
	return re
}

// indexExpr assigns dense node ids, used to key per-run match state.
func indexExpr(e *Expr, n *int) {
	e.index = *n
	*n++
	for _, c := range e.Sub {
		indexExpr(c, n)
	}
}

// SetMaxSteps bounds the number of match and retry steps a single
// search may take, as a guard against catastrophic backtracking.
// Zero, the default, means no limit. A search that exceeds the budget
// reports ErrStepLimit. Must not be called concurrently with searches.
func (re *Regexp) SetMaxSteps(n int) {
	re.maxSteps = n
}

// String returns the source text used to compile the regular expression.
func (re *Regexp) String() string {
	return re.expr
}

// NumSubexp returns the number of parenthesized subexpressions.
func (re *Regexp) NumSubexp() int {
	return re.captures
}

// SubexpNames returns the names of the capture groups, indexed by
// group number. The first element, corresponding to the whole match,
// is always the empty string.
func (re *Regexp) SubexpNames() []string {
	return re.subexpNames
}

// SubexpIndex returns the index of the subexpression with the given
// name, or -1 if there is none.
func (re *Regexp) SubexpIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, n := range re.subexpNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Search finds the leftmost match in s at or after byte offset at.
// It returns nil if there is no match; the error is non-nil only when
// a step budget was exceeded.
func (re *Regexp) Search(s string, at int) (*Match, error) {
	return re.searchInput(NewStringInput(s), at)
}

// MatchAt attempts an anchored match at exactly the given byte offset.
// It returns nil if the pattern does not match there.
func (re *Regexp) MatchAt(s string, at int) (*Match, error) {
	return re.matchAtInput(NewStringInput(s), at)
}

// searchInput is the unanchored search over any Input. Start-anchored
// patterns collapse to a single anchored attempt. Patterns with a
// literal prefilter attempt only candidate offsets; everything else
// runs the uniform skip-node sequence.
func (re *Regexp) searchInput(in Input, at int) (*Match, error) {
	if at < 0 || at > in.Len() {
		return nil, nil
	}
	if re.anchored {
		if at > 0 {
			return nil, nil
		}
		return re.matchAtInput(in, at)
	}

	if re.prefilter != nil {
		pos := at
		steps := 0 // budget spans all candidate offsets
		for pos <= in.Len() {
			c := in.Index(re, pos)
			if c < 0 {
				return nil, nil
			}
			m := re.newMachine(in)
			m.steps = steps
			m.pos = c
			if m.match(re.root) {
				return re.result(in, c, m.pos, m.caps), nil
			}
			if m.aborted {
				return nil, ErrStepLimit
			}
			steps = m.steps
			pos = c + 1
		}
		return nil, nil
	}

	m := re.newMachine(in)
	m.pos = at
	if !m.matchSeq(re.seq) {
		if m.aborted {
			return nil, ErrStepLimit
		}
		return nil, nil
	}
	start := at
	if rep, ok := m.lastRep(re.skip); ok {
		start = rep.end
	}
	return re.result(in, start, m.pos, m.caps), nil
}

// matchAtInput runs the pattern root alone at one offset.
func (re *Regexp) matchAtInput(in Input, at int) (*Match, error) {
	if at < 0 || at > in.Len() {
		return nil, nil
	}
	m := re.newMachine(in)
	m.pos = at
	if !m.match(re.root) {
		if m.aborted {
			return nil, ErrStepLimit
		}
		return nil, nil
	}
	return re.result(in, at, m.pos, m.caps), nil
}

func (re *Regexp) result(in Input, start, end int, caps *capTable) *Match {
	spans := caps.final()
	spans[0] = span{start, end}
	return &Match{re: re, in: in, Start: start, End: end, spans: spans}
}

// findAll collects up to n successive non-overlapping matches,
// advancing by one rune after a zero-width match. n < 0 means all.
func (re *Regexp) findAll(in Input, n int) []*Match {
	if n == 0 {
		return nil
	}
	var out []*Match
	pos := 0
	for (n < 0 || len(out) < n) && pos <= in.Len() {
		m, err := re.searchInput(in, pos)
		if err != nil || m == nil {
			break
		}
		out = append(out, m)
		if m.End == m.Start {
			_, w := in.Step(m.End)
			if w == 0 {
				break
			}
			pos = m.End + w
		} else {
			pos = m.End
		}
	}
	return out
}

// MatchString reports whether s contains any match of the pattern.
// An aborted search counts as no match; use Search to distinguish.
func (re *Regexp) MatchString(s string) bool {
	m, _ := re.Search(s, 0)
	return m != nil
}

// MatchReader reports whether the text read from r contains any match.
func (re *Regexp) MatchReader(r io.Reader) (bool, error) {
	in, err := NewReaderInput(r)
	if err != nil {
		return false, err
	}
	m, err := re.searchInput(in, 0)
	return m != nil, err
}

// FindString returns the text of the leftmost match in s, or "" when
// there is none. Use FindStringIndex to tell an empty match from no
// match.
func (re *Regexp) FindString(s string) string {
	m, _ := re.Search(s, 0)
	if m == nil {
		return ""
	}
	return m.Text()
}

// FindStringIndex returns the [start, end) location of the leftmost
// match, or nil when there is none.
func (re *Regexp) FindStringIndex(s string) []int {
	m, _ := re.Search(s, 0)
	if m == nil {
		return nil
	}
	return []int{m.Start, m.End}
}

// FindStringSubmatch returns the text of the leftmost match and of its
// capture groups, or nil when there is no match. Groups that did not
// participate yield empty strings.
func (re *Regexp) FindStringSubmatch(s string) []string {
	m, _ := re.Search(s, 0)
	if m == nil {
		return nil
	}
	out := make([]string, re.captures+1)
	for i := range out {
		if g, ok := m.Group(i); ok {
			out[i] = g
		}
	}
	return out
}

// FindStringSubmatchIndex returns the pairwise [start, end) locations
// of the leftmost match and its capture groups, -1 for groups that did
// not participate, or nil when there is no match.
func (re *Regexp) FindStringSubmatchIndex(s string) []int {
	m, _ := re.Search(s, 0)
	if m == nil {
		return nil
	}
	out := make([]int, 0, 2*(re.captures+1))
	for i := 0; i <= re.captures; i++ {
		sp := m.spans[i]
		out = append(out, sp.start, sp.end)
	}
	return out
}

// FindAllString returns the text of all successive matches.
// n < 0 means all matches; nil indicates no match.
func (re *Regexp) FindAllString(s string, n int) []string {
	matches := re.findAll(NewStringInput(s), n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Text()
	}
	return out
}

// FindAllStringIndex returns the locations of all successive matches.
func (re *Regexp) FindAllStringIndex(s string, n int) [][]int {
	matches := re.findAll(NewStringInput(s), n)
	if matches == nil {
		return nil
	}
	out := make([][]int, len(matches))
	for i, m := range matches {
		out[i] = []int{m.Start, m.End}
	}
	return out
}

// FindAllStringSubmatch returns all successive matches with their
// capture groups, as defined by FindStringSubmatch.
func (re *Regexp) FindAllStringSubmatch(s string, n int) [][]string {
	matches := re.findAll(NewStringInput(s), n)
	if matches == nil {
		return nil
	}
	out := make([][]string, len(matches))
	for i, m := range matches {
		row := make([]string, re.captures+1)
		for j := range row {
			if g, ok := m.Group(j); ok {
				row[j] = g
			}
		}
		out[i] = row
	}
	return out
}

// MatchString reports whether s contains any match of pattern.
func MatchString(pattern, s string) (bool, error) {
	re, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}
