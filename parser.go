package cre

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// parser turns a pattern string into a validated Expr tree.
// Quantifiers do not produce wrapper nodes; they set the repetition
// bounds of the node they follow.
type parser struct {
	input    string
	pos      int
	captures int
	names    map[string]int
	open     []int // capture indices of groups still being parsed
}

func newParser(input string) *parser {
	return &parser{
		input: input,
		names: make(map[string]int),
	}
}

func (p *parser) parse() (*Expr, error) {
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("unexpected character at %d: %q", p.pos, p.peek())
	}
	return node, nil
}

// parseExpr handles alternation: term | term
func (p *parser) parseExpr() (*Expr, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.input) || p.peek() != '|' {
		return first, nil
	}

	branches := []*Expr{first}
	for p.pos < len(p.input) && p.peek() == '|' {
		p.consume() // eat |
		br, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		branches = append(branches, br)
	}
	return &Expr{Op: OpAlternate, Sub: branches, Min: 1, Max: 1, Greedy: true}, nil
}

// parseTerm handles concatenation: factor factor
func (p *parser) parseTerm() (*Expr, error) {
	var nodes []*Expr
	for p.pos < len(p.input) && p.peek() != '|' && p.peek() != ')' {
		node, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return &Expr{Op: OpGroup, Sub: nodes, Min: 1, Max: 1, Greedy: true}, nil
}

// parseFactor handles quantifiers: atom*, atom+, atom?, atom{n,m}
func (p *parser) parseFactor() (*Expr, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.input) {
		return atom, nil
	}

	switch p.peek() {
	case '*':
		p.consume()
		atom.Min, atom.Max = 0, Unbounded
	case '+':
		p.consume()
		atom.Min, atom.Max = 1, Unbounded
	case '?':
		p.consume()
		atom.Min, atom.Max = 0, 1
	case '{':
		min, max, ok, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		if !ok {
			// Not a well-formed repetition; the brace is an
			// ordinary character and belongs to the next atom.
			return atom, nil
		}
		atom.Min, atom.Max = min, max
	default:
		return atom, nil
	}

	if p.pos < len(p.input) && p.peek() == '?' {
		p.consume()
		atom.Greedy = false
	}
	return atom, nil
}

// parseRepeat reads {n}, {n,}, {,m} or {n,m} at the current position.
// If the braces do not form a repetition it rewinds and reports ok=false,
// so the caller can fall back to treating '{' as a literal.
func (p *parser) parseRepeat() (min, max int, ok bool, err error) {
	start := p.pos
	p.consume() // eat {

	digits := func() string {
		s := p.pos
		for p.pos < len(p.input) && p.peek() >= '0' && p.peek() <= '9' {
			p.pos++
		}
		return p.input[s:p.pos]
	}

	minStr := digits()
	var maxStr string
	comma := false
	if p.pos < len(p.input) && p.peek() == ',' {
		comma = true
		p.consume()
		maxStr = digits()
	}
	if p.pos >= len(p.input) || p.peek() != '}' || (minStr == "" && maxStr == "") {
		p.pos = start
		return 0, 0, false, nil
	}
	p.consume() // eat }

	min = 0
	if minStr != "" {
		min, _ = strconv.Atoi(minStr)
	}
	switch {
	case !comma:
		max = min
	case maxStr == "":
		max = Unbounded
	default:
		max, _ = strconv.Atoi(maxStr)
	}
	if max != Unbounded && min > max {
		return 0, 0, false, fmt.Errorf("invalid repetition {%d,%d}: min exceeds max", min, max)
	}
	return min, max, true, nil
}

// atom constructs a fresh unquantified node.
func atom(op Op) *Expr {
	return &Expr{Op: op, Min: 1, Max: 1, Greedy: true}
}

// parseAtom handles literals, groups, char classes and escapes.
func (p *parser) parseAtom() (*Expr, error) {
	ch := p.peek()
	switch ch {
	case '(':
		p.consume()
		return p.parseGroup()
	case '[':
		p.consume()
		return p.parseCharClass()
	case '.':
		p.consume()
		return atom(OpAnyChar), nil
	case '^':
		p.consume()
		return atom(OpBeginText), nil
	case '$':
		p.consume()
		return atom(OpEndText), nil
	case '\\':
		p.consume()
		return p.parseEscape()
	case '|', ')':
		return nil, fmt.Errorf("unexpected meta char: %c", ch)
	case '*', '+', '?':
		return nil, fmt.Errorf("missing argument to repetition operator at %d", p.pos)
	default:
		p.consume()
		e := atom(OpLiteral)
		e.Rune = ch
		return e, nil
	}
}

func (p *parser) parseEscape() (*Expr, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("trailing backslash")
	}
	esc := p.consume()
	switch esc {
	case 'd', 'D':
		e := atom(OpCharClass)
		e.Ranges = []RuneRange{{'0', '9'}}
		e.Negated = esc == 'D'
		return e, nil
	case 'w', 'W':
		e := atom(OpCharClass)
		e.Ranges = []RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
		e.Negated = esc == 'W'
		return e, nil
	case 's', 'S':
		e := atom(OpCharClass)
		e.Ranges = []RuneRange{{'\t', '\r'}, {' ', ' '}}
		e.Negated = esc == 'S'
		return e, nil
	case 'b':
		return atom(OpWordBoundary), nil
	case 'B':
		return atom(OpNoWordBoundary), nil
	case 'n', 't', 'r', 'f', 'v':
		e := atom(OpLiteral)
		e.Rune = controlRune(esc)
		return e, nil
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		ref := int(esc - '0')
		if err := p.checkRef(ref); err != nil {
			return nil, err
		}
		e := atom(OpBackref)
		e.Ref = ref
		return e, nil
	default:
		// Escaped metacharacters and anything unrecognized match
		// themselves.
		e := atom(OpLiteral)
		e.Rune = esc
		return e, nil
	}
}

func controlRune(esc rune) rune {
	switch esc {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'f':
		return '\f'
	default:
		return '\v'
	}
}

// checkRef validates a back-reference target: it must name a group that
// has already been fully parsed.
func (p *parser) checkRef(ref int) error {
	if ref > p.captures {
		return fmt.Errorf("invalid group reference %d", ref)
	}
	for _, open := range p.open {
		if open == ref {
			return fmt.Errorf("cannot refer to open group %d", ref)
		}
	}
	return nil
}

func (p *parser) parseCharClass() (*Expr, error) {
	// The opening [ is already consumed.
	e := atom(OpCharClass)
	if p.pos < len(p.input) && p.peek() == '^' {
		p.consume()
		e.Negated = true
	}

	// A ] immediately after the opening bracket is a literal.
	if p.pos < len(p.input) && p.peek() == ']' {
		p.consume()
		e.Ranges = append(e.Ranges, RuneRange{']', ']'})
	}

	for p.pos < len(p.input) && p.peek() != ']' {
		if p.peek() == '\\' {
			p.consume()
			ranges, lit, err := p.classEscape()
			if err != nil {
				return nil, err
			}
			if ranges != nil {
				e.Ranges = append(e.Ranges, ranges...)
				continue
			}
			// An escaped literal may still start a range.
			e.Ranges = append(e.Ranges, p.classRange(lit))
			continue
		}
		lo := p.consume()
		e.Ranges = append(e.Ranges, p.classRange(lo))
	}

	if p.pos >= len(p.input) || p.consume() != ']' {
		return nil, fmt.Errorf("unclosed character class")
	}
	return e, nil
}

// classRange reads an optional -hi continuation for lo.
func (p *parser) classRange(lo rune) RuneRange {
	if p.pos < len(p.input) && p.peek() == '-' &&
		p.pos+1 < len(p.input) && p.input[p.pos+1] != ']' {
		p.consume() // eat -
		hi := p.consume()
		if hi == '\\' && p.pos < len(p.input) {
			hi = p.consume()
		}
		return RuneRange{lo, hi}
	}
	return RuneRange{lo, lo}
}

// classEscape resolves an escape inside a character class. It yields
// either a range set (\d, \w, \s) or a single literal rune.
func (p *parser) classEscape() ([]RuneRange, rune, error) {
	if p.pos >= len(p.input) {
		return nil, 0, fmt.Errorf("trailing backslash in character class")
	}
	esc := p.consume()
	switch esc {
	case 'd':
		return []RuneRange{{'0', '9'}}, 0, nil
	case 'w':
		return []RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}, 0, nil
	case 's':
		return []RuneRange{{'\t', '\r'}, {' ', ' '}}, 0, nil
	case 'n', 't', 'r', 'f', 'v':
		return nil, controlRune(esc), nil
	default:
		return nil, esc, nil
	}
}

// children flattens a parsed group body into a sibling list for a group
// node. A plain unquantified non-capturing sequence dissolves into its
// children; anything else stays a single child.
func children(body *Expr) []*Expr {
	if body.Op == OpGroup && body.Cap == 0 && body.Min == 1 && body.Max == 1 && body.Greedy {
		return body.Sub
	}
	return []*Expr{body}
}

func (p *parser) parseGroup() (*Expr, error) {
	// The opening ( is already consumed.
	if p.pos < len(p.input) && p.peek() == '?' {
		p.consume()
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("invalid group syntax")
		}
		switch p.peek() {
		case ':':
			p.consume()
			return p.finishGroup(0, "")
		case 'P':
			p.consume()
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("invalid named group syntax")
			}
			switch p.peek() {
			case '<':
				p.consume()
				name, err := p.groupName('>')
				if err != nil {
					return nil, err
				}
				if _, dup := p.names[name]; dup {
					return nil, fmt.Errorf("duplicate group name %q", name)
				}
				p.captures++
				idx := p.captures
				p.names[name] = idx
				return p.finishGroup(idx, name)
			case '=':
				p.consume()
				name, err := p.groupName(')')
				if err != nil {
					return nil, err
				}
				idx, known := p.names[name]
				if !known {
					return nil, fmt.Errorf("unknown group name %q", name)
				}
				if err := p.checkRef(idx); err != nil {
					return nil, err
				}
				e := atom(OpBackref)
				e.Ref = idx
				return e, nil
			default:
				return nil, fmt.Errorf("invalid named group syntax")
			}
		default:
			return nil, fmt.Errorf("invalid group extension: ?%c", p.peek())
		}
	}

	p.captures++
	return p.finishGroup(p.captures, "")
}

// finishGroup parses a group body up to the closing parenthesis and
// builds the group node. cap is 0 for non-capturing groups.
func (p *parser) finishGroup(cap int, name string) (*Expr, error) {
	if cap > 0 {
		p.open = append(p.open, cap)
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.input) || p.consume() != ')' {
		return nil, fmt.Errorf("unclosed group")
	}
	if cap > 0 {
		p.open = p.open[:len(p.open)-1]
	}
	return &Expr{
		Op:     OpGroup,
		Sub:    children(body),
		Min:    1,
		Max:    1,
		Greedy: true,
		Cap:    cap,
		Name:   name,
	}, nil
}

// groupName reads an identifier followed by the expected terminator
// ('>' for (?P<name>...), ')' for (?P=name)) and consumes both.
func (p *parser) groupName(term rune) (string, error) {
	start := p.pos
	for p.pos < len(p.input) && isNameRune(p.peek()) {
		p.pos++
	}
	name := p.input[start:p.pos]
	if name == "" {
		return "", fmt.Errorf("missing group name at %d", start)
	}
	if p.pos >= len(p.input) || p.consume() != term {
		return "", fmt.Errorf("unterminated group name %q", name)
	}
	return name, nil
}

func isNameRune(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z')
}

// Helpers

func (p *parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r
}

func (p *parser) consume() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	r, w := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += w
	return r
}
