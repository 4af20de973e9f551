package cre

import (
	"strings"
)

// ReplaceAllString replaces all matches of the pattern in src with the
// replacement string. Inside repl, $ signs introduce group references:
// $1, $name, ${1} and ${name} insert the corresponding capture, and $$
// inserts a literal dollar sign.
func (re *Regexp) ReplaceAllString(src, repl string) string {
	return re.replaceAll(src, func(m *Match) string {
		return re.expand(repl, m)
	})
}

// ReplaceAllLiteralString replaces all matches with repl taken
// literally, without template expansion.
func (re *Regexp) ReplaceAllLiteralString(src, repl string) string {
	return re.replaceAll(src, func(*Match) string {
		return repl
	})
}

// ReplaceAllStringFunc replaces all matches with the return value of
// repl applied to the matched text.
func (re *Regexp) ReplaceAllStringFunc(src string, repl func(string) string) string {
	return re.replaceAll(src, func(m *Match) string {
		return repl(m.Text())
	})
}

func (re *Regexp) replaceAll(src string, repl func(*Match) string) string {
	matches := re.findAll(NewStringInput(src), -1)
	if matches == nil {
		return src
	}

	var result strings.Builder
	lastEnd := 0
	for _, m := range matches {
		result.WriteString(src[lastEnd:m.Start])
		result.WriteString(repl(m))
		lastEnd = m.End
	}
	result.WriteString(src[lastEnd:])
	return result.String()
}

// Split slices src around all matches of the pattern and returns the
// pieces between them. n limits the number of pieces as in
// strings.SplitN; n < 0 means no limit.
func (re *Regexp) Split(src string, n int) []string {
	if n == 0 {
		return nil
	}

	matches := re.findAll(NewStringInput(src), n)

	var out []string
	beg, end := 0, 0
	for _, m := range matches {
		if n > 0 && len(out) >= n-1 {
			break
		}
		end = m.Start
		// An empty match at the very start produces no cut.
		if m.End != 0 {
			out = append(out, src[beg:end])
			beg = m.End
		}
	}
	if end != len(src) {
		out = append(out, src[beg:])
	}
	return out
}

// expand substitutes group references in the template with the
// captures of m.
func (re *Regexp) expand(template string, m *Match) string {
	var expanded strings.Builder
	i := 0
	for i < len(template) {
		if template[i] != '$' {
			expanded.WriteByte(template[i])
			i++
			continue
		}

		i++
		if i >= len(template) {
			expanded.WriteByte('$')
			break
		}

		if template[i] == '$' {
			expanded.WriteByte('$')
			i++
			continue
		}

		// ${name} or ${1}
		if template[i] == '{' {
			i++
			nameStart := i
			for i < len(template) && template[i] != '}' {
				i++
			}
			if i >= len(template) {
				// Unclosed ${, treat as literal
				expanded.WriteString("${")
				i = nameStart
				continue
			}
			name := template[nameStart:i]
			i++ // skip }
			expanded.WriteString(re.capture(name, m))
			continue
		}

		// $1 .. $9
		if template[i] >= '0' && template[i] <= '9' {
			if g, ok := m.Group(int(template[i] - '0')); ok {
				expanded.WriteString(g)
			}
			i++
			continue
		}

		// $name
		nameStart := i
		for i < len(template) && isIdentChar(template[i]) {
			i++
		}
		if i > nameStart {
			expanded.WriteString(re.capture(template[nameStart:i], m))
			continue
		}

		// Lone $, treat as literal
		expanded.WriteByte('$')
	}
	return expanded.String()
}

// capture resolves a template reference that may be a group number or
// a group name.
func (re *Regexp) capture(name string, m *Match) string {
	if len(name) == 1 && name[0] >= '0' && name[0] <= '9' {
		g, _ := m.Group(int(name[0] - '0'))
		return g
	}
	g, _ := m.GroupByName(name)
	return g
}

// isIdentChar reports whether c may appear in a $name reference.
func isIdentChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}

// ReplaceAll is the byte-slice form of ReplaceAllString.
func (re *Regexp) ReplaceAll(src, repl []byte) []byte {
	return []byte(re.ReplaceAllString(string(src), string(repl)))
}

// ReplaceAllLiteral is the byte-slice form of ReplaceAllLiteralString.
func (re *Regexp) ReplaceAllLiteral(src, repl []byte) []byte {
	return []byte(re.ReplaceAllLiteralString(string(src), string(repl)))
}

// ReplaceAllFunc is the byte-slice form of ReplaceAllStringFunc.
func (re *Regexp) ReplaceAllFunc(src []byte, repl func([]byte) []byte) []byte {
	return []byte(re.ReplaceAllStringFunc(string(src), func(s string) string {
		return string(repl([]byte(s)))
	}))
}
