package cre

// Match describes one successful match: the matched span of the
// subject and the spans captured by each group. Group 0 is the whole
// match.
type Match struct {
	Start int
	End   int

	re    *Regexp
	in    Input
	spans []span
}

// Text returns the matched portion of the subject.
func (m *Match) Text() string {
	return m.in.Slice(m.Start, m.End)
}

func (m *Match) String() string {
	return m.Text()
}

// Group returns the text captured by group i. The second result is
// false when i is out of range or the group did not participate in
// the match.
func (m *Match) Group(i int) (string, bool) {
	lo, hi, ok := m.Span(i)
	if !ok {
		return "", false
	}
	return m.in.Slice(lo, hi), true
}

// GroupByName returns the text captured by the named group.
func (m *Match) GroupByName(name string) (string, bool) {
	i := m.re.SubexpIndex(name)
	if i < 0 {
		return "", false
	}
	return m.Group(i)
}

// Span returns the [start, end) byte offsets captured by group i.
// A repeated group reports the span of its last repetition.
func (m *Match) Span(i int) (start, end int, ok bool) {
	if i < 0 || i >= len(m.spans) {
		return 0, 0, false
	}
	sp := m.spans[i]
	if sp.start < 0 {
		return 0, 0, false
	}
	return sp.start, sp.end, true
}
