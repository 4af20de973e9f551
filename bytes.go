package cre

// Byte-slice variants of the matching entry points. They share the
// search machinery with the string API through the Input interface.

// Match reports whether b contains any match of the pattern.
func (re *Regexp) Match(b []byte) bool {
	m, _ := re.searchInput(NewByteInput(b), 0)
	return m != nil
}

// Find returns the leftmost match in b, or nil when there is none.
// The result aliases no memory of b.
func (re *Regexp) Find(b []byte) []byte {
	m, _ := re.searchInput(NewByteInput(b), 0)
	if m == nil {
		return nil
	}
	return []byte(m.Text())
}

// FindIndex returns the [start, end) location of the leftmost match
// in b, or nil when there is none.
func (re *Regexp) FindIndex(b []byte) []int {
	m, _ := re.searchInput(NewByteInput(b), 0)
	if m == nil {
		return nil
	}
	return []int{m.Start, m.End}
}

// FindSubmatch returns the leftmost match and its capture groups.
// Groups that did not participate yield nil slices.
func (re *Regexp) FindSubmatch(b []byte) [][]byte {
	m, _ := re.searchInput(NewByteInput(b), 0)
	if m == nil {
		return nil
	}
	out := make([][]byte, re.captures+1)
	for i := range out {
		if g, ok := m.Group(i); ok {
			out[i] = []byte(g)
		}
	}
	return out
}

// FindAll returns all successive matches in b. n < 0 means all.
func (re *Regexp) FindAll(b []byte, n int) [][]byte {
	matches := re.findAll(NewByteInput(b), n)
	if matches == nil {
		return nil
	}
	out := make([][]byte, len(matches))
	for i, m := range matches {
		out[i] = []byte(m.Text())
	}
	return out
}

// FindAllIndex returns the locations of all successive matches in b.
func (re *Regexp) FindAllIndex(b []byte, n int) [][]int {
	matches := re.findAll(NewByteInput(b), n)
	if matches == nil {
		return nil
	}
	out := make([][]int, len(matches))
	for i, m := range matches {
		out[i] = []int{m.Start, m.End}
	}
	return out
}
