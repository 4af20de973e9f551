package cre

import "testing"

// TestAnchors tests ^ and $
func TestAnchors(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"^abc", "abc", true},
		{"^abc", "xabc", false},
		{"abc$", "abc", true},
		{"abc$", "abcx", false},
		{"^abc$", "abc", true},
		{"^abc$", "aabc", false},
		{"^$", "", true},
		{"^$", "x", false},
		{"^", "anything", true},
		{"$", "anything", true},
		{"a$b", "ab", false}, // $ mid-pattern can never be crossed
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestWordBoundary tests \b and \B
func TestWordBoundary(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{`\bcat\b`, "a cat sat", true},
		{`\bcat\b`, "concatenate", false},
		{`\bcat`, "catalog", true},
		{`cat\b`, "tomcat", true},
		{`\Bcat\B`, "concatenate", true},
		{`\Bcat\B`, "a cat sat", false},
		{`\bword\b`, "word", true},
		{`\b`, "", false},
		{`\B`, "", true},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestAnchorWidth tests that assertions consume no input
func TestAnchorWidth(t *testing.T) {
	re := MustCompile(`^\ba`)
	m, err := re.Search("abc", 0)
	if err != nil || m == nil {
		t.Fatal("expected match")
	}
	if m.Start != 0 || m.End != 1 {
		t.Errorf("span = [%d, %d); want [0, 1)", m.Start, m.End)
	}
}
