package cre

import "testing"

// TestMatchSimple tests basic literal matching and dot metacharacter
func TestMatchSimple(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"abc", "abc", true},
		{"abc", "xabcy", true},
		{"abc", "ab", false},
		{"abc", "", false},
		{"a.c", "abc", true},
		{"a.c", "axc", true},
		{"a.c", "ac", false}, // dot needs char
		{"a.c", "a\nc", false},
	}

	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestMatchAlternation tests the | operator
func TestMatchAlternation(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"a|b", "a", true},
		{"a|b", "b", true},
		{"a|b", "c", false},
		{"foo|bar", "foo", true},
		{"foo|bar", "bar", true},
		{"foo|bar", "baz", false},
		{"a|b|c", "c", true},
		{"ab|a", "ab", true},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestAlternationPreference tests that earlier branches win
func TestAlternationPreference(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{"a|ab", "ab", "a"},
		{"ab|a", "ab", "ab"},
		{"x|foo|f", "foo", "foo"},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.FindString(tc.input); got != tc.want {
			t.Errorf("FindString(%q, %q) = %q; want %q", tc.pattern, tc.input, got, tc.want)
		}
	}
}

// TestMatchCharClass tests character classes and ranges
func TestMatchCharClass(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"[a-z]", "a", true},
		{"[a-z]", "A", false},
		{"[a-z]", "z", true},
		{"[^a-z]", "A", true},
		{"[^a-z]", "a", false},
		{"[abc]", "b", true},
		{"[abc]", "d", false},
		{"[a-zA-Z0-9]", "Q", true},
		{"[a-zA-Z0-9]", "!", false},
		{"[]a]", "]", true}, // leading ] is a literal
		{"[]a]", "a", true},
		{"[a\\-z]", "-", true}, // escaped dash is a literal
		{"[a\\-z]", "b", false},
		{"[\\d]", "7", true},
		{"[\\w ]", " ", true},
		{"[^a]", "\n", true},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestEscapes tests \d, \w, \s and their negations plus literal escapes
func TestEscapes(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{`\d`, "5", true},
		{`\d`, "a", false},
		{`\D`, "a", true},
		{`\D`, "5", false},
		{`\w`, "_", true},
		{`\w`, "-", false},
		{`\W`, "-", true},
		{`\W`, "x", false},
		{`\s`, " ", true},
		{`\s`, "\t", true},
		{`\s`, "x", false},
		{`\S`, "x", true},
		{`\S`, "\n", false},
		{`\.`, ".", true},
		{`\.`, "x", false},
		{`\(\)`, "()", true},
		{`\n`, "\n", true},
		{`\t`, "\t", true},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestUnicode tests matching of multi-byte runes
func TestUnicode(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{"héllo", "xx héllo xx", "héllo"},
		{"h.llo", "héllo", "héllo"},
		{"[α-ω]+", "abc αβγ", "αβγ"},
		{"日本.?", "日本語", "日本語"},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.FindString(tc.input); got != tc.want {
			t.Errorf("FindString(%q, %q) = %q; want %q", tc.pattern, tc.input, got, tc.want)
		}
	}
}

// TestPackageMatchString tests the package-level convenience function
func TestPackageMatchString(t *testing.T) {
	ok, err := MatchString("a+b", "caab")
	if err != nil || !ok {
		t.Errorf("MatchString(a+b, caab) = %v, %v; want true, nil", ok, err)
	}
	if _, err := MatchString("a(", "x"); err == nil {
		t.Error("MatchString with invalid pattern: expected error")
	}
}
