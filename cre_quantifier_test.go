package cre

import "testing"

// TestQuantifiers tests *, +, ? and counted repetition
func TestQuantifiers(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"a*", "", true},
		{"a*", "aaa", true},
		{"a+", "", false},
		{"a+", "a", true},
		{"a?b", "b", true},
		{"a?b", "ab", true},
		{"a?b", "aab", true}, // unanchored: matches "ab"
		{"a{3}", "aa", false},
		{"a{3}", "aaa", true},
		{"a{2,4}b", "ab", false},
		{"a{2,4}b", "aab", true},
		{"a{2,}b", "ab", false},
		{"a{2,}b", "aaaaab", true},
		{"a{,2}b", "b", true},
		{"^a{,2}b$", "aaab", false},
		{"colou?r", "color", true},
		{"colou?r", "colour", true},
		{"colou?r", "colouur", false},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestGreedy tests that greedy quantifiers consume as much as possible
func TestGreedy(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{"a+", "aaa", "aaa"},
		{"a*b*", "aabbb", "aabbb"},
		{"<.*>", "<a><b>", "<a><b>"},
		{"a.*c", "abcabc", "abcabc"},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.FindString(tc.input); got != tc.want {
			t.Errorf("FindString(%q, %q) = %q; want %q", tc.pattern, tc.input, got, tc.want)
		}
	}
}

// TestNonGreedy tests that lazy quantifiers consume as little as possible
func TestNonGreedy(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{"a+?", "aaa", "a"},
		{"a*?b", "ab", "ab"},
		{"<.*?>", "<a><b>", "<a>"},
		{"a{2,4}?", "aaaa", "aa"},
		{"a??b", "ab", "ab"}, // leftmost start beats laziness
		{"a??b", "b", "b"},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.FindString(tc.input); got != tc.want {
			t.Errorf("FindString(%q, %q) = %q; want %q", tc.pattern, tc.input, got, tc.want)
		}
	}
}

// TestBacktrackRelease tests that greedy nodes give characters back to
// later siblings
func TestBacktrackRelease(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"^a+ab$", "aaab", true},    // a+ must release one a
		{"^a*aaa$", "aaa", true},    // a* must back off to zero
		{"^.*c$", "abc", true},      // .* releases the c
		{"a{3,}a{2,}a", "aaaaaa", true},
		{"a{3,}a{2,}a", "aaaaa", false},
		{"^(a+a{2,}a){3,}a$", "aaaaaaaaaaaaa", true}, // 13 a's: 3 reps of 4 + 1
		{"^(a+a{2,}a){3,}a$", "aaaaaaaaaaaa", false}, // 12 a's fall short
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestQuantifiedGroups tests repetition applied to whole groups
func TestQuantifiedGroups(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"(ab)+", "ababab", true},
		{"(ab)+", "a", false},
		{"(ab){2}", "ab", false},
		{"(ab){2}", "abab", true},
		{"(?:ab|cd)+", "abcdab", true},
		{"^(?:ab|cd)+$", "abcda", false},
		{"(a|b){3}", "aba", true},
		{"^(ab?)+$", "abaab", true},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}

// TestLiteralBrace tests that ill-formed repetitions are literal braces
func TestLiteralBrace(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"a{", "a{", true},
		{"a{}", "a{}", true},
		{"a{x}", "a{x}", true},
		{"a{1x}", "a{1x}", true},
	}
	for _, tc := range tests {
		re := MustCompile(tc.pattern)
		if got := re.MatchString(tc.input); got != tc.match {
			t.Errorf("MatchString(%q, %q) = %v; want %v", tc.pattern, tc.input, got, tc.match)
		}
	}
}
