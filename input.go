package cre

import (
	"io"
	"unicode/utf8"
)

// Input abstracts the subject text, letting the engine work
// transparently with strings, byte slices and io.Readers.
type Input interface {
	// Step returns the rune at the given byte position and its width.
	// At or beyond the end of the subject it returns (0, 0).
	Step(pos int) (rune, int)

	// Context returns the rune ending at the given position, for
	// boundary checks like \b. At position 0 it returns (-1, 0).
	Context(pos int) (rune, int)

	// Len returns the subject length in bytes.
	Len() int

	// Slice returns the subject text in [lo, hi).
	Slice(lo, hi int) string

	// Index returns the earliest byte offset at or after pos where a
	// match of re could start, according to re's literal prefilter.
	// It returns -1 when the prefilter proves no match can follow,
	// and pos when no prefilter is available.
	Index(re *Regexp, pos int) int
}

// StringInput implements Input for a string.
type StringInput struct {
	str string
	b   []byte // lazily built for the prefilter
}

func NewStringInput(s string) *StringInput {
	return &StringInput{str: s}
}

func (s *StringInput) Step(pos int) (rune, int) {
	if pos >= len(s.str) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s.str[pos:])
}

func (s *StringInput) Context(pos int) (rune, int) {
	if pos <= 0 {
		return -1, 0
	}
	if pos > len(s.str) {
		pos = len(s.str)
	}
	return utf8.DecodeLastRuneInString(s.str[:pos])
}

func (s *StringInput) Len() int { return len(s.str) }

func (s *StringInput) Slice(lo, hi int) string { return s.str[lo:hi] }

func (s *StringInput) Index(re *Regexp, pos int) int {
	if re.prefilter == nil {
		return pos
	}
	if s.b == nil {
		s.b = []byte(s.str)
	}
	return re.prefilter.next(s.b, pos)
}

// ByteInput implements Input for a byte slice.
type ByteInput struct {
	data []byte
}

func NewByteInput(b []byte) *ByteInput {
	return &ByteInput{data: b}
}

// NewReaderInput reads r fully into memory; backtracking needs random
// access to the subject.
func NewReaderInput(r io.Reader) (*ByteInput, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &ByteInput{data: b}, nil
}

func (s *ByteInput) Step(pos int) (rune, int) {
	if pos >= len(s.data) {
		return 0, 0
	}
	return utf8.DecodeRune(s.data[pos:])
}

func (s *ByteInput) Context(pos int) (rune, int) {
	if pos <= 0 {
		return -1, 0
	}
	if pos > len(s.data) {
		pos = len(s.data)
	}
	return utf8.DecodeLastRune(s.data[:pos])
}

func (s *ByteInput) Len() int { return len(s.data) }

func (s *ByteInput) Slice(lo, hi int) string { return string(s.data[lo:hi]) }

func (s *ByteInput) Index(re *Regexp, pos int) int {
	if re.prefilter == nil {
		return pos
	}
	return re.prefilter.next(s.data, pos)
}
