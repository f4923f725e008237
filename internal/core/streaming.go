package core

// streaming.go cleans uploaded bytes before the CSV tokenizer sees them:
//
//   - A leading UTF-8 byte order mark, added by Excel and other Windows
//     programs, is dropped so it does not stick to the first column name
//   - Invalid UTF-8 sequences are replaced with U+FFFD
//
// Use NewCleanReader to apply both in the right order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewBOMSkippingReader returns a reader that drops a leading UTF-8 BOM.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// UTF8Sanitizer is an io.Reader that replaces each invalid UTF-8 byte with
// the Unicode replacement character. Multi-byte runes split across reads of
// the underlying reader are reassembled.
type UTF8Sanitizer struct {
	src *bufio.Reader
	out []byte // decoded bytes not yet handed to the caller
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{src: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	var readErr error
	for len(s.out) < len(p) {
		r, _, err := s.src.ReadRune()
		if err != nil {
			readErr = err
			break
		}
		// ReadRune reports invalid bytes as RuneError, one byte at a time.
		s.out = utf8.AppendRune(s.out, r)
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	if n > 0 {
		return n, nil
	}
	return 0, readErr
}

// NewCleanReader strips the BOM and sanitizes UTF-8.
func NewCleanReader(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkippingReader(r))
}
