package correction

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ParsePartial parses a possibly truncated JSON object and returns the
// fixedText and explanation values read so far. complete reports whether the
// top-level object has been closed.
//
// A string value cut off mid-way is returned up to the last fully decoded
// character: a trailing partial escape or partial UTF-8 sequence is held
// back, so each snapshot of a growing input is a prefix of the next.
func ParsePartial(data []byte) (res Result, complete bool, err error) {
	s := &scanner{data: data}

	s.skipSpace()
	if s.eof() {
		return res, false, nil
	}
	if s.peek() != '{' {
		return res, false, s.syntaxErr("expected '{'")
	}
	s.pos++

	first := true
	for {
		s.skipSpace()
		if s.eof() {
			return res, false, nil
		}
		if first && s.peek() == '}' {
			s.pos++
			return res, true, s.trailing()
		}
		first = false
		if s.peek() != '"' {
			return res, false, s.syntaxErr("expected object key")
		}

		key, done, err := s.readString()
		if err != nil || !done {
			return res, false, err
		}

		s.skipSpace()
		if s.eof() {
			return res, false, nil
		}
		if s.peek() != ':' {
			return res, false, s.syntaxErr("expected ':'")
		}
		s.pos++

		s.skipSpace()
		if s.eof() {
			return res, false, nil
		}
		if s.peek() == '"' {
			val, done, err := s.readString()
			if err != nil {
				return res, false, err
			}
			res.set(key, val)
			if !done {
				return res, false, nil
			}
		} else {
			done, err := s.skipValue()
			if err != nil || !done {
				return res, false, err
			}
		}

		s.skipSpace()
		if s.eof() {
			return res, false, nil
		}
		switch s.peek() {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return res, true, s.trailing()
		default:
			return res, false, s.syntaxErr("expected ',' or '}'")
		}
	}
}

type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) eof() bool  { return s.pos >= len(s.data) }
func (s *scanner) peek() byte { return s.data[s.pos] }

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) syntaxErr(msg string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformed, msg, s.pos)
}

func (s *scanner) trailing() error {
	s.skipSpace()
	if !s.eof() {
		return s.syntaxErr("unexpected data after object")
	}
	return nil
}

// readString decodes the string starting at the current quote. done is false
// when the input ends before the closing quote; the decoded prefix is still
// returned.
func (s *scanner) readString() (string, bool, error) {
	s.pos++ // opening quote
	var b strings.Builder
	for {
		if s.eof() {
			return b.String(), false, nil
		}
		c := s.peek()
		switch {
		case c == '"':
			s.pos++
			return b.String(), true, nil

		case c == '\\':
			if s.pos+1 >= len(s.data) {
				return b.String(), false, nil
			}
			esc := s.data[s.pos+1]
			switch esc {
			case '"', '\\', '/':
				b.WriteByte(esc)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				r, n, ok, err := s.readUnicodeEscape()
				if err != nil {
					return b.String(), false, err
				}
				if !ok {
					return b.String(), false, nil
				}
				b.WriteRune(r)
				s.pos += n
				continue
			default:
				return b.String(), false, s.syntaxErr(fmt.Sprintf("invalid escape '\\%c'", esc))
			}
			s.pos += 2

		case c < 0x20:
			return b.String(), false, s.syntaxErr("control character in string")

		case c < utf8.RuneSelf:
			b.WriteByte(c)
			s.pos++

		default:
			rest := s.data[s.pos:]
			if !utf8.FullRune(rest) {
				return b.String(), false, nil
			}
			r, size := utf8.DecodeRune(rest)
			b.WriteRune(r)
			s.pos += size
		}
	}
}

// readUnicodeEscape decodes a \uXXXX escape at the current position, joining
// a surrogate pair when one follows. ok is false when the escape is truncated.
func (s *scanner) readUnicodeEscape() (r rune, n int, ok bool, err error) {
	hi, ok, err := s.hex4(s.pos + 2)
	if err != nil || !ok {
		return 0, 0, ok, err
	}
	if !utf16.IsSurrogate(hi) {
		return hi, 6, true, nil
	}

	// A high surrogate needs its pair before it can be emitted.
	next := s.pos + 6
	if next+2 > len(s.data) {
		if next < len(s.data) && s.data[next] != '\\' {
			return utf8.RuneError, 6, true, nil
		}
		return 0, 0, false, nil
	}
	if s.data[next] != '\\' || s.data[next+1] != 'u' {
		return utf8.RuneError, 6, true, nil
	}
	lo, ok, err := s.hex4(next + 2)
	if err != nil || !ok {
		return 0, 0, ok, err
	}
	if dec := utf16.DecodeRune(hi, lo); dec != utf8.RuneError {
		return dec, 12, true, nil
	}
	return utf8.RuneError, 6, true, nil
}

func (s *scanner) hex4(at int) (rune, bool, error) {
	if at+4 > len(s.data) {
		for i := at; i < len(s.data); i++ {
			if !isHex(s.data[i]) {
				return 0, false, s.syntaxErr("invalid unicode escape")
			}
		}
		return 0, false, nil
	}
	v, err := strconv.ParseUint(string(s.data[at:at+4]), 16, 32)
	if err != nil {
		return 0, false, s.syntaxErr("invalid unicode escape")
	}
	return rune(v), true, nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// skipValue steps over a non-string value. done is false when the input ends
// before the value could be delimited.
func (s *scanner) skipValue() (bool, error) {
	switch s.peek() {
	case '{', '[':
		depth := 0
		for !s.eof() {
			switch s.peek() {
			case '"':
				if _, done, err := s.readString(); err != nil || !done {
					return false, err
				}
				continue
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					s.pos++
					return true, nil
				}
			}
			s.pos++
		}
		return false, nil
	default:
		start := s.pos
		for !s.eof() && isScalarByte(s.peek()) {
			s.pos++
		}
		if s.pos == start {
			return false, s.syntaxErr("unexpected character")
		}
		return !s.eof(), nil
	}
}

func isScalarByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'E'
}
