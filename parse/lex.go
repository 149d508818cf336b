package parse

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

const (
	allLetters = "abcdefghijklmnopqrstuvwxyz_"
	allDigits  = "0123456789"
)

func isLetter(c byte) bool {
	return strings.IndexByte(allLetters, c|0x20) >= 0 || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// lex splits text into tokens. Only ".." is a two character token.
func lex(text string) ([]token, error) {
	var toks []token
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case strings.IndexByte(" \t\r\n", c) >= 0:
			i++
		case isDigit(c) || (c == '.' && i+1 < len(text) && isDigit(text[i+1])):
			n := scanNumber(text[i:])
			toks = append(toks, token{kind: tokNum, text: text[i : i+n], pos: i})
			i += n
		case isLetter(c):
			j := i + 1
			for j < len(text) && (isLetter(text[j]) || isDigit(text[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: text[i:j], pos: i})
			i = j
		case strings.HasPrefix(text[i:], ".."):
			toks = append(toks, token{kind: tokPunct, text: "..", pos: i})
			i += 2
		case strings.IndexByte("+-*/^()[],=", c) >= 0:
			toks = append(toks, token{kind: tokPunct, text: text[i : i+1], pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, c, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(text)}), nil
}

// scanNumber returns the length of the number at the start of s:
// digits, an optional fraction and an optional exponent. A '.'
// followed by another '.' ends the number.
func scanNumber(s string) int {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' && !strings.HasPrefix(s[i:], "..") {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}
