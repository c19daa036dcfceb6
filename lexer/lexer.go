// Package lexer is the jawk lexer (tokenizer).
//
// The lexer turns program source into the flat token sequence the
// parser consumes. Use Lex to scan a whole program into a slice of
// Items ending with an EOF item, or NewLexer and Scan to pull tokens
// one at a time.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coregx/coregex"
)

// Position is a source line and column, both starting at 1.
type Position struct {
	Line   int
	Column int
}

// Lexer tokenizes a byte string of jawk source code.
type Lexer struct {
	src      []byte
	offset   int
	chOffset int
	ch       rune
	errorMsg string
	pos      Position
	nextPos  Position
}

// numberRegex matches integer, decimal and exponent forms: 12, 1.5,
// .5, 1., 1e3, 2.5E-2.
var numberRegex = coregex.MustCompile(`^(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

// NewLexer creates a new lexer that will tokenize the given source
// code.
func NewLexer(src []byte) *Lexer {
	l := &Lexer{src: src}
	l.nextPos.Line = 1
	l.nextPos.Column = 1
	l.next()
	return l
}

// Scan scans the next token and returns its position (line/column),
// token kind, and value. The value is the name of a NAME, the raw
// text of a NUMBER, the unescaped contents of a STRING, or the error
// message of an ILLEGAL token. Once the source is exhausted, Scan
// returns EOF forever.
func (l *Lexer) Scan() (Position, Token, string) {
	l.skipWhite()
	if l.ch < 0 {
		if l.errorMsg != "" {
			return l.pos, ILLEGAL, l.errorMsg
		}
		return l.pos, EOF, ""
	}

	pos := l.pos
	start := l.chOffset
	tok := ILLEGAL
	val := ""

	ch := l.ch
	l.next()

	// Names and keywords
	if isNameStart(ch) {
		runes := []rune{ch}
		for isNameStart(l.ch) || isDigit(l.ch) {
			runes = append(runes, l.ch)
			l.next()
		}
		name := string(runes)
		switch strings.ToUpper(name) {
		case "BEGIN":
			return pos, BEGIN, ""
		case "END":
			return pos, END, ""
		}
		tok, isKeyword := keywordTokens[name]
		if !isKeyword {
			tok = NAME
			val = name
		}
		return pos, tok, val
	}

	switch ch {
	case '{':
		tok = LBRACE
	case '}':
		tok = RBRACE
	case '(':
		tok = LPAREN
	case ')':
		tok = RPAREN
	case ';':
		tok = SEMICOLON
	case '$':
		tok = DOLLAR
	case '+':
		tok = l.twoSymbol('=', ADD, ADD_ASSIGN)
	case '-':
		tok = l.twoSymbol('=', SUB, SUB_ASSIGN)
	case '*':
		tok = l.twoSymbol('=', MUL, MUL_ASSIGN)
	case '/':
		tok = l.twoSymbol('=', DIV, DIV_ASSIGN)
	case '%':
		tok = l.twoSymbol('=', MOD, MOD_ASSIGN)
	case '^':
		tok = l.twoSymbol('=', POW, POW_ASSIGN)
	case '=':
		tok = l.twoSymbol('=', ASSIGN, EQUALS)
	case '<':
		tok = l.twoSymbol('=', LESS, LTE)
	case '>':
		tok = l.twoSymbol('=', GREATER, GTE)
	case '!':
		if l.ch != '=' {
			return pos, ILLEGAL, "unexpected ! (expected !=)"
		}
		l.next()
		tok = NOT_EQUALS
	case '&':
		if l.ch != '&' {
			return pos, ILLEGAL, "unexpected & (expected &&)"
		}
		l.next()
		tok = AND
	case '|':
		if l.ch != '|' {
			return pos, ILLEGAL, "unexpected | (expected ||)"
		}
		l.next()
		tok = OR
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.':
		m := numberRegex.Find(l.src[start:])
		if m == nil {
			return pos, ILLEGAL, "expected digits"
		}
		// Number characters are all ASCII, and ch is already consumed
		for i := 1; i < len(m); i++ {
			l.next()
		}
		tok = NUMBER
		val = string(m)
	case '"':
		s, err := l.scanString()
		if err != "" {
			return pos, ILLEGAL, err
		}
		tok = STRING
		val = s
	default:
		val = fmt.Sprintf("unexpected %q", ch)
	}
	return pos, tok, val
}

func (l *Lexer) scanString() (string, string) {
	runes := []rune{}
	for l.ch != '"' {
		c := l.ch
		if c < 0 {
			if l.errorMsg != "" {
				return "", l.errorMsg
			}
			return "", "didn't find end quote in string"
		}
		if c == '\r' || c == '\n' {
			return "", "can't have newline in string"
		}
		if c == '\\' {
			l.next()
			switch l.ch {
			case '"', '\\', '/':
				c = l.ch
			case 't':
				c = '\t'
			case 'r':
				c = '\r'
			case 'n':
				c = '\n'
			default:
				return "", fmt.Sprintf("invalid string escape \\%c", l.ch)
			}
		}
		runes = append(runes, c)
		l.next()
	}
	l.next()
	return string(runes), ""
}

// Load the next character into l.ch (or -1 on end of input) and
// update line and column position.
func (l *Lexer) next() {
	l.pos = l.nextPos
	l.chOffset = l.offset
	ch, size := utf8.DecodeRune(l.src[l.offset:])
	if size == 0 {
		l.ch = -1
		return
	}
	if ch == utf8.RuneError && size == 1 {
		l.ch = -1
		l.errorMsg = fmt.Sprintf("invalid UTF-8 byte 0x%02x", l.src[l.offset])
		return
	}
	if ch == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	} else {
		l.nextPos.Column++
	}
	l.ch = ch
	l.offset += size
}

// Newlines carry no meaning in jawk, so they're skipped along with
// other whitespace and # comments.
func (l *Lexer) skipWhite() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.next()
		case '#':
			for l.ch != '\n' && l.ch >= 0 {
				l.next()
			}
		default:
			return
		}
	}
}

func isNameStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Return the two-character token if the next character is secondChar,
// otherwise the one-character token.
func (l *Lexer) twoSymbol(secondChar rune, oneChar, twoChar Token) Token {
	if l.ch == secondChar {
		l.next()
		return twoChar
	}
	return oneChar
}

// Item is one scanned token along with its position and value.
type Item struct {
	Pos Position
	Tok Token
	Val string  // name, string contents, or raw number text
	Num float64 // value of a NUMBER token
}

func (i Item) String() string {
	switch i.Tok {
	case NAME, NUMBER:
		return i.Tok.String() + " " + i.Val
	case STRING:
		return i.Tok.String() + " " + strconv.Quote(i.Val)
	default:
		return i.Tok.String()
	}
}

// Error is returned by Lex when the source contains an illegal token.
type Error struct {
	Position Position
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Lex tokenizes all of src. The returned slice always ends with a
// single EOF item. The first illegal token stops lexing and is
// returned as an *Error.
func Lex(src []byte) ([]Item, error) {
	l := NewLexer(src)
	var items []Item
	for {
		pos, tok, val := l.Scan()
		switch tok {
		case ILLEGAL:
			return nil, &Error{pos, val}
		case NUMBER:
			n, err := strconv.ParseFloat(val, 64)
			if err != nil {
				// Only out-of-range exponents get here (1e999)
				return nil, &Error{pos, fmt.Sprintf("invalid number %q", val)}
			}
			items = append(items, Item{Pos: pos, Tok: tok, Val: val, Num: n})
		default:
			items = append(items, Item{Pos: pos, Tok: tok, Val: val})
		}
		if tok == EOF {
			return items, nil
		}
	}
}
