package syntax

import (
	"bufio"
	"io"
	"strings"

	"nestml/report"
)

// Lexer tokenizes a NESTML source file. The grammar is indentation-
// insensitive and block-structured by explicit `end`, so whitespace and
// newlines are pure separators (spec §4.1).
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{file: file, tokBuff: &strings.Builder{}}
}

// NextToken retrieves the next token, or an EOF token once the input is
// exhausted.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch {
		case c == '\n' || c == '\t' || c == ' ' || c == '\r':
			l.skip()
		case c == '#':
			l.skipLineComment()
		case c >= '0' && c <= '9':
			return l.lexNumber()
		case c == '"':
			return l.lexString()
		case isIdentStart(byte(c)):
			return l.lexIdentOrKeyword()
		default:
			return l.lexSymbol()
		}
	}

	return &Token{Kind: TOK_EOF, Span: &report.TextSpan{StartLine: l.line, StartCol: l.col, EndLine: l.line, EndCol: l.col}}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// -----------------------------------------------------------------------------

func (l *Lexer) peek() (int, error) {
	b, err := l.file.Peek(1)
	if err == io.EOF {
		return -1, nil
	} else if err != nil {
		return 0, err
	}
	return int(b[0]), nil
}

func (l *Lexer) peek2() (int, error) {
	b, err := l.file.Peek(2)
	if err != nil {
		return -1, nil
	}
	return int(b[1]), nil
}

func (l *Lexer) eat() {
	b, _ := l.file.ReadByte()
	l.tokBuff.WriteByte(b)
	if b == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) skip() {
	b, _ := l.file.ReadByte()
	if b == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) skipLineComment() {
	for {
		c, err := l.peek()
		if err != nil || c == -1 || c == '\n' {
			return
		}
		l.skip()
	}
}

func (l *Lexer) mark() {
	l.tokBuff.Reset()
	l.startLine, l.startCol = l.line, l.col
}

func (l *Lexer) makeToken(kind int) *Token {
	return &Token{
		Kind:  kind,
		Value: l.tokBuff.String(),
		Span: &report.TextSpan{
			StartLine: l.startLine, StartCol: l.startCol,
			EndLine: l.line, EndCol: l.col,
		},
	}
}

// -----------------------------------------------------------------------------

func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}
		if c == -1 || !isIdentChar(byte(c)) {
			break
		}
		l.eat()
	}

	name := l.tokBuff.String()
	if kind, ok := keywordPatterns[name]; ok {
		return l.makeToken(kind), nil
	}
	return l.makeToken(TOK_IDENT), nil
}

func (l *Lexer) lexNumber() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}
		if c == -1 || !(c >= '0' && c <= '9') {
			break
		}
		l.eat()
	}

	if c, _ := l.peek(); c == '.' {
		if c2, _ := l.peek2(); c2 >= '0' && c2 <= '9' {
			l.eat()
			for {
				c, err := l.peek()
				if err != nil {
					return nil, err
				}
				if c == -1 || !(c >= '0' && c <= '9') {
					break
				}
				l.eat()
			}
		}
	}

	if c, _ := l.peek(); c == 'e' || c == 'E' {
		l.eat()
		if c, _ := l.peek(); c == '+' || c == '-' {
			l.eat()
		}
		for {
			c, err := l.peek()
			if err != nil {
				return nil, err
			}
			if c == -1 || !(c >= '0' && c <= '9') {
				break
			}
			l.eat()
		}
	}

	return l.makeToken(TOK_NUMLIT), nil
}

func (l *Lexer) lexString() (*Token, error) {
	l.mark()
	l.skip() // opening quote, excluded from value

	l.tokBuff.Reset()
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}
		if c == -1 {
			return nil, report.Raise("UnterminatedString", &report.TextSpan{StartLine: l.startLine, StartCol: l.startCol, EndLine: l.line, EndCol: l.col}, "unterminated string literal")
		}
		if c == '"' {
			tok := l.makeToken(TOK_STRINGLIT)
			l.skip() // closing quote
			return tok, nil
		}
		l.eat()
	}
}

func (l *Lexer) lexSymbol() (*Token, error) {
	l.mark()
	l.eat()

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		return nil, report.Raise("UnknownRune", l.curSpan(), "unexpected character %q", l.tokBuff.String())
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}
		if c == -1 {
			break
		}
		if nextKind, ok := symbolPatterns[l.tokBuff.String()+string(rune(c))]; ok {
			l.eat()
			kind = nextKind
		} else {
			break
		}
	}

	return l.makeToken(kind), nil
}

func (l *Lexer) curSpan() *report.TextSpan {
	return &report.TextSpan{StartLine: l.startLine, StartCol: l.startCol, EndLine: l.line, EndCol: l.col}
}
