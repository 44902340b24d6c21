package md5

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord          // keyword or number
	tokString        // "quoted", quotes stripped
	tokPunct         // ( ) { }
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokString:
		return strconv.Quote(t.text)
	}
	return fmt.Sprintf("%q", t.text)
}

// lexer splits MD5 text into tokens. Whitespace and `//` comments are skipped.
type lexer struct {
	data   []byte
	off    int
	line   int
	peeked *token
}

// readSource loads r fully, dropping a leading byte order mark (UTF-8 or UTF-16).
func readSource(r io.Reader) ([]byte, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(r, dec))
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data, line: 1}
}

func (l *lexer) peek() token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func (l *lexer) next() token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

func (l *lexer) scan() token {
	for l.off < len(l.data) {
		c := l.data[l.off]
		switch {
		case c == '\n':
			l.line++
			l.off++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.off++
		case c == '/' && l.off+1 < len(l.data) && l.data[l.off+1] == '/':
			end := bytes.IndexByte(l.data[l.off:], '\n')
			if end < 0 {
				l.off = len(l.data)
			} else {
				l.off += end
			}
		case c == '(' || c == ')' || c == '{' || c == '}':
			l.off++
			return token{kind: tokPunct, text: string(c), line: l.line}
		case c == '"':
			start := l.off + 1
			end := bytes.IndexByte(l.data[start:], '"')
			line := l.line
			if end < 0 {
				// unterminated: take the rest of the line so the parser reports it
				end = bytes.IndexByte(l.data[start:], '\n')
				if end < 0 {
					end = len(l.data) - start
				}
				l.off = start + end
				return token{kind: tokWord, text: "\"" + string(l.data[start:start+end]), line: line}
			}
			s := string(l.data[start : start+end])
			l.line += bytes.Count(l.data[start:start+end], []byte{'\n'})
			l.off = start + end + 1
			return token{kind: tokString, text: s, line: line}
		default:
			start := l.off
			for l.off < len(l.data) && !isDelim(l.data[l.off]) {
				l.off++
			}
			return token{kind: tokWord, text: string(l.data[start:l.off]), line: l.line}
		}
	}
	return token{kind: tokEOF, line: l.line}
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\v', '(', ')', '{', '}', '"':
		return true
	}
	return false
}

// parser wraps the lexer with typed readers. The first error sticks; later reads
// return zero values so callers can check p.err once per entry.
type parser struct {
	lex *lexer
	err error
}

func (p *parser) fail(line int, format string, a ...any) {
	if p.err == nil {
		p.err = formatErr(line, format, a...)
	}
}

func (p *parser) expect(text string) {
	t := p.lex.next()
	if p.err != nil {
		return
	}
	if t.kind == tokString || t.text != text {
		p.fail(t.line, "expected %q, got %s", text, t)
	}
}

func (p *parser) readString() string {
	t := p.lex.next()
	if p.err != nil {
		return ""
	}
	if t.kind != tokString {
		p.fail(t.line, "expected quoted string, got %s", t)
		return ""
	}
	return t.text
}

func (p *parser) readInt() int {
	t := p.lex.next()
	if p.err != nil {
		return 0
	}
	if t.kind != tokWord {
		p.fail(t.line, "expected integer, got %s", t)
		return 0
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		p.fail(t.line, "invalid integer %q", t.text)
		return 0
	}
	return n
}

func (p *parser) readFloat() float64 {
	t := p.lex.next()
	if p.err != nil {
		return 0
	}
	if t.kind != tokWord {
		p.fail(t.line, "expected number, got %s", t)
		return 0
	}
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(t.line, "invalid number %q", t.text)
		return 0
	}
	return f
}

// readVec3 reads "( x y z )".
func (p *parser) readVec3() [3]float64 {
	var v [3]float64
	p.expect("(")
	v[0] = p.readFloat()
	v[1] = p.readFloat()
	v[2] = p.readFloat()
	p.expect(")")
	return v
}

// readVec2 reads "( u v )".
func (p *parser) readVec2() [2]float64 {
	var v [2]float64
	p.expect("(")
	v[0] = p.readFloat()
	v[1] = p.readFloat()
	p.expect(")")
	return v
}

// atBlockEnd consumes a closing brace if it is next. EOF inside a block is an error.
func (p *parser) atBlockEnd() bool {
	if p.err != nil {
		return true
	}
	t := p.lex.peek()
	if t.kind == tokEOF {
		p.fail(t.line, "unexpected end of file inside block")
		return true
	}
	if t.kind == tokPunct && t.text == "}" {
		p.lex.next()
		return true
	}
	return false
}
