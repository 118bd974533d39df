package shell

import (
	"strings"
	"unicode"

	"github.com/rcarmo/go-vsh/pkg/core"
)

// TokenKind identifies a lexical unit.
type TokenKind int

const (
	TokenValue TokenKind = iota
	TokenAnd
	TokenOr
	TokenPipe
	TokenRedirectOut
	TokenRedirectIn
)

// Token is one lexical unit of a statement. Value is set for TokenValue,
// Append for TokenRedirectOut.
type Token struct {
	Kind   TokenKind
	Value  string
	Append bool
}

func (t Token) String() string {
	switch t.Kind {
	case TokenAnd:
		return "&&"
	case TokenOr:
		return "||"
	case TokenPipe:
		return "|"
	case TokenRedirectOut:
		if t.Append {
			return ">>"
		}
		return ">"
	case TokenRedirectIn:
		return "<"
	}
	return t.Value
}

// source is the character queue a script is read from. Expansions are
// pushed back onto its front.
type source struct {
	runes []rune
	pos   int
}

func newSource(text string) *source {
	return &source{runes: []rune(text)}
}

func (s *source) next() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	return r, true
}

func (s *source) peek() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	return s.runes[s.pos], true
}

func (s *source) done() bool {
	return s.pos >= len(s.runes)
}

func (s *source) prepend(rs []rune) {
	rest := s.runes[s.pos:]
	runes := make([]rune, 0, len(rs)+len(rest))
	runes = append(runes, rs...)
	s.runes = append(runes, rest...)
	s.pos = 0
}

// skipLine drops everything up to and including the next newline.
func (s *source) skipLine() {
	for {
		r, ok := s.next()
		if !ok || r == '\n' {
			return
		}
	}
}

type quoteState int

const (
	quoteNone quoteState = iota
	quoteSingle
	quoteDouble
)

type tokenizer struct {
	sh  *Shell
	ctx *Context
	p   *core.Process
	src *source

	tokens []Token
	word   strings.Builder
	inWord bool
	quote  quoteState

	// ignore counts injected runes still to be taken literally.
	ignore int
	// prev is the previous unquoted rune, for two-character operators.
	prev rune
	// opened is set while the next rune is the first inside a double quote.
	opened bool

	// assignable is cleared once the word can no longer be NAME=value;
	// eq is the byte offset of its '=' or -1.
	assignable bool
	eq         int
}

// tokenize reads one statement from src: up to an unquoted newline or ';',
// or the end of input. Leading NAME=value words are applied to ctx and
// dropped.
func (sh *Shell) tokenize(ctx *Context, p *core.Process, src *source) ([]Token, error) {
	t := &tokenizer{sh: sh, ctx: ctx, p: p, src: src}
	t.resetWord()
	return t.run()
}

func (t *tokenizer) run() ([]Token, error) {
	for {
		c, ok := t.src.next()
		if !ok {
			break
		}
		if t.ignore > 0 {
			t.ignore--
			t.prev = 0
			if t.quote == quoteNone && isBlank(c) {
				t.flush()
				continue
			}
			t.writeRune(c)
			continue
		}
		switch t.quote {
		case quoteSingle:
			t.prev = 0
			if c == '\'' {
				t.quote = quoteNone
			} else {
				t.writeRune(c)
			}
			continue
		case quoteDouble:
			t.prev = 0
			first := t.opened
			t.opened = false
			if err := t.doubleQuoted(c, first); err != nil {
				return nil, err
			}
			continue
		}
		end, err := t.unquoted(c)
		if err != nil {
			return nil, err
		}
		if end {
			t.flush()
			return t.tokens, nil
		}
	}
	if t.quote != quoteNone {
		return nil, syntaxErrorf("unterminated quote")
	}
	t.flush()
	return t.tokens, nil
}

func (t *tokenizer) doubleQuoted(c rune, first bool) error {
	switch c {
	case '~':
		if first && t.tildeEnds() {
			t.home()
		} else {
			t.writeRune(c)
		}
	case '"':
		t.quote = quoteNone
	case '\\':
		n, ok := t.src.next()
		if !ok {
			return syntaxErrorf("unterminated quote")
		}
		switch n {
		case '\n':
		case '$', '"', '\\':
			t.writeRune(n)
		default:
			t.writeRune('\\')
			t.writeRune(n)
		}
	case '$':
		return t.dollar()
	default:
		t.writeRune(c)
	}
	return nil
}

func (t *tokenizer) unquoted(c rune) (end bool, err error) {
	switch c {
	case ' ', '\t', '\r':
		t.flush()
	case '\n', ';':
		return true, nil
	case '\'':
		t.noAssign()
		t.inWord = true
		t.quote = quoteSingle
	case '"':
		t.noAssign()
		t.inWord = true
		t.quote = quoteDouble
		t.opened = true
	case '\\':
		if n, ok := t.src.next(); ok && n != '\n' {
			t.noAssign()
			t.writeRune(n)
		}
	case '#':
		if t.inWord {
			t.writeRune(c)
			break
		}
		t.src.skipLine()
		return true, nil
	case '|':
		t.flush()
		if t.prev == '|' {
			if err := t.merge(Token{Kind: TokenPipe}, Token{Kind: TokenOr}); err != nil {
				return false, err
			}
		} else {
			t.push(Token{Kind: TokenPipe})
		}
	case '&':
		t.flush()
		if n, ok := t.src.peek(); !ok || n != '&' {
			return false, syntaxErrorf("background tasks are not supported")
		}
		t.src.next()
		t.push(Token{Kind: TokenAnd})
		c = 0
	case '>':
		t.flush()
		if t.prev == '>' {
			if err := t.merge(Token{Kind: TokenRedirectOut}, Token{Kind: TokenRedirectOut, Append: true}); err != nil {
				return false, err
			}
		} else {
			t.push(Token{Kind: TokenRedirectOut})
		}
	case '<':
		t.flush()
		t.push(Token{Kind: TokenRedirectIn})
	case '~':
		if t.inWord || !t.tildeEnds() {
			t.writeRune(c)
			break
		}
		t.noAssign()
		t.home()
	case '$':
		t.noAssign()
		if err := t.dollar(); err != nil {
			return false, err
		}
	case '=':
		if t.assignable && t.eq < 0 {
			t.eq = t.word.Len()
		}
		t.writeRune(c)
	default:
		t.writeRune(c)
	}
	t.prev = c
	return false, nil
}

// home writes $HOME, or a literal '~' when HOME is unset.
func (t *tokenizer) home() {
	if home, ok := t.p.Env["HOME"]; ok {
		t.word.WriteString(home)
		t.inWord = true
		return
	}
	t.writeRune('~')
}

// tildeEnds reports whether a leading '~' stands alone as a word prefix.
func (t *tokenizer) tildeEnds() bool {
	n, ok := t.src.peek()
	if !ok {
		return true
	}
	switch n {
	case '/', '"', ' ', '\t', '\n', '\r', ';', '|', '&', '>', '<':
		return true
	}
	return false
}

// merge replaces the last token, which must equal want, with merged.
func (t *tokenizer) merge(want, merged Token) error {
	if len(t.tokens) == 0 || t.tokens[len(t.tokens)-1] != want {
		return syntaxErrorf("unexpected %q", merged.String())
	}
	t.tokens[len(t.tokens)-1] = merged
	return nil
}

// dollar expands the variable or substitution following a '$'.
func (t *tokenizer) dollar() error {
	n, ok := t.src.peek()
	if !ok {
		t.writeRune('$')
		return nil
	}
	var value string
	switch {
	case n == '{':
		t.src.next()
		name, closed := t.readUntil('}')
		if !closed {
			return syntaxErrorf("unterminated ${")
		}
		value = t.ctx.Lookup(t.p, name)
	case n == '(':
		t.src.next()
		script, err := t.readSubstitution()
		if err != nil {
			return err
		}
		out, err := t.sh.substitute(t.ctx, t.p, script)
		if err != nil {
			return err
		}
		value = out
	case n == '@':
		t.src.next()
		value = t.ctx.Lookup(t.p, "@")
	case unicode.IsDigit(n):
		value = t.ctx.Lookup(t.p, t.readWhile(unicode.IsDigit))
	case n == '_' || unicode.IsLetter(n):
		value = t.ctx.Lookup(t.p, t.readWhile(isNameRune))
	default:
		t.writeRune('$')
		return nil
	}
	t.inject(value)
	return nil
}

// inject pushes an expansion back onto the source so it is re-read
// literally: no quotes, operators or further expansions, but unquoted
// whitespace still splits words.
func (t *tokenizer) inject(value string) {
	if value == "" {
		return
	}
	rs := []rune(value)
	t.src.prepend(rs)
	t.ignore = len(rs)
}

func (t *tokenizer) readUntil(end rune) (string, bool) {
	var b strings.Builder
	for {
		r, ok := t.src.next()
		if !ok {
			return b.String(), false
		}
		if r == end {
			return b.String(), true
		}
		b.WriteRune(r)
	}
}

func (t *tokenizer) readWhile(fn func(rune) bool) string {
	var b strings.Builder
	for {
		r, ok := t.src.peek()
		if !ok || !fn(r) {
			return b.String()
		}
		t.src.next()
		b.WriteRune(r)
	}
}

// readSubstitution reads the body of $( ... ) up to the matching paren.
func (t *tokenizer) readSubstitution() (string, error) {
	var b strings.Builder
	depth := 1
	var quote rune
	for {
		r, ok := t.src.next()
		if !ok {
			return "", syntaxErrorf("unterminated $(")
		}
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			b.WriteRune(r)
			continue
		}
		switch r {
		case '\'', '"':
			quote = r
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return b.String(), nil
			}
		}
		b.WriteRune(r)
	}
}

func (t *tokenizer) writeRune(r rune) {
	t.word.WriteRune(r)
	t.inWord = true
}

func (t *tokenizer) noAssign() {
	if t.eq < 0 {
		t.assignable = false
	}
}

func (t *tokenizer) push(tok Token) {
	t.tokens = append(t.tokens, tok)
}

func (t *tokenizer) flush() {
	if !t.inWord {
		return
	}
	word := t.word.String()
	if t.eq >= 0 && len(t.tokens) == 0 {
		if name := word[:t.eq]; isName(name) {
			t.ctx.Assign(t.p, name, word[t.eq+1:])
			t.resetWord()
			return
		}
	}
	t.push(Token{Kind: TokenValue, Value: word})
	t.resetWord()
}

func (t *tokenizer) resetWord() {
	t.word.Reset()
	t.inWord = false
	t.assignable = true
	t.eq = -1
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
