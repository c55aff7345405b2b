package query

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType int

const (
	TokenTerm TokenType = iota
	TokenPhrase
	TokenField
	TokenComma
	TokenNot
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenTerm:
		return "TERM"
	case TokenPhrase:
		return "PHRASE"
	case TokenField:
		return "FIELD"
	case TokenComma:
		return "COMMA"
	case TokenNot:
		return "NOT"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token is a lexical token. Pos is the byte offset where it starts.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
	return t.Type.String()
}

// Lexer tokenizes a filter expression.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input, pos: 0}
}

// Tokenize tokenizes an expression into tokens ending with TokenEOF.
func Tokenize(input string) ([]Token, error) {
	lexer := NewLexer(input)
	return lexer.TokenizeAll()
}

// TokenizeAll returns all tokens from the input.
func (l *Lexer) TokenizeAll() ([]Token, error) {
	var tokens []Token
	for {
		token, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Type == TokenEOF {
			break
		}
	}
	return tokens, nil
}

// NextToken returns the next token.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	switch l.input[l.pos] {
	case ',':
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: start}, nil
	case '-':
		if l.pos+1 < len(l.input) && !l.isDelimiter(l.pos+1) {
			l.pos++
			return Token{Type: TokenNot, Value: "-", Pos: start}, nil
		}
	case '"':
		return l.readPhrase()
	}

	return l.readWord()
}

func (l *Lexer) peekRune(pos int) (rune, int) {
	return utf8.DecodeRuneInString(l.input[pos:])
}

func (l *Lexer) isDelimiter(pos int) bool {
	r, _ := l.peekRune(pos)
	return unicode.IsSpace(r) || r == '"' || r == ','
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := l.peekRune(l.pos)
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *Lexer) readPhrase() (Token, error) {
	start := l.pos
	l.pos++

	for l.pos < len(l.input) && l.input[l.pos] != '"' {
		if l.input[l.pos] == '\\' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '"' {
			l.pos += 2
			continue
		}
		l.pos++
	}

	if l.pos >= len(l.input) {
		return Token{}, &SyntaxError{Pos: start, Msg: "unterminated phrase"}
	}

	value := l.input[start+1 : l.pos]
	value = strings.ReplaceAll(value, `\"`, `"`)
	l.pos++

	return Token{Type: TokenPhrase, Value: value, Pos: start}, nil
}

func (l *Lexer) readWord() (Token, error) {
	start := l.pos

	for l.pos < len(l.input) {
		if l.isDelimiter(l.pos) {
			break
		}
		_, size := l.peekRune(l.pos)
		l.pos += size
	}

	word := l.input[start:l.pos]
	if word == "" {
		return Token{}, &SyntaxError{Pos: start, Msg: "unexpected character"}
	}

	// "campo:valor" yields the field, then lexing resumes after the colon.
	if colonIdx := strings.Index(word, ":"); colonIdx > 0 {
		l.pos = start + colonIdx + 1
		return Token{Type: TokenField, Value: word[:colonIdx], Pos: start}, nil
	}

	return Token{Type: TokenTerm, Value: word, Pos: start}, nil
}
