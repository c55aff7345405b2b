package query

import (
	"errors"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "single term",
			input: "volvo",
			expected: []Token{
				{Type: TokenTerm, Value: "volvo", Pos: 0},
				{Type: TokenEOF, Pos: 5},
			},
		},
		{
			name:  "field and value",
			input: "cidade:Curitiba",
			expected: []Token{
				{Type: TokenField, Value: "cidade", Pos: 0},
				{Type: TokenTerm, Value: "Curitiba", Pos: 7},
				{Type: TokenEOF, Pos: 15},
			},
		},
		{
			name:  "value list with phrase",
			input: `cidade:Curitiba,"São Paulo"`,
			expected: []Token{
				{Type: TokenField, Value: "cidade", Pos: 0},
				{Type: TokenTerm, Value: "Curitiba", Pos: 7},
				{Type: TokenComma, Value: ",", Pos: 15},
				{Type: TokenPhrase, Value: "São Paulo", Pos: 16},
				{Type: TokenEOF, Pos: 28},
			},
		},
		{
			name:  "negated field",
			input: "-opcional:wifi",
			expected: []Token{
				{Type: TokenNot, Value: "-", Pos: 0},
				{Type: TokenField, Value: "opcional", Pos: 1},
				{Type: TokenTerm, Value: "wifi", Pos: 10},
				{Type: TokenEOF, Pos: 14},
			},
		},
		{
			name:  "lone minus is a term",
			input: "a - b",
			expected: []Token{
				{Type: TokenTerm, Value: "a", Pos: 0},
				{Type: TokenTerm, Value: "-", Pos: 2},
				{Type: TokenTerm, Value: "b", Pos: 4},
				{Type: TokenEOF, Pos: 5},
			},
		},
		{
			name:  "range value",
			input: "preco:100000..300000",
			expected: []Token{
				{Type: TokenField, Value: "preco", Pos: 0},
				{Type: TokenTerm, Value: "100000..300000", Pos: 6},
				{Type: TokenEOF, Pos: 20},
			},
		},
		{
			name:  "non-ascii text",
			input: "ônibus  rodoviário",
			expected: []Token{
				{Type: TokenTerm, Value: "ônibus", Pos: 0},
				{Type: TokenTerm, Value: "rodoviário", Pos: 9},
				{Type: TokenEOF, Pos: 20},
			},
		},
		{
			name:  "escaped quote in phrase",
			input: `"12\" tv"`,
			expected: []Token{
				{Type: TokenPhrase, Value: `12" tv`, Pos: 0},
				{Type: TokenEOF, Pos: 9},
			},
		},
		{
			name:     "empty",
			input:    "   ",
			expected: []Token{{Type: TokenEOF, Pos: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize error: %v", err)
			}
			if len(tokens) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d %v", len(tokens), tokens, len(tt.expected), tt.expected)
			}
			for i, tok := range tokens {
				if tok != tt.expected[i] {
					t.Errorf("token %d = %+v, want %+v", i, tok, tt.expected[i])
				}
			}
		})
	}
}

func TestTokenize_UnterminatedPhrase(t *testing.T) {
	_, err := Tokenize(`volvo "sao paulo`)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if se.Pos != 6 {
		t.Errorf("Pos = %d, want 6", se.Pos)
	}
}
