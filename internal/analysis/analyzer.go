package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Analyzer defines the interface for text analysis.
type Analyzer interface {
	Analyze(text string) []string
}

// Folding lowercases, strips diacritics and splits on non-alphanumeric runes,
// so "Ônibus Rodoviário" yields ["onibus", "rodoviario"].
type Folding struct{}

func NewFolding() *Folding {
	return &Folding{}
}

// Analyze tokenizes text into folded tokens.
func (a *Folding) Analyze(text string) []string {
	var tokens []string
	var currentToken strings.Builder

	for _, r := range Fold(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			currentToken.WriteRune(r)
		} else if currentToken.Len() > 0 {
			tokens = append(tokens, currentToken.String())
			currentToken.Reset()
		}
	}

	if currentToken.Len() > 0 {
		tokens = append(tokens, currentToken.String())
	}

	return tokens
}

// Fold lowercases text and removes combining marks.
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// Compact folds text and drops everything that is not a letter or digit.
// Used to compare codes such as "OM 926" and "om-926".
func Compact(text string) string {
	var b strings.Builder
	for _, r := range Fold(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
