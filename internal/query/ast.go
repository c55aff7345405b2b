// Package query parses filter expressions typed in the search shell, such
// as
//
//	volvo cidade:Curitiba,"São Paulo" preco:100000..300000 -opcional:wifi
//
// into free text plus a filter state.
package query

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed expression. Pos is a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

// Clause is one "campo:valor[,valor...]" term. Negated clauses were written
// with a leading '-'.
type Clause struct {
	Field   string
	Values  []string
	Negated bool
	Pos     int
}

func (c Clause) String() string {
	var b strings.Builder
	if c.Negated {
		b.WriteByte('-')
	}
	b.WriteString(c.Field)
	b.WriteByte(':')
	for i, v := range c.Values {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.ContainsAny(v, " \t,") {
			fmt.Fprintf(&b, "%q", v)
		} else {
			b.WriteString(v)
		}
	}
	return b.String()
}

// Expression is a parsed filter expression.
type Expression struct {
	Text    []string
	Clauses []Clause
}

// Query returns the free text of the expression.
func (e *Expression) Query() string {
	return strings.Join(e.Text, " ")
}

func (e *Expression) String() string {
	parts := make([]string, 0, len(e.Text)+len(e.Clauses))
	for _, t := range e.Text {
		parts = append(parts, fmt.Sprintf("text(%s)", t))
	}
	for _, c := range e.Clauses {
		parts = append(parts, c.String())
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " ")
}
