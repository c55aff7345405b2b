package query

import "fmt"

// Parser parses tokens into an Expression.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// Parse tokenizes and parses an expression.
func Parse(input string) (*Expression, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse parses the tokens into an Expression.
func (p *Parser) Parse() (*Expression, error) {
	expr := &Expression{}

	for {
		token := p.peek()
		switch token.Type {
		case TokenEOF:
			return expr, nil
		case TokenTerm, TokenPhrase:
			p.advance()
			expr.Text = append(expr.Text, token.Value)
		case TokenField:
			clause, err := p.parseClause(false)
			if err != nil {
				return nil, err
			}
			expr.Clauses = append(expr.Clauses, clause)
		case TokenNot:
			p.advance()
			if p.peek().Type != TokenField {
				return nil, &SyntaxError{Pos: token.Pos, Msg: "expected field after '-'"}
			}
			clause, err := p.parseClause(true)
			if err != nil {
				return nil, err
			}
			clause.Pos = token.Pos
			expr.Clauses = append(expr.Clauses, clause)
		default:
			return nil, &SyntaxError{Pos: token.Pos, Msg: fmt.Sprintf("unexpected %s", token)}
		}
	}
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return Token{Type: TokenEOF, Pos: p.tokens[len(p.tokens)-1].Pos}
		}
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	token := p.current()
	p.pos++
	return token
}

func (p *Parser) peek() Token {
	return p.current()
}

func (p *Parser) parseClause(negated bool) (Clause, error) {
	fieldToken := p.advance()
	clause := Clause{Field: fieldToken.Value, Negated: negated, Pos: fieldToken.Pos}

	for {
		value := p.peek()
		if value.Type != TokenTerm && value.Type != TokenPhrase {
			return Clause{}, &SyntaxError{
				Pos: value.Pos,
				Msg: fmt.Sprintf("expected value after '%s:'", clause.Field),
			}
		}
		p.advance()
		clause.Values = append(clause.Values, value.Value)

		if p.peek().Type != TokenComma {
			return clause, nil
		}
		p.advance()
	}
}
