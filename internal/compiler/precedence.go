package compiler

import (
	e "github.com/aferrandini/loxc/internal/errors"
	"github.com/aferrandini/loxc/internal/token"
)

// Precedence ladder, low to high, per spec.md §4.4.
type prec int

const (
	precNone prec = iota
	precAssign
	precOr
	precAnd
	precEqual
	precComp
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(p *Parser, canAssign bool)

type parseRule struct {
	prefix, infix parseFn
	prec          prec
}

// parseRules is the static dispatch table keyed by token kind, per
// spec.md §2's "Pratt-Driven Expression/Statement Parser": pure data,
// populated once.
var parseRules map[token.Type]parseRule

func init() {
	parseRules = map[token.Type]parseRule{
		token.LParen:       {(*Parser).grouping, (*Parser).call, precCall},
		token.Minus:        {(*Parser).unary, (*Parser).binary, precTerm},
		token.Plus:         {nil, (*Parser).binary, precTerm},
		token.Slash:        {nil, (*Parser).binary, precFactor},
		token.Star:         {nil, (*Parser).binary, precFactor},
		token.Bang:         {(*Parser).unary, nil, precNone},
		token.BangEqual:    {nil, (*Parser).binary, precEqual},
		token.EqualEqual:   {nil, (*Parser).binary, precEqual},
		token.Greater:      {nil, (*Parser).binary, precComp},
		token.GreaterEqual: {nil, (*Parser).binary, precComp},
		token.Less:         {nil, (*Parser).binary, precComp},
		token.LessEqual:    {nil, (*Parser).binary, precComp},
		token.Ident:        {(*Parser).variable, nil, precNone},
		token.Str:          {(*Parser).string_, nil, precNone},
		token.Num:          {(*Parser).number, nil, precNone},
		token.Int:          {(*Parser).integer, nil, precNone},
		token.Hex:          {(*Parser).integer, nil, precNone},
		token.And:          {nil, (*Parser).and_, precAnd},
		token.Or:           {nil, (*Parser).or_, precOr},
		token.False:        {(*Parser).literal, nil, precNone},
		token.Null:         {(*Parser).literal, nil, precNone},
		token.True:         {(*Parser).literal, nil, precNone},
		token.Fun:          {(*Parser).self_, nil, precNone},
		token.EOF:          {},
	}
}

func ruleFor(ty token.Type) parseRule { return parseRules[ty] }

// parsePrecedence climbs the precedence ladder: parse a prefix handler
// for the just-advanced token, then keep folding in infix handlers as
// long as their precedence is at least minPrec (spec.md §4.4).
func (p *Parser) parsePrecedence(minPrec prec) {
	p.advance()

	prefix := ruleFor(p.prev.Type).prefix
	if prefix == nil {
		p.Error("expect expression")
		return
	}

	canAssign := minPrec <= precAssign
	prefix(p, canAssign)

	for minPrec <= ruleFor(p.curr.Type).prec {
		p.advance()
		infix := ruleFor(p.prev.Type).infix
		if infix == nil {
			panic(e.UnreachableError)
		}
		infix(p, canAssign)
	}

	if canAssign && p.match(token.Equal) {
		p.Error("invalid assignment target")
	}
}

func (p *Parser) expression() { p.parsePrecedence(precAssign) }
