package compiler

import "github.com/aferrandini/loxc/internal/token"

// Token Cursor (spec.md §4.1): a two-token sliding window over the
// lexer. No lookahead beyond one token; this is the only place that
// calls the lexer.

func (p *Parser) advance() {
	p.prev = p.curr
	for {
		p.curr = p.lex.Next()
		if !p.check(token.Err) {
			break
		}
		p.ErrorAtCurr(p.curr.String())
	}
}

func (p *Parser) check(ty token.Type) bool { return p.curr.Type == ty }

func (p *Parser) checkPrev(ty token.Type) bool { return p.prev.Type == ty }

func (p *Parser) match(ty token.Type) bool {
	if !p.check(ty) {
		return false
	}
	p.advance()
	return true
}

// consume advances past the current token if it has kind ty, else
// raises errMsg at the current token and returns false.
func (p *Parser) consume(ty token.Type, errMsg string) bool {
	if !p.check(ty) {
		p.ErrorAtCurr(errMsg)
		return false
	}
	p.advance()
	return true
}
