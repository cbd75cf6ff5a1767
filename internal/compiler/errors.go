package compiler

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/aferrandini/loxc/internal/debug"
	e "github.com/aferrandini/loxc/internal/errors"
	"github.com/aferrandini/loxc/internal/token"
)

// Error handling & synchronization (spec.md §4.6). Lexical, syntactic,
// and semantic-at-compile-time diagnostics all funnel through ErrorAt,
// share hadError, and all enter panicMode until the next sync point.

func (p *Parser) ErrorAt(tok token.Token, reason string) {
	if p.panicMode {
		return // suppressed until synchronize clears panic mode.
	}
	p.panicMode = true

	msg := fmt.Sprintf("[%d:%d] Error at %s: %s", tok.Line, tok.Column, tok.Describe(), reason)
	if tok.Type == token.Err {
		msg = fmt.Sprintf("[%d:%d] Error: %s", tok.Line, tok.Column, reason)
	}
	err := &e.CompilationError{Line: tok.Line, Reason: msg}

	if debug.DEBUG {
		logrus.Debugln(err)
	}
	p.errors = multierror.Append(p.errors, err)
}

func (p *Parser) Error(reason string)       { p.ErrorAt(p.prev, reason) }
func (p *Parser) ErrorAtCurr(reason string) { p.ErrorAt(p.curr, reason) }

// synchronize exits panic mode and skips tokens until a statement
// boundary: either the previous token was ';', or the current token
// starts a new declaration/statement. Idempotent outside panic mode
// (spec.md §8: "calling it in non-panic mode is a no-op that does not
// advance") since the loop condition is never entered when panicMode
// was already false on entry — callers only invoke it guarded by
// p.panicMode.
func (p *Parser) synchronize() {
	if !p.panicMode {
		return // no-op outside panic mode: nothing to resynchronize from.
	}
	p.panicMode = false
	for !p.check(token.EOF) && !p.checkPrev(token.Semi) {
		switch p.curr.Type {
		case token.Class, token.Fun, token.For, token.Global,
			token.If, token.Puts, token.Return, token.Var, token.While:
			return
		default:
			p.advance()
		}
	}
}
