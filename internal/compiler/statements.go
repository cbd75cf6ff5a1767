package compiler

import (
	"github.com/aferrandini/loxc/internal/chunk"
	"github.com/aferrandini/loxc/internal/token"
)

// decl parses one top-level-or-nested declaration and resynchronizes
// on error, per spec.md §4.5's "After return, if panicMode, invoke
// synchronize."
func (p *Parser) decl() {
	switch {
	case p.match(token.Fun):
		p.funDecl()
	case p.match(token.Var):
		p.varDecl()
	case p.match(token.Global):
		p.globalDecl()
	default:
		p.stmt()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) stmt() {
	switch {
	case p.match(token.Puts):
		p.putsStmt()
	case p.match(token.If):
		p.ifStmt()
	case p.match(token.Return):
		p.returnStmt()
	case p.match(token.While):
		p.whileStmt()
	case p.match(token.LBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.exprStmt()
	}
}

// block parses declarations until the closing '}', per spec.md §4.5's
// "'{' → begin scope, parse block until '}', end scope."
func (p *Parser) block() {
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		p.decl()
	}
	p.consume(token.RBrace, "expect '}' after block")
}

func (p *Parser) exprStmt() {
	p.expression()
	p.consume(token.Semi, "expect ';' after expression")
	p.emitBytes(byte(chunk.OpPop))
}

// putsStmt parses a comma-separated expression list capped at
// maxArgs, then emits PUTS n (which only peeks its n operands, per
// spec.md §6.4) followed by n POPs to discard them, per spec.md §4.5
// and the trailing POP in §8 scenario 3.
func (p *Parser) putsStmt() {
	var n int
	for {
		p.expression()
		if n >= maxArgs {
			p.Error("too many arguments to puts")
		} else {
			n++
		}
		if !p.match(token.Comma) {
			break
		}
	}
	p.consume(token.Semi, "expect ';' after value")
	p.emitBytes(byte(chunk.OpPuts), byte(n))
	for i := 0; i < n; i++ {
		p.emitBytes(byte(chunk.OpPop))
	}
}

// ifStmt accepts an optionally parenthesized condition followed by
// `then`, a single statement as the then-branch, and an optional
// `else` with another statement. The no-else path deliberately omits
// the POP that would otherwise discard the condition value, and emits
// no JMP at all — this mirrors spec.md §8 scenario 3 exactly
// (`TRUE, JMPF->L, POP, CONST(1), PUTS(1), POP, L:`) and is not a bug.
func (p *Parser) ifStmt() {
	parenthesized := p.match(token.LParen)
	p.expression()
	if parenthesized {
		p.consume(token.RParen, "expect ')' after condition")
	}
	p.consume(token.Then, "expect 'then' after condition")

	thenJump := p.emitJump(chunk.OpJumpFalse)
	p.emitBytes(byte(chunk.OpPop))
	p.stmt()

	if p.match(token.Else) {
		elseJump := p.emitJump(chunk.OpJump)
		p.patchJump(thenJump)
		p.emitBytes(byte(chunk.OpPop))
		p.stmt()
		p.patchJump(elseJump)
		return
	}
	p.patchJump(thenJump)
}

// whileStmt: record loopStart, parse the mandatory-parens condition,
// jump out on false, pop the condition, parse the body, loop back,
// patch the exit, pop the condition on the way out too.
func (p *Parser) whileStmt() {
	loopStart := p.beginLoop()
	defer p.endLoop()

	p.consume(token.LParen, "expect '(' after 'while'")
	p.expression()
	p.consume(token.RParen, "expect ')' after condition")

	exitJump := p.emitJump(chunk.OpJumpFalse)
	p.emitBytes(byte(chunk.OpPop))
	p.stmt()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitBytes(byte(chunk.OpPop))
}

// returnStmt rejects top-level return, else compiles a bare `;`
// (implicit null) or an expression, per spec.md §4.5.
func (p *Parser) returnStmt() {
	if p.top.ty == funcScript {
		p.Error("cannot return from top-level code")
	}
	if p.match(token.Semi) {
		p.emitReturn()
		return
	}
	p.expression()
	p.consume(token.Semi, "expect ';' after return value")
	p.emitBytes(byte(chunk.OpReturn))
}

// varDecl parses one local-or-global `var` binding: a name, an
// optional `= expr` initializer (else NULL), terminated by ';'.
// Whether it ends up local or global follows scopeDepth, exactly like
// the teacher's own defineVariable dispatch.
func (p *Parser) varDecl() {
	global := p.parseVariable("expect variable name")

	if p.match(token.Equal) {
		p.expression()
	} else {
		p.emitBytes(byte(chunk.OpNull))
	}
	p.consume(token.Semi, "expect ';' after variable declaration")
	p.defineVariable(global)
}

// globalDecl parses one-or-more comma-separated global bindings. Per
// SPEC_FULL.md §4.1's Surface grammar additions, these are always emitted
// as top-level globals regardless of lexical nesting: declareVariable
// is never called, so a `global` inside a function body still defines
// a script-wide binding rather than shadowing it as a local.
func (p *Parser) globalDecl() {
	for {
		p.consume(token.Ident, "expect variable name")
		name := p.prev
		idx := p.makeConstant(p.heap.Intern(name.String()))

		if p.match(token.Equal) {
			p.expression()
		} else {
			p.emitBytes(byte(chunk.OpNull))
		}
		p.emitBytes(byte(chunk.OpDefGlobal), idx)

		if !p.match(token.Comma) {
			break
		}
	}
	p.consume(token.Semi, "expect ';' after global declaration")
}

// parseVariable consumes an identifier, declares it (a no-op at the
// top level), and returns the constant-pool index to use if it turns
// out to be global; defineVariable ignores that index for locals.
func (p *Parser) parseVariable(errMsg string) byte {
	p.consume(token.Ident, errMsg)
	name := p.prev
	p.declareVariable(name)
	if p.top.scopeDepth > 0 {
		return 0
	}
	return p.makeConstant(p.heap.Intern(name.String()))
}

// funDecl binds a named function: the name is declared and marked
// initialized before the body is compiled, allowing self-recursion,
// then the compiled closure is defined under that name.
func (p *Parser) funDecl() {
	global := p.parseVariable("expect function name")
	p.markInitialized()
	nameTok := p.prev
	p.function(funcFunction, &nameTok)
	p.defineVariable(global)
}

// function compiles one function body in a fresh frame: parameter
// list (capped at maxParams), braced block, implicit return. Back in
// the enclosing chunk it emits CLO constIdx plus one (isLocal, index)
// pair per upvalue — the collapsed single-instruction form spec.md
// §4.5 permits in place of a separate CLO-then-CONST pair.
func (p *Parser) function(ty funcType, nameTok *token.Token) {
	p.pushFrame(ty, nameTok)
	p.beginScope()

	p.consume(token.LParen, "expect '(' after function name")
	if !p.check(token.RParen) {
		for {
			p.top.fn.Arity++
			if p.top.fn.Arity > maxParams {
				p.ErrorAtCurr("too many parameters in function")
			}
			p.consume(token.Ident, "expect parameter name")
			p.declareVariable(p.prev)
			p.markInitialized()
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RParen, "expect ')' after parameters")
	p.consume(token.LBrace, "expect '{' before function body")
	p.block()

	upvalues := p.top.upvalues // read before endFrame pops this frame
	fn := p.endFrame()

	constIdx := p.makeConstant(fn)
	p.emitBytes(byte(chunk.OpClosure), constIdx)
	for _, uv := range upvalues {
		isLocal := byte(0)
		if uv.isLocal {
			isLocal = 1
		}
		p.emitBytes(isLocal, uv.index)
	}
}
