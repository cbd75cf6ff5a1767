package compiler

import (
	"strconv"
	"strings"

	"github.com/aferrandini/loxc/internal/chunk"
	"github.com/aferrandini/loxc/internal/object"
	"github.com/aferrandini/loxc/internal/token"
)

// Prefix and infix handlers referenced from parseRules. Each matches
// the shape parseFn expects: the token it handles is already in
// p.prev when it runs.

func (p *Parser) number(canAssign bool) {
	f, err := strconv.ParseFloat(string(p.prev.Lexeme), 64)
	if err != nil {
		p.Error("invalid number literal")
		return
	}
	p.emitConstant(object.Number(f))
}

// integer handles both INT and HEX lexemes; base is picked from the
// lexeme's own "0x" prefix rather than from the token kind, so a
// malformed hex literal still reports a sane diagnostic.
func (p *Parser) integer(canAssign bool) {
	text := string(p.prev.Lexeme)
	base := 10
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		base = 16
		text = text[2:]
	}
	n, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		p.Error("invalid integer literal")
		return
	}
	p.emitConstant(object.Int(n))
}

// string_ strips the surrounding quotes and interns the contents, per
// spec.md §6.2's copyString call site.
func (p *Parser) string_(canAssign bool) {
	lexeme := p.prev.Lexeme
	raw := string(lexeme[1 : len(lexeme)-1])
	p.emitConstant(p.heap.Intern(raw))
}

func (p *Parser) literal(canAssign bool) {
	switch p.prev.Type {
	case token.False:
		p.emitBytes(byte(chunk.OpFalse))
	case token.True:
		p.emitBytes(byte(chunk.OpTrue))
	case token.Null:
		p.emitBytes(byte(chunk.OpNull))
	default:
		panic("unreachable literal kind")
	}
}

func (p *Parser) grouping(canAssign bool) {
	p.expression()
	p.consume(token.RParen, "expect ')' after expression")
}

// unary handles prefix '-' and '!', parsing its operand at
// precUnary so `-a * b` binds as `(-a) * b` rather than `-(a * b)`.
func (p *Parser) unary(canAssign bool) {
	op := p.prev.Type
	p.parsePrecedence(precUnary)
	switch op {
	case token.Minus:
		p.emitBytes(byte(chunk.OpNeg))
	case token.Bang:
		p.emitBytes(byte(chunk.OpNot))
	}
}

// binary parses the right operand at one precedence level above this
// operator's own (left-associativity), then emits the opcode. '!=',
// '>', and '>=' are synthesized from their negated counterpart plus
// OpNot, since the opcode set has no direct encoding for them
// (spec.md §4.4).
func (p *Parser) binary(canAssign bool) {
	op := p.prev.Type
	rule := ruleFor(op)
	p.parsePrecedence(rule.prec + 1)

	switch op {
	case token.Plus:
		p.emitBytes(byte(chunk.OpAdd))
	case token.Minus:
		p.emitBytes(byte(chunk.OpSub))
	case token.Star:
		p.emitBytes(byte(chunk.OpMul))
	case token.Slash:
		p.emitBytes(byte(chunk.OpDiv))
	case token.EqualEqual:
		p.emitBytes(byte(chunk.OpEqual))
	case token.BangEqual:
		p.emitBytes(byte(chunk.OpEqual), byte(chunk.OpNot))
	case token.Less:
		p.emitBytes(byte(chunk.OpLess))
	case token.LessEqual:
		p.emitBytes(byte(chunk.OpLessEqual))
	case token.Greater:
		p.emitBytes(byte(chunk.OpLessEqual), byte(chunk.OpNot))
	case token.GreaterEqual:
		p.emitBytes(byte(chunk.OpLess), byte(chunk.OpNot))
	}
}

// and_ short-circuits: if the left operand is false, skip the right
// operand entirely and leave the false value on the stack.
func (p *Parser) and_(canAssign bool) {
	endJump := p.emitJump(chunk.OpJumpFalse)
	p.emitBytes(byte(chunk.OpPop))
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

// or_ short-circuits the opposite way: if the left operand is
// already truthy, skip the right operand.
func (p *Parser) or_(canAssign bool) {
	elseJump := p.emitJump(chunk.OpJumpFalse)
	endJump := p.emitJump(chunk.OpJump)

	p.patchJump(elseJump)
	p.emitBytes(byte(chunk.OpPop))
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

// call parses a parenthesized, comma-separated argument list capped
// at maxArgs (spec.md §5), then emits OpCall with the argument count.
func (p *Parser) call(canAssign bool) {
	argc := p.argList()
	p.emitBytes(byte(chunk.OpCall), argc)
}

func (p *Parser) argList() byte {
	var n int
	if !p.check(token.RParen) {
		for {
			p.expression()
			if n >= maxArgs {
				p.Error("too many arguments in call")
			} else {
				n++
			}
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RParen, "expect ')' after arguments")
	return byte(n)
}

// variable resolves an identifier against locals, then upvalues, then
// falls back to a global, and emits the matching get/set pair
// (spec.md §4.3's resolution order).
func (p *Parser) variable(canAssign bool) {
	p.namedVariable(p.prev, canAssign)
}

func (p *Parser) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp chunk.OpCode
	var arg byte

	if slot := p.resolveLocal(p.top, name); slot != uninit {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
		arg = byte(slot)
	} else if slot := p.resolveUpvalue(p.top, name); slot != uninit {
		getOp, setOp = chunk.OpGetUpvalue, chunk.OpSetUpvalue
		arg = byte(slot)
	} else {
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
		arg = p.makeConstant(p.heap.Intern(name.String()))
	}

	if canAssign && p.match(token.Equal) {
		p.expression()
		p.emitBytes(byte(setOp), arg)
	} else {
		p.emitBytes(byte(getOp), arg)
	}
}

// self_ handles `fun` used in expression position (spec.md §4.4's SELF
// expression): a bare, zero-operand reference to the closure currently
// executing, letting a function refer to itself without going through
// its bound name.
func (p *Parser) self_(canAssign bool) {
	p.emitBytes(byte(chunk.OpSelf))
}
