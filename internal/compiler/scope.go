package compiler

import (
	"github.com/aferrandini/loxc/internal/chunk"
	"github.com/aferrandini/loxc/internal/token"
)

// Scope / Upvalue Resolver (spec.md §4.3).

func (p *Parser) beginScope() { p.top.scopeDepth++ }

// endScope pops every local declared at the scope just left, emitting
// OpCloseUpvalue for captured locals and OpPop otherwise (spec.md §3's
// Local lifecycle).
func (p *Parser) endScope() {
	p.top.scopeDepth--
	locals := p.top.locals
	for len(locals) > 0 && locals[len(locals)-1].depth > p.top.scopeDepth {
		if locals[len(locals)-1].isCaptured {
			p.emitBytes(byte(chunk.OpCloseUpvalue))
		} else {
			p.emitBytes(byte(chunk.OpPop))
		}
		locals = locals[:len(locals)-1]
	}
	p.top.locals = locals
}

func (p *Parser) addLocal(name token.Token) {
	if len(p.top.locals) >= maxLocals {
		p.Error("too many local variables in function")
		return
	}
	p.top.locals = append(p.top.locals, local{name: name, depth: uninit})
}

// declareVariable is a no-op at the top level (globals are resolved by
// name at use, not pre-declared) and otherwise adds a new local after
// checking for a same-scope name collision.
func (p *Parser) declareVariable(name token.Token) {
	if p.top.scopeDepth == 0 {
		return
	}
	locals := p.top.locals
	for i := len(locals) - 1; i >= 0; i-- {
		l := locals[i]
		if l.depth != uninit && l.depth < p.top.scopeDepth {
			break
		}
		if name.Eq(l.name) {
			p.Error("variable with this name already declared in this scope")
		}
	}
	p.addLocal(name)
}

// markInitialized flips the most recent local's depth from uninit to
// the current scope depth (spec.md §3 invariant 3).
func (p *Parser) markInitialized() {
	if p.top.scopeDepth == 0 {
		return
	}
	p.top.locals[len(p.top.locals)-1].depth = p.top.scopeDepth
}

// defineVariable finishes a variable or function declaration: locally,
// it just marks the binding initialized (it already lives on the
// stack); at the top level it emits OpDefGlobal. parseVariable already
// made declareVariable a no-op at the top level, so scopeDepth alone
// is enough to tell which case applies.
func (p *Parser) defineVariable(globalConst byte) {
	if p.top.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitBytes(byte(chunk.OpDefGlobal), globalConst)
}

// resolveLocal scans this frame's locals top-down for a name match.
func (p *Parser) resolveLocal(f *frame, name token.Token) int {
	for i := len(f.locals) - 1; i >= 0; i-- {
		if name.Eq(f.locals[i].name) {
			if f.locals[i].depth == uninit {
				p.Error("cannot read local variable in its own initializer")
			}
			return i
		}
	}
	return uninit
}

// resolveUpvalue implements spec.md §4.3's algorithm exactly: try the
// enclosing frame's locals first (marking capture), else recurse into
// the enclosing frame's own upvalues, transitively.
func (p *Parser) resolveUpvalue(f *frame, name token.Token) int {
	if f.enclosing == nil {
		return uninit
	}
	if slot := p.resolveLocal(f.enclosing, name); slot != uninit {
		f.enclosing.locals[slot].isCaptured = true
		return p.addUpvalue(f, byte(slot), true)
	}
	if idx := p.resolveUpvalue(f.enclosing, name); idx != uninit {
		return p.addUpvalue(f, byte(idx), false)
	}
	return uninit
}

// addUpvalue dedups by (index, isLocal) within the frame, else appends
// a new descriptor (spec.md §3's Upvalue Descriptor lifecycle).
func (p *Parser) addUpvalue(f *frame, index byte, isLocal bool) int {
	for i, uv := range f.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(f.upvalues) >= maxUpvalues {
		p.Error("too many closure variables in function")
		return 0
	}
	f.upvalues = append(f.upvalues, upvalueDesc{index: index, isLocal: isLocal})
	return len(f.upvalues) - 1
}
