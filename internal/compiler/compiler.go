// Package compiler implements the single-pass Pratt parser / bytecode
// emitter at the center of this module: spec.md's four cooperating
// components (Token Cursor in cursor.go, Chunk Emitter in emit.go,
// Scope/Upvalue Resolver in scope.go, Pratt Expression/Statement Parser
// in precedence.go/expressions.go/statements.go) all live here, driven
// from the single Parser defined below.
package compiler

import (
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/aferrandini/loxc/internal/chunk"
	"github.com/aferrandini/loxc/internal/debug"
	e "github.com/aferrandini/loxc/internal/errors"
	"github.com/aferrandini/loxc/internal/lexer"
	"github.com/aferrandini/loxc/internal/object"
	"github.com/aferrandini/loxc/internal/token"
)

// Resource bounds from spec.md §5. Every one of these raises a
// diagnostic through ErrorAt rather than aborting the process — unlike
// the teacher this module is adapted from, which panics the whole
// compiler on several of these (see DESIGN.md).
const (
	maxLocals    = math.MaxUint8 + 1 // 256
	maxConsts    = math.MaxUint8 + 1 // 256
	maxUpvalues  = math.MaxUint8 + 1 // 256
	maxArgs      = 32
	maxParams    = math.MaxUint8 // 255
	maxJumpDist  = math.MaxUint16
	maxLoopDist  = math.MaxUint16
)

// uninit is the depth sentinel for "declared but not yet initialized",
// spec.md §3's Local invariant 3.
const uninit = -1

// funcType distinguishes the root script frame from every nested
// function frame, per spec.md §3's Compiler Frame.
type funcType int

const (
	funcScript funcType = iota
	funcFunction
)

// local is spec.md §3's Local: a name bound in the current frame's
// lexical scope.
type local struct {
	name       token.Token
	depth      int
	isCaptured bool
}

// upvalueDesc is spec.md §3's Upvalue Descriptor.
type upvalueDesc struct {
	index   byte
	isLocal bool
}

// frame is spec.md §3's Compiler Frame: one stack node per function
// currently being compiled.
type frame struct {
	enclosing *frame
	fn        *object.Function
	chunk     *chunk.Chunk
	ty        funcType

	locals     []local
	upvalues   []upvalueDesc
	scopeDepth int

	// constIdx backs makeConstant's dedup: the same Value reused within
	// one chunk (spec.md §4.2) gets back its existing slot instead of a
	// fresh one.
	constIdx map[object.Value]byte

	// loopStart is not part of spec.md's data model (the spec's while
	// statement is self-contained). It holds the start offset of the
	// while loop most recently entered in this frame, boxed the way the
	// teacher's compiler.go boxes it; a nested loop overwrites it and
	// clears it on exit. Nothing reads it back: there is no break or
	// continue, and whileStmt passes its start offset to emitLoop
	// directly.
	loopStart *int
}

func newFrame(enclosing *frame, ty funcType, fn *object.Function) *frame {
	return &frame{
		enclosing: enclosing,
		fn:        fn,
		chunk:     chunk.New(),
		ty:        ty,
		// locals[0] is reserved for the callee itself (spec.md §3
		// "Reserved slot"), hence the empty name.
		locals:   []local{{name: token.Token{}, depth: 0}},
		constIdx: make(map[object.Value]byte),
	}
}

// Parser is spec.md §3's Parser State: the token cursor plus the
// currently-active frame, for the duration of one Compile call.
type Parser struct {
	lex        *lexer.Lexer
	prev, curr token.Token

	top       *frame // innermost frame; walk .enclosing for the rest
	heap      *object.Heap
	errors    *multierror.Error
	panicMode bool
}

// Compile implements spec.md §6.3's compile(vm, source): it parses and
// emits in one pass and returns the root function object, or a non-nil
// error (and a nil function) iff any diagnostic was raised.
func Compile(heap *object.Heap, src string) (*object.Function, error) {
	p := &Parser{heap: heap}
	p.pushFrame(funcScript, nil)
	p.lex = lexer.New(src)
	p.advance()

	for !p.match(token.EOF) {
		p.decl()
	}

	// spec.md §3 invariant 7: scopeDepth is never negative and returns
	// to its original value (0, at the script frame) after every
	// matched begin/end scope pair.
	debug.AssertEq(0, p.top.scopeDepth)

	fn := p.endFrame()
	if err := p.errors.ErrorOrNil(); err != nil {
		return nil, err
	}
	return fn, nil
}

// MarkRoots is spec.md §6.3's markCompilerRoots(vm): it walks the frame
// chain from innermost to outermost, handing each still-under-
// -construction function to the heap's GC hook. Called mid-compile if
// an allocation (e.g. Heap.Intern) were to trigger a collection; this
// Heap has no collector, but the call site is real, satisfying
// spec.md §5's "sole GC-visibility contract."
func (p *Parser) MarkRoots() {
	for f := p.top; f != nil; f = f.enclosing {
		p.heap.MarkObject(f.fn)
	}
}

// pushFrame creates a new Compiler Frame and makes it current,
// matching spec.md §3's frame-creation lifecycle.
func (p *Parser) pushFrame(ty funcType, nameTok *token.Token) {
	fn := p.heap.NewFunction()
	if ty != funcScript && nameTok != nil {
		fn.Name = nameTok.String()
	}
	p.top = newFrame(p.top, ty, fn)
}

// endFrame finishes the current frame: emits the implicit return,
// pops the frame, and returns the finished function — the only thing
// that survives the pop, per spec.md §3's frame lifecycle.
func (p *Parser) endFrame() *object.Function {
	p.emitReturn()
	fn := p.top.fn
	fn.Chunk = p.top.chunk
	fn.UpvalueCount = len(p.top.upvalues)
	if debug.DEBUG {
		logrus.Debugln(p.top.chunk.Disassemble(fn.DisassemblyName()))
	}
	p.top = p.top.enclosing
	return fn
}

func (p *Parser) HadError() bool { return p.errors != nil }
