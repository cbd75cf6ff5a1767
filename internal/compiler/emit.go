package compiler

import (
	"github.com/aferrandini/loxc/internal/chunk"
	"github.com/aferrandini/loxc/internal/object"
	"github.com/aferrandini/loxc/internal/utils"
)

// Chunk Emitter (spec.md §4.2): appends to the current frame's chunk,
// records line/column per byte, manages the constant pool, and
// backpatches forward jumps / backward loop offsets.

func (p *Parser) currentChunk() *chunk.Chunk { return p.top.chunk }

func (p *Parser) emitByte(b byte) {
	p.currentChunk().Write(b, p.prev.Line, p.prev.Column)
}

func (p *Parser) emitBytes(bs ...byte) {
	for _, b := range bs {
		p.emitByte(b)
	}
}

// emitConstant allocates-or-reuses a constant pool slot and emits
// OpConst followed by it.
func (p *Parser) emitConstant(v object.Value) {
	p.emitBytes(byte(chunk.OpConst), p.makeConstant(v))
}

// makeConstant allocates-or-reuses a constant pool slot for v (spec.md
// §4.2) and returns its one-byte index, bounded by MAX_CONSTS (256
// constants per chunk).
func (p *Parser) makeConstant(v object.Value) byte {
	if idx, ok := p.top.constIdx[v]; ok {
		return idx
	}
	idx := p.currentChunk().AddConst(v)
	if idx >= maxConsts {
		p.Error("too many constants in one chunk")
		return 0
	}
	b := byte(idx)
	p.top.constIdx[v] = b
	return b
}

// emitJump emits op plus two placeholder bytes and returns the offset
// of the first placeholder, to be filled in later by patchJump.
func (p *Parser) emitJump(op chunk.OpCode) int {
	p.emitBytes(byte(op), 0xff, 0xff)
	return p.currentChunk().Len() - 2
}

// patchJump backpatches the forward jump at offset to land at the
// current code position. 16-bit, big-endian, per spec.md §4.2.
func (p *Parser) patchJump(offset int) {
	jump := p.currentChunk().Len() - offset - 2
	if jump > maxJumpDist {
		p.Error("too much code to jump over")
		return
	}
	p.currentChunk().Patch(offset, uint16(jump))
}

// emitLoop emits OpLoop followed by a 16-bit big-endian backward
// offset to start.
func (p *Parser) emitLoop(start int) {
	p.emitBytes(byte(chunk.OpLoop))
	back := p.currentChunk().Len() + 2 - start
	if back > maxLoopDist {
		p.Error("loop body too large")
		return
	}
	hi, lo := byte(back>>8&0xff), byte(back&0xff)
	p.emitBytes(hi, lo)
}

func (p *Parser) emitReturn() { p.emitBytes(byte(chunk.OpNull), byte(chunk.OpReturn)) }

// beginLoop records the current code offset as the loop start in the
// frame, boxed via utils.Box, and returns it for the caller's OpLoop
// emission.
func (p *Parser) beginLoop() int {
	start := p.currentChunk().Len()
	p.top.loopStart = utils.Box(start)
	return start
}

func (p *Parser) endLoop() { p.top.loopStart = nil }
