package vm

import (
	"github.com/aferrandini/loxc/internal/chunk"
	"github.com/aferrandini/loxc/internal/object"
)

// callFrame is one active function invocation: the closure it is
// running, its own instruction pointer into that closure's chunk, and
// the base stack slot its locals start at (slot 0 is the closure
// itself, matching compiler.local's reserved slot convention).
type callFrame struct {
	closure *object.Closure
	ip      int
	base    int
}

// chunk recovers the concrete *chunk.Chunk behind the Function's
// Chunk field, which internal/object only types as an interface
// (String() string) to avoid importing internal/chunk.
func (f *callFrame) chunk() *chunk.Chunk {
	return f.closure.Fn.Chunk.(*chunk.Chunk)
}

func (f *callFrame) readByte() byte {
	c := f.chunk()
	b := c.Byte(f.ip)
	f.ip++
	return b
}

func (f *callFrame) readShort() uint16 {
	hi, lo := f.readByte(), f.readByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (f *callFrame) readConst() object.Value {
	return f.chunk().Const(f.readByte())
}
