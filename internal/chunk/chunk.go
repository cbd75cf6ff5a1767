// Package chunk implements the Chunk Emitter component of spec.md §4.2:
// the bytecode buffer, its per-byte line/column table, its constant
// pool, and the disassembler used for debug tracing.
package chunk

import (
	"fmt"
	"os"

	"github.com/aferrandini/loxc/internal/object"
	"golang.org/x/term"
)

//go:generate stringer -type=OpCode
type OpCode byte

// The closed opcode set, matching spec.md §6.4 exactly. Note there is
// no OpGreater/OpGreaterEqual: '>' and '>=' are synthesized from
// OpLessEqual/OpLess plus OpNot (spec.md §4.4's "negated comparators").
const (
	OpConst OpCode = iota
	OpNull
	OpTrue
	OpFalse
	OpSelf
	OpPop
	OpGetLocal
	OpSetLocal
	OpGetUpvalue
	OpSetUpvalue
	OpGetGlobal
	OpSetGlobal
	OpDefGlobal
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpNot
	OpEqual
	OpLess
	OpLessEqual
	OpJump
	OpJumpFalse
	OpLoop
	OpCall
	OpClosure
	OpCloseUpvalue
	OpPuts
	OpReturn
)

// Chunk is one function's compiled artifact: its bytecode, a parallel
// line/column table (spec.md §4.2: "record (line, column) per byte"),
// and its constant pool.
type Chunk struct {
	code   []byte
	lines  []int
	cols   []int
	consts []object.Value
}

func New() *Chunk { return &Chunk{} }

// String satisfies object.Chunk so a *Chunk can be embedded in a
// Function without internal/object importing this package. Real
// disassembly goes through Disassemble, not this method.
func (c *Chunk) String() string {
	return fmt.Sprintf("<chunk %d bytes, %d consts>", len(c.code), len(c.consts))
}

func (c *Chunk) Len() int { return len(c.code) }

func (c *Chunk) Byte(i int) byte { return c.code[i] }

func (c *Chunk) Const(i byte) object.Value { return c.consts[i] }

// Write appends one byte with its source position, per spec.md §4.2.
func (c *Chunk) Write(b byte, line, col int) {
	c.code = append(c.code, b)
	c.lines = append(c.lines, line)
	c.cols = append(c.cols, col)
}

// AddConst appends a value to the constant pool and returns its slot.
// Unlike the teacher's implementation, the compiler (not the chunk)
// owns constant-pool deduplication, since two tokens with identical
// text should usually share a slot but the chunk itself has no
// equality-aware index.
func (c *Chunk) AddConst(v object.Value) int {
	idx := len(c.consts)
	c.consts = append(c.consts, v)
	return idx
}

// Patch overwrites the two placeholder bytes at offset with dist,
// written big-endian (high byte first), per spec.md §4.2.
func (c *Chunk) Patch(offset int, dist uint16) {
	c.code[offset] = byte(dist >> 8 & 0xff)
	c.code[offset+1] = byte(dist & 0xff)
}

// DisassembleInst renders one instruction at offset and returns the
// offset of the next one.
func (c *Chunk) DisassembleInst(offset int) (string, int) {
	var out string
	sprintf := func(format string, a ...any) { out += fmt.Sprintf(format, a...) }

	sprintf("%04d ", offset)
	if offset > 0 && c.lines[offset] == c.lines[offset-1] {
		sprintf("     | ")
	} else {
		sprintf("%4d:%-2d", c.lines[offset], c.cols[offset])
	}

	inst := OpCode(c.code[offset])
	switch inst {
	case OpConst, OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue,
		OpGetGlobal, OpSetGlobal, OpDefGlobal:
		arg := c.code[offset+1]
		sprintf(" %-14s %4d", inst, arg)
		if inst == OpConst || inst == OpGetGlobal || inst == OpSetGlobal || inst == OpDefGlobal {
			sprintf(" '%s'", c.consts[arg])
		}
		return out, offset + 2

	case OpCall, OpPuts:
		n := c.code[offset+1]
		sprintf(" %-14s %4d", inst, n)
		return out, offset + 2

	case OpJump, OpJumpFalse, OpLoop:
		hi, lo := c.code[offset+1], c.code[offset+2]
		dist := int(hi)<<8 | int(lo)
		sign := 1
		if inst == OpLoop {
			sign = -1
		}
		sprintf(" %-14s %4d -> %d", inst, dist, offset+3+sign*dist)
		return out, offset + 3

	case OpClosure:
		constIdx := c.code[offset+1]
		sprintf(" %-14s %4d '%s'", inst, constIdx, c.consts[constIdx])
		next := offset + 2
		if fn, ok := c.consts[constIdx].(*object.Function); ok {
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal, idx := c.code[next], c.code[next+1]
				kind := "upvalue"
				if isLocal != 0 {
					kind = "local"
				}
				sprintf("\n%04d      | %-14s %s %d", next, "", kind, idx)
				next += 2
			}
		}
		return out, next

	default:
		sprintf(" %s", inst)
		return out, offset + 1
	}
}

// Disassemble renders every instruction in the chunk under a header
// naming the function it belongs to. Wraps long constant columns to
// the terminal width when stdout is a TTY (falling back to 80 columns
// otherwise), matching a real disassembler rather than always emitting
// unbounded-width lines.
func (c *Chunk) Disassemble(name string) string {
	width := terminalWidth()
	res := fmt.Sprintf("== %s ==\n", name)
	for i := 0; i < len(c.code); {
		var line string
		line, i = c.DisassembleInst(i)
		for _, wrapped := range wrap(line, width) {
			res += wrapped + "\n"
		}
	}
	return res
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func wrap(line string, width int) []string {
	if width <= 0 || len(line) <= width {
		return []string{line}
	}
	var out []string
	for len(line) > width {
		out = append(out, line[:width])
		line = "    " + line[width:]
	}
	out = append(out, line)
	return out
}
