package object

import (
	"fmt"

	"github.com/google/uuid"
)

// Chunk is the bytecode artifact a Function owns: its code buffer,
// per-byte line/column table, and constant pool. Defined here (rather
// than imported from internal/chunk) to keep internal/object free of a
// dependency on internal/chunk; internal/chunk.Chunk implements this
// interface so a Function can embed a *chunk.Chunk without the two
// packages importing each other.
type Chunk interface {
	fmt.Stringer
}

// Function is a compiled function: its arity, its upvalue count, its
// optional source name, its UUID (used as a disassembly label when the
// name is empty, i.e. for the top-level script), and the chunk
// internal/compiler populated.
type Function struct {
	Name         string // empty for the top-level script
	Arity        int
	UpvalueCount int
	ID           uuid.UUID
	Chunk        Chunk
}

func (*Function) isValue() {}

func (f *Function) String() string {
	if f.Name == "" {
		return fmt.Sprintf("<fn anonymous %s>", f.ID.String()[:8])
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}

// DisassemblyName is the header Disassemble should print for this
// function: its source name if it has one, else its short UUID.
func (f *Function) DisassemblyName() string {
	if f.Name == "" {
		return fmt.Sprintf("anonymous@%s", f.ID.String()[:8])
	}
	return f.Name
}
