package object

import (
	"github.com/dolthub/swiss"
	"github.com/google/uuid"
	"github.com/josharian/intern"
)

// Heap is the concrete implementation of spec.md §6.2's Runtime/VM
// contract: it allocates Function objects, interns strings, and
// exposes the MarkObject hook internal/compiler's MarkRoots calls for
// every function still under construction. There is no garbage
// collector behind it (spec.md places the GC out of scope) — it is
// just the allocator half of that contract, real enough that the
// compiler never has to special-case "am I running under a host."
type Heap struct {
	strings *swiss.Map[string, *String]
	marked  []Value // every object MarkObject has seen on this Heap; never cleared
}

// NewHeap constructs an empty Heap ready to back one Compile call (or
// a REPL session's worth of them).
func NewHeap() *Heap {
	return &Heap{strings: swiss.NewMap[string, *String](uint32(16))}
}

// NewFunction allocates a fresh, empty Function: no chunk body yet, no
// name, no upvalues. Corresponds to spec.md §6.2's newFunction(vm).
func (h *Heap) NewFunction() *Function {
	return &Function{ID: uuid.New()}
}

// Intern returns the canonical *String for s, allocating it on first
// sight. Every subsequent identifier or string literal with the same
// contents gets back the same pointer, so identity comparison of
// interned strings is value comparison. Corresponds to spec.md §6.2's
// copyString(vm, ptr, len).
func (h *Heap) Intern(s string) *String {
	canon := intern.String(s)
	if existing, ok := h.strings.Get(canon); ok {
		return existing
	}
	v := &String{Val: canon}
	h.strings.Put(canon, v)
	return v
}

// MarkObject is the GC root-marking hook: internal/compiler calls it
// once per live function frame when MarkRoots walks the enclosing
// chain, so a real garbage collector plugged in later has a concrete
// call site to hook into. This Heap has no collector, so it just
// records the call for tests to assert on.
func (h *Heap) MarkObject(v Value) {
	h.marked = append(h.marked, v)
}

// Marked returns every value MarkObject has recorded so far. Test-only
// introspection; the compiler itself never reads this back.
func (h *Heap) Marked() []Value { return h.marked }
