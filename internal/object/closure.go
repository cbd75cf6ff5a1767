package object

// Upvalue is one captured variable: while open, Slot points into a
// live VM stack frame; Closed holds the value once Close copies it out
// (spec.md §3's captured-local lifecycle carried through to runtime).
type Upvalue struct {
	Slot   *Value
	Closed Value
	open   bool
}

func NewOpenUpvalue(slot *Value) *Upvalue { return &Upvalue{Slot: slot, open: true} }

func (u *Upvalue) Get() Value {
	if u.open {
		return *u.Slot
	}
	return u.Closed
}

func (u *Upvalue) Set(v Value) {
	if u.open {
		*u.Slot = v
		return
	}
	u.Closed = v
}

// Close detaches the upvalue from the stack slot it was pointing into,
// copying its current value so it survives the frame's return.
func (u *Upvalue) Close() {
	if !u.open {
		return
	}
	u.Closed = *u.Slot
	u.Slot = nil
	u.open = false
}

// Closure pairs a compiled Function with the upvalues it captured at
// the point OpClosure ran. This is what CALL actually invokes; the
// bare Function a chunk's constant pool holds is just the template.
type Closure struct {
	Fn       *Function
	Upvalues []*Upvalue
}

func (*Closure) isValue() {}

func (c *Closure) String() string { return c.Fn.String() }
