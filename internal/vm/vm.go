// Package vm is the compact companion stack machine that executes the
// bytecode internal/compiler emits. It is explicitly not part of the
// compiler's own invariants — it exists so compiled output is
// observable end to end in integration tests (closures actually
// closing over a variable, puts producing real output, recursion
// terminating), grounded on the teacher's own vm.go run loop shape but
// extended with call frames, globals, and upvalues.
package vm

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/aferrandini/loxc/internal/chunk"
	"github.com/aferrandini/loxc/internal/debug"
	e "github.com/aferrandini/loxc/internal/errors"
	"github.com/aferrandini/loxc/internal/object"
)

const maxFrames = 64

// maxStack bounds the value stack's capacity up front so it never
// reallocates mid-run: open upvalues hold raw pointers into this
// slice's backing array, and a reallocation would silently dangle
// them.
const maxStack = 4096

// VM is a single-threaded tree-walking-free stack machine: one value
// stack shared across all active call frames, one global table, and
// the set of upvalues still open (pointing into the live stack) rather
// than closed.
type VM struct {
	frames       []callFrame
	stack        []object.Value
	globals      map[string]object.Value
	openUpvalues []*object.Upvalue

	// Out captures puts output; tests read it back, a real CLI wires it
	// to os.Stdout.
	Out func(string)
}

func New() *VM {
	return &VM{
		stack:   make([]object.Value, 0, maxStack),
		globals: make(map[string]object.Value),
		Out:     func(s string) { fmt.Print(s) },
	}
}

func (vm *VM) push(v object.Value) {
	if len(vm.stack) >= maxStack {
		panic(&e.RuntimeError{Reason: "stack overflow"})
	}
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() object.Value {
	n := len(vm.stack)
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v
}

func (vm *VM) peek(dist int) object.Value { return vm.stack[len(vm.stack)-1-dist] }

// Run wraps fn in a top-level closure (no upvalues, since the script
// frame never has an enclosing frame to capture from) and executes it.
func (vm *VM) Run(fn *object.Function) error {
	closure := &object.Closure{Fn: fn}
	vm.push(closure)
	vm.frames = append(vm.frames, callFrame{closure: closure, base: 0})
	return vm.run()
}

func (vm *VM) currentFrame() *callFrame { return &vm.frames[len(vm.frames)-1] }

func (vm *VM) run() error {
	for {
		f := vm.currentFrame()
		if debug.DEBUG {
			logrus.Debugln(vm.stackTrace())
			dump, _ := f.chunk().DisassembleInst(f.ip)
			logrus.Debugln(dump)
		}

		switch op := chunk.OpCode(f.readByte()); op {
		case chunk.OpConst:
			vm.push(f.readConst())
		case chunk.OpNull:
			vm.push(object.Nil{})
		case chunk.OpTrue:
			vm.push(object.Bool(true))
		case chunk.OpFalse:
			vm.push(object.Bool(false))
		case chunk.OpSelf:
			vm.push(f.closure)
		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			slot := f.base + int(f.readByte())
			vm.push(vm.stack[slot])
		case chunk.OpSetLocal:
			slot := f.base + int(f.readByte())
			vm.stack[slot] = vm.peek(0)

		case chunk.OpGetUpvalue:
			idx := f.readByte()
			vm.push(f.closure.Upvalues[idx].Get())
		case chunk.OpSetUpvalue:
			idx := f.readByte()
			f.closure.Upvalues[idx].Set(vm.peek(0))

		case chunk.OpGetGlobal:
			name := f.readConst().(*object.String).Val
			v, ok := vm.globals[name]
			if !ok {
				return vm.runtimeError(f, "undefined variable '%s'", name)
			}
			vm.push(v)
		case chunk.OpSetGlobal:
			name := f.readConst().(*object.String).Val
			if _, ok := vm.globals[name]; !ok {
				return vm.runtimeError(f, "undefined variable '%s'", name)
			}
			vm.globals[name] = vm.peek(0)
		case chunk.OpDefGlobal:
			name := f.readConst().(*object.String).Val
			vm.globals[name] = vm.pop()

		case chunk.OpAdd, chunk.OpSub, chunk.OpMul, chunk.OpDiv:
			if err := vm.arith(f, op); err != nil {
				return err
			}
		case chunk.OpNeg:
			v, ok := object.Neg(vm.peek(0))
			if !ok {
				return vm.runtimeError(f, "operand must be a number")
			}
			vm.pop()
			vm.push(v)
		case chunk.OpNot:
			vm.push(object.Bool(!object.Truthy(vm.pop())))
		case chunk.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(object.Eq(a, b))
		case chunk.OpLess:
			b, a := vm.pop(), vm.pop()
			r, ok := object.Less(a, b)
			if !ok {
				return vm.runtimeError(f, "operands must be numbers")
			}
			vm.push(r)
		case chunk.OpLessEqual:
			b, a := vm.pop(), vm.pop()
			r, ok := object.LessEqual(a, b)
			if !ok {
				return vm.runtimeError(f, "operands must be numbers")
			}
			vm.push(r)

		case chunk.OpJump:
			dist := f.readShort()
			f.ip += int(dist)
		case chunk.OpJumpFalse:
			dist := f.readShort()
			if !object.Truthy(vm.peek(0)) {
				f.ip += int(dist)
			}
		case chunk.OpLoop:
			dist := f.readShort()
			f.ip -= int(dist)

		case chunk.OpCall:
			argc := int(f.readByte())
			if err := vm.call(argc); err != nil {
				return err
			}

		case chunk.OpClosure:
			fn := f.readConst().(*object.Function)
			closure := &object.Closure{Fn: fn, Upvalues: make([]*object.Upvalue, fn.UpvalueCount)}
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal, idx := f.readByte(), f.readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(f.base + int(idx))
				} else {
					closure.Upvalues[i] = f.closure.Upvalues[idx]
				}
			}
			vm.push(closure)

		case chunk.OpCloseUpvalue:
			vm.closeUpvalues(len(vm.stack) - 1)
			vm.pop()

		case chunk.OpPuts:
			// PUTS only peeks its n operands; the compiler emits the
			// matching n POPs right after, per spec.md §6.4 and the
			// trailing POP pinned in §8 scenario 3.
			n := int(f.readByte())
			for i := n - 1; i >= 0; i-- {
				vm.Out(fmt.Sprintf("%s\n", vm.peek(i)))
			}

		case chunk.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(f.base)
			vm.stack = vm.stack[:f.base]
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.push(result)

		default:
			return vm.runtimeError(f, "unknown instruction '%d'", op)
		}
	}
}

func (vm *VM) arith(f *callFrame, op chunk.OpCode) error {
	b, a := vm.pop(), vm.pop()
	var v object.Value
	var ok bool
	switch op {
	case chunk.OpAdd:
		v, ok = object.Add(a, b)
	case chunk.OpSub:
		v, ok = object.Sub(a, b)
	case chunk.OpMul:
		v, ok = object.Mul(a, b)
	case chunk.OpDiv:
		v, ok = object.Div(a, b)
	}
	if !ok {
		return vm.runtimeError(f, "operands must be numbers (or strings, for +)")
	}
	vm.push(v)
	return nil
}

// call dispatches OpCall: the callee closure sits argc slots below the
// arguments on the stack; a fresh call frame is pushed whose base is
// the callee's own stack slot (spec.md §3's reserved slot 0 mirrored
// at runtime).
func (vm *VM) call(argc int) error {
	callee := vm.peek(argc)
	closure, ok := callee.(*object.Closure)
	if !ok {
		return &e.RuntimeError{Line: -1, Reason: "can only call functions"}
	}
	if argc != closure.Fn.Arity {
		return &e.RuntimeError{Line: -1, Reason: fmt.Sprintf("expected %d arguments but got %d", closure.Fn.Arity, argc)}
	}
	if len(vm.frames) >= maxFrames {
		return &e.RuntimeError{Line: -1, Reason: "stack overflow"}
	}
	vm.frames = append(vm.frames, callFrame{closure: closure, base: len(vm.stack) - argc - 1})
	return nil
}

// captureUpvalue returns an existing open upvalue for slot if one is
// already tracked, else opens a new one, keeping the reuse property
// closures over the same loop variable depend on.
func (vm *VM) captureUpvalue(slot int) *object.Upvalue {
	for _, uv := range vm.openUpvalues {
		if uv.Slot == &vm.stack[slot] {
			return uv
		}
	}
	uv := object.NewOpenUpvalue(&vm.stack[slot])
	vm.openUpvalues = append(vm.openUpvalues, uv)
	return uv
}

// closeUpvalues detaches every open upvalue pointing at slot >= from,
// run on OpCloseUpvalue and on return.
func (vm *VM) closeUpvalues(from int) {
	kept := vm.openUpvalues[:0]
	for _, uv := range vm.openUpvalues {
		if uv.Slot != nil && slotIndex(vm.stack, uv.Slot) >= from {
			uv.Close()
			continue
		}
		kept = append(kept, uv)
	}
	vm.openUpvalues = kept
}

func slotIndex(stack []object.Value, slot *object.Value) int {
	for i := range stack {
		if &stack[i] == slot {
			return i
		}
	}
	return -1
}

func (vm *VM) runtimeError(f *callFrame, format string, a ...any) error {
	return &e.RuntimeError{Reason: fmt.Sprintf(format, a...)}
}

func (vm *VM) stackTrace() string {
	res := "          "
	for _, v := range vm.stack {
		res += fmt.Sprintf("[ %s ]", v)
	}
	return res
}
