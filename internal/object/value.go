// Package object implements the Runtime/VM contract internal/compiler
// is written against (spec.md §6.2): string interning, function-object
// allocation, and a GC root-marking hook. It also carries the runtime
// Value representation and arithmetic used by internal/vm, the
// companion machine that executes compiled chunks.
package object

import "fmt"

// Value is the closed set of runtime values a compiled chunk's constant
// pool, and the VM's stack, can hold.
type Value interface {
	isValue()
	String() string
}

type Nil struct{}

func (Nil) isValue()       {}
func (Nil) String() string { return "null" }

type Bool bool

func (Bool) isValue()         {}
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }

// Number is a floating-point literal (spec.md §4.4 "Number literal").
type Number float64

func (Number) isValue()         {}
func (n Number) String() string { return fmt.Sprintf("%g", float64(n)) }

// Int is a base-10 or base-16 integer literal (spec.md §4.4 "Integer
// literal"), kept distinct from Number per the spec's INTEGER/HEXADECIMAL
// token kinds.
type Int int64

func (Int) isValue()         {}
func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }

// String is an interned string value; equal contents always share one
// *String, so identity comparison is value comparison.
type String struct {
	Val string
}

func (*String) isValue()          {}
func (s *String) String() string { return s.Val }

// Truthy implements the language's truthiness rule: everything is
// truthy except false and null.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Nil:
		return false
	default:
		return true
	}
}

// Eq implements the '==' operator. Mismatched dynamic types are never
// equal.
func Eq(a, b Value) Bool {
	switch a := a.(type) {
	case Bool:
		b, ok := b.(Bool)
		return Bool(ok && a == b)
	case Number:
		b, ok := b.(Number)
		return Bool(ok && a == b)
	case Int:
		b, ok := b.(Int)
		return Bool(ok && a == b)
	case Nil:
		_, ok := b.(Nil)
		return Bool(ok)
	case *String:
		b, ok := b.(*String)
		return Bool(ok && a.Val == b.Val)
	default:
		return false
	}
}

// Add, Sub, Mul, Div, Less, LessEqual implement the arithmetic/ordering
// opcodes. They accept any mix of Number and Int operands; Add keeps
// Int+Int as an Int and also concatenates two strings, every other
// numeric result is a Number. ok is false for any other combination
// (the VM turns that into a runtime error).
func Add(a, b Value) (Value, bool) {
	if x, ok := a.(Int); ok {
		if y, ok := b.(Int); ok {
			return x + y, true
		}
	}
	if x, ok := a.(*String); ok {
		if y, ok := b.(*String); ok {
			return &String{Val: x.Val + y.Val}, true
		}
	}
	return numOp(a, b, func(x, y float64) float64 { return x + y })
}

func Sub(a, b Value) (Value, bool) { return numOp(a, b, func(x, y float64) float64 { return x - y }) }
func Mul(a, b Value) (Value, bool) { return numOp(a, b, func(x, y float64) float64 { return x * y }) }
func Div(a, b Value) (Value, bool) { return numOp(a, b, func(x, y float64) float64 { return x / y }) }

func numOp(a, b Value, op func(x, y float64) float64) (Value, bool) {
	x, ok := asFloat(a)
	if !ok {
		return Nil{}, false
	}
	y, ok := asFloat(b)
	if !ok {
		return Nil{}, false
	}
	return Number(op(x, y)), true
}

func asFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Number:
		return float64(v), true
	case Int:
		return float64(v), true
	default:
		return 0, false
	}
}

func Less(a, b Value) (Bool, bool) {
	x, okx := asFloat(a)
	y, oky := asFloat(b)
	if !okx || !oky {
		return false, false
	}
	return Bool(x < y), true
}

func LessEqual(a, b Value) (Bool, bool) {
	x, okx := asFloat(a)
	y, oky := asFloat(b)
	if !okx || !oky {
		return false, false
	}
	return Bool(x <= y), true
}

func Neg(v Value) (Value, bool) {
	switch v := v.(type) {
	case Number:
		return -v, true
	case Int:
		return -v, true
	default:
		return Nil{}, false
	}
}
