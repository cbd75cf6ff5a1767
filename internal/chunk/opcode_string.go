// Code generated by "stringer -type=OpCode"; adjusted by hand to avoid
// a go:generate step in this exercise — do not expect `go generate` to
// reproduce this file byte-for-byte without re-running stringer.

package chunk

import "strconv"

func (i OpCode) String() string {
	switch i {
	case OpConst:
		return "OpConst"
	case OpNull:
		return "OpNull"
	case OpTrue:
		return "OpTrue"
	case OpFalse:
		return "OpFalse"
	case OpSelf:
		return "OpSelf"
	case OpPop:
		return "OpPop"
	case OpGetLocal:
		return "OpGetLocal"
	case OpSetLocal:
		return "OpSetLocal"
	case OpGetUpvalue:
		return "OpGetUpvalue"
	case OpSetUpvalue:
		return "OpSetUpvalue"
	case OpGetGlobal:
		return "OpGetGlobal"
	case OpSetGlobal:
		return "OpSetGlobal"
	case OpDefGlobal:
		return "OpDefGlobal"
	case OpAdd:
		return "OpAdd"
	case OpSub:
		return "OpSub"
	case OpMul:
		return "OpMul"
	case OpDiv:
		return "OpDiv"
	case OpNeg:
		return "OpNeg"
	case OpNot:
		return "OpNot"
	case OpEqual:
		return "OpEqual"
	case OpLess:
		return "OpLess"
	case OpLessEqual:
		return "OpLessEqual"
	case OpJump:
		return "OpJump"
	case OpJumpFalse:
		return "OpJumpFalse"
	case OpLoop:
		return "OpLoop"
	case OpCall:
		return "OpCall"
	case OpClosure:
		return "OpClosure"
	case OpCloseUpvalue:
		return "OpCloseUpvalue"
	case OpPuts:
		return "OpPuts"
	case OpReturn:
		return "OpReturn"
	default:
		return "OpCode(" + strconv.FormatInt(int64(i), 10) + ")"
	}
}
