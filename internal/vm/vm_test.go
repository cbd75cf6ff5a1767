package vm_test

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aferrandini/loxc/internal/compiler"
	"github.com/aferrandini/loxc/internal/object"
	"github.com/aferrandini/loxc/internal/vm"
)

// run compiles and executes src, returning everything puts wrote.
func run(t *testing.T, src string) string {
	t.Helper()
	fn, err := compiler.Compile(object.NewHeap(), src)
	require.NoError(t, err)

	var out strings.Builder
	machine := vm.New()
	machine.Out = func(s string) { out.WriteString(s) }

	require.NoError(t, machine.Run(fn))
	return out.String()
}

func TestArithmeticAndPuts(t *testing.T) {
	assert.Equal(t, "4\n", run(t, "puts 2 + 2;"))
}

func TestGlobalAndLocalVariables(t *testing.T) {
	assert.Equal(t, "3\n", run(t, heredoc.Doc(`
		var a = 1;
		{
			var b = 2;
			puts a + b;
		}
	`)))
}

func TestFunctionCallAndReturn(t *testing.T) {
	assert.Equal(t, "6\n", run(t, heredoc.Doc(`
		fun add(x, y) { return x + y; }
		puts add(2, 4);
	`)))
}

func TestRecursiveFunctionTerminates(t *testing.T) {
	assert.Equal(t, "120\n", run(t, heredoc.Doc(`
		fun fact(n) {
			if (n <= 1) then return 1;
			return n * fact(n - 1);
		}
		puts fact(5);
	`)))
}

func TestClosureCapturesOuterLocal(t *testing.T) {
	assert.Equal(t, "1\n", run(t, heredoc.Doc(`
		fun outer() {
			var a = 1;
			fun inner() { return a; }
			return inner;
		}
		puts outer()();
	`)))
}

func TestClosureCapturesFreshValuePerCall(t *testing.T) {
	// Each make() call's `a` must close over its own value, not a
	// shared one, proving the upvalue is detached from its stack slot
	// when make returns.
	assert.Equal(t, "1\n2\n", run(t, heredoc.Doc(`
		fun make(n) {
			var a = n;
			fun inner() { return a; }
			return inner;
		}
		var f1 = make(1);
		var f2 = make(2);
		puts f1();
		puts f2();
	`)))
}

func TestWhileLoopCountsUp(t *testing.T) {
	assert.Equal(t, "0\n1\n2\n", run(t, heredoc.Doc(`
		var i = 0;
		while (i < 3) {
			puts i;
			i = i + 1;
		}
	`)))
}

func TestIfElseBranches(t *testing.T) {
	assert.Equal(t, "yes\n", run(t, `if (true) then puts "yes"; else puts "no";`))
	assert.Equal(t, "no\n", run(t, `if (false) then puts "yes"; else puts "no";`))
}

func TestStringConcatenation(t *testing.T) {
	assert.Equal(t, "ab\n", run(t, `puts "a" + "b";`))
}

func TestSelfExpressionReturnsEnclosingClosure(t *testing.T) {
	// spec.md §4.4: bare `fun` pushes the currently executing closure,
	// so a function can hand out a reference to itself without going
	// through its own bound name.
	assert.Equal(t, "3\n", run(t, heredoc.Doc(`
		fun f(n) {
			var self = fun;
			if (n <= 0) then return 0;
			return n + self(n - 1);
		}
		puts f(2);
	`)))
}

func TestPutsDoesNotConsumeMultipleArguments(t *testing.T) {
	// PUTS only peeks its operands; the compiler supplies the matching
	// POPs, per spec.md §6.4 and the §8 scenario 3 byte sequence.
	assert.Equal(t, "1\n2\nthree\n", run(t, `puts 1, 2, "three";`))
}
