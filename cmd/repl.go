package cmd

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/aferrandini/loxc/internal/compiler"
	"github.com/aferrandini/loxc/internal/object"
	"github.com/aferrandini/loxc/internal/vm"
)

// repl replaces the teacher's bare bufio.Reader loop with real line
// editing and history, one heap and one VM shared across the whole
// session so `var`/`global` bindings persist between lines.
func repl(stats bool) error {
	rl, err := readline.New(">> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	heap := object.NewHeap()
	machine := vm.New()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		fn, err := compiler.Compile(heap, line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if stats {
			fmt.Printf("compiled chunk: %d bytes\n", chunkSize(fn))
		}
		if err := machine.Run(fn); err != nil {
			fmt.Println(err)
		}
	}
}
