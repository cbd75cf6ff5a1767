package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/aferrandini/loxc/internal/compiler"
	"github.com/aferrandini/loxc/internal/object"
	"github.com/aferrandini/loxc/internal/vm"
)

func runFile(path string, stats bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return runSource(string(src), stats)
}

func runReader(r io.Reader, stats bool) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return runSource(string(src), stats)
}

func runSource(src string, stats bool) error {
	heap := object.NewHeap()
	fn, err := compiler.Compile(heap, src)
	if err != nil {
		return err
	}
	if stats {
		fmt.Fprintf(os.Stderr, "compiled chunk: %s\n", humanize.Bytes(uint64(chunkSize(fn))))
	}
	return vm.New().Run(fn)
}

// chunkSize is a rough accounting of a compiled function's footprint
// for the --stats flag: the number of emitted instruction bytes. The
// constant pool is not counted.
func chunkSize(fn *object.Function) int {
	type lenAndConsts interface {
		Len() int
	}
	if c, ok := fn.Chunk.(lenAndConsts); ok {
		return c.Len()
	}
	return 0
}
