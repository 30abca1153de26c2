// cmd/ropedump/main.go
//
// ropedump - load a file into a Rope and report its shape.
//
// Usage:
//
//	ropedump <file>
//
// Prints size, depth, and the result of an invariant check; with -pprint
// also prints the tree structure.
package main

import (
	"flag"
	"fmt"
	"os"

	"rope/pkg/rope"
)

func main() {
	pprint := flag.Bool("pprint", false, "print the tree structure")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ropedump [-pprint] <file>")
		os.Exit(1)
	}

	r, err := rope.NewFromFile(rope.DefaultConfig(), flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer r.Free()

	fmt.Printf("size:  %d\n", r.Size())
	fmt.Printf("depth: %d\n", r.Depth())

	if err := r.CheckInvariants(); err != nil {
		fmt.Printf("invariants: FAIL: %v\n", err)
	} else {
		fmt.Println("invariants: ok")
	}

	if *pprint {
		fmt.Println(r.Pprint())
	}
}
