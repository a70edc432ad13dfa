// Command nthderiv computes nth derivatives and general nth-derivative
// formulas of expressions given as JSON or YAML trees.
package main

import (
	"errors"
	"fmt"
	"os"
)

var version = "v0.1.0" // Overwritten at build time

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var rep reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// reportedError marks an error the renderer has already shown.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }
