// The main package for the apicheck executable.
package main

import (
	"github.com/tamilansjob/apicheck/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
