// The main package for the storeextract executable.
package main

import (
	"github.com/JakeFAU/store-locations/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
