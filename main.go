package main

import (
	"fmt"
	"os"

	"deltasync/cmd"
)

// The entry point of the application.
func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
