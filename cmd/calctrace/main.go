// Command calctrace replays calculator key sequences and checks scenario files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "calctrace:", err)
		os.Exit(1)
	}
}
