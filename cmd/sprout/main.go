package main

import (
	"fmt"
	"os"

	"github.com/mithrel/sprout/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sprout:", err)
		os.Exit(1)
	}
}
