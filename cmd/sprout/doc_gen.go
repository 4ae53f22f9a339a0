//go:build ignore
// +build ignore

package main

import (
	"log"

	sprout "github.com/mithrel/sprout/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	root := sprout.NewRootCmd()

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}

	header := &doc.GenManHeader{
		Title:   "SPROUT",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
