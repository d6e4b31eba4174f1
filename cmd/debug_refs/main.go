package main

import (
	"context"
	"fmt"
	"os"

	"github.com/coursemark/coursemark/internal/source"
)

// Small diagnostic for checking how a repository's refs come out of the
// local source, in particular annotated tag resolution.
func main() {
	path := "."
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	src, err := source.OpenLocal(path, "master")
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		return
	}

	ctx := context.Background()
	branches, err := src.Branches(ctx)
	if err != nil {
		fmt.Printf("Branches() failed: %v\n", err)
		return
	}
	fmt.Printf("Branches (%d):\n", len(branches))
	for _, b := range branches {
		fmt.Printf("  %s -> %s\n", b.Name, b.CommitID)
	}

	tags, err := src.Tags(ctx)
	if err != nil {
		fmt.Printf("Tags() failed: %v\n", err)
		return
	}
	fmt.Printf("Tags (%d):\n", len(tags))
	for _, t := range tags {
		fmt.Printf("  %s -> %s\n", t.Name, t.CommitID)
	}
}
