// Package main is the entry point for the nodeskema CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reoring/nodeskema/cmd/nodeskema/internal"
)

func main() {
	if err := internal.Run(context.Background(), os.Getenv, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
