// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/reoring/nodeskema/internal/commands"
)

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, env lookup).
func Run(ctx context.Context, getenv func(string) string, args []string) error {
	rootCmd := commands.NewRootCmd(getenv)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
