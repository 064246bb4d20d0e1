package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/nodeskema/internal/config"
)

func registerConfigCmd(parent *cobra.Command, cfgPath *string, getenv func(string) string) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the CLI configuration file",
		// an existing file may be broken; init must not need it
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}
	cmd.AddCommand(newConfigInitCmd(cfgPath, getenv))
	parent.AddCommand(cmd)
}

func newConfigInitCmd(cfgPath *string, getenv func(string) string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Example: `  # Create nodeskema.yaml in the current directory
  nodeskema config init`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *cfgPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" && getenv != nil {
				path = getenv(config.EnvPath)
			}
			if path == "" {
				path = config.DefaultFileName
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
