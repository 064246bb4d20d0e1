// Package commands contains all CLI command definitions.
package commands

import (
	"context"
	"errors"

	"github.com/Chendemo12/fastapi-tool/logger"
	"github.com/spf13/cobra"

	"github.com/reoring/nodeskema/i18n"
	"github.com/reoring/nodeskema/internal/config"
)

// ErrValidationFailed is returned by validate after the report was written.
var ErrValidationFailed = errors.New("document rejected")

type stateKey struct{}

// state is what the root command resolves before any subcommand runs.
type state struct {
	cfg     *config.Config
	cfgPath string
	log     logger.Iface // nil unless verbose
}

func stateFrom(cmd *cobra.Command) (*state, error) {
	st, ok := cmd.Context().Value(stateKey{}).(*state)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return st, nil
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd(getenv func(string) string) *cobra.Command {
	var (
		cfgPath string
		verbose bool
	)
	rootCmd := &cobra.Command{
		Use:           "nodeskema",
		Short:         "Validate and coerce documents against nodeskema schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := config.Resolve(cfgPath, getenv)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = verbose
			}
			i18n.SetLanguage(cfg.Language)

			st := &state{cfg: cfg, cfgPath: path}
			if cfg.Verbose {
				st.log = logger.NewDefaultLogger()
				st.log.Debug("config:", path)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), stateKey{}, st))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultFileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug information")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newSchemasCmd())
	registerConfigCmd(rootCmd, &cfgPath, getenv)

	return rootCmd
}
