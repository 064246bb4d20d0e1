package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/internal/catalog"
	"github.com/reoring/nodeskema/middleware"
)

func newValidateCmd() *cobra.Command {
	var schemaName, format, output string
	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Validate a document against a catalogue schema",
		Long: `Decode a JSON or YAML document, instantiate the selected schema from it and
print the coerced attributes. On rejection the error report is printed instead
and the command exits with status 1.`,
		Example: `  # Validate a destination read from a file
  nodeskema validate destination.json --schema Destination

  # Read YAML from stdin and print YAML
  cat region.yaml | nodeskema validate - --schema Region --format yaml --output yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := stateFrom(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("schema") {
				schemaName = st.cfg.Schema
			}
			if !cmd.Flags().Changed("output") {
				output = st.cfg.Output
			}
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			if !cmd.Flags().Changed("format") {
				format = formatFor(src, st.cfg.Format)
			}
			return runValidate(cmd, st, src, schemaName, format, output)
		},
	}
	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "catalogue schema name, see the schemas command")
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json or yaml (default from file extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

// formatFor prefers the file extension over the configured input format.
func formatFor(src, fallback string) string {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	if fallback == "" {
		return "json"
	}
	return fallback
}

func runValidate(cmd *cobra.Command, st *state, src, schemaName, format, output string) error {
	if schemaName == "" {
		return fmt.Errorf("no schema selected; pass --schema or set schema in %s", st.cfgPath)
	}
	s, ok := catalog.Lookup(schemaName)
	if !ok {
		return fmt.Errorf("unknown schema %q", schemaName)
	}
	in, err := nodeskema.ParseFormat(format)
	if err != nil {
		return err
	}
	out, err := nodeskema.ParseFormat(output)
	if err != nil {
		return err
	}
	if st.log != nil {
		s = s.With(nodeskema.WithLogger(st.log))
		st.log.Debug("validate:", src, "schema:", s.Name(), "format:", in)
	}

	var r io.Reader = cmd.InOrStdin()
	if src != "-" {
		f, err := os.Open(src) //nolint:gosec // path is provided by caller
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	inst, err := nodeskema.InstantiateReader(cmd.Context(), s, r, in)
	if err != nil {
		_, isValidation := nodeskema.AsValidationError(err)
		_, isDecode := nodeskema.AsDecodeError(err)
		if !isValidation && !isDecode {
			return err
		}
		if werr := write(cmd.OutOrStdout(), middleware.ErrorPayload(err), out); werr != nil {
			return werr
		}
		return fmt.Errorf("%w: %s", ErrValidationFailed, s.Name())
	}
	return write(cmd.OutOrStdout(), inst, out)
}

// write encodes v as indented JSON or as YAML. Values other than instances are
// passed through their JSON form first so YAML output uses the same keys.
func write(w io.Writer, v any, f nodeskema.Format) error {
	if f == nodeskema.FormatJSON {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	if _, ok := v.(*nodeskema.Instance); !ok {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			return err
		}
		v = generic
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
