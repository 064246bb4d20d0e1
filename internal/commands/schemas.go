package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/internal/catalog"
)

func newSchemasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas [name...]",
		Short: "List the catalogue schemas and their attributes",
		Example: `  # List every schema
  nodeskema schemas

  # Show one schema
  nodeskema schemas Destination`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas := catalog.All()
			if len(args) > 0 {
				schemas = schemas[:0:0]
				for _, name := range args {
					s, ok := catalog.Lookup(name)
					if !ok {
						return fmt.Errorf("unknown schema %q", name)
					}
					schemas = append(schemas, s)
				}
			}
			return printSchemas(cmd.OutOrStdout(), schemas)
		},
	}
}

func printSchemas(w io.Writer, schemas []*nodeskema.Schema) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, s := range schemas {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, s.Name())
		for _, name := range s.Names() {
			n, _ := s.Node(name)
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", name, describeTypes(n), describeFlags(n))
		}
	}
	return tw.Flush()
}

func describeTypes(n *nodeskema.Node) string {
	t := strings.Join(n.TypeNames(), "|")
	if n.IsArray() {
		return "[]" + t
	}
	return t
}

func describeFlags(n *nodeskema.Node) string {
	var flags []string
	if n.IsRequired() {
		flags = append(flags, "required")
	}
	if def, ok := n.Default(); ok {
		flags = append(flags, fmt.Sprintf("default=%v", def))
	}
	if v := len(n.Validators()); v > 0 {
		flags = append(flags, fmt.Sprintf("validators=%d", v))
	}
	return strings.Join(flags, " ")
}
