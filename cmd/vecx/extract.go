package main

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/vecx"
	"github.com/benbjohnson/vecx/graphfile"
	"github.com/spf13/cobra"
)

// newExtractCommand returns the "extract" subcommand. It prints one line per
// root class: the class name, the cost and the expression.
func (m *Main) newExtractCommand() *cobra.Command {
	var rootName string
	cmd := &cobra.Command{
		Use:   "extract [flags] <graph-file>",
		Short: "Extract from the root classes of a YAML or egg JSON graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := m.config(cmd)
			if err != nil {
				return err
			}

			f, err := graphfile.Open(args[0])
			if err != nil {
				return err
			}

			roots := f.Roots
			if rootName != "" {
				id, ok := f.Lookup(rootName)
				if !ok {
					return fmt.Errorf("unknown root class %q", rootName)
				}
				roots = []vecx.ClassID{id}
			}
			if len(roots) == 0 {
				return errors.New("no root class: list roots in the graph file or pass --root")
			}

			e, err := vecx.NewExtractor(f.Graph, config)
			if err != nil {
				return err
			}
			for _, id := range roots {
				result, err := e.Extract(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("class %s: %w", f.Name(id), err)
				}
				fmt.Fprintf(m.Stdout, "%s\t%d\t%s\n", f.Name(id), result.Cost, result.Expr)
			}
			return m.writeMetrics(e, args[0])
		},
	}
	cmd.Flags().StringVar(&rootName, "root", "", "extract only this class")
	return cmd
}
