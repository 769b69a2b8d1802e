package main

import (
	"fmt"

	"github.com/benbjohnson/vecx"
	"github.com/spf13/cobra"
)

// newExprCommand returns the "expr" subcommand. Every argument is an
// S-expression and all of them are treated as equivalent forms of one root.
func (m *Main) newExprCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expr [flags] <sexpr>...",
		Short: "Extract from equivalent S-expressions given on the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := m.config(cmd)
			if err != nil {
				return err
			}

			g := vecx.NewEGraph()
			var root vecx.ClassID
			for i, s := range args {
				expr, err := vecx.ParseExpr(s)
				if err != nil {
					return fmt.Errorf("expression %d: %w", i+1, err)
				}
				if i == 0 {
					root = g.AddExpr(expr)
				} else {
					g.AddEquivalent(root, expr)
				}
			}

			e, err := vecx.NewExtractor(g, config)
			if err != nil {
				return err
			}
			result, err := e.Extract(cmd.Context(), root)
			if err != nil {
				return err
			}
			fmt.Fprintf(m.Stdout, "%d\t%s\n", result.Cost, result.Expr)
			return m.writeMetrics(e, "expr")
		},
	}
}
