package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/quadrature/internal/quad"
)

// MethodInfo describes one quadrature rule.
type MethodInfo struct {
	Name   string `json:"name"`
	Order  int    `json:"order"`
	Degree int    `json:"degree"`
	Step   int    `json:"step"`
}

// NewMethodsCommand creates the methods command.
func NewMethodsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the quadrature rules",
		Long: `List every quadrature rule with its order of accuracy, the highest
polynomial degree it integrates exactly, and the step N must be a multiple of.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMethods(rootOpts, cmd)
		},
	}
}

func runMethods(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	infos := make([]MethodInfo, 0, len(quad.Methods()))
	for _, m := range quad.Methods() {
		infos = append(infos, MethodInfo{
			Name:   string(m),
			Order:  m.Order(),
			Degree: m.Degree(),
			Step:   m.Step(),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%-16s %5s %6s %4s\n", "METHOD", "ORDER", "DEGREE", "STEP")
	for _, info := range infos {
		fmt.Fprintf(w, "%-16s %5d %6d %4d\n", info.Name, info.Order, info.Degree, info.Step)
	}
	return nil
}
