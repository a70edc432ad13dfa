package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/nthderiv"
)

func newDiffCmd(a *app) *cobra.Command {
	var order int
	cmd := &cobra.Command{
		Use:   "diff [file]",
		Short: "Compute the derivative of one order",
		Example: `  nthderiv diff -n 3 -e '{type: func, name: sin, arg: {type: sym, name: x}}'
  nthderiv diff -n 2 poly.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := a.readExpr(cmd, args)
			if err != nil {
				return err
			}
			return a.run(cmd, expr, nthderiv.SpecificOrder, order, false)
		},
	}
	cmd.Flags().IntVarP(&order, "order", "n", 1, "Derivative order")
	return cmd
}

func newFormulaCmd(a *app) *cobra.Command {
	var catalog bool
	cmd := &cobra.Command{
		Use:   "formula [file]",
		Short: "Infer the general nth-derivative formula",
		Long: `formula prints the first derivatives of the expression, the analytic
pattern they follow, and the general formula for the nth derivative.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := a.readExpr(cmd, args)
			if err != nil {
				return err
			}
			return a.run(cmd, expr, nthderiv.GeneralFormula, 0, catalog)
		},
	}
	cmd.Flags().BoolVar(&catalog, "catalog", true, "Also list common general derivatives")
	return cmd
}

func newSolveCmd(a *app) *cobra.Command {
	var (
		mode    string
		order   int
		catalog bool
	)
	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Specific order, general formula, or both",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := nthderiv.ParseMode(mode)
			if err != nil {
				return err
			}
			expr, err := a.readExpr(cmd, args)
			if err != nil {
				return err
			}
			return a.run(cmd, expr, m, order, catalog)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "both", "Mode: specific (1), general (2) or both (3)")
	cmd.Flags().IntVarP(&order, "order", "n", 1, "Derivative order for specific and both modes")
	cmd.Flags().BoolVar(&catalog, "catalog", true, "Also list common general derivatives")
	return cmd
}

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List common general derivatives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.renderer(cmd).Catalog(nthderiv.Catalog())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nthderiv version %s\n", version)
		},
	}
}
