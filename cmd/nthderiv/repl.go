package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/nthderiv"
	"github.com/njchilds90/nthderiv/internal/input"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Answer derivative questions interactively",
		Long: `repl reads one expression per line (JSON or YAML flow syntax), asks for
the mode and order, prints the answer, and offers to calculate another.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd)
		},
	}
}

func (a *app) repl(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	ask := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(out)
			return "", false
		}
		return strings.TrimSpace(sc.Text()), true
	}

	fmt.Fprintln(out, "nth DERIVATIVE CALCULATOR")
	fmt.Fprintln(out, "Supported variables: x, y, z, a, b, c, t, k")
	fmt.Fprintln(out, "Example: {type: func, name: sin, arg: {type: sym, name: x}}")

	for {
		line, ok := ask("\nExpression: ")
		if !ok || line == "" {
			return sc.Err()
		}
		expr, err := input.Decode([]byte(line))
		if err != nil {
			fmt.Fprintf(out, "Invalid expression: %v\n", err)
			continue
		}

		line, ok = ask("Mode (1 = specific order, 2 = general formula, 3 = both): ")
		if !ok {
			return sc.Err()
		}
		mode, err := nthderiv.ParseMode(line)
		if err != nil {
			fmt.Fprintln(out, "Please choose 1, 2 or 3.")
			continue
		}

		order := 0
		if mode != nthderiv.GeneralFormula {
			line, ok = ask("Order n: ")
			if !ok {
				return sc.Err()
			}
			if order, err = strconv.Atoi(line); err != nil {
				fmt.Fprintf(out, "Invalid order %q\n", line)
				continue
			}
		}

		if err := a.run(cmd, expr, mode, order, true); err != nil {
			var rep reportedError
			if !errors.As(err, &rep) {
				return err
			}
		}

		line, ok = ask("\nCalculate another? (y/n): ")
		if !ok {
			return sc.Err()
		}
		if l := strings.ToLower(line); l != "y" && l != "yes" {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
	}
}
