package main

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/njchilds90/nthderiv"
	"github.com/njchilds90/nthderiv/internal/config"
	"github.com/njchilds90/nthderiv/internal/input"
	"github.com/njchilds90/nthderiv/internal/logging"
	"github.com/njchilds90/nthderiv/internal/render"
	"github.com/njchilds90/nthderiv/symbolic"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	inline     string
	varName    string
	progress   bool

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "nthderiv",
		Short: "nth derivatives and general nth-derivative formulas",
		Long: `nthderiv differentiates an expression to a given order, recognizes the
analytic pattern it follows, and states the general formula for its nth
derivative when one is known.

Expressions are trees in JSON or YAML, read from a file argument, --expr,
or stdin:

  {type: func, name: sin, arg: {type: sym, name: x}}`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Configuration file path")
	pf.StringVarP(&a.inline, "expr", "e", "", "Expression document (JSON or YAML)")
	pf.StringVar(&a.varName, "var", "", "Variable to differentiate by (x, y, z, a, b, c, t, k); detected when empty")
	pf.BoolVar(&a.progress, "progress", false, "Show a spinner while computing")
	pf.StringP("output", "o", config.OutputHuman, "Output format (human, json, yaml)")
	pf.Bool("color", true, "Colorize human output")
	pf.Bool("simplify", true, "Show the simplified derivative when it differs")
	pf.Int("trace-depth", 10, "Number of orders computed for the derivative trace")
	pf.Int("trace-display", 8, "Number of trace orders shown in human output")
	pf.Int("max-order", 1000, "Highest derivative order accepted")
	pf.String("log-level", "info", "Logging level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")

	_ = a.v.BindPFlag("output", pf.Lookup("output"))
	_ = a.v.BindPFlag("color", pf.Lookup("color"))
	_ = a.v.BindPFlag("simplify", pf.Lookup("simplify"))
	_ = a.v.BindPFlag("trace_depth", pf.Lookup("trace-depth"))
	_ = a.v.BindPFlag("trace_display", pf.Lookup("trace-display"))
	_ = a.v.BindPFlag("max_order", pf.Lookup("max-order"))
	_ = a.v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", pf.Lookup("log-format"))

	rootCmd.AddCommand(
		newDiffCmd(a),
		newFormulaCmd(a),
		newSolveCmd(a),
		newCatalogCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: logging.Format(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
		Colors: cfg.Color,
	})
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) solver() *nthderiv.Solver {
	return nthderiv.NewSolver(
		nthderiv.WithDifferentiator(nthderiv.NewDifferentiator(
			nthderiv.WithLogger(a.log),
			nthderiv.WithMaxOrder(a.cfg.MaxOrder),
		)),
		nthderiv.WithTraceDepth(a.cfg.TraceDepth),
		nthderiv.WithSimplify(a.cfg.Simplify),
		nthderiv.WithSolverLogger(a.log),
	)
}

func (a *app) renderer(cmd *cobra.Command) *render.Renderer {
	return &render.Renderer{
		Out:          cmd.OutOrStdout(),
		Format:       a.cfg.Output,
		Color:        a.cfg.Color,
		TraceDisplay: a.cfg.TraceDisplay,
	}
}

func (a *app) readExpr(cmd *cobra.Command, args []string) (symbolic.Expr, error) {
	src := input.Source{Inline: a.inline, Stdin: cmd.InOrStdin()}
	if len(args) > 0 {
		src.Path = args[0]
	}
	return src.Read()
}

// run solves one request and renders it. With catalog set, human output
// is followed by the list of common general derivatives.
func (a *app) run(cmd *cobra.Command, expr symbolic.Expr, mode nthderiv.Mode, order int, catalog bool) error {
	var s *spinner.Spinner
	if a.progress && a.cfg.Output == config.OutputHuman {
		s = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " Differentiating..."
		s.Start()
	}
	res, err := a.solver().Solve(nthderiv.Request{
		Expr:  expr,
		Var:   nthderiv.Variable(a.varName),
		Mode:  mode,
		Order: order,
	})
	if s != nil {
		s.Stop()
	}

	r := a.renderer(cmd)
	if rerr := r.Result(res, err); rerr != nil {
		return rerr
	}
	if catalog && res.Formula != nil && a.cfg.Output == config.OutputHuman {
		if cerr := r.Catalog(nthderiv.Catalog()); cerr != nil {
			return cerr
		}
	}
	if err != nil {
		return reportedError{err}
	}
	return nil
}
