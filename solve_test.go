package nthderiv_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/nthderiv"
	"github.com/njchilds90/nthderiv/symbolic"
)

func TestSolve_SpecificOrder(t *testing.T) {
	res, err := nthderiv.NewSolver().Solve(nthderiv.Request{
		Expr:  quadratic(),
		Var:   "x",
		Mode:  nthderiv.SpecificOrder,
		Order: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "2*x + 3", res.Derivative.String())
	assert.Nil(t, res.Simplified)
	assert.Nil(t, res.Formula)
	assert.Nil(t, res.Trace)
}

func TestSolve_GeneralFormula(t *testing.T) {
	res, err := nthderiv.NewSolver().Solve(nthderiv.Request{
		Expr: symbolic.ExpOf(symbolic.MulOf(num(2), x)),
		Mode: nthderiv.GeneralFormula,
	})
	require.NoError(t, err)
	assert.Equal(t, nthderiv.Variable("x"), res.Var)
	assert.Nil(t, res.Derivative)
	require.NotNil(t, res.Match)
	assert.Equal(t, nthderiv.ScaledExponential, res.Match.Kind)
	require.NotNil(t, res.Formula)
	assert.Equal(t, "2^n*exp(2*x)", res.Formula.Template.String())
	require.NotNil(t, res.Trace)
	assert.Equal(t, nthderiv.DefaultTraceDepth, res.Trace.Len())
}

func TestSolve_BothKeepsFormulaWhenOrderFails(t *testing.T) {
	res, err := nthderiv.NewSolver().Solve(nthderiv.Request{
		Expr:  symbolic.AbsOf(x),
		Mode:  nthderiv.Both,
		Order: 2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, nthderiv.ErrDifferentiationFailed)
	require.NotNil(t, res.Formula)
	assert.Equal(t, nthderiv.Unclassified, res.Formula.Pattern)
	require.NotNil(t, res.Trace)
	assert.True(t, res.Trace.Truncated())
	assert.Equal(t, 1, res.Trace.Len())
}

func TestSolve_Simplified(t *testing.T) {
	expr := symbolic.AddOf(
		symbolic.MulOf(x, symbolic.AddOf(x, num(1))),
		symbolic.MulOf(num(-1), symbolic.PowOf(x, num(2))),
	)
	req := nthderiv.Request{Expr: expr, Var: "x", Mode: nthderiv.SpecificOrder, Order: 0}

	res, err := nthderiv.NewSolver().Solve(req)
	require.NoError(t, err)
	require.NotNil(t, res.Simplified)
	assert.Equal(t, "x", res.Simplified.String())

	res, err = nthderiv.NewSolver(nthderiv.WithSimplify(false)).Solve(req)
	require.NoError(t, err)
	assert.Nil(t, res.Simplified)
}

func TestSolve_TraceDepth(t *testing.T) {
	res, err := nthderiv.NewSolver(nthderiv.WithTraceDepth(4)).Solve(nthderiv.Request{
		Expr: symbolic.SinOf(x),
		Mode: nthderiv.GeneralFormula,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Trace.Len())
}

func TestSolve_TraceClampedToMaxOrder(t *testing.T) {
	s := nthderiv.NewSolver(
		nthderiv.WithDifferentiator(nthderiv.NewDifferentiator(nthderiv.WithMaxOrder(3))),
		nthderiv.WithTraceDepth(10),
	)
	res, err := s.Solve(nthderiv.Request{Expr: symbolic.SinOf(x), Mode: nthderiv.GeneralFormula})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Trace.Len())
	assert.False(t, res.Trace.Truncated())
}

func TestSolve_Errors(t *testing.T) {
	s := nthderiv.NewSolver()

	_, err := s.Solve(nthderiv.Request{Expr: x, Mode: nthderiv.SpecificOrder, Order: -1})
	assert.ErrorIs(t, err, nthderiv.ErrInvalidOrder)

	_, err = s.Solve(nthderiv.Request{Expr: x, Mode: nthderiv.Both, Order: nthderiv.DefaultMaxOrder + 1})
	assert.ErrorIs(t, err, nthderiv.ErrInvalidOrder)

	_, err = s.Solve(nthderiv.Request{Expr: x, Var: "w", Mode: nthderiv.Both})
	assert.ErrorIs(t, err, nthderiv.ErrUnknownVariable)

	_, err = s.Solve(nthderiv.Request{Mode: nthderiv.Both})
	assert.ErrorIs(t, err, nthderiv.ErrInvalidRequest)

	_, err = s.Solve(nthderiv.Request{Expr: x})
	assert.ErrorIs(t, err, nthderiv.ErrInvalidRequest)

	_, err = s.Solve(nthderiv.Request{Expr: num(3), Mode: nthderiv.Both})
	assert.ErrorIs(t, err, nthderiv.ErrUnknownVariable)
}

func TestSolve_GeneralFormulaIgnoresOrder(t *testing.T) {
	_, err := nthderiv.NewSolver().Solve(nthderiv.Request{Expr: x, Mode: nthderiv.GeneralFormula, Order: -5})
	assert.NoError(t, err)
}

func TestSolve_LogsWarningOnFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := nthderiv.NewSolver(nthderiv.WithSolverLogger(logger))

	_, err := s.Solve(nthderiv.Request{Expr: symbolic.AbsOf(x), Mode: nthderiv.SpecificOrder, Order: 1})
	require.Error(t, err)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, "x", e.Data["var"])
		}
	}
	assert.True(t, warned)
}

func TestParseMode(t *testing.T) {
	tests := map[string]nthderiv.Mode{
		"1": nthderiv.SpecificOrder, "specific": nthderiv.SpecificOrder,
		"2": nthderiv.GeneralFormula, "Formula": nthderiv.GeneralFormula,
		"3": nthderiv.Both, " both ": nthderiv.Both,
	}
	for in, want := range tests {
		got, err := nthderiv.ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := nthderiv.ParseMode("4")
	assert.ErrorIs(t, err, nthderiv.ErrInvalidRequest)
}

func TestResultView_YAML(t *testing.T) {
	res, err := nthderiv.NewSolver(nthderiv.WithTraceDepth(3)).Solve(nthderiv.Request{
		Expr:  symbolic.SinOf(x),
		Mode:  nthderiv.Both,
		Order: 2,
	})
	require.NoError(t, err)

	out, err := yaml.Marshal(res.View())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "both", decoded["mode"])
	assert.Equal(t, "-sin(x)", decoded["derivative"])
	formula := decoded["formula"].(map[string]interface{})
	assert.Equal(t, "sine", formula["pattern"])
	trace := decoded["trace"].(map[string]interface{})
	assert.Len(t, trace["terms"], 3)
}
