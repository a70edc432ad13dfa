package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/nthderiv/symbolic"
)

var (
	x = symbolic.S("x")
	k = symbolic.S("k")
	n = symbolic.S("n")
)

func TestNum_Integer(t *testing.T) {
	assert.Equal(t, "42", symbolic.N(42).String())
}

func TestNum_Rational(t *testing.T) {
	assert.Equal(t, "1/3", symbolic.F(1, 3).String())
	assert.Equal(t, `\frac{2}{5}`, symbolic.F(2, 5).LaTeX())
}

func TestNum_Diff_IsZero(t *testing.T) {
	assert.Equal(t, "0", symbolic.N(5).Diff("x").String())
}

func TestAdd_LikeTerms(t *testing.T) {
	assert.Equal(t, "2*x", symbolic.AddOf(x, x).String())
	assert.Equal(t, "5*x", symbolic.AddOf(symbolic.MulOf(symbolic.N(2), x), symbolic.MulOf(symbolic.N(3), x)).String())
	assert.Equal(t, "0", symbolic.AddOf(x, symbolic.MulOf(symbolic.N(-1), x)).String())
}

func TestAdd_OrderIndependent(t *testing.T) {
	a := symbolic.AddOf(symbolic.SinOf(x), symbolic.CosOf(x))
	b := symbolic.AddOf(symbolic.CosOf(x), symbolic.SinOf(x))
	assert.True(t, a.Equal(b), "%s vs %s", a, b)
}

func TestAdd_StringOrdersByDegree(t *testing.T) {
	expr := symbolic.AddOf(symbolic.N(5), symbolic.MulOf(symbolic.N(-3), x), symbolic.PowOf(x, symbolic.N(2)))
	assert.Equal(t, "x^2 - 3*x + 5", expr.String())
}

func TestAdd_SingleTerm(t *testing.T) {
	assert.Equal(t, "5", symbolic.AddOf(symbolic.N(5)).String())
}

func TestMul_Basics(t *testing.T) {
	assert.Equal(t, "3*x", symbolic.MulOf(symbolic.N(3), x).String())
	assert.Equal(t, "0", symbolic.MulOf(symbolic.N(0), x).String())
	assert.Equal(t, "x", symbolic.MulOf(symbolic.N(1), x).String())
	assert.Equal(t, "-sin(x)", symbolic.MulOf(symbolic.N(-1), symbolic.SinOf(x)).String())
}

func TestMul_CombinesPowers(t *testing.T) {
	assert.Equal(t, "x^2", symbolic.MulOf(x, x).String())
	assert.Equal(t, "1", symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1))).String())
	assert.Equal(t, "x^(k + 1)", symbolic.MulOf(x, symbolic.PowOf(x, k)).String())
}

func TestMul_MergesExponentials(t *testing.T) {
	expr := symbolic.MulOf(symbolic.ExpOf(x), symbolic.ExpOf(symbolic.MulOf(symbolic.N(2), x)))
	assert.Equal(t, "exp(3*x)", expr.String())
}

func TestPow_Simplifications(t *testing.T) {
	tests := []struct {
		name string
		expr symbolic.Expr
		want string
	}{
		{"square", symbolic.PowOf(x, symbolic.N(2)), "x^2"},
		{"zero exponent", symbolic.PowOf(x, symbolic.N(0)), "1"},
		{"unit exponent", symbolic.PowOf(x, symbolic.N(1)), "x"},
		{"numeric", symbolic.PowOf(symbolic.N(2), symbolic.N(3)), "8"},
		{"large numeric", symbolic.PowOf(symbolic.N(2), symbolic.N(40)), "1099511627776"},
		{"rational negative", symbolic.PowOf(symbolic.F(1, 2), symbolic.N(-2)), "4"},
		{"distributes over product", symbolic.PowOf(symbolic.MulOf(symbolic.N(2), x), symbolic.N(3)), "8*x^3"},
		{"power of exponential", symbolic.PowOf(symbolic.ExpOf(x), symbolic.N(2)), "exp(2*x)"},
		{"negative exponent", symbolic.PowOf(x, symbolic.N(-2)), "x^(-2)"},
		{"sign power", symbolic.PowOf(symbolic.N(-1), n), "(-1)^n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestPow_LaTeX(t *testing.T) {
	assert.Equal(t, "x^{2}", symbolic.PowOf(x, symbolic.N(2)).LaTeX())
}

func TestFunc_Canonicalization(t *testing.T) {
	assert.True(t, symbolic.SinOf(symbolic.MulOf(symbolic.N(1), x)).Equal(symbolic.SinOf(x)))
	assert.True(t, symbolic.CosOf(symbolic.AddOf(x, symbolic.N(0))).Equal(symbolic.CosOf(x)))
	assert.True(t, symbolic.FuncOf("log", x).Equal(symbolic.LnOf(x)))
}

func TestFunc_NumericFolding(t *testing.T) {
	assert.Equal(t, "0", symbolic.SinOf(symbolic.N(0)).String())
	assert.Equal(t, "1", symbolic.ExpOf(symbolic.N(0)).String())
	assert.Equal(t, "0", symbolic.LnOf(symbolic.N(1)).String())
}

func TestFunc_Factorial(t *testing.T) {
	assert.Equal(t, "120", symbolic.FactorialOf(symbolic.N(5)).String())
	assert.Equal(t, "1", symbolic.FactorialOf(symbolic.N(0)).String())
	assert.Equal(t, "n!", symbolic.FactorialOf(n).String())
	assert.Equal(t, "(n - 1)!", symbolic.FactorialOf(symbolic.AddOf(n, symbolic.N(-1))).String())
	assert.Equal(t, "20", symbolic.FallingFactorialOf(symbolic.N(5), symbolic.N(2)).String())
}

func TestFunc_LaTeX_Sin(t *testing.T) {
	assert.Contains(t, symbolic.SinOf(x).LaTeX(), `\sin`)
}

func TestDiff_ElementaryFunctions(t *testing.T) {
	tests := []struct {
		name string
		expr symbolic.Expr
		want symbolic.Expr
	}{
		{"sin", symbolic.SinOf(x), symbolic.CosOf(x)},
		{"cos", symbolic.CosOf(x), symbolic.MulOf(symbolic.N(-1), symbolic.SinOf(x))},
		{"exp", symbolic.ExpOf(x), symbolic.ExpOf(x)},
		{"ln", symbolic.LnOf(x), symbolic.PowOf(x, symbolic.N(-1))},
		{"reciprocal", symbolic.PowOf(x, symbolic.N(-1)), symbolic.MulOf(symbolic.N(-1), symbolic.PowOf(x, symbolic.N(-2)))},
		{"scaled exp", symbolic.ExpOf(symbolic.MulOf(symbolic.N(2), x)), symbolic.MulOf(symbolic.N(2), symbolic.ExpOf(symbolic.MulOf(symbolic.N(2), x)))},
		{"symbolic power", symbolic.PowOf(x, k), symbolic.MulOf(k, symbolic.PowOf(x, symbolic.AddOf(k, symbolic.N(-1))))},
		{"other variable", symbolic.SinOf(symbolic.S("y")), symbolic.N(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := symbolic.Diff(tt.expr, "x")
			assert.True(t, got.Equal(tt.want), "d/dx %s = %s, want %s", tt.expr, got, tt.want)
		})
	}
}

func diffTimes(e symbolic.Expr, n int) symbolic.Expr {
	for i := 0; i < n; i++ {
		e = symbolic.Diff(e, "x")
	}
	return e
}

func TestDiff_Polynomial(t *testing.T) {
	expr := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(5))
	d := symbolic.Diff(expr, "x")
	assert.Equal(t, "2*x + 3", d.String())
	assert.Equal(t, "2", diffTimes(expr, 2).String())
	assert.Equal(t, "0", diffTimes(expr, 3).String())
}

func TestDiff_RepeatedPower(t *testing.T) {
	assert.Equal(t, "24", diffTimes(symbolic.PowOf(x, symbolic.N(4)), 4).String())
}

func TestSafeDiff(t *testing.T) {
	d, err := symbolic.SafeDiff(symbolic.SinOf(x), "x")
	require.NoError(t, err)
	assert.True(t, d.Equal(symbolic.CosOf(x)))

	_, err = symbolic.SafeDiff(symbolic.AbsOf(x), "x")
	assert.ErrorIs(t, err, symbolic.ErrNotDifferentiable)
}

func TestGuard_RecoversPanics(t *testing.T) {
	_, err := symbolic.Guard(func() symbolic.Expr { return symbolic.F(1, 0) })
	assert.ErrorIs(t, err, symbolic.ErrEngine)
}

func TestIsPolynomial(t *testing.T) {
	y := symbolic.S("y")
	tests := []struct {
		name string
		expr symbolic.Expr
		want bool
	}{
		{"quadratic", symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(5)), true},
		{"constant", symbolic.N(7), true},
		{"other variable coefficient", symbolic.MulOf(y, x), true},
		{"function of other variable", symbolic.SinOf(y), true},
		{"power of sum", symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(3)), true},
		{"symbolic exponent", symbolic.PowOf(x, k), false},
		{"negative exponent", symbolic.PowOf(x, symbolic.N(-1)), false},
		{"sine", symbolic.SinOf(x), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symbolic.IsPolynomial(tt.expr, "x"))
		})
	}
}

func TestPolyCoeffs_Expands(t *testing.T) {
	coeffs := symbolic.PolyCoeffs(symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2)), "x")
	require.Len(t, coeffs, 3)
	assert.True(t, coeffs[2].Equal(symbolic.N(1)))
	assert.True(t, coeffs[1].Equal(symbolic.N(2)))
	assert.True(t, coeffs[0].Equal(symbolic.N(1)))
}

func TestPolyCoeffs_UnexpandedPowerIsCoefficient(t *testing.T) {
	shifted := symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(11))
	coeffs := symbolic.PolyCoeffs(symbolic.MulOf(x, shifted), "x")
	require.Len(t, coeffs, 1)
	assert.True(t, coeffs[1].Equal(shifted), "got %s", coeffs[1])
	assert.True(t, symbolic.DependsOn(coeffs[1], "x"))
}

func TestCollect(t *testing.T) {
	expr := symbolic.MulOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.AddOf(x, symbolic.N(2)))
	want := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(2))
	got := symbolic.Collect(expr, "x")
	assert.True(t, got.Equal(want), "got %s", got)
}

func TestPolyDegree_Cancellation(t *testing.T) {
	expr := symbolic.AddOf(
		symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2)),
		symbolic.MulOf(symbolic.N(-1), symbolic.PowOf(x, symbolic.N(2))),
	)
	assert.Equal(t, 2, symbolic.Degree(expr, "x"))
	assert.Equal(t, 1, symbolic.PolyDegree(expr, "x"))
}

func TestLeadingCoeff(t *testing.T) {
	lc := symbolic.LeadingCoeff(symbolic.MulOf(symbolic.N(7), symbolic.PowOf(x, symbolic.N(3))), "x")
	assert.True(t, lc.Equal(symbolic.N(7)))
}

func TestExpand_Distribution(t *testing.T) {
	expr := symbolic.MulOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.AddOf(x, symbolic.N(2)))
	want := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(2))
	got := symbolic.Expand(expr)
	assert.True(t, got.Equal(want), "got %s", got)
}

func TestFreeSymbols(t *testing.T) {
	expr := symbolic.AddOf(x, symbolic.MulOf(symbolic.S("y"), symbolic.N(2)))
	assert.Equal(t, []string{"x", "y"}, symbolic.SortedSymbols(expr))
	assert.Empty(t, symbolic.FreeSymbols(symbolic.N(5)))
}

func TestFindFuncs(t *testing.T) {
	one := symbolic.AddOf(symbolic.ExpOf(x), symbolic.MulOf(x, symbolic.ExpOf(x)))
	assert.Len(t, symbolic.FindFuncs(one, "exp"), 1)

	two := symbolic.AddOf(symbolic.ExpOf(x), symbolic.ExpOf(symbolic.MulOf(symbolic.N(2), x)))
	assert.Len(t, symbolic.FindFuncs(two, "exp"), 2)
}

func TestTrigSimplify_Pythagorean(t *testing.T) {
	expr := symbolic.AddOf(symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)), symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2)))
	assert.Equal(t, "1", symbolic.TrigSimplify(expr).String())
}

func TestParseJSON(t *testing.T) {
	e, err := symbolic.ParseJSON([]byte(`{"type":"func","name":"log","arg":{"type":"sym","name":"x"}}`))
	require.NoError(t, err)
	assert.True(t, e.Equal(symbolic.LnOf(x)))

	e, err = symbolic.ParseJSON([]byte(`{"type":"num","value":3}`))
	require.NoError(t, err)
	assert.Equal(t, "3", e.String())

	_, err = symbolic.ParseJSON([]byte(`{"type":"matrix"}`))
	assert.ErrorIs(t, err, symbolic.ErrMalformed)
}

func TestFromJSON_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not json", `{`, "malformed"},
		{"missing type", `{"name":"x"}`, `"type"`},
		{"bad num", `{"type":"num","value":"1/0x"}`, "invalid value"},
		{"nested term", `{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"sym"}]}`, `add: terms[1]: sym: "name"`},
		{"pow without exp", `{"type":"pow","base":{"type":"sym","name":"x"}}`, `pow: "exp" must be an object`},
		{"func arg", `{"type":"func","name":"sin","arg":{"type":"blob"}}`, `func: arg: unknown expression type "blob"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := symbolic.ParseJSON([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, symbolic.ErrMalformed)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFromJSON_AcceptsYAMLInts(t *testing.T) {
	e, err := symbolic.FromJSON(map[string]interface{}{
		"type": "mul",
		"factors": []interface{}{
			map[string]interface{}{"type": "num", "value": 3},
			map[string]interface{}{"type": "sym", "name": "x"},
		},
	})
	require.NoError(t, err)
	assert.True(t, e.Equal(symbolic.MulOf(symbolic.N(3), x)))
}

func TestToJSON_Stable(t *testing.T) {
	s, err := symbolic.ToJSON(symbolic.SinOf(x))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"func","name":"sin","arg":{"type":"sym","name":"x"}}`, s)
}
