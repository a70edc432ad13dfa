package nthderiv

import (
	"fmt"

	"github.com/njchilds90/nthderiv/symbolic"
)

// rule is one entry of the classification chain. A rule that returns
// ok=false passes the expression on to the next entry.
type rule struct {
	name  string
	match func(expr symbolic.Expr, v Variable) (PatternMatch, bool)
}

// rules is evaluated in order; the first match wins. The order matters:
// the free-symbol count checked by symbolicPower would also accept most
// of the earlier patterns when other symbols are present.
var rules = []rule{
	{"polynomial", matchPolynomial},
	{"pure_exponential", matchPureExponential},
	{"scaled_exponential", matchScaledExponential},
	{"sine", matchExactly(Sine, symbolic.SinOf)},
	{"cosine", matchExactly(Cosine, symbolic.CosOf)},
	{"natural_log", matchExactly(NaturalLog, symbolic.LnOf)},
	{"reciprocal", matchExactly(Reciprocal, func(x symbolic.Expr) symbolic.Expr {
		return symbolic.PowOf(x, symbolic.N(-1))
	})},
	{"symbolic_power", matchSymbolicPower},
}

const fallbackRule = "fallback"

// Classify matches expr against the known nth-derivative patterns with
// respect to v. It never fails: anything no rule accepts, including an
// expression whose structural queries panic in every rule, comes back
// Unclassified.
func Classify(expr symbolic.Expr, v Variable) PatternMatch {
	if expr == nil {
		return unclassified(nil, v, fallbackRule, "no expression")
	}
	canon, err := symbolic.Guard(expr.Simplify)
	if err != nil {
		return unclassified(expr, v, fallbackRule, err.Error())
	}
	for _, r := range rules {
		m, ok := tryRule(r, canon, v)
		if !ok {
			continue
		}
		m.Var, m.Expr, m.Rule = v, canon, r.name
		return m
	}
	return unclassified(canon, v, fallbackRule, "no closed-form pattern matched")
}

func tryRule(r rule, expr symbolic.Expr, v Variable) (m PatternMatch, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			m, ok = PatternMatch{}, false
		}
	}()
	return r.match(expr, v)
}

func unclassified(expr symbolic.Expr, v Variable, ruleName, reason string) PatternMatch {
	return PatternMatch{Kind: Unclassified, Var: v, Expr: expr, Rule: ruleName, Reason: reason}
}

func matchPolynomial(expr symbolic.Expr, v Variable) (PatternMatch, bool) {
	vs := string(v)
	if !symbolic.IsPolynomial(expr, vs) {
		return PatternMatch{}, false
	}
	coeffs := symbolic.PolyCoeffs(expr, vs)
	for _, c := range coeffs {
		// Powers too large to expand leave var inside a coefficient; fall
		// back to the syntactic degree and skip the monomial test.
		if symbolic.DependsOn(c, vs) {
			return PatternMatch{Kind: Polynomial, Degree: symbolic.Degree(expr, vs)}, true
		}
	}
	m := PatternMatch{Kind: Polynomial, Degree: symbolic.PolyDegree(expr, vs)}
	if m.Degree >= 1 && len(coeffs) == 1 {
		m.Monomial = true
		m.Coefficient = coeffs[m.Degree]
	}
	return m, true
}

func matchPureExponential(expr symbolic.Expr, v Variable) (PatternMatch, bool) {
	if !expr.Equal(symbolic.ExpOf(v.Symbol())) {
		return PatternMatch{}, false
	}
	return PatternMatch{Kind: PureExponential}, true
}

// matchScaledExponential accepts an expression holding exactly one
// exponential with an affine argument. Once exponentials are present the
// chain stops here: several of them, or one with a non-affine argument,
// yield Unclassified.
func matchScaledExponential(expr symbolic.Expr, v Variable) (PatternMatch, bool) {
	vs := string(v)
	exps := symbolic.FindFuncs(expr, "exp")
	switch len(exps) {
	case 0:
		return PatternMatch{}, false
	case 1:
	default:
		return unclassified(expr, v, "scaled_exponential",
			fmt.Sprintf("%d distinct exponential sub-terms", len(exps))), true
	}
	exp := exps[0]
	arg := exp.Arg()
	if !symbolic.IsPolynomial(arg, vs) || symbolic.PolyDegree(arg, vs) != 1 {
		return unclassified(expr, v, "scaled_exponential",
			fmt.Sprintf("exponential argument %s is not affine in %s", arg, v)), true
	}
	m := PatternMatch{
		Kind:        ScaledExponential,
		Coefficient: symbolic.LeadingCoeff(arg, vs),
		Argument:    arg,
	}
	m.Scale = exponentialScale(expr, exp, vs)
	m.Partial = m.Scale == nil
	return m, true
}

// exponentialScale returns s when expr is s*exp with s free of varName,
// and nil otherwise.
func exponentialScale(expr symbolic.Expr, exp symbolic.Expr, varName string) symbolic.Expr {
	if expr.Equal(exp) {
		return symbolic.N(1)
	}
	mul, ok := expr.(*symbolic.Mul)
	if !ok {
		return nil
	}
	rest := []symbolic.Expr{}
	found := false
	for _, f := range mul.Factors() {
		if !found && f.Equal(exp) {
			found = true
			continue
		}
		if symbolic.DependsOn(f, varName) {
			return nil
		}
		rest = append(rest, f)
	}
	if !found {
		return nil
	}
	return symbolic.MulOf(rest...)
}

// matchExactly accepts expr when it is structurally build(var).
func matchExactly(kind PatternKind, build func(symbolic.Expr) symbolic.Expr) func(symbolic.Expr, Variable) (PatternMatch, bool) {
	return func(expr symbolic.Expr, v Variable) (PatternMatch, bool) {
		if !expr.Equal(build(v.Symbol())) {
			return PatternMatch{}, false
		}
		return PatternMatch{Kind: kind}, true
	}
}

// matchSymbolicPower reads an expression with more than one free symbol
// as var^k. The exponent is taken from the expression when it really is
// var^k; otherwise a placeholder symbol is assumed and the match is
// Partial.
func matchSymbolicPower(expr symbolic.Expr, v Variable) (PatternMatch, bool) {
	vs := string(v)
	if len(symbolic.FreeSymbols(expr)) <= 1 {
		return PatternMatch{}, false
	}
	if p, ok := expr.(*symbolic.Pow); ok && p.Base().Equal(v.Symbol()) && !symbolic.DependsOn(p.ExpExpr(), vs) {
		return PatternMatch{Kind: SymbolicPower, Exponent: p.ExpExpr()}, true
	}
	k := "k"
	if v == "k" {
		k = "m"
	}
	return PatternMatch{Kind: SymbolicPower, Exponent: symbolic.S(k), Partial: true}, true
}
