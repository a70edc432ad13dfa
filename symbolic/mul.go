package symbolic

import (
	"sort"
	"strings"
)

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

const expGroupKey = "\x00exp"

// Simplify flattens nested products, folds numbers into one leading
// coefficient, merges equal bases by adding exponents (x*x^k -> x^(k+1))
// and merges exponentials (exp(a)*exp(b) -> exp(a+b)).
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	type power struct {
		orig Expr
		base Expr
		exps []Expr
	}
	coeff := N(1)
	groups := map[string]*power{}
	keys := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp, key := f, Expr(N(1)), ""
		switch v := f.(type) {
		case *Pow:
			base, exp = v.base, v.exp
			key = base.String()
		case *Func:
			if v.name == "exp" {
				base, exp, key = nil, v.arg, expGroupKey
			} else {
				key = f.String()
			}
		default:
			key = f.String()
		}
		if g, seen := groups[key]; seen {
			g.exps = append(g.exps, exp)
			continue
		}
		groups[key] = &power{orig: f, base: base, exps: []Expr{exp}}
		keys = append(keys, key)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		var merged Expr
		switch {
		case len(g.exps) == 1:
			merged = g.orig
		case k == expGroupKey:
			merged = ExpOf(AddOf(g.exps...))
		default:
			merged = PowOf(g.base, AddOf(g.exps...))
		}
		switch v := merged.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			others = append(others, v.factors...)
		default:
			others = append(others, merged)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, 0, len(m.factors))
	prefix := ""
	for i, f := range m.factors {
		if n, ok := f.(*Num); ok && i == 0 && n.IsNegOne() {
			prefix = "-"
			continue
		}
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, "("+f.String()+")")
		} else {
			parts = append(parts, f.String())
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	parts := make([]string, 0, len(m.factors))
	prefix := ""
	for i, f := range m.factors {
		if n, ok := f.(*Num); ok && i == 0 && n.IsNegOne() {
			prefix = "-"
			continue
		}
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, "\\left("+f.LaTeX()+"\\right)")
		} else {
			parts = append(parts, f.LaTeX())
		}
	}
	return prefix + strings.Join(parts, " ")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

// Diff applies the product rule.
func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(append([]Expr{dfi}, others...)...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }
