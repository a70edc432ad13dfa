package nthderiv

import (
	"github.com/njchilds90/nthderiv/symbolic"
)

// CatalogEntry is one common general derivative.
type CatalogEntry struct {
	Label   string
	Expr    symbolic.Expr
	Formula StructuredFormula
}

// Catalog lists the general nth derivatives of the standard
// representatives of each closed-form pattern, in x.
func Catalog() []CatalogEntry {
	x := symbolic.S("x")
	reps := []struct {
		label string
		expr  symbolic.Expr
	}{
		{"(x^k)^(n)", symbolic.PowOf(x, symbolic.S("k"))},
		{"(e^x)^(n)", symbolic.ExpOf(x)},
		{"(e^ax)^(n)", symbolic.ExpOf(symbolic.MulOf(symbolic.S("a"), x))},
		{"(ln x)^(n)", symbolic.LnOf(x)},
		{"(sin x)^(n)", symbolic.SinOf(x)},
		{"(cos x)^(n)", symbolic.CosOf(x)},
		{"(1/x)^(n)", symbolic.PowOf(x, symbolic.N(-1))},
	}
	out := make([]CatalogEntry, len(reps))
	for i, r := range reps {
		out[i] = CatalogEntry{
			Label:   r.label,
			Expr:    r.expr,
			Formula: Render(Classify(r.expr, "x")),
		}
	}
	return out
}
