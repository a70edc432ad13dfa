package symbolic

import (
	"sort"
	"strings"
)

// Add is a sum. AddOf folds numeric terms and merges like terms.
type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and merges like terms
// (terms that differ only in their numeric coefficient). Terms are ordered
// by descending degree, then by their printed form, with the constant last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	type like struct {
		coeff  *Num
		rest   Expr
		degree int
	}
	numAccum := N(0)
	groups := map[string]*like{}
	keys := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if g, seen := groups[key]; seen {
			g.coeff = numAdd(g.coeff, coeff)
			continue
		}
		groups[key] = &like{coeff: coeff, rest: rest, degree: termDegree(rest)}
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		gi, gj := groups[keys[i]], groups[keys[j]]
		if gi.degree != gj.degree {
			return gi.degree > gj.degree
		}
		return keys[i] < keys[j]
	})

	result := make([]Expr, 0, len(keys)+1)
	for _, k := range keys {
		g := groups[k]
		switch {
		case g.coeff.IsZero():
			continue
		case g.coeff.IsOne():
			result = append(result, g.rest)
		default:
			result = append(result, MulOf(g.coeff, g.rest))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

// termDegree is the total degree of a monomial-like term over all symbols.
// It only orders terms for display and canonical comparison.
func termDegree(e Expr) int {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			if n, ok2 := v.exp.(*Num); ok2 {
				if k, ok3 := n.Int64(); ok3 {
					return int(k)
				}
			}
		}
	case *Mul:
		d := 0
		for _, f := range v.factors {
			d += termDegree(f)
		}
		return d
	}
	return 0
}

// negatedTerm returns -t when t carries a negative numeric coefficient.
func negatedTerm(t Expr) (Expr, bool) {
	switch v := t.(type) {
	case *Num:
		if v.IsNegative() {
			return numNeg(v), true
		}
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok && c.IsNegative() {
			rest := v.factors[1:]
			if c.IsNegOne() {
				if len(rest) == 1 {
					return rest[0], true
				}
				return &Mul{factors: rest}, true
			}
			return &Mul{factors: append([]Expr{numNeg(c)}, rest...)}, true
		}
	}
	return nil, false
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		if i > 0 {
			if pos, neg := negatedTerm(t); neg {
				sb.WriteString(" - ")
				sb.WriteString(pos.String())
				continue
			}
			sb.WriteString(" + ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		if i > 0 {
			if pos, neg := negatedTerm(t); neg {
				sb.WriteString(" - ")
				sb.WriteString(pos.LaTeX())
				continue
			}
			sb.WriteString(" + ")
		}
		sb.WriteString(t.LaTeX())
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// extractCoefficient splits a canonical term into its numeric coefficient
// and the remaining factors.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}
