package symbolic

import (
	"sort"
)

// walk visits e and its sub-expressions depth first until visit returns false.
func walk(e Expr, visit func(Expr) bool) bool {
	if !visit(e) {
		return false
	}
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if !walk(t, visit) {
				return false
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if !walk(f, visit) {
				return false
			}
		}
	case *Pow:
		if !walk(v.base, visit) {
			return false
		}
		return walk(v.exp, visit)
	case *Func:
		return walk(v.arg, visit)
	}
	return true
}

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok {
			result[s.name] = struct{}{}
		}
		return true
	})
	return result
}

// SortedSymbols returns the free symbol names of e in lexical order.
func SortedSymbols(e Expr) []string {
	syms := FreeSymbols(e)
	names := make([]string, 0, len(syms))
	for n := range syms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DependsOn reports whether varName occurs in e.
func DependsOn(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}

// FindFuncs returns the distinct applications of the named function in e,
// ordered by their printed form.
func FindFuncs(e Expr, name string) []*Func {
	seen := map[string]*Func{}
	walk(e, func(n Expr) bool {
		if fn, ok := n.(*Func); ok && fn.name == name {
			seen[fn.String()] = fn
		}
		return true
	})
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Func, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

// IsPolynomial reports whether e is a polynomial in varName with
// coefficients free of varName. Sub-expressions that do not mention
// varName count as coefficients.
func IsPolynomial(e Expr, varName string) bool {
	if !DependsOn(e, varName) {
		return true
	}
	switch v := e.(type) {
	case *Sym:
		return true
	case *Add:
		for _, t := range v.terms {
			if !IsPolynomial(t, varName) {
				return false
			}
		}
		return true
	case *Mul:
		for _, f := range v.factors {
			if !IsPolynomial(f, varName) {
				return false
			}
		}
		return true
	case *Pow:
		if DependsOn(v.exp, varName) {
			return false
		}
		n, ok := v.exp.(*Num)
		if !ok {
			return false
		}
		k, ok := n.Int64()
		return ok && k >= 0 && IsPolynomial(v.base, varName)
	}
	return false
}

// Degree is the syntactic degree of e in varName. For a polynomial that
// may cancel on expansion, prefer PolyDegree.
func Degree(expr Expr, varName string) int {
	expr = expr.Simplify()
	switch v := expr.(type) {
	case *Sym:
		if v.name == varName {
			return 1
		}
		return 0
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			if k, ok2 := n.Int64(); ok2 && k > 0 {
				return Degree(v.base, varName) * int(k)
			}
		}
		return 0
	case *Add:
		maxDeg := 0
		for _, t := range v.terms {
			if d := Degree(t, varName); d > maxDeg {
				maxDeg = d
			}
		}
		return maxDeg
	case *Mul:
		totalDeg := 0
		for _, f := range v.factors {
			totalDeg += Degree(f, varName)
		}
		return totalDeg
	}
	return 0
}

// PolyCoeffsResult maps a degree to its coefficient.
type PolyCoeffsResult map[int]Expr

// PolyCoeffs expands expr and returns its non-zero coefficients by degree
// in varName.
func PolyCoeffs(expr Expr, varName string) PolyCoeffsResult {
	result := PolyCoeffsResult{}
	extractCoeffs(Expand(expr), varName, result)
	for d, c := range result {
		if isNumEqual(c, 0) {
			delete(result, d)
		}
	}
	return result
}

func extractCoeffs(e Expr, varName string, out PolyCoeffsResult) {
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			extractCoeffs(t, varName, out)
		}
	case *Mul:
		deg := 0
		coeffFactors := []Expr{}
		for _, f := range v.factors {
			if k, ok := varPower(f, varName); ok {
				deg += k
			} else {
				coeffFactors = append(coeffFactors, f)
			}
		}
		addCoeff(out, deg, MulOf(coeffFactors...))
	default:
		if k, ok := varPower(e, varName); ok {
			addCoeff(out, k, N(1))
			return
		}
		addCoeff(out, 0, e)
	}
}

// varPower reports k when e is varName or varName^k for a positive
// integer k. Anything else, including powers of sums left unexpanded,
// belongs to a coefficient.
func varPower(e Expr, varName string) (int, bool) {
	switch v := e.(type) {
	case *Sym:
		if v.name == varName {
			return 1, true
		}
	case *Pow:
		sym, ok := v.base.(*Sym)
		if !ok || sym.name != varName {
			return 0, false
		}
		n, ok := v.exp.(*Num)
		if !ok {
			return 0, false
		}
		if k, ok := n.Int64(); ok && k > 0 {
			return int(k), true
		}
	}
	return 0, false
}

func addCoeff(out PolyCoeffsResult, deg int, val Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = AddOf(existing, val)
	} else {
		out[deg] = val.Simplify()
	}
}

// PolyDegree is the highest degree with a non-zero coefficient after
// expansion. The zero polynomial has degree 0.
func PolyDegree(expr Expr, varName string) int {
	maxDeg := 0
	for d := range PolyCoeffs(expr, varName) {
		if d > maxDeg {
			maxDeg = d
		}
	}
	return maxDeg
}

// LeadingCoeff is the coefficient of the highest power of varName.
func LeadingCoeff(expr Expr, varName string) Expr {
	coeffs := PolyCoeffs(expr, varName)
	c, ok := coeffs[PolyDegree(expr, varName)]
	if !ok {
		return N(0)
	}
	return c
}

// Collect groups terms by descending powers of varName.
func Collect(expr Expr, varName string) Expr {
	coeffs := PolyCoeffs(expr, varName)
	degrees := make([]int, 0, len(coeffs))
	for d := range coeffs {
		degrees = append(degrees, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degrees)))
	terms := make([]Expr, 0, len(degrees))
	for _, d := range degrees {
		terms = append(terms, MulOf(coeffs[d], PowOf(S(varName), N(int64(d)))))
	}
	return AddOf(terms...)
}
