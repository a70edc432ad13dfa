package symbolic

// Expand distributes products over sums and multiplies out small
// non-negative integer powers.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()) }

// maxExpandPower bounds the integer powers multiplied out by Expand.
const maxExpandPower = 10

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = expandProduct(result, expandExpr(f))
		}
		return result
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok {
			if k, ok2 := n.Int64(); ok2 && k >= 0 && k <= maxExpandPower {
				result := Expr(N(1))
				for i := int64(0); i < k; i++ {
					result = expandProduct(result, base)
				}
				return result
			}
		}
		return PowOf(base, expandExpr(v.exp))
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// expandProduct multiplies two expanded expressions term by term.
func expandProduct(a, b Expr) Expr {
	ta, tb := addTerms(a), addTerms(b)
	out := make([]Expr, 0, len(ta)*len(tb))
	for _, x := range ta {
		for _, y := range tb {
			out = append(out, MulOf(x, y))
		}
	}
	return AddOf(out...)
}

// Canonicalize expands and fully simplifies an expression.
func Canonicalize(e Expr) Expr { return Expand(e).Simplify() }

// TrigSimplify applies sin²+cos²=1 inside sums, plus the exp/ln inverse
// pairs already applied by construction.
func TrigSimplify(e Expr) Expr {
	return trigSimplifyExpr(e.Simplify()).Simplify()
}

func trigSimplifyExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = trigSimplifyExpr(t)
		}
		return trigFindPythagorean(AddOf(newTerms...))
	case *Mul:
		newFactors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			newFactors[i] = trigSimplifyExpr(f)
		}
		return MulOf(newFactors...)
	case *Pow:
		return PowOf(trigSimplifyExpr(v.base), v.exp)
	case *Func:
		return funcOf(v.name, trigSimplifyExpr(v.arg)).Simplify()
	}
	return e
}

func trigFindPythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	type trigTerm struct {
		funcName string
		argStr   string
		coeff    *Num
		idx      int
	}
	var trigTerms []trigTerm
	for idx, t := range add.terms {
		coeff, inner := extractCoefficient(t)
		p, ok2 := inner.(*Pow)
		if !ok2 || !isNumEqual(p.exp, 2) {
			continue
		}
		if fn, ok3 := p.base.(*Func); ok3 && (fn.name == "sin" || fn.name == "cos") {
			trigTerms = append(trigTerms, trigTerm{fn.name, fn.arg.String(), coeff, idx})
		}
	}
	for i := 0; i < len(trigTerms); i++ {
		for j := i + 1; j < len(trigTerms); j++ {
			ti, tj := trigTerms[i], trigTerms[j]
			if ti.argStr == tj.argStr && ti.funcName != tj.funcName && ti.coeff.Equal(tj.coeff) {
				newTerms := []Expr{}
				for idx, t := range add.terms {
					if idx != ti.idx && idx != tj.idx {
						newTerms = append(newTerms, t)
					}
				}
				newTerms = append(newTerms, ti.coeff)
				return AddOf(newTerms...)
			}
		}
	}
	return e
}

// DeepSimplify applies repeated trig and expansion passes until the printed
// form is stable, keeping whichever candidate prints shortest.
func DeepSimplify(e Expr) Expr {
	best := e.Simplify()
	prev := ""
	curr := best
	for i := 0; i < 10; i++ {
		str := curr.String()
		if str == prev {
			break
		}
		prev = str
		if len(str) < len(best.String()) {
			best = curr
		}
		curr = TrigSimplify(curr)
	}
	if expanded := Canonicalize(best); len(expanded.String()) < len(best.String()) {
		best = expanded
	}
	return best
}
