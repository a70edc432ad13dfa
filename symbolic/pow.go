package symbolic

import (
	"math"
	"math/big"
)

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// maxExactPower bounds exact rational exponentiation of numeric bases.
const maxExactPower = 1000

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	// 0^0 is indeterminate and 0^negative is division by zero; both stay unevaluated.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 && en.IsNegative() {
			return &Pow{base: base, exp: exp}
		}
		return N(0)
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 {
			if e, ok3 := en.Int64(); ok3 && e >= -maxExactPower && e <= maxExactPower {
				return ratPow(bn, e)
			}
		}
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	if fn, ok := base.(*Func); ok && fn.name == "exp" {
		if _, ok2 := exp.(*Num); ok2 {
			return ExpOf(MulOf(fn.arg, exp))
		}
	}
	if m, ok := base.(*Mul); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			factors := make([]Expr, len(m.factors))
			for i, f := range m.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

// ratPow computes b^e exactly for a non-zero rational base.
func ratPow(b *Num, e int64) *Num {
	abs := e
	if abs < 0 {
		abs = -abs
	}
	k := big.NewInt(abs)
	num := new(big.Int).Exp(b.val.Num(), k, nil)
	den := new(big.Int).Exp(b.val.Denom(), k, nil)
	r := &Num{val: new(big.Rat).SetFrac(num, den)}
	if e < 0 {
		return numRecip(r)
	}
	return r
}

// atomicExponent reports whether an exponent prints unambiguously without
// parentheses.
func atomicExponent(e Expr) bool {
	switch v := e.(type) {
	case *Sym, *Func:
		return true
	case *Num:
		return v.IsInteger() && !v.IsNegative()
	}
	return false
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	expStr := p.exp.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "(" + baseStr + ")"
		}
	}
	if !atomicExponent(p.exp) {
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	baseStr := p.base.LaTeX()
	expStr := p.exp.LaTeX()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "\\left(" + baseStr + "\\right)"
		}
	}
	return baseStr + "^{" + expStr + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if _, baseIsNum := p.base.(*Num); baseIsNum {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if k, ok := e.Int64(); ok && !b.IsZero() && k >= -maxExactPower && k <= maxExactPower {
		return ratPow(b, k), true
	}
	pf := math.Pow(b.Float64(), e.Float64())
	if math.IsNaN(pf) || math.IsInf(pf, 0) {
		return nil, false
	}
	return NFloat(pf), true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }
