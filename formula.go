package nthderiv

import (
	"fmt"

	"github.com/njchilds90/nthderiv/symbolic"
)

// Domain is the range of orders n a formula template covers.
type Domain struct {
	Lower   int  `json:"lower" yaml:"lower"`
	Upper   int  `json:"upper,omitempty" yaml:"upper,omitempty"`
	Bounded bool `json:"bounded" yaml:"bounded"`
}

// Contains reports whether n lies in the domain.
func (d Domain) Contains(n int) bool {
	return n >= d.Lower && (!d.Bounded || n <= d.Upper)
}

func (d Domain) String() string {
	if d.Bounded {
		return fmt.Sprintf("%d ≤ n ≤ %d", d.Lower, d.Upper)
	}
	return fmt.Sprintf("n ≥ %d", d.Lower)
}

// StructuredFormula describes the general nth derivative of a matched
// pattern. Template is an expression in Var and the order symbol Order;
// it is nil when no closed form is known.
type StructuredFormula struct {
	Pattern PatternKind
	Name    string
	Var     Variable
	Order   string
	Expr    symbolic.Expr

	Template symbolic.Expr
	// Identity is the textbook statement of the formula.
	Identity string
	Domain   Domain
	// Initial is f^(0) when the template starts above order 0.
	Initial symbolic.Expr
	// Beyond is the value of every order past a bounded domain.
	Beyond symbolic.Expr
	// Cycle lists f^(n) by n mod len(Cycle) for periodic patterns.
	Cycle []symbolic.Expr

	Facts    []string
	Guidance []string
	Partial  bool

	match PatternMatch
}

// HasClosedForm reports whether Instantiate can produce derivatives.
func (f StructuredFormula) HasClosedForm() bool {
	return !f.Partial && (f.Template != nil || len(f.Cycle) > 0)
}

var unclassifiedGuidance = []string{
	"Leibniz rule for products",
	"chain rule for compositions",
	"Faà di Bruno's formula for nested functions",
	"observe the derivative trace to infer the pattern",
}

// Render builds the formula for m. It performs no I/O.
func Render(m PatternMatch) StructuredFormula {
	x := m.Var.Symbol()
	order := orderSymbol(m)
	n := symbolic.S(order)
	f := StructuredFormula{
		Pattern: m.Kind,
		Var:     m.Var,
		Order:   order,
		Expr:    m.Expr,
		Domain:  Domain{Lower: 0},
		Partial: m.Partial,
		match:   m,
	}

	switch m.Kind {
	case Polynomial:
		renderPolynomial(&f, m, x, n)

	case PureExponential:
		f.Name = fmt.Sprintf("Simple exponential e^%s", m.Var)
		f.Template = symbolic.ExpOf(x)
		f.Identity = fmt.Sprintf("f^(n)(%s) = e^%s for all n ≥ 0", m.Var, m.Var)

	case ScaledExponential:
		f.Name = fmt.Sprintf("Exponential e^(%s)", m.Argument)
		scale := m.Scale
		if scale == nil {
			scale = symbolic.N(1)
		}
		f.Template = symbolic.MulOf(scale, symbolic.PowOf(m.Coefficient, n), symbolic.ExpOf(m.Argument))
		f.Identity = fmt.Sprintf("f^(n)(%s) = %s^n × e^(%s) for all n ≥ 0", m.Var, m.Coefficient, m.Argument)
		f.Facts = []string{fmt.Sprintf("each derivative multiplies e^(%s) by %s", m.Argument, m.Coefficient)}
		if m.Partial {
			f.Facts = append(f.Facts, fmt.Sprintf("the formula covers the factor e^(%s) only", m.Argument))
			f.Guidance = []string{"Leibniz rule for the product with the remaining factors"}
		}

	case Sine, Cosine:
		renderTrig(&f, m, x, n)

	case NaturalLog:
		f.Name = "Natural logarithm"
		nm1 := symbolic.AddOf(n, symbolic.N(-1))
		f.Template = symbolic.MulOf(
			symbolic.PowOf(symbolic.N(-1), nm1),
			symbolic.FactorialOf(nm1),
			symbolic.PowOf(x, symbolic.MulOf(symbolic.N(-1), n)),
		)
		f.Domain = Domain{Lower: 1}
		f.Initial = symbolic.LnOf(x)
		f.Identity = fmt.Sprintf("f^(n)(%s) = (-1)^(n-1) × (n-1)! / %s^n for n ≥ 1", m.Var, m.Var)
		f.Facts = []string{fmt.Sprintf("f^(0)(%s) = ln(%s)", m.Var, m.Var)}

	case Reciprocal:
		f.Name = fmt.Sprintf("Reciprocal function 1/%s", m.Var)
		f.Template = symbolic.MulOf(
			symbolic.PowOf(symbolic.N(-1), n),
			symbolic.FactorialOf(n),
			symbolic.PowOf(x, symbolic.MulOf(symbolic.N(-1), symbolic.AddOf(n, symbolic.N(1)))),
		)
		f.Identity = fmt.Sprintf("f^(n)(%s) = (-1)^n × n! / %s^(n+1) for n ≥ 0", m.Var, m.Var)

	case SymbolicPower:
		k := m.Exponent
		f.Name = fmt.Sprintf("Power function %s^%s", m.Var, k)
		f.Template = symbolic.MulOf(
			symbolic.FallingFactorialOf(k, n),
			symbolic.PowOf(x, symbolic.AddOf(k, symbolic.MulOf(symbolic.N(-1), n))),
		)
		f.Identity = fmt.Sprintf("f^(n)(%s) = k(k-1)(k-2)...(k-n+1) × %s^(k-n) = [k!/(k-n)!] × %s^(k-n)", m.Var, m.Var, m.Var)
		f.Facts = []string{"k!/(k-n)! is the falling factorial (Pochhammer symbol) P(k,n)"}
		if m.Partial {
			f.Name = "Function with multiple variables"
			f.Facts = append(f.Facts, fmt.Sprintf("the expression is read as the power function %s^%s", m.Var, k))
		}

	default:
		f.Name = "Complex function"
		f.Guidance = unclassifiedGuidance
		if m.Reason != "" {
			f.Facts = []string{m.Reason}
		}
	}
	return f
}

func renderPolynomial(f *StructuredFormula, m PatternMatch, x *symbolic.Sym, n *symbolic.Sym) {
	d := int64(m.Degree)
	f.Name = fmt.Sprintf("Polynomial of degree %d", m.Degree)
	f.Domain = Domain{Lower: 0, Upper: m.Degree, Bounded: true}
	f.Beyond = symbolic.N(0)
	f.Facts = []string{
		fmt.Sprintf("f^(n)(%s) = 0 for n > %d", m.Var, m.Degree),
		fmt.Sprintf("f^(n)(%s) involves the falling factorial", m.Var),
	}
	switch {
	case m.Degree == 0:
		f.Template = m.Expr
		f.Identity = fmt.Sprintf("f^(n)(%s) = 0 for n > 0", m.Var)
	case m.Monomial:
		f.Template = symbolic.MulOf(
			m.Coefficient,
			symbolic.FallingFactorialOf(symbolic.N(d), n),
			symbolic.PowOf(x, symbolic.AddOf(symbolic.N(d), symbolic.MulOf(symbolic.N(-1), n))),
		)
		coeff := ""
		if !m.Coefficient.Equal(symbolic.N(1)) {
			coeff = m.Coefficient.String() + " × "
		}
		f.Identity = fmt.Sprintf("f^(n)(%s) = %s%d!/((%d-n)!) × %s^(%d-n) for 0 ≤ n ≤ %d",
			m.Var, coeff, d, d, m.Var, d, d)
	default:
		f.Identity = fmt.Sprintf("f^(n)(%s) = 0 for n > %d", m.Var, m.Degree)
		f.Facts = append(f.Facts, "no coefficient formula for polynomials with several terms; use the derivative trace")
	}
}

func renderTrig(f *StructuredFormula, m PatternMatch, x *symbolic.Sym, n *symbolic.Sym) {
	neg := func(e symbolic.Expr) symbolic.Expr { return symbolic.MulOf(symbolic.N(-1), e) }
	sin, cos := symbolic.SinOf(x), symbolic.CosOf(x)
	shift := symbolic.AddOf(x, symbolic.MulOf(symbolic.F(1, 2), n, symbolic.S("pi")))
	if m.Kind == Sine {
		f.Name = "Simple sine function"
		f.Template = symbolic.SinOf(shift)
		f.Cycle = []symbolic.Expr{sin, cos, neg(sin), neg(cos)}
		f.Identity = fmt.Sprintf("f^(n)(%s) = sin(%s + nπ/2)", m.Var, m.Var)
	} else {
		f.Name = "Simple cosine function"
		f.Template = symbolic.CosOf(shift)
		f.Cycle = []symbolic.Expr{cos, neg(sin), neg(cos), sin}
		f.Identity = fmt.Sprintf("f^(n)(%s) = cos(%s + nπ/2)", m.Var, m.Var)
	}
	f.Facts = []string{"pattern cycles every 4 derivatives"}
}

// orderSymbol picks a name for the order that does not clash with a
// symbol of the expression.
func orderSymbol(m PatternMatch) string {
	used := map[string]struct{}{}
	if m.Expr != nil {
		used = symbolic.FreeSymbols(m.Expr)
	}
	if m.Exponent != nil {
		for s := range symbolic.FreeSymbols(m.Exponent) {
			used[s] = struct{}{}
		}
	}
	for _, name := range []string{"n", "m", "j", "i"} {
		if _, clash := used[name]; !clash && Variable(name) != m.Var {
			return name
		}
	}
	return "order"
}

// Instantiate evaluates f at the concrete order n. It returns
// ErrInvalidOrder for n < 0 and ErrNoClosedForm when the formula has no
// exact template for that order.
func Instantiate(f StructuredFormula, n int) (symbolic.Expr, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, n)
	}
	if f.Partial {
		return nil, fmt.Errorf("%w: %s formula covers an assumed form only", ErrNoClosedForm, f.Pattern)
	}
	if f.Domain.Bounded && n > f.Domain.Upper {
		if f.Beyond == nil {
			return nil, fmt.Errorf("%w: order %d beyond %s", ErrNoClosedForm, n, f.Domain)
		}
		return f.Beyond, nil
	}
	if n < f.Domain.Lower {
		if n == 0 && f.Initial != nil {
			return f.Initial, nil
		}
		return nil, fmt.Errorf("%w: order %d outside %s", ErrNoClosedForm, n, f.Domain)
	}
	if len(f.Cycle) > 0 {
		return f.Cycle[n%len(f.Cycle)], nil
	}
	if f.Pattern == SymbolicPower {
		return fallingPower(f.match.Exponent, f.Var, n), nil
	}
	if f.Template == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoClosedForm, f.Pattern)
	}
	return symbolic.Guard(func() symbolic.Expr {
		return symbolic.Sub(f.Template, f.Order, symbolic.N(int64(n)))
	})
}

// fallingPower is k(k-1)...(k-n+1)*x^(k-n) with the product written out,
// matching the form repeated differentiation produces.
func fallingPower(k symbolic.Expr, v Variable, n int) symbolic.Expr {
	factors := make([]symbolic.Expr, 0, n+1)
	for i := 0; i < n; i++ {
		factors = append(factors, symbolic.AddOf(k, symbolic.N(int64(-i))))
	}
	factors = append(factors, symbolic.PowOf(v.Symbol(), symbolic.AddOf(k, symbolic.N(int64(-n)))))
	return symbolic.MulOf(factors...)
}
