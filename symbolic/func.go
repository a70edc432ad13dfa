package symbolic

import (
	"math"
	"math/big"
	"strings"
)

// Func is a named function applied to one argument.
type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

// FuncOf applies a named function. Unknown names are kept as opaque
// applications and differentiate to a D[name] placeholder.
func FuncOf(name string, arg Expr) Expr {
	if name == "log" {
		name = "ln"
	}
	return funcOf(name, arg).Simplify()
}

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr    { return funcOf("ln", arg).Simplify() }
func LogOf(arg Expr) Expr   { return LnOf(arg) }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr  { return funcOf("sign", arg).Simplify() }

// FactorialOf is arg!. It evaluates exactly for non-negative integers.
func FactorialOf(arg Expr) Expr { return funcOf("factorial", arg).Simplify() }

// FallingFactorialOf is k(k-1)...(k-n+1) written as k!/(k-n)!.
func FallingFactorialOf(k, n Expr) Expr {
	return MulOf(FactorialOf(k), PowOf(FactorialOf(AddOf(k, MulOf(N(-1), n))), N(-1)))
}

// maxExactFactorial bounds exact factorial evaluation.
const maxExactFactorial = 1000

func exactFactorial(n *Num) (*Num, bool) {
	k, ok := n.Int64()
	if !ok || k < 0 || k > maxExactFactorial {
		return nil, false
	}
	return NBig(new(big.Int).MulRange(1, k)), true
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if f.name == "factorial" {
			if v, exact := exactFactorial(n); exact {
				return v
			}
			return &Func{name: f.name, arg: arg}
		}
		if v, ok2 := evalFunc(f.name, n); ok2 {
			return v
		}
	}
	switch f.name {
	case "ln":
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if m, ok := arg.(*Mul); ok && len(m.factors) >= 2 {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegOne() {
				inner := m.factors[1:]
				if len(inner) == 1 {
					return AbsOf(inner[0])
				}
				return AbsOf(MulOf(inner...))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

// evalFunc folds a function applied to a number. Exact where the result is
// rational at the point (sin 0, cos 0, exp 0, ln 1), floating otherwise.
func evalFunc(name string, n *Num) (*Num, bool) {
	switch name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh":
		if n.IsZero() {
			return N(0), true
		}
	case "cos", "cosh", "exp":
		if n.IsZero() {
			return N(1), true
		}
	case "ln":
		if n.IsOne() {
			return N(0), true
		}
	case "abs":
		return numAbs(n), true
	case "sign":
		switch {
		case n.IsPositive():
			return N(1), true
		case n.IsNegative():
			return N(-1), true
		default:
			return N(0), true
		}
	}
	fn, ok := floatFuncs[name]
	if !ok {
		return nil, false
	}
	r := fn(n.Float64())
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, false
	}
	return NFloat(r), true
}

// floatFuncs evaluate at non-special numeric points. Results outside the
// domain come back NaN or infinite and are rejected by evalFunc.
var floatFuncs = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"ln":    math.Log,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

func numAbs(a *Num) *Num {
	if a.IsNegative() {
		return numNeg(a)
	}
	return a
}

func (f *Func) String() string {
	if f.name == "factorial" {
		switch a := f.arg.(type) {
		case *Sym:
			return a.String() + "!"
		case *Num:
			if a.IsInteger() && !a.IsNegative() {
				return a.String() + "!"
			}
		}
		return "(" + f.arg.String() + ")!"
	}
	return f.name + "(" + f.arg.String() + ")"
}

// latexWrap gives the opening and closing LaTeX around a function
// argument.
var latexWrap = map[string][2]string{
	"sin":   {`\sin\left(`, `\right)`},
	"cos":   {`\cos\left(`, `\right)`},
	"tan":   {`\tan\left(`, `\right)`},
	"exp":   {`\exp\left(`, `\right)`},
	"sinh":  {`\sinh\left(`, `\right)`},
	"cosh":  {`\cosh\left(`, `\right)`},
	"tanh":  {`\tanh\left(`, `\right)`},
	"ln":    {`\ln\left(`, `\right)`},
	"asin":  {`\arcsin\left(`, `\right)`},
	"acos":  {`\arccos\left(`, `\right)`},
	"atan":  {`\arctan\left(`, `\right)`},
	"abs":   {`\left|`, `\right|`},
	"floor": {`\lfloor `, ` \rfloor`},
	"ceil":  {`\lceil `, ` \rceil`},
	"sign":  {`\operatorname{sign}\left(`, `\right)`},
}

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	if f.name == "factorial" {
		if _, ok := f.arg.(*Sym); ok {
			return arg + "!"
		}
		return `\left(` + arg + `\right)!`
	}
	if w, ok := latexWrap[f.name]; ok {
		return w[0] + arg + w[1]
	}
	return `\operatorname{` + f.name + `}\left(` + arg + `\right)`
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

// Diff applies the chain rule. Functions without a known derivative
// produce a D[name] placeholder; see IsUnevaluated.
func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isNumEqual(du, 0) {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	default:
		return MulOf(funcOf(unevaluatedPrefix+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du)
}

const unevaluatedPrefix = "D["

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	if f.name == "factorial" {
		return exactFactorial(n)
	}
	return evalFunc(f.name, n)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// IsUnevaluated reports whether e contains a derivative placeholder
// produced for a function with no known derivative.
func IsUnevaluated(e Expr) bool {
	found := false
	walk(e, func(n Expr) bool {
		if fn, ok := n.(*Func); ok && strings.HasPrefix(fn.name, unevaluatedPrefix) {
			found = true
		}
		return !found
	})
	return found
}
