package nthderiv

import (
	"fmt"

	"github.com/njchilds90/nthderiv/symbolic"
)

// PatternKind tags the analytic family an expression was matched to.
type PatternKind int

const (
	Unclassified PatternKind = iota
	Polynomial
	PureExponential
	ScaledExponential
	Sine
	Cosine
	NaturalLog
	Reciprocal
	SymbolicPower
)

var patternNames = [...]string{
	Unclassified:      "unclassified",
	Polynomial:        "polynomial",
	PureExponential:   "pure_exponential",
	ScaledExponential: "scaled_exponential",
	Sine:              "sine",
	Cosine:            "cosine",
	NaturalLog:        "natural_log",
	Reciprocal:        "reciprocal",
	SymbolicPower:     "symbolic_power",
}

func (k PatternKind) String() string {
	if k < 0 || int(k) >= len(patternNames) {
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
	return patternNames[k]
}

func (k PatternKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PatternKind) UnmarshalText(b []byte) error {
	for i, name := range patternNames {
		if name == string(b) {
			*k = PatternKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pattern kind %q", string(b))
}

// HasClosedForm reports whether the family carries a general formula.
func (k PatternKind) HasClosedForm() bool { return k != Unclassified }

// PatternMatch is the result of Classify. Only the fields relevant to
// Kind are set.
type PatternMatch struct {
	Kind PatternKind
	Var  Variable
	Expr symbolic.Expr

	// Polynomial: degree after expansion; Monomial when the expression
	// is a single term Coefficient*var^Degree with Degree >= 1.
	Degree   int
	Monomial bool

	// Monomial coefficient, or the linear coefficient a of an exponential
	// argument a*var + b.
	Coefficient symbolic.Expr

	// ScaledExponential: the exponential's argument, and the factor it is
	// multiplied by when the whole expression is Scale*exp(Argument).
	Argument symbolic.Expr
	Scale    symbolic.Expr

	// SymbolicPower: the exponent k of var^k.
	Exponent symbolic.Expr

	// Partial is set when the formula describes an assumed form (var^k)
	// or a sub-term (the exponential factor) rather than the whole
	// expression.
	Partial bool

	// Rule names the classifier rule that produced the match.
	Rule string
	// Reason explains an Unclassified result.
	Reason string
}

func (m PatternMatch) String() string {
	switch m.Kind {
	case Polynomial:
		if m.Monomial {
			return fmt.Sprintf("%s (degree %d, monomial, c = %s)", m.Kind, m.Degree, m.Coefficient)
		}
		return fmt.Sprintf("%s (degree %d)", m.Kind, m.Degree)
	case ScaledExponential:
		return fmt.Sprintf("%s (a = %s, argument %s)", m.Kind, m.Coefficient, m.Argument)
	case SymbolicPower:
		return fmt.Sprintf("%s (k = %s)", m.Kind, m.Exponent)
	case Unclassified:
		if m.Reason != "" {
			return fmt.Sprintf("%s (%s)", m.Kind, m.Reason)
		}
	}
	return m.Kind.String()
}
