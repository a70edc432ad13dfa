// Package nthderiv computes nth derivatives of single-variable expressions
// and infers closed-form nth-derivative formulas for a fixed set of
// analytic patterns.
//
// The package has three parts that callers compose:
//
//   - Differentiator builds the derivative prefix of f (orders 0, 1, 2, ...) up to a
//     cap, truncating instead of failing when a step cannot be taken.
//   - Classify matches an expression against an ordered rule list and
//     always returns a PatternMatch, Unclassified being the fallback.
//   - Render turns a PatternMatch into a StructuredFormula, a data value
//     that Instantiate can evaluate at a concrete order.
//
// Solver bundles the three behind a single request type.
//
// Quick start:
//
//	x := symbolic.S("x")
//	f := symbolic.ExpOf(symbolic.MulOf(symbolic.N(2), x))
//	m := nthderiv.Classify(f, "x")           // ScaledExponential, a = 2
//	formula := nthderiv.Render(m)            // 2^n*exp(2*x)
//	d5, _ := nthderiv.NthDerivative(f, "x", 5)
package nthderiv

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/njchilds90/nthderiv/symbolic"
)

var (
	// ErrInvalidOrder is returned for a negative derivative order.
	ErrInvalidOrder = errors.New("derivative order must be a non-negative integer")
	// ErrDifferentiationFailed is returned when the chain was truncated
	// before the requested order.
	ErrDifferentiationFailed = errors.New("differentiation failed")
	// ErrNoClosedForm is returned when a formula cannot be instantiated.
	ErrNoClosedForm = errors.New("no closed-form formula known")
	// ErrUnknownVariable is returned for a variable outside Alphabet or
	// an expression that mentions none of them.
	ErrUnknownVariable = errors.New("unknown differentiation variable")
	// ErrInvalidRequest is returned for a request without an expression
	// or with an unknown mode.
	ErrInvalidRequest = errors.New("invalid request")
)

// Code is a short error class for logs and tool responses.
type Code string

const (
	CodeOK                    Code = "ok"
	CodeInvalidOrder          Code = "invalid_order"
	CodeDifferentiationFailed Code = "differentiation_failed"
	CodeNoClosedForm          Code = "no_closed_form"
	CodeUnknownVariable       Code = "unknown_variable"
	CodeInvalidRequest        Code = "invalid_request"
	CodeEngine                Code = "engine"
	CodeUnknown               Code = "unknown"
)

// ErrorCode classifies err by the sentinel it wraps.
func ErrorCode(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidOrder):
		return CodeInvalidOrder
	case errors.Is(err, ErrDifferentiationFailed):
		return CodeDifferentiationFailed
	case errors.Is(err, ErrNoClosedForm):
		return CodeNoClosedForm
	case errors.Is(err, ErrUnknownVariable):
		return CodeUnknownVariable
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, symbolic.ErrEngine), errors.Is(err, symbolic.ErrNotDifferentiable):
		return CodeEngine
	}
	return CodeUnknown
}

// Variable names the symbol a request differentiates with respect to.
type Variable string

// Alphabet lists the accepted variables in detection priority order.
var Alphabet = []Variable{"x", "y", "z", "a", "b", "c", "t", "k"}

func (v Variable) String() string { return string(v) }

// Symbol returns v as an expression.
func (v Variable) Symbol() *symbolic.Sym { return symbolic.S(string(v)) }

// Valid reports whether v belongs to Alphabet.
func (v Variable) Valid() bool {
	for _, a := range Alphabet {
		if a == v {
			return true
		}
	}
	return false
}

// ParseVariable validates a variable name.
func ParseVariable(s string) (Variable, error) {
	v := Variable(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q (use one of %v)", ErrUnknownVariable, s, Alphabet)
	}
	return v, nil
}

// DetectVariable picks the first Alphabet member that occurs in e.
func DetectVariable(e symbolic.Expr) (Variable, error) {
	syms := symbolic.FreeSymbols(e)
	for _, v := range Alphabet {
		if _, ok := syms[string(v)]; ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: expression %s mentions none of %v", ErrUnknownVariable, e, Alphabet)
}

// Ordinal formats n as "0th", "1st", "2nd", "3rd", "11th", "22nd", ...
func Ordinal(n int) string {
	last2 := n % 100
	if last2 < 0 {
		last2 = -last2
	}
	suffix := "th"
	if last2 < 11 || last2 > 13 {
		switch last2 % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
