package symbolic

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDifferentiable marks a derivative that left an unevaluated
	// D[name] placeholder behind.
	ErrNotDifferentiable = errors.New("symbolic: no known derivative")
	// ErrEngine wraps a panic raised while rewriting an expression.
	ErrEngine = errors.New("symbolic: engine failure")
)

// Sub replaces varName with value and simplifies the result.
func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// Diff is the simplified first derivative. Use SafeDiff when the input
// is untrusted.
func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

// SafeDiff differentiates once and reports failures as errors: a panic in
// the engine wraps ErrEngine, an unevaluated placeholder wraps
// ErrNotDifferentiable.
func SafeDiff(expr Expr, varName string) (d Expr, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			d, err = nil, fmt.Errorf("%w: d/d%s %s: %v", ErrEngine, varName, expr, rec)
		}
	}()
	d = Diff(expr, varName)
	if IsUnevaluated(d) {
		return nil, fmt.Errorf("%w: d/d%s %s", ErrNotDifferentiable, varName, expr)
	}
	return d, nil
}

// Guard runs fn and converts an engine panic into an error.
func Guard(fn func() Expr) (e Expr, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e, err = nil, fmt.Errorf("%w: %v", ErrEngine, rec)
		}
	}()
	return fn(), nil
}
