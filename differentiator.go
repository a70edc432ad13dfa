package nthderiv

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/njchilds90/nthderiv/symbolic"
)

// StepFunc takes one derivative of expr with respect to varName.
type StepFunc func(expr symbolic.Expr, varName string) (symbolic.Expr, error)

// Option configures a Differentiator.
type Option func(*Differentiator)

// WithStep replaces the differentiation primitive. The default is
// symbolic.SafeDiff.
func WithStep(fn StepFunc) Option {
	return func(d *Differentiator) {
		if fn != nil {
			d.step = fn
		}
	}
}

// WithMaxOrder sets the highest order Chain and Nth accept. Larger
// requests fail with ErrInvalidOrder.
func WithMaxOrder(n int) Option {
	return func(d *Differentiator) {
		if n > 0 {
			d.maxOrder = n
		}
	}
}

// WithLogger sets the logger truncations are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Differentiator) {
		if l != nil {
			d.log = l
		}
	}
}

// Differentiator computes derivative prefixes. It holds no per-call state
// and is safe for concurrent use.
type Differentiator struct {
	step     StepFunc
	maxOrder int
	log      logrus.FieldLogger
}

// DefaultMaxOrder is the highest order a Differentiator computes unless
// WithMaxOrder says otherwise.
const DefaultMaxOrder = 1000

// NewDifferentiator returns a Differentiator using symbolic.SafeDiff, a
// DefaultMaxOrder limit and a discarding logger unless overridden.
func NewDifferentiator(opts ...Option) *Differentiator {
	d := &Differentiator{step: symbolic.SafeDiff, maxOrder: DefaultMaxOrder, log: discardLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxOrder is the highest order d computes.
func (d *Differentiator) MaxOrder() int { return d.maxOrder }

func (d *Differentiator) checkOrder(n int) error {
	if n < 0 || n > d.maxOrder {
		return fmt.Errorf("%w: got %d, want 0..%d", ErrInvalidOrder, n, d.maxOrder)
	}
	return nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// DerivativeSequence holds f and its successive derivatives. Terms[i] is the ith
// derivative. A sequence shorter than Requested+1 was truncated by Err.
type DerivativeSequence struct {
	Var       Variable
	Terms     []symbolic.Expr
	Requested int
	Err       error
}

// Len is the number of computed orders, including order 0.
func (s DerivativeSequence) Len() int { return len(s.Terms) }

// At returns the derivative of order i when it was computed.
func (s DerivativeSequence) At(i int) (symbolic.Expr, bool) {
	if i < 0 || i >= len(s.Terms) {
		return nil, false
	}
	return s.Terms[i], true
}

// Truncated reports whether a step failed before Requested was reached.
func (s DerivativeSequence) Truncated() bool { return s.Err != nil }

// Prefix returns at most n leading terms.
func (s DerivativeSequence) Prefix(n int) []symbolic.Expr {
	if n < 0 {
		n = 0
	}
	if n > len(s.Terms) {
		n = len(s.Terms)
	}
	return s.Terms[:n]
}

// Chain computes orders 0..maxOrder of expr. maxOrder must lie within
// 0..MaxOrder(). A failing step ends the
// sequence early and is recorded in Err; it is not returned as an error.
func (d *Differentiator) Chain(expr symbolic.Expr, v Variable, maxOrder int) (DerivativeSequence, error) {
	if err := d.checkOrder(maxOrder); err != nil {
		return DerivativeSequence{}, err
	}
	seq := DerivativeSequence{
		Var:       v,
		Terms:     make([]symbolic.Expr, 1, min(maxOrder, DefaultTraceDepth)+1),
		Requested: maxOrder,
	}
	seq.Terms[0] = expr
	for order := 1; order <= maxOrder; order++ {
		next, err := d.safeStep(seq.Terms[order-1], string(v))
		if err != nil {
			seq.Err = err
			d.log.WithFields(logrus.Fields{
				"var":   string(v),
				"order": order,
				"error": err,
			}).Debug("derivative chain truncated")
			break
		}
		seq.Terms = append(seq.Terms, next)
	}
	return seq, nil
}

// Nth returns the derivative of order n.
func (d *Differentiator) Nth(expr symbolic.Expr, v Variable, n int) (symbolic.Expr, error) {
	seq, err := d.Chain(expr, v, n)
	if err != nil {
		return nil, err
	}
	if seq.Len() <= n {
		return nil, fmt.Errorf("%w: %s derivative of %s: %w", ErrDifferentiationFailed, Ordinal(seq.Len()), expr, seq.Err)
	}
	return seq.Terms[n], nil
}

func (d *Differentiator) safeStep(expr symbolic.Expr, varName string) (out symbolic.Expr, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("%w: %v", symbolic.ErrEngine, rec)
		}
	}()
	out, err = d.step(expr, varName)
	if err == nil && out == nil {
		err = fmt.Errorf("%w: step returned no expression", symbolic.ErrEngine)
	}
	return out, err
}

var defaultDifferentiator = NewDifferentiator()

// DifferentiateChain is Chain on a default Differentiator.
func DifferentiateChain(expr symbolic.Expr, v Variable, maxOrder int) (DerivativeSequence, error) {
	return defaultDifferentiator.Chain(expr, v, maxOrder)
}

// NthDerivative is Nth on a default Differentiator.
func NthDerivative(expr symbolic.Expr, v Variable, n int) (symbolic.Expr, error) {
	return defaultDifferentiator.Nth(expr, v, n)
}
