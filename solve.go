package nthderiv

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/njchilds90/nthderiv/symbolic"
)

// Mode selects what a Request asks for.
type Mode int

const (
	// SpecificOrder asks for the derivative of one concrete order.
	SpecificOrder Mode = iota + 1
	// GeneralFormula asks for the closed-form nth derivative.
	GeneralFormula
	// Both asks for a concrete order and the general formula.
	Both
)

var modeNames = map[Mode]string{
	SpecificOrder:  "specific",
	GeneralFormula: "general",
	Both:           "both",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode accepts the mode names and the menu numbers 1, 2 and 3.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "specific", "order":
		return SpecificOrder, nil
	case "2", "general", "formula":
		return GeneralFormula, nil
	case "3", "both":
		return Both, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, s)
}

func (m Mode) wantsOrder() bool   { return m == SpecificOrder || m == Both }
func (m Mode) wantsFormula() bool { return m == GeneralFormula || m == Both }

// Request is one derivative question. An empty Var is detected from Expr.
type Request struct {
	Expr  symbolic.Expr
	Var   Variable
	Mode  Mode
	Order int
}

// Result answers a Request. Derivative and Simplified are set for
// SpecificOrder and Both; Match, Formula and Trace for GeneralFormula and
// Both. Simplified is nil unless it differs from Derivative.
type Result struct {
	Var        Variable
	Mode       Mode
	Order      int
	Expr       symbolic.Expr
	Derivative symbolic.Expr
	Simplified symbolic.Expr
	Match      *PatternMatch
	Formula    *StructuredFormula
	Trace      *DerivativeSequence
}

// DefaultTraceDepth is the number of orders, starting at 0, computed for
// the derivative trace.
const DefaultTraceDepth = 10

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithDifferentiator sets the differentiator used for orders and traces.
func WithDifferentiator(d *Differentiator) SolverOption {
	return func(s *Solver) {
		if d != nil {
			s.diff = d
		}
	}
}

// WithTraceDepth sets how many orders the trace holds.
func WithTraceDepth(n int) SolverOption {
	return func(s *Solver) {
		if n > 0 {
			s.traceDepth = n
		}
	}
}

// WithSimplify toggles the simplified form of concrete derivatives.
func WithSimplify(on bool) SolverOption {
	return func(s *Solver) { s.simplify = on }
}

// WithSolverLogger sets the logger requests are reported to.
func WithSolverLogger(l logrus.FieldLogger) SolverOption {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// Solver answers Requests. It keeps no state between calls.
type Solver struct {
	diff       *Differentiator
	traceDepth int
	simplify   bool
	log        logrus.FieldLogger
}

// NewSolver returns a Solver with a default Differentiator, a trace of
// DefaultTraceDepth orders and simplification on.
func NewSolver(opts ...SolverOption) *Solver {
	s := &Solver{
		diff:       defaultDifferentiator,
		traceDepth: DefaultTraceDepth,
		simplify:   true,
		log:        discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve answers req. The result is filled as far as possible even when
// the concrete order fails: in Both mode the formula and trace are still
// returned alongside ErrDifferentiationFailed.
func (s *Solver) Solve(req Request) (Result, error) {
	if req.Expr == nil {
		return Result{}, fmt.Errorf("%w: missing expression", ErrInvalidRequest)
	}
	if _, ok := modeNames[req.Mode]; !ok {
		return Result{}, fmt.Errorf("%w: unknown mode %d", ErrInvalidRequest, int(req.Mode))
	}
	v := req.Var
	var err error
	if v == "" {
		v, err = DetectVariable(req.Expr)
	} else {
		v, err = ParseVariable(string(v))
	}
	if err != nil {
		return Result{}, err
	}
	if req.Mode.wantsOrder() {
		if err := s.diff.checkOrder(req.Order); err != nil {
			return Result{}, err
		}
	}

	log := s.log.WithFields(logrus.Fields{"var": string(v), "mode": req.Mode.String()})
	res := Result{Var: v, Mode: req.Mode, Order: req.Order, Expr: req.Expr}

	var orderErr error
	if req.Mode.wantsOrder() {
		res.Derivative, orderErr = s.diff.Nth(req.Expr, v, req.Order)
		if orderErr == nil && s.simplify {
			res.Simplified = simplifiedIfDifferent(res.Derivative)
		}
		log.WithField("order", req.Order).Debug("computed derivative")
	}
	if req.Mode.wantsFormula() {
		match := Classify(req.Expr, v)
		formula := Render(match)
		trace, _ := s.diff.Chain(req.Expr, v, min(s.traceDepth-1, s.diff.MaxOrder()))
		res.Match, res.Formula, res.Trace = &match, &formula, &trace
		log.WithFields(logrus.Fields{
			"pattern":   match.Kind.String(),
			"trace_len": trace.Len(),
		}).Debug("classified expression")
	}
	if orderErr != nil {
		log.WithError(orderErr).Warn("derivative not available")
		return res, orderErr
	}
	return res, nil
}

// simplifiedIfDifferent returns the deep-simplified form of e, or nil when
// simplification does not change it or fails.
func simplifiedIfDifferent(e symbolic.Expr) symbolic.Expr {
	simp, err := symbolic.Guard(func() symbolic.Expr { return symbolic.DeepSimplify(e) })
	if err != nil || simp.Equal(e) {
		return nil
	}
	return simp
}
