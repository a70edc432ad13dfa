package nthderiv

import (
	"github.com/njchilds90/nthderiv/symbolic"
)

// The view types are the printable forms used by the JSON, YAML and tool
// outputs. Expressions appear as their canonical strings.

type MatchView struct {
	Pattern     PatternKind `json:"pattern" yaml:"pattern"`
	Rule        string      `json:"rule" yaml:"rule"`
	Degree      int         `json:"degree,omitempty" yaml:"degree,omitempty"`
	Monomial    bool        `json:"monomial,omitempty" yaml:"monomial,omitempty"`
	Coefficient string      `json:"coefficient,omitempty" yaml:"coefficient,omitempty"`
	Argument    string      `json:"argument,omitempty" yaml:"argument,omitempty"`
	Scale       string      `json:"scale,omitempty" yaml:"scale,omitempty"`
	Exponent    string      `json:"exponent,omitempty" yaml:"exponent,omitempty"`
	Partial     bool        `json:"partial,omitempty" yaml:"partial,omitempty"`
	Reason      string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type FormulaView struct {
	Pattern       PatternKind `json:"pattern" yaml:"pattern"`
	Name          string      `json:"name" yaml:"name"`
	Var           Variable    `json:"var" yaml:"var"`
	Order         string      `json:"order_symbol" yaml:"order_symbol"`
	Identity      string      `json:"identity,omitempty" yaml:"identity,omitempty"`
	Template      string      `json:"template,omitempty" yaml:"template,omitempty"`
	TemplateLaTeX string      `json:"template_latex,omitempty" yaml:"template_latex,omitempty"`
	Domain        string      `json:"domain" yaml:"domain"`
	Initial       string      `json:"initial,omitempty" yaml:"initial,omitempty"`
	Beyond        string      `json:"beyond,omitempty" yaml:"beyond,omitempty"`
	Cycle         []string    `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Facts         []string    `json:"facts,omitempty" yaml:"facts,omitempty"`
	Guidance      []string    `json:"guidance,omitempty" yaml:"guidance,omitempty"`
	Partial       bool        `json:"partial,omitempty" yaml:"partial,omitempty"`
}

type TraceView struct {
	Terms     []string `json:"terms" yaml:"terms"`
	Requested int      `json:"requested" yaml:"requested"`
	Truncated bool     `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type ResultView struct {
	Var        Variable     `json:"var" yaml:"var"`
	Mode       Mode         `json:"mode" yaml:"mode"`
	Expr       string       `json:"expr" yaml:"expr"`
	Order      *int         `json:"order,omitempty" yaml:"order,omitempty"`
	Derivative string       `json:"derivative,omitempty" yaml:"derivative,omitempty"`
	Simplified string       `json:"simplified,omitempty" yaml:"simplified,omitempty"`
	Match      *MatchView   `json:"match,omitempty" yaml:"match,omitempty"`
	Formula    *FormulaView `json:"formula,omitempty" yaml:"formula,omitempty"`
	Trace      *TraceView   `json:"trace,omitempty" yaml:"trace,omitempty"`
}

type CatalogView struct {
	Label    string `json:"label" yaml:"label"`
	Identity string `json:"identity" yaml:"identity"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

func str(e symbolic.Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func strs(es []symbolic.Expr) []string {
	if len(es) == 0 {
		return nil
	}
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = str(e)
	}
	return out
}

func (m PatternMatch) View() MatchView {
	return MatchView{
		Pattern:     m.Kind,
		Rule:        m.Rule,
		Degree:      m.Degree,
		Monomial:    m.Monomial,
		Coefficient: str(m.Coefficient),
		Argument:    str(m.Argument),
		Scale:       str(m.Scale),
		Exponent:    str(m.Exponent),
		Partial:     m.Partial,
		Reason:      m.Reason,
	}
}

func (f StructuredFormula) View() FormulaView {
	v := FormulaView{
		Pattern:  f.Pattern,
		Name:     f.Name,
		Var:      f.Var,
		Order:    f.Order,
		Identity: f.Identity,
		Template: str(f.Template),
		Domain:   f.Domain.String(),
		Initial:  str(f.Initial),
		Beyond:   str(f.Beyond),
		Cycle:    strs(f.Cycle),
		Facts:    f.Facts,
		Guidance: f.Guidance,
		Partial:  f.Partial,
	}
	if f.Template != nil {
		v.TemplateLaTeX = f.Template.LaTeX()
	}
	return v
}

func (s DerivativeSequence) View() TraceView {
	v := TraceView{Terms: strs(s.Terms), Requested: s.Requested, Truncated: s.Truncated()}
	if v.Terms == nil {
		v.Terms = []string{}
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	return v
}

func (r Result) View() ResultView {
	v := ResultView{
		Var:        r.Var,
		Mode:       r.Mode,
		Expr:       str(r.Expr),
		Derivative: str(r.Derivative),
		Simplified: str(r.Simplified),
	}
	if r.Mode.wantsOrder() {
		order := r.Order
		v.Order = &order
	}
	if r.Match != nil {
		mv := r.Match.View()
		v.Match = &mv
	}
	if r.Formula != nil {
		fv := r.Formula.View()
		v.Formula = &fv
	}
	if r.Trace != nil {
		tv := r.Trace.View()
		v.Trace = &tv
	}
	return v
}

func (c CatalogEntry) View() CatalogView {
	return CatalogView{Label: c.Label, Identity: c.Formula.Identity, Template: str(c.Formula.Template)}
}
