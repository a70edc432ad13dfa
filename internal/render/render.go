// Package render prints solver results as human-readable text, JSON or
// YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/nthderiv"
	"github.com/njchilds90/nthderiv/internal/config"
)

const ruleWidth = 70

// Renderer writes results in one output format.
type Renderer struct {
	Out    io.Writer
	Format string
	Color  bool
	// TraceDisplay caps the number of trace orders printed in human output.
	TraceDisplay int
}

// Document is the machine-readable envelope for a result.
type Document struct {
	Result *nthderiv.ResultView `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string               `json:"error,omitempty" yaml:"error,omitempty"`
	Code   nthderiv.Code        `json:"code,omitempty" yaml:"code,omitempty"`
}

// Result writes res and, when it is non-nil, err. A result with Mode 0
// was never produced and only the error is written.
func (r *Renderer) Result(res nthderiv.Result, err error) error {
	doc := Document{}
	if res.Mode != 0 {
		v := res.View()
		doc.Result = &v
	}
	if err != nil {
		doc.Error, doc.Code = err.Error(), nthderiv.ErrorCode(err)
	}
	switch r.Format {
	case config.OutputJSON:
		return r.json(doc)
	case config.OutputYAML:
		return r.yaml(doc)
	}
	if doc.Result != nil {
		r.humanResult(res)
	}
	if err != nil {
		r.paint(color.FgRed, color.Bold).Fprintf(r.Out, "\n✗ %s\n", err)
	}
	return nil
}

// Catalog writes the list of common general derivatives.
func (r *Renderer) Catalog(entries []nthderiv.CatalogEntry) error {
	views := make([]nthderiv.CatalogView, len(entries))
	for i, e := range entries {
		views[i] = e.View()
	}
	switch r.Format {
	case config.OutputJSON:
		return r.json(views)
	case config.OutputYAML:
		return r.yaml(views)
	}
	r.heading("ADDITIONAL FORMULAS:")
	fmt.Fprintln(r.Out, "\nCommon general derivatives:")
	for _, v := range views {
		fmt.Fprintf(r.Out, "  • %-14s = %s\n", v.Label, identityBody(v.Identity))
	}
	fmt.Fprintln(r.Out, strings.Repeat("=", ruleWidth))
	return nil
}

func (r *Renderer) json(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.Out, string(out))
	return err
}

func (r *Renderer) yaml(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.Out.Write(out)
	return err
}

func (r *Renderer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (r *Renderer) heading(title string) {
	fmt.Fprintln(r.Out, "\n"+strings.Repeat("=", ruleWidth))
	r.paint(color.FgCyan, color.Bold).Fprintln(r.Out, title)
	fmt.Fprintln(r.Out, strings.Repeat("=", ruleWidth))
}

func (r *Renderer) humanResult(res nthderiv.Result) {
	v := res.Var
	fmt.Fprintf(r.Out, "\nf(%s) = %s\n", v, res.Expr)

	if res.Derivative != nil {
		label := nthderiv.Ordinal(res.Order) + " derivative"
		r.paint(color.FgGreen, color.Bold).Fprintf(r.Out, "\n%s: ", label)
		fmt.Fprintln(r.Out, res.Derivative)
		if res.Simplified != nil {
			fmt.Fprintf(r.Out, "Simplified: %s\n", res.Simplified)
		}
	}

	if res.Trace != nil {
		r.heading("PATTERN ANALYSIS:")
		for i, d := range res.Trace.Prefix(r.traceDisplay(res.Trace.Len())) {
			if i == 0 {
				fmt.Fprintf(r.Out, "f(%s)      = %s\n", v, d)
				continue
			}
			fmt.Fprintf(r.Out, "f^(%d)(%s)   = %s\n", i, v, d)
		}
		if res.Trace.Truncated() {
			r.paint(color.FgYellow).Fprintf(r.Out, "(trace stopped after order %d: %s)\n", res.Trace.Len()-1, res.Trace.Err)
		}
	}

	if res.Formula != nil {
		r.humanFormula(*res.Formula)
	}
}

func (r *Renderer) traceDisplay(n int) int {
	if r.TraceDisplay > 0 && r.TraceDisplay < n {
		return r.TraceDisplay
	}
	return n
}

func (r *Renderer) humanFormula(f nthderiv.StructuredFormula) {
	r.heading("GENERAL nth DERIVATIVE FORMULA:")
	r.paint(color.FgGreen).Fprintf(r.Out, "\n✓ %s detected\n", f.Name)

	if f.Identity != "" {
		fmt.Fprintln(r.Out, "\nGeneral formula:")
		fmt.Fprintf(r.Out, "  %s\n", f.Identity)
	}
	if f.Template != nil {
		fmt.Fprintf(r.Out, "  template: %s\n", f.Template)
	}
	if len(f.Cycle) > 0 {
		fmt.Fprintf(r.Out, "\n  Pattern (cycles every %d):\n", len(f.Cycle))
		for i, c := range f.Cycle {
			fmt.Fprintf(r.Out, "    n ≡ %d (mod %d): %s\n", i, len(f.Cycle), c)
		}
	}
	for _, fact := range f.Facts {
		fmt.Fprintf(r.Out, "  • %s\n", fact)
	}
	if len(f.Guidance) > 0 {
		fmt.Fprintln(r.Out, "\nGeneral formula requires advanced techniques:")
		for _, g := range f.Guidance {
			fmt.Fprintf(r.Out, "  • %s\n", g)
		}
	}
	if f.Partial {
		r.paint(color.FgYellow).Fprintln(r.Out, "\n(partial match: the formula does not cover the whole expression)")
	}
}

// identityBody drops the "f^(n)(x) = " prefix of a catalog identity.
func identityBody(identity string) string {
	if i := strings.Index(identity, " = "); i >= 0 {
		return identity[i+3:]
	}
	return identity
}
