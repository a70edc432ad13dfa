package nthderiv

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/njchilds90/nthderiv/symbolic"
)

// maxIntParam bounds integer params so the conversion to int is
// exact on every platform.
const maxIntParam = math.MaxInt32

// ToolRequest is one tool call. Params hold decoded JSON values, so
// numbers arrive as float64.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   Code        `json:"code,omitempty"`
}

func toolError(err error) ToolResponse {
	return ToolResponse{Error: err.Error(), Code: ErrorCode(err)}
}

// ToolHandler answers tool requests with one Differentiator, so the
// order limit configured on it applies to every tool.
type ToolHandler struct {
	diff *Differentiator
}

// NewToolHandler returns a ToolHandler backed by d, or by the default
// Differentiator when d is nil.
func NewToolHandler(d *Differentiator) *ToolHandler {
	if d == nil {
		d = defaultDifferentiator
	}
	return &ToolHandler{diff: d}
}

var defaultToolHandler = NewToolHandler(nil)

// HandleToolCall dispatches one tool request on the default handler.
func HandleToolCall(req ToolRequest) ToolResponse {
	return defaultToolHandler.Handle(req)
}

// Handle dispatches one tool request. Engine panics are returned as
// errors.
func (h *ToolHandler) Handle(req ToolRequest) (resp ToolResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = toolError(fmt.Errorf("%w: %s: %v", symbolic.ErrEngine, req.Tool, rec))
		}
	}()
	return h.handle(req)
}

func (h *ToolHandler) handle(req ToolRequest) ToolResponse {
	getExpr := func(key string) (symbolic.Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing param: %s", ErrInvalidRequest, key)
		}
		val, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: invalid type for param %s", ErrInvalidRequest, key)
		}
		e, err := symbolic.FromJSON(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, key, err)
		}
		return e, nil
	}
	getString := func(key string) (string, bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", false, nil
		}
		s, ok := v.(string)
		if !ok {
			return "", true, fmt.Errorf("%w: param %s must be a string", ErrInvalidRequest, key)
		}
		return s, true, nil
	}
	getInt := func(key string, def int) (int, error) {
		v, ok := req.Params[key]
		if !ok {
			return def, nil
		}
		switch n := v.(type) {
		case float64:
			if n != math.Trunc(n) || math.Abs(n) > maxIntParam {
				return 0, fmt.Errorf("%w: param %s must be an integer within ±%d", ErrInvalidRequest, key, maxIntParam)
			}
			return int(n), nil
		case int:
			return n, nil
		case string:
			i, err := strconv.Atoi(n)
			if err != nil || i > maxIntParam || i < -maxIntParam {
				return 0, fmt.Errorf("%w: param %s must be an integer within ±%d", ErrInvalidRequest, key, maxIntParam)
			}
			return i, nil
		}
		return 0, fmt.Errorf("%w: param %s must be an integer", ErrInvalidRequest, key)
	}
	// getVar reads "var" or detects it from the expression.
	getVar := func(e symbolic.Expr) (Variable, error) {
		s, present, err := getString("var")
		if err != nil {
			return "", err
		}
		if !present || s == "" {
			return DetectVariable(e)
		}
		return ParseVariable(s)
	}
	exprAndVar := func() (symbolic.Expr, Variable, error) {
		e, err := getExpr("expr")
		if err != nil {
			return nil, "", err
		}
		v, err := getVar(e)
		if err != nil {
			return nil, "", err
		}
		return e, v, nil
	}
	respond := func(e symbolic.Expr) ToolResponse {
		return ToolResponse{Result: symbolic.ToMap(e), LaTeX: e.LaTeX(), String: e.String()}
	}

	switch req.Tool {
	case "diffn":
		e, v, err := exprAndVar()
		if err != nil {
			return toolError(err)
		}
		n, err := getInt("n", 1)
		if err != nil {
			return toolError(err)
		}
		d, err := h.diff.Nth(e, v, n)
		if err != nil {
			return toolError(err)
		}
		return respond(d)

	case "derivative_chain":
		e, v, err := exprAndVar()
		if err != nil {
			return toolError(err)
		}
		maxOrder, err := getInt("max_order", DefaultTraceDepth-1)
		if err != nil {
			return toolError(err)
		}
		seq, err := h.diff.Chain(e, v, maxOrder)
		if err != nil {
			return toolError(err)
		}
		view := seq.View()
		return ToolResponse{Result: view, String: fmt.Sprintf("%d of %d orders", seq.Len(), maxOrder+1)}

	case "classify":
		e, v, err := exprAndVar()
		if err != nil {
			return toolError(err)
		}
		m := Classify(e, v)
		return ToolResponse{Result: m.View(), String: m.String()}

	case "general_formula":
		e, v, err := exprAndVar()
		if err != nil {
			return toolError(err)
		}
		f := Render(Classify(e, v))
		resp := ToolResponse{Result: f.View(), String: f.Identity}
		if f.Template != nil {
			resp.LaTeX = f.Template.LaTeX()
		}
		return resp

	case "instantiate":
		e, v, err := exprAndVar()
		if err != nil {
			return toolError(err)
		}
		n, err := getInt("n", 0)
		if err != nil {
			return toolError(err)
		}
		if err := h.diff.checkOrder(n); err != nil {
			return toolError(err)
		}
		d, err := Instantiate(Render(Classify(e, v)), n)
		if err != nil {
			return toolError(err)
		}
		return respond(d)

	case "solve":
		e, err := getExpr("expr")
		if err != nil {
			return toolError(err)
		}
		sreq := Request{Expr: e, Mode: Both}
		if s, present, err := getString("var"); err != nil {
			return toolError(err)
		} else if present {
			sreq.Var = Variable(s)
		}
		if s, present, err := getString("mode"); err != nil {
			return toolError(err)
		} else if present {
			if sreq.Mode, err = ParseMode(s); err != nil {
				return toolError(err)
			}
		}
		if sreq.Order, err = getInt("n", 1); err != nil {
			return toolError(err)
		}
		res, err := NewSolver(WithDifferentiator(h.diff)).Solve(sreq)
		if err != nil && res.Mode == 0 {
			return toolError(err)
		}
		resp := ToolResponse{Result: res.View(), String: str(res.Derivative)}
		if err != nil {
			resp.Error, resp.Code = err.Error(), ErrorCode(err)
		}
		return resp

	case "detect_variable":
		e, err := getExpr("expr")
		if err != nil {
			return toolError(err)
		}
		v, err := DetectVariable(e)
		if err != nil {
			return toolError(err)
		}
		return ToolResponse{Result: string(v), String: string(v)}

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return toolError(err)
		}
		return respond(e.Simplify())

	case "deep_simplify":
		e, err := getExpr("expr")
		if err != nil {
			return toolError(err)
		}
		return respond(symbolic.DeepSimplify(e))

	case "to_latex":
		e, err := getExpr("expr")
		if err != nil {
			return toolError(err)
		}
		return ToolResponse{Result: e.LaTeX(), LaTeX: e.LaTeX(), String: e.String()}

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return toolError(err)
		}
		names := symbolic.SortedSymbols(e)
		return ToolResponse{Result: names, String: fmt.Sprint(names)}

	case "degree":
		e, v, err := exprAndVar()
		if err != nil {
			return toolError(err)
		}
		if !symbolic.IsPolynomial(e, string(v)) {
			return toolError(fmt.Errorf("%w: %s is not a polynomial in %s", ErrInvalidRequest, e, v))
		}
		d := symbolic.PolyDegree(e, string(v))
		return ToolResponse{Result: d, String: strconv.Itoa(d)}

	case "poly_coeffs":
		e, v, err := exprAndVar()
		if err != nil {
			return toolError(err)
		}
		coeffs := symbolic.PolyCoeffs(e, string(v))
		out := make(map[string]string, len(coeffs))
		for d, c := range coeffs {
			out[strconv.Itoa(d)] = c.String()
		}
		return ToolResponse{Result: out, String: fmt.Sprint(out)}

	case "collect":
		e, v, err := exprAndVar()
		if err != nil {
			return toolError(err)
		}
		if !symbolic.IsPolynomial(e, string(v)) {
			return toolError(fmt.Errorf("%w: %s is not a polynomial in %s", ErrInvalidRequest, e, v))
		}
		return respond(symbolic.Collect(e, string(v)))

	case "catalog":
		entries := Catalog()
		views := make([]CatalogView, len(entries))
		for i, c := range entries {
			views[i] = c.View()
		}
		return ToolResponse{Result: views, String: fmt.Sprintf("%d formulas", len(views))}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return toolError(fmt.Errorf("%w: unknown tool: %s", ErrInvalidRequest, req.Tool))
}

func MCPToolSpec() string {
	exprVar := map[string]string{"expr": "object", "var": "string"}
	tools := []map[string]interface{}{
		ts("diffn", "nth derivative. n (int) defaults to 1; var is detected when omitted", []string{"expr"}, map[string]string{"expr": "object", "var": "string", "n": "integer"}),
		ts("derivative_chain", "Derivatives of orders 0..max_order (default 9); truncated on failure", []string{"expr"}, map[string]string{"expr": "object", "var": "string", "max_order": "integer"}),
		ts("classify", "Match the expression to a closed-form nth-derivative pattern", []string{"expr"}, exprVar),
		ts("general_formula", "General nth-derivative formula for the matched pattern", []string{"expr"}, exprVar),
		ts("instantiate", "Evaluate the general formula at order n", []string{"expr", "n"}, map[string]string{"expr": "object", "var": "string", "n": "integer"}),
		ts("solve", "Specific order, general formula or both. mode: specific|general|both", []string{"expr"}, map[string]string{"expr": "object", "var": "string", "mode": "string", "n": "integer"}),
		ts("detect_variable", "First of x, y, z, a, b, c, t, k occurring in the expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("simplify", "Simplify a symbolic expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("deep_simplify", "Apply multiple simplification passes including trig identities", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("degree", "Polynomial degree in variable", []string{"expr"}, exprVar),
		ts("poly_coeffs", "Extract polynomial coefficients by degree", []string{"expr"}, exprVar),
		ts("collect", "Expand a polynomial and group terms by descending powers", []string{"expr"}, exprVar),
		ts("catalog", "Common general derivatives", []string{}, map[string]string{}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
