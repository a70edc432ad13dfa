package nthderiv_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/nthderiv"
	"github.com/njchilds90/nthderiv/symbolic"
)

// decodeParams round-trips params through encoding/json so numbers arrive
// as float64, the same as over the wire.
func decodeParams(t *testing.T, params map[string]interface{}) map[string]interface{} {
	t.Helper()
	b, err := json.Marshal(params)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func call(t *testing.T, tool string, params map[string]interface{}) nthderiv.ToolResponse {
	t.Helper()
	return nthderiv.HandleToolCall(nthderiv.ToolRequest{Tool: tool, Params: decodeParams(t, params)})
}

func TestTool_Diffn(t *testing.T) {
	resp := call(t, "diffn", map[string]interface{}{
		"expr": symbolic.ToMap(symbolic.SinOf(x)),
		"n":    2,
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "-sin(x)", resp.String)
	assert.NotEmpty(t, resp.LaTeX)
}

func TestTool_DiffnDefaultsToFirstOrder(t *testing.T) {
	resp := call(t, "diffn", map[string]interface{}{
		"expr": symbolic.ToMap(quadratic()),
		"var":  "x",
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2*x + 3", resp.String)
}

func TestTool_Errors(t *testing.T) {
	resp := call(t, "diffn", map[string]interface{}{"expr": symbolic.ToMap(x), "n": -1})
	assert.Equal(t, nthderiv.CodeInvalidOrder, resp.Code)

	resp = call(t, "diffn", map[string]interface{}{"expr": symbolic.ToMap(x), "n": 1.5})
	assert.Equal(t, nthderiv.CodeInvalidRequest, resp.Code)

	resp = call(t, "diffn", map[string]interface{}{"expr": symbolic.ToMap(x), "var": "w"})
	assert.Equal(t, nthderiv.CodeUnknownVariable, resp.Code)

	resp = call(t, "diffn", map[string]interface{}{"n": 1})
	assert.Equal(t, nthderiv.CodeInvalidRequest, resp.Code)

	resp = call(t, "diffn", map[string]interface{}{"expr": symbolic.ToMap(symbolic.AbsOf(x)), "n": 1})
	assert.Equal(t, nthderiv.CodeDifferentiationFailed, resp.Code)

	resp = call(t, "integrate", map[string]interface{}{})
	assert.Equal(t, nthderiv.CodeInvalidRequest, resp.Code)
	assert.Contains(t, resp.Error, "unknown tool")
}

func TestTool_Classify(t *testing.T) {
	resp := call(t, "classify", map[string]interface{}{"expr": symbolic.ToMap(symbolic.LnOf(x))})
	require.Empty(t, resp.Error)
	view, ok := resp.Result.(nthderiv.MatchView)
	require.True(t, ok)
	assert.Equal(t, nthderiv.NaturalLog, view.Pattern)
}

func TestTool_GeneralFormula(t *testing.T) {
	resp := call(t, "general_formula", map[string]interface{}{
		"expr": symbolic.ToMap(symbolic.ExpOf(symbolic.MulOf(num(2), x))),
	})
	require.Empty(t, resp.Error)
	view, ok := resp.Result.(nthderiv.FormulaView)
	require.True(t, ok)
	assert.Equal(t, "2^n*exp(2*x)", view.Template)
	assert.NotEmpty(t, resp.LaTeX)
}

func TestTool_Instantiate(t *testing.T) {
	resp := call(t, "instantiate", map[string]interface{}{
		"expr": symbolic.ToMap(symbolic.CosOf(x)),
		"n":    "3",
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "sin(x)", resp.String)

	resp = call(t, "instantiate", map[string]interface{}{
		"expr": symbolic.ToMap(symbolic.TanOf(x)),
		"n":    1,
	})
	assert.Equal(t, nthderiv.CodeNoClosedForm, resp.Code)
}

func TestTool_SolveKeepsPartialResult(t *testing.T) {
	resp := call(t, "solve", map[string]interface{}{
		"expr": symbolic.ToMap(symbolic.AbsOf(x)),
		"mode": "both",
		"n":    2,
	})
	assert.Equal(t, nthderiv.CodeDifferentiationFailed, resp.Code)
	view, ok := resp.Result.(nthderiv.ResultView)
	require.True(t, ok)
	require.NotNil(t, view.Formula)
	assert.Equal(t, nthderiv.Unclassified, view.Formula.Pattern)
}

func TestTool_SolveSpecific(t *testing.T) {
	resp := call(t, "solve", map[string]interface{}{
		"expr": symbolic.ToMap(quadratic()),
		"mode": "1",
		"n":    2,
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2", resp.String)
}

func TestTool_Polynomial(t *testing.T) {
	resp := call(t, "degree", map[string]interface{}{"expr": symbolic.ToMap(quadratic())})
	require.Empty(t, resp.Error)
	assert.Equal(t, 2, resp.Result)

	resp = call(t, "degree", map[string]interface{}{"expr": symbolic.ToMap(symbolic.SinOf(x))})
	assert.Equal(t, nthderiv.CodeInvalidRequest, resp.Code)

	resp = call(t, "poly_coeffs", map[string]interface{}{"expr": symbolic.ToMap(quadratic())})
	require.Empty(t, resp.Error)
	assert.Equal(t, map[string]string{"0": "5", "1": "3", "2": "1"}, resp.Result)

	square := symbolic.PowOf(symbolic.AddOf(x, num(1)), num(2))
	resp = call(t, "collect", map[string]interface{}{"expr": symbolic.ToMap(square)})
	require.Empty(t, resp.Error)
	assert.Equal(t, "x^2 + 2*x + 1", resp.String)

	resp = call(t, "collect", map[string]interface{}{"expr": symbolic.ToMap(symbolic.SinOf(x))})
	assert.Equal(t, nthderiv.CodeInvalidRequest, resp.Code)
}

func TestTool_OrderLimits(t *testing.T) {
	for _, tool := range []string{"diffn", "instantiate", "solve"} {
		resp := call(t, tool, map[string]interface{}{"expr": symbolic.ToMap(symbolic.SinOf(x)), "n": 1e12})
		assert.Equal(t, nthderiv.CodeInvalidRequest, resp.Code, tool)

		resp = call(t, tool, map[string]interface{}{"expr": symbolic.ToMap(symbolic.SinOf(x)), "n": 1e9})
		assert.Equal(t, nthderiv.CodeInvalidOrder, resp.Code, tool)

		resp = call(t, tool, map[string]interface{}{"expr": symbolic.ToMap(symbolic.SinOf(x)), "n": nthderiv.DefaultMaxOrder + 1})
		assert.Equal(t, nthderiv.CodeInvalidOrder, resp.Code, tool)
	}

	resp := call(t, "derivative_chain", map[string]interface{}{"expr": symbolic.ToMap(x), "max_order": "9223372036854775807"})
	assert.Equal(t, nthderiv.CodeInvalidRequest, resp.Code)
}

func TestToolHandler_UsesDifferentiatorLimit(t *testing.T) {
	h := nthderiv.NewToolHandler(nthderiv.NewDifferentiator(nthderiv.WithMaxOrder(4)))
	req := func(n int) nthderiv.ToolRequest {
		return nthderiv.ToolRequest{Tool: "diffn", Params: decodeParams(t, map[string]interface{}{
			"expr": symbolic.ToMap(symbolic.SinOf(x)),
			"n":    n,
		})}
	}

	resp := h.Handle(req(4))
	require.Empty(t, resp.Error)
	assert.Equal(t, "sin(x)", resp.String)

	resp = h.Handle(req(5))
	assert.Equal(t, nthderiv.CodeInvalidOrder, resp.Code)
}

func TestTool_DetectVariable(t *testing.T) {
	resp := call(t, "detect_variable", map[string]interface{}{
		"expr": symbolic.ToMap(symbolic.MulOf(symbolic.S("t"), symbolic.S("b"))),
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "b", resp.String)
}

func TestTool_CatalogAndSpec(t *testing.T) {
	resp := call(t, "catalog", nil)
	views, ok := resp.Result.([]nthderiv.CatalogView)
	require.True(t, ok)
	assert.Len(t, views, 7)

	resp = call(t, "mcp_spec", nil)
	spec, ok := resp.Result.(string)
	require.True(t, ok)
	assert.Contains(t, spec, `"diffn"`)
	assert.True(t, json.Valid([]byte(spec)))
}
