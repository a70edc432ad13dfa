package symbolic

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// ErrMalformed marks an expression document that does not decode to a
// tree. The message names the path to the offending node.
var ErrMalformed = errors.New("symbolic: malformed expression")

// ToJSON encodes e as a tree of objects tagged by "type": num, sym, add,
// mul, pow or func. Numbers are written as exact rational strings.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// ToMap returns the tree form used by ToJSON.
func ToMap(e Expr) map[string]interface{} { return e.toJSON() }

// ParseJSON decodes a serialized expression tree.
func ParseJSON(data []byte) (Expr, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return FromJSON(m)
}

// FromJSON builds an expression from its decoded tree form, as produced by
// ToMap or by encoding/json and yaml.v3 unmarshalling into interface
// values. Nodes go through the canonicalizing constructors, so the result
// is already simplified. Errors wrap ErrMalformed.
func FromJSON(data map[string]interface{}) (Expr, error) {
	e, err := node(data).decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return e, nil
}

type node map[string]interface{}

func (n node) decode() (Expr, error) {
	if n == nil {
		return nil, errors.New("expression must be an object")
	}
	typ, ok := n["type"].(string)
	if !ok || typ == "" {
		return nil, errors.New(`"type" must be a non-empty string`)
	}
	switch typ {
	case "num":
		return n.num()
	case "sym":
		name, err := n.str(typ, "name")
		if err != nil {
			return nil, err
		}
		return S(name), nil
	case "add":
		terms, err := n.children(typ, "terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil
	case "mul":
		factors, err := n.children(typ, "factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil
	case "pow":
		base, err := n.child(typ, "base")
		if err != nil {
			return nil, err
		}
		exp, err := n.child(typ, "exp")
		if err != nil {
			return nil, err
		}
		return Guard(func() Expr { return PowOf(base, exp) })
	case "func":
		name, err := n.str(typ, "name")
		if err != nil {
			return nil, err
		}
		arg, err := n.child(typ, "arg")
		if err != nil {
			return nil, err
		}
		return FuncOf(name, arg), nil
	}
	return nil, fmt.Errorf("unknown expression type %q", typ)
}

// num accepts the value as a rational string ("3/4"), a decimal string or
// a number. YAML documents decode integers as int.
func (n node) num() (Expr, error) {
	var val string
	switch v := n["value"].(type) {
	case string:
		val = v
	case float64:
		val = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		val = strconv.Itoa(v)
	case int64:
		val = strconv.FormatInt(v, 10)
	}
	if val == "" {
		return nil, errors.New(`num: "value" must be a number or a non-empty string`)
	}
	r, ok := new(big.Rat).SetString(val)
	if !ok {
		return nil, fmt.Errorf("num: invalid value %q", val)
	}
	return &Num{val: r}, nil
}

func (n node) str(typ, field string) (string, error) {
	s, ok := n[field].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
	}
	return s, nil
}

func (n node) child(typ, field string) (Expr, error) {
	m, ok := n[field].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: %q must be an object", typ, field)
	}
	e, err := node(m).decode()
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
	}
	return e, nil
}

func (n node) children(typ, field string) ([]Expr, error) {
	var items []map[string]interface{}
	switch v := n[field].(type) {
	case []map[string]interface{}:
		items = v
	case []interface{}:
		items = make([]map[string]interface{}, len(v))
		for i, it := range v {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %s[%d] must be an object", typ, field, i)
			}
			items[i] = m
		}
	default:
		return nil, fmt.Errorf("%s: %q must be an array", typ, field)
	}
	out := make([]Expr, len(items))
	for i, m := range items {
		e, err := node(m).decode()
		if err != nil {
			return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
		}
		out[i] = e
	}
	return out, nil
}
