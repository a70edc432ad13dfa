// Package input reads expression trees from JSON or YAML documents.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/nthderiv/symbolic"
)

// Decode parses an expression tree. JSON documents go through the engine's
// codec; anything else is read as YAML with the same field names, e.g.
//
//	type: func
//	name: sin
//	arg: {type: sym, name: x}
func Decode(data []byte) (symbolic.Expr, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty expression document")
	}
	if json.Valid(data) {
		return symbolic.ParseJSON(data)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid expression YAML: %w", err)
	}
	return symbolic.FromJSON(m)
}

// Source names where an expression comes from. Inline wins over Path; a
// Path of "-" or an empty source reads Stdin.
type Source struct {
	Inline string
	Path   string
	Stdin  io.Reader
}

func (s Source) Read() (symbolic.Expr, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case s.Inline != "":
		data = []byte(s.Inline)
	case s.Path != "" && s.Path != "-":
		data, err = os.ReadFile(s.Path)
	default:
		if s.Stdin == nil {
			return nil, fmt.Errorf("no expression given")
		}
		data, err = io.ReadAll(s.Stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read expression: %w", err)
	}
	return Decode(data)
}
