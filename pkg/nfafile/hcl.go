package nfafile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

// hclNFA is the top-level structure of an NFA file:
//
//	symbols = ["a", "b"]
//
//	state "q0" {
//	  id      = 0
//	  initial = true
//	  on = {
//	    a         = [0, 1]
//	    (epsilon) = [1]
//	  }
//	}
//
// The epsilon symbol may be written literally as ε or through the
// epsilon variable.
type hclNFA struct {
	Symbols []string   `hcl:"symbols,optional"`
	States  []hclState `hcl:"state,block"`
}

type hclState struct {
	Name    string         `hcl:"name,label"`
	ID      int            `hcl:"id"`
	Initial bool           `hcl:"initial,optional"`
	Final   bool           `hcl:"final,optional"`
	On      hcl.Expression `hcl:"on,optional"`
}

// transitionsType is the cty shape of a state's "on" attribute.
var transitionsType = cty.Map(cty.List(cty.Number))

func hclEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"epsilon": cty.StringVal(nfa.Epsilon),
		},
	}
}

// ParseHCL parses a registry from HCL source. filename is used in
// diagnostics only.
func ParseHCL(data []byte, filename string) (*nfa.Registry, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	ctx := hclEvalContext()
	var parsed hclNFA
	if diags := gohcl.DecodeBody(file.Body, ctx, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	r := nfa.NewRegistry(parsed.Symbols...)
	for _, hs := range parsed.States {
		transitions, err := decodeTransitions(hs.On, ctx)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", hs.Name, err)
		}
		for sym := range transitions {
			if !r.HasSymbol(sym) {
				return nil, fmt.Errorf("state %q: %w %q", hs.Name, nfa.ErrUnknownSymbol, sym)
			}
		}
		err = r.Put(nfa.State{
			ID:          hs.ID,
			Name:        hs.Name,
			Initial:     hs.Initial,
			Final:       hs.Final,
			Transitions: transitions,
		})
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func decodeTransitions(expr hcl.Expression, ctx *hcl.EvalContext) (map[string][]int, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	v, err := convert.Convert(v, transitionsType)
	if err != nil {
		return nil, fmt.Errorf("on: %w", err)
	}
	var out map[string][]int
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return nil, fmt.Errorf("on: %w", err)
	}
	return out, nil
}

// ToHCL renders a registry as HCL.
func ToHCL(r *nfa.Registry) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	symbols := make([]cty.Value, 0, len(r.Symbols()))
	for _, sym := range r.Symbols() {
		symbols = append(symbols, cty.StringVal(sym))
	}
	if len(symbols) == 0 {
		body.SetAttributeValue("symbols", cty.ListValEmpty(cty.String))
	} else {
		body.SetAttributeValue("symbols", cty.ListVal(symbols))
	}

	for _, s := range r.States() {
		body.AppendNewline()
		block := body.AppendNewBlock("state", []string{s.Name})
		sb := block.Body()
		sb.SetAttributeValue("id", cty.NumberIntVal(int64(s.ID)))
		sb.SetAttributeValue("initial", cty.BoolVal(s.Initial))
		sb.SetAttributeValue("final", cty.BoolVal(s.Final))

		on := make(map[string]cty.Value)
		for _, sym := range r.Alphabet() {
			to := s.Targets(sym)
			if len(to) == 0 {
				continue
			}
			ids := make([]cty.Value, len(to))
			for i, id := range to {
				ids[i] = cty.NumberIntVal(int64(id))
			}
			on[sym] = cty.ListVal(ids)
		}
		if len(on) > 0 {
			sb.SetAttributeValue("on", cty.ObjectVal(on))
		}
	}
	return f.Bytes()
}
