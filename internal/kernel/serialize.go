package kernel

import (
	"encoding/json"
	"fmt"

	"github.com/logos-system/ontos/internal/types"
)

// wireType is the self-describing JSON shape of an OntoType.
type wireType struct {
	Base     string    `json:"base,omitempty"`
	Domain   *wireType `json:"domain,omitempty"`
	Codomain *wireType `json:"codomain,omitempty"`
}

func typeToWire(t types.OntoType) *wireType {
	if !t.IsFunc() {
		return &wireType{Base: string(t.BaseTag())}
	}
	dom := t.Domain()
	cod := t.Codomain()
	return &wireType{Domain: typeToWire(dom), Codomain: typeToWire(cod)}
}

func wireToType(w *wireType) types.OntoType {
	if w == nil {
		return types.OntoType{}
	}
	if w.Domain == nil && w.Codomain == nil {
		// A base tag; an empty Base is the unannotated zero type.
		return types.Base(types.BaseTag(w.Base))
	}
	return types.Func(wireToType(w.Domain), wireToType(w.Codomain))
}

// wireExpression is the self-describing tagged JSON structure for an
// Expression.
type wireExpression struct {
	Kind string `json:"kind"`

	Name   string    `json:"name,omitempty"`
	Tagged *wireType `json:"tagged,omitempty"`

	BoundName string           `json:"bound_name,omitempty"`
	BoundType *wireType        `json:"bound_type,omitempty"`
	Body      *wireExpression  `json:"body,omitempty"`

	Fn  *wireExpression `json:"fn,omitempty"`
	Arg *wireExpression `json:"arg,omitempty"`

	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	SRVal  int    `json:"value,omitempty"`
}

func toWire(e Expression) *wireExpression {
	w := &wireExpression{Kind: e.Kind.String()}
	switch e.Kind {
	case KindVariable, KindValue:
		w.Name = e.Name
		w.Tagged = typeToWire(e.Tagged)
	case KindAbstraction:
		w.BoundName = e.BoundName
		w.BoundType = typeToWire(e.BoundType)
		w.Body = toWire(*e.Body)
	case KindApplication:
		w.Fn = toWire(*e.Fn)
		w.Arg = toWire(*e.Arg)
	case KindSufficientReason:
		w.Source = string(e.Source)
		w.Target = string(e.Target)
		w.SRVal = e.SRVal
	}
	return w
}

func fromWire(w *wireExpression) (Expression, error) {
	if w == nil {
		return Expression{}, fmt.Errorf("kernel: nil expression in wire format")
	}
	switch w.Kind {
	case KindVariable.String():
		return NewVariable(w.Name, wireToType(w.Tagged)), nil
	case KindValue.String():
		return NewValue(w.Name, wireToType(w.Tagged)), nil
	case KindAbstraction.String():
		body, err := fromWire(w.Body)
		if err != nil {
			return Expression{}, err
		}
		return NewAbstraction(w.BoundName, wireToType(w.BoundType), body), nil
	case KindApplication.String():
		fn, err := fromWire(w.Fn)
		if err != nil {
			return Expression{}, err
		}
		arg, err := fromWire(w.Arg)
		if err != nil {
			return Expression{}, err
		}
		return NewApplication(fn, arg), nil
	case KindSufficientReason.String():
		return NewSufficientReason(types.BaseTag(w.Source), types.BaseTag(w.Target), w.SRVal), nil
	default:
		return Expression{}, fmt.Errorf("kernel: unknown expression kind %q", w.Kind)
	}
}

// Serialize renders e as self-describing tagged JSON.
func Serialize(e Expression) ([]byte, error) {
	return json.Marshal(toWire(e))
}

// Deserialize parses the tagged JSON format produced by Serialize.
func Deserialize(data []byte) (Expression, error) {
	var w wireExpression
	if err := json.Unmarshal(data, &w); err != nil {
		return Expression{}, fmt.Errorf("kernel: %w", err)
	}
	return fromWire(&w)
}
