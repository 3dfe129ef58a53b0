// Package kernel implements a typed expression kernel: an applied typed
// lambda-calculus over the three ontological types plus a propositional
// type, with a bidirectional type checker and a capture-avoiding
// beta-reducer, used to canonicalize query representations before
// storage.
//
// Expression is a tagged sum type (Go has no native sum types; it is
// represented as a single struct with an explicit Kind discriminant and
// type-switch dispatch on the fields relevant to that Kind).
package kernel

import (
	"fmt"

	"github.com/logos-system/ontos/internal/types"
)

// Kind discriminates the Expression variants.
type Kind int

const (
	KindVariable Kind = iota
	KindValue
	KindAbstraction
	KindApplication
	KindSufficientReason
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "Variable"
	case KindValue:
		return "Value"
	case KindAbstraction:
		return "Abstraction"
	case KindApplication:
		return "Application"
	case KindSufficientReason:
		return "SufficientReason"
	default:
		return "Unknown"
	}
}

// Expression is the sum type of the kernel: Variable, Value, Abstraction,
// Application, SufficientReason. Only the fields relevant to Kind are
// meaningful; construct values via the New* functions below rather than
// composite literals.
type Expression struct {
	Kind Kind

	// Variable / Value
	Name   string       // Variable name, or Value symbol
	Tagged types.OntoType // annotation used when the environment has no binding

	// Abstraction: lambda BoundName:BoundType. Body
	BoundName string
	BoundType types.OntoType
	Body      *Expression

	// Application: Fn Arg
	Fn  *Expression
	Arg *Expression

	// SufficientReason: Source -> Target, pinned integer Value
	Source types.BaseTag
	Target types.BaseTag
	SRVal  int
}

// NewVariable constructs a variable reference with a fallback type
// annotation used when the type environment has no binding for Name.
func NewVariable(name string, annotation types.OntoType) Expression {
	return Expression{Kind: KindVariable, Name: name, Tagged: annotation}
}

// NewValue constructs a value (constant) term with a fallback type
// annotation used when the environment has no binding for Symbol.
func NewValue(symbol string, annotation types.OntoType) Expression {
	return Expression{Kind: KindValue, Name: symbol, Tagged: annotation}
}

// NewAbstraction constructs lambda boundName:boundType. body.
func NewAbstraction(boundName string, boundType types.OntoType, body Expression) Expression {
	b := body
	return Expression{Kind: KindAbstraction, BoundName: boundName, BoundType: boundType, Body: &b}
}

// NewApplication constructs (fn arg).
func NewApplication(fn, arg Expression) Expression {
	f, a := fn, arg
	return Expression{Kind: KindApplication, Fn: &f, Arg: &a}
}

// NewSufficientReason constructs the sufficient-reason operator between
// source and target with the pinned integer value. It is well-formed
// only for (Existence, Goodness, 3) and (Goodness, Truth, 2); malformed
// combinations still construct (construction never fails) but will be
// rejected by TypeCheck.
func NewSufficientReason(source, target types.BaseTag, value int) Expression {
	return Expression{Kind: KindSufficientReason, Source: source, Target: target, SRVal: value}
}

// ExistenceToGoodness is the named PGR_EG sufficient-reason constant.
func ExistenceToGoodness() Expression {
	return NewSufficientReason(types.Existence, types.Goodness, 3)
}

// GoodnessToTruth is the named PGR_GT sufficient-reason constant.
func GoodnessToTruth() Expression {
	return NewSufficientReason(types.Goodness, types.Truth, 2)
}

// WellFormedSufficientReason reports whether (source, target, value) is
// one of the two admissible pairs.
func WellFormedSufficientReason(source, target types.BaseTag, value int) bool {
	return (source == types.Existence && target == types.Goodness && value == 3) ||
		(source == types.Goodness && target == types.Truth && value == 2)
}

// String renders a human-readable form, used in error messages and log
// lines. It is not the wire format - see serialize.go for that.
func (e Expression) String() string {
	switch e.Kind {
	case KindVariable:
		return e.Name
	case KindValue:
		return e.Name
	case KindAbstraction:
		return fmt.Sprintf("(λ%s:%s. %s)", e.BoundName, e.BoundType, e.Body)
	case KindApplication:
		return fmt.Sprintf("(%s %s)", e.Fn, e.Arg)
	case KindSufficientReason:
		return fmt.Sprintf("SufficientReason(%s,%s,%d)", e.Source, e.Target, e.SRVal)
	default:
		return "<invalid expression>"
	}
}
