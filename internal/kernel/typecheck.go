package kernel

import (
	"errors"
	"fmt"

	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/types"
)

// ErrTypeError is the sentinel wrapped by every TypeCheckError.
var ErrTypeError = errors.New("type error")

// TypeCheckError reports a type-checking failure together with the
// offending subterm.
type TypeCheckError struct {
	Reason string
	Term   Expression
}

func (e *TypeCheckError) Error() string {
	return fmt.Sprintf("type error: %s (in %s)", e.Reason, e.Term)
}

func (e *TypeCheckError) Unwrap() error { return ErrTypeError }

func typeErr(reason string, term Expression) error {
	return &TypeCheckError{Reason: reason, Term: term}
}

// Env maps a free variable name to its ontological type.
type Env map[string]types.OntoType

// NewEnv constructs an empty type environment.
func NewEnv() Env { return make(Env) }

// With returns a copy of the environment extended with name:typ, leaving
// the receiver unmodified (the checker never mutates a caller's env).
func (e Env) With(name string, typ types.OntoType) Env {
	next := make(Env, len(e)+1)
	for k, v := range e {
		next[k] = v
	}
	next[name] = typ
	return next
}

// builtinType returns the fixed type of one of the kernel's known
// constants, or false if name is not one.
func builtinType(name string) (types.OntoType, bool) {
	prop := types.Base(types.Prop)
	switch name {
	case "TrueProp", "FalseProp":
		return prop, true
	case "NOT":
		return types.Func(prop, prop), true
	case "AND", "OR", "IMPLIES", "EQ":
		return types.Func(prop, types.Func(prop, prop)), true
	default:
		return types.OntoType{}, false
	}
}

// TypeCheck type-checks an expression against an environment, returning
// its ontological type or a *TypeCheckError naming the offending subterm.
func TypeCheck(env Env, e Expression) (types.OntoType, error) {
	logging.KernelDebug("typecheck: %s", e)
	switch e.Kind {
	case KindVariable:
		if t, ok := env[e.Name]; ok {
			return t, nil
		}
		if t, ok := builtinType(e.Name); ok {
			return t, nil
		}
		if e.Tagged != (types.OntoType{}) {
			return e.Tagged, nil
		}
		return types.OntoType{}, typeErr(fmt.Sprintf("unbound variable %q", e.Name), e)

	case KindValue:
		if t, ok := builtinType(e.Name); ok {
			return t, nil
		}
		if t, ok := env[e.Name]; ok {
			return t, nil
		}
		if e.Tagged != (types.OntoType{}) {
			return e.Tagged, nil
		}
		return types.OntoType{}, typeErr(fmt.Sprintf("untyped value %q", e.Name), e)

	case KindAbstraction:
		bodyEnv := env.With(e.BoundName, e.BoundType)
		bodyType, err := TypeCheck(bodyEnv, *e.Body)
		if err != nil {
			return types.OntoType{}, err
		}
		return types.Func(e.BoundType, bodyType), nil

	case KindApplication:
		fnType, err := TypeCheck(env, *e.Fn)
		if err != nil {
			return types.OntoType{}, err
		}
		if !fnType.IsFunc() {
			return types.OntoType{}, typeErr(fmt.Sprintf("applying non-function of type %s", fnType), e)
		}
		argType, err := TypeCheck(env, *e.Arg)
		if err != nil {
			return types.OntoType{}, err
		}
		if !fnType.Domain().Equal(argType) {
			return types.OntoType{}, typeErr(
				fmt.Sprintf("argument type %s does not match domain %s", argType, fnType.Domain()), e)
		}
		return fnType.Codomain(), nil

	case KindSufficientReason:
		if !WellFormedSufficientReason(e.Source, e.Target, e.SRVal) {
			return types.OntoType{}, typeErr(
				fmt.Sprintf("inadmissible sufficient-reason pair (%s,%s,%d)", e.Source, e.Target, e.SRVal), e)
		}
		return types.Func(types.Base(e.Source), types.Base(e.Target)), nil

	default:
		return types.OntoType{}, typeErr("unknown expression kind", e)
	}
}
