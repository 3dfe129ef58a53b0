package kernel

import (
	"errors"

	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/types"
)

// ErrEvaluationTimeout is returned when beta-reduction exhausts its fuel
// budget before reaching a normal form.
var ErrEvaluationTimeout = errors.New("evaluation timeout: fuel exhausted")

var binaryPropOps = map[string]bool{
	"AND": true, "OR": true, "IMPLIES": true, "EQ": true,
}

func isBoolValue(e Expression) bool {
	return e.Kind == KindValue && (e.Name == "TrueProp" || e.Name == "FalseProp")
}

func boolOf(e Expression) bool {
	return e.Name == "TrueProp"
}

func boolValue(b bool) Expression {
	if b {
		return NewValue("TrueProp", types.Base(types.Prop))
	}
	return NewValue("FalseProp", types.Base(types.Prop))
}

// applyBuiltin attempts to evaluate a builtin truth-table operator given
// its (already weak-head-normalized) function and argument. It returns
// (result, true) when it could compute or partially apply a result, and
// (_, false) when fn is not one of the known constants at all.
func applyBuiltin(fn, arg Expression) (Expression, bool) {
	if fn.Kind == KindValue && fn.Name == "NOT" {
		if isBoolValue(arg) {
			return boolValue(!boolOf(arg)), true
		}
		return NewApplication(fn, arg), true
	}

	if fn.Kind == KindValue && binaryPropOps[fn.Name] {
		// First argument applied: return a curried-partial term.
		return NewApplication(fn, arg), true
	}

	if fn.Kind == KindApplication && fn.Fn.Kind == KindValue && binaryPropOps[fn.Fn.Name] {
		first := *fn.Arg
		if isBoolValue(first) && isBoolValue(arg) {
			a, b := boolOf(first), boolOf(arg)
			var result bool
			switch fn.Fn.Name {
			case "AND":
				result = a && b
			case "OR":
				result = a || b
			case "IMPLIES":
				result = !a || b
			case "EQ":
				result = a == b
			}
			return boolValue(result), true
		}
		return NewApplication(fn, arg), true
	}

	return Expression{}, false
}

// Eval beta-reduces e to weak head normal form under call-by-value, with
// a caller-supplied fuel budget bounding the total number of reduction
// steps across the whole term. Values, variables, sufficient-reason
// operators, and abstractions evaluate to themselves;
// applications reduce the function position, substitute a reduced
// argument into abstraction bodies, and apply the classical truth tables
// of the known Prop constants.
func Eval(e Expression, fuel int) (Expression, error) {
	timer := logging.StartTimer(logging.CategoryKernel, "Eval")
	defer timer.Stop()

	budget := fuel
	result, err := evalStep(e, &budget)
	if err != nil {
		logging.KernelWarn("evaluation failed: %v", err)
	}
	return result, err
}

// evalStep does the actual work, decrementing *budget on every
// application node visited and failing with ErrEvaluationTimeout once it
// is exhausted.
func evalStep(e Expression, budget *int) (Expression, error) {
	cur := e
	for {
		switch cur.Kind {
		case KindVariable, KindValue, KindAbstraction, KindSufficientReason:
			return cur, nil

		case KindApplication:
			if *budget <= 0 {
				return Expression{}, ErrEvaluationTimeout
			}
			*budget--

			fn, err := evalStep(*cur.Fn, budget)
			if err != nil {
				return Expression{}, err
			}

			argVal, err := evalStep(*cur.Arg, budget)
			if err != nil {
				return Expression{}, err
			}

			if fn.Kind == KindAbstraction {
				cur = Substitute(*fn.Body, fn.BoundName, argVal)
				continue
			}

			if result, ok := applyBuiltin(fn, argVal); ok {
				return result, nil
			}

			return NewApplication(fn, argVal), nil

		default:
			return cur, nil
		}
	}
}
