package kernel

// Substitute replaces free occurrences of name with value inside e.
// Substitution never captures: when substitution would descend into an
// abstraction that rebinds the same name, it is blocked at that binder
// (the inner binding shadows the outer one, so the substitution simply
// stops there rather than renaming).
func Substitute(e Expression, name string, value Expression) Expression {
	switch e.Kind {
	case KindVariable:
		if e.Name == name {
			return value
		}
		return e

	case KindValue:
		return e

	case KindAbstraction:
		if e.BoundName == name {
			// Shadowed: the substitution is blocked at this binder.
			return e
		}
		newBody := Substitute(*e.Body, name, value)
		return NewAbstraction(e.BoundName, e.BoundType, newBody)

	case KindApplication:
		newFn := Substitute(*e.Fn, name, value)
		newArg := Substitute(*e.Arg, name, value)
		return NewApplication(newFn, newArg)

	case KindSufficientReason:
		return e

	default:
		return e
	}
}
