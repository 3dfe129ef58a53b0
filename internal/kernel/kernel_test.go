package kernel

import (
	"testing"

	"github.com/logos-system/ontos/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeCheck_Variable(t *testing.T) {
	env := NewEnv().With("x", types.Base(types.Existence))
	typ, err := TypeCheck(env, NewVariable("x", types.OntoType{}))
	require.NoError(t, err)
	assert.True(t, typ.Equal(types.Base(types.Existence)))
}

func TestTypeCheck_UnboundVariable(t *testing.T) {
	_, err := TypeCheck(NewEnv(), NewVariable("y", types.OntoType{}))
	require.Error(t, err)
	var tcErr *TypeCheckError
	require.ErrorAs(t, err, &tcErr)
}

func TestTypeCheck_Abstraction(t *testing.T) {
	body := NewVariable("x", types.OntoType{})
	abs := NewAbstraction("x", types.Base(types.Existence), body)
	typ, err := TypeCheck(NewEnv(), abs)
	require.NoError(t, err)
	assert.True(t, typ.IsFunc())
	assert.True(t, typ.Domain().Equal(types.Base(types.Existence)))
	assert.True(t, typ.Codomain().Equal(types.Base(types.Existence)))
}

func TestTypeCheck_Application(t *testing.T) {
	abs := NewAbstraction("x", types.Base(types.Existence), NewVariable("x", types.OntoType{}))
	arg := NewValue("some_existence_value", types.Base(types.Existence))
	app := NewApplication(abs, arg)
	typ, err := TypeCheck(NewEnv(), app)
	require.NoError(t, err)
	assert.True(t, typ.Equal(types.Base(types.Existence)))
}

func TestTypeCheck_ApplicationMismatch(t *testing.T) {
	abs := NewAbstraction("x", types.Base(types.Existence), NewVariable("x", types.OntoType{}))
	arg := NewValue("wrong", types.Base(types.Truth))
	app := NewApplication(abs, arg)
	_, err := TypeCheck(NewEnv(), app)
	require.Error(t, err)
}

func TestTypeCheck_SufficientReason(t *testing.T) {
	t.Run("well-formed EG", func(t *testing.T) {
		typ, err := TypeCheck(NewEnv(), ExistenceToGoodness())
		require.NoError(t, err)
		assert.True(t, typ.Equal(types.Func(types.Base(types.Existence), types.Base(types.Goodness))))
	})

	t.Run("well-formed GT", func(t *testing.T) {
		typ, err := TypeCheck(NewEnv(), GoodnessToTruth())
		require.NoError(t, err)
		assert.True(t, typ.Equal(types.Func(types.Base(types.Goodness), types.Base(types.Truth))))
	})

	t.Run("inadmissible pair", func(t *testing.T) {
		_, err := TypeCheck(NewEnv(), NewSufficientReason(types.Truth, types.Existence, 1))
		require.Error(t, err)
	})
}

func TestSubstitute_Shadowing(t *testing.T) {
	// (λx:Existence. x) with x substituted by a value should not affect
	// the bound x inside, since the substitution is blocked at the
	// binder that shares the name.
	abs := NewAbstraction("x", types.Base(types.Existence), NewVariable("x", types.OntoType{}))
	value := NewValue("other", types.Base(types.Goodness))
	result := Substitute(abs, "x", value)
	assert.Equal(t, "x", result.Body.Name)
}

func TestSubstitute_FreeVariable(t *testing.T) {
	expr := NewVariable("x", types.OntoType{})
	value := NewValue("replacement", types.Base(types.Existence))
	result := Substitute(expr, "x", value)
	assert.Equal(t, KindValue, result.Kind)
	assert.Equal(t, "replacement", result.Name)
}

func TestEval_Abstraction(t *testing.T) {
	abs := NewAbstraction("x", types.Base(types.Existence), NewVariable("x", types.OntoType{}))
	result, err := Eval(abs, 100)
	require.NoError(t, err)
	assert.Equal(t, KindAbstraction, result.Kind)
}

func TestEval_IdentityApplication(t *testing.T) {
	abs := NewAbstraction("x", types.Base(types.Existence), NewVariable("x", types.OntoType{}))
	arg := NewValue("v", types.Base(types.Existence))
	app := NewApplication(abs, arg)
	result, err := Eval(app, 100)
	require.NoError(t, err)
	assert.Equal(t, "v", result.Name)
}

func TestEval_TruthTables(t *testing.T) {
	trueV := NewValue("TrueProp", types.Base(types.Prop))
	falseV := NewValue("FalseProp", types.Base(types.Prop))
	not := NewValue("NOT", types.OntoType{})
	and := NewValue("AND", types.OntoType{})

	t.Run("NOT TrueProp = FalseProp", func(t *testing.T) {
		result, err := Eval(NewApplication(not, trueV), 100)
		require.NoError(t, err)
		assert.Equal(t, "FalseProp", result.Name)
	})

	t.Run("AND TrueProp FalseProp = FalseProp", func(t *testing.T) {
		partial := NewApplication(and, trueV)
		full := NewApplication(partial, falseV)
		result, err := Eval(full, 100)
		require.NoError(t, err)
		assert.Equal(t, "FalseProp", result.Name)
	})

	t.Run("partial application returns curried term", func(t *testing.T) {
		partial := NewApplication(and, trueV)
		result, err := Eval(partial, 100)
		require.NoError(t, err)
		assert.Equal(t, KindApplication, result.Kind)
	})
}

func TestEval_FuelExhausted(t *testing.T) {
	// (λx. x x) (λx. x x) never reduces to a normal form.
	omega := NewAbstraction("x", types.OntoType{}, NewApplication(
		NewVariable("x", types.OntoType{}), NewVariable("x", types.OntoType{})))
	app := NewApplication(omega, omega)
	_, err := Eval(app, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEvaluationTimeout)
}

func TestSerializeRoundTrip(t *testing.T) {
	cases := []Expression{
		NewVariable("x", types.Base(types.Existence)),
		NewValue("TrueProp", types.Base(types.Prop)),
		NewAbstraction("x", types.Base(types.Existence), NewVariable("x", types.OntoType{})),
		NewApplication(NewValue("NOT", types.OntoType{}), NewValue("TrueProp", types.Base(types.Prop))),
		ExistenceToGoodness(),
		GoodnessToTruth(),
	}
	for _, e := range cases {
		data, err := Serialize(e)
		require.NoError(t, err)
		back, err := Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, e.String(), back.String())
	}
}
