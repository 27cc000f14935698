package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileRule(t *testing.T) {
	t.Run("numeric range", func(t *testing.T) {
		rule, err := CompileRule("value >= 0.0 && value <= 100000.0")
		assert.NoError(t, err)

		ok, err := rule.Eval(450.0)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = rule.Eval(-1.0)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("string length", func(t *testing.T) {
		rule, err := CompileRule("value.size() <= 13")
		assert.NoError(t, err)

		ok, err := rule.Eval("0812345678")
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = rule.Eval("081234567890123456")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("syntax error surfaces at compile time", func(t *testing.T) {
		_, err := CompileRule("value >>> 3")
		assert.Error(t, err)
	})

	t.Run("non-boolean expression rejected", func(t *testing.T) {
		_, err := CompileRule("1 + 2")
		assert.Error(t, err)
	})

	t.Run("type mismatch surfaces at eval time", func(t *testing.T) {
		rule, err := CompileRule("value.size() <= 13")
		assert.NoError(t, err)

		_, err = rule.Eval(42.0)
		assert.Error(t, err)
	})

	t.Run("source preserved", func(t *testing.T) {
		rule, err := CompileRule("value > 0.0")
		assert.NoError(t, err)
		assert.Equal(t, "value > 0.0", rule.Source())
	})
}
