package switchbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		text     string
		key      string
		operator string
		value    string
	}{
		{"a", "a", "", ""},
		{"a=b", "a", "=", "b"},
		{"a = b", "a", "=", "b"},
		{"a=12", "a", "=", "12"},
		{"aZ=xZ2", "aZ", "=", "xZ2"},
		{"a<b", "a", "<", "b"},
		{"a>b", "a", ">", "b"},
		{"a<=b", "a", "<=", "b"},
		{"a>=b", "a", ">=", "b"},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			expr, err := ParseCondition(test.text)
			require.NoError(t, err)
			assert.Equal(t, test.key, expr.Key())
			assert.Equal(t, test.operator, expr.operator)
			assert.Equal(t, test.value, expr.value)
		})
	}
}

func TestParseConditionError(t *testing.T) {
	for _, text := range []string{"a=", "1=a", "a=b=c", "a!b", ""} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseCondition(text)
			assert.Error(t, err)
		})
	}
}

func evaluate(t *testing.T, condition string, value any) (bool, error) {
	t.Helper()
	expr, err := ParseCondition(condition)
	require.NoError(t, err)
	return expr.Evaluate(value)
}

func TestEvaluateBool(t *testing.T) {
	tests := []struct {
		condition string
		value     bool
		want      bool
	}{
		{"a", true, true},
		{"a", false, false},
		{"a=true", true, true},
		{"a=true", false, false},
		{"a=false", false, true},
	}
	for _, test := range tests {
		result, err := evaluate(t, test.condition, test.value)
		require.NoError(t, err)
		assert.Equal(t, test.want, result, "%s with %v", test.condition, test.value)
	}

	// Ordering operators do not apply to bool values.
	_, err := evaluate(t, "a>true", false)
	assert.Error(t, err)
}

func TestEvaluateString(t *testing.T) {
	result, err := evaluate(t, "a=on", "on")
	require.NoError(t, err)
	assert.True(t, result)

	result, err = evaluate(t, "a=on", "off")
	require.NoError(t, err)
	assert.False(t, result)

	// A bare key does not evaluate a string value.
	_, err = evaluate(t, "a", "on")
	assert.Error(t, err)

	// Ordering operators do not apply to string values.
	_, err = evaluate(t, "a>on", "off")
	assert.Error(t, err)
}

func TestEvaluateNumber(t *testing.T) {
	tests := []struct {
		condition string
		value     float64
		want      bool
	}{
		{"a=123", 123, true},
		{"a=123", 124, false},
		{"a<123", 122, true},
		{"a<123", 123, false},
		{"a>123", 124, true},
		{"a>123", 123, false},
		{"a<=123", 123, true},
		{"a<=123", 124, false},
		{"a>=123", 123, true},
		{"a>=123", 122, false},
	}
	for _, test := range tests {
		result, err := evaluate(t, test.condition, test.value)
		require.NoError(t, err)
		assert.Equal(t, test.want, result, "%s with %v", test.condition, test.value)
	}

	// A bare key does not evaluate a number.
	_, err := evaluate(t, "a", float64(123))
	assert.Error(t, err)

	// The right-hand side must be numeric.
	_, err = evaluate(t, "a=on", float64(123))
	assert.Error(t, err)
}
