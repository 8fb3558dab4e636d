package switchbot

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// ConditionalExpression is a parsed "key[op value]" predicate evaluated
// against a device status value.
type ConditionalExpression struct {
	key      string
	operator string
	value    string
}

var conditionRe = regexp.MustCompile(`^([a-zA-Z]+)(\s*(=|<=?|>=?)\s*([a-zA-Z0-9]+))?$`)

// ParseCondition parses a conditional expression. The key is a run of
// letters; the optional operator is one of =, <, <=, >, >= followed by
// an alphanumeric value. Anything else is a parse error.
func ParseCondition(condition string) (*ConditionalExpression, error) {
	m := conditionRe.FindStringSubmatch(condition)
	if m == nil {
		return nil, fmt.Errorf("not a valid expression %q", condition)
	}
	return &ConditionalExpression{key: m[1], operator: m[3], value: m[4]}, nil
}

// Key returns the status key the expression tests.
func (c *ConditionalExpression) Key() string {
	return c.key
}

func (c *ConditionalExpression) String() string {
	return c.key + c.operator + c.value
}

// Evaluate tests the expression against a status value as decoded from
// JSON (bool, float64, string, or any other JSON value).
//
// A bool with no operator evaluates to itself. Numbers compare
// numerically with any operator, and the right-hand side must parse as
// a number. Everything else supports only "=" against its canonical
// string form; in particular an ordering operator on a bool or string
// is an evaluation error, not false.
func (c *ConditionalExpression) Evaluate(value any) (bool, error) {
	var valueStr string
	switch v := value.(type) {
	case bool:
		if c.operator == "" {
			return v, nil
		}
		valueStr = strconv.FormatBool(v)
	case float64:
		return c.evaluateNumber(v)
	case int:
		return c.evaluateNumber(float64(v))
	case int64:
		return c.evaluateNumber(float64(v))
	case string:
		valueStr = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return false, err
		}
		valueStr = string(data)
	}
	if c.operator == "=" {
		return valueStr == c.value, nil
	}
	return false, fmt.Errorf("unsupported condition %q for %v", c, value)
}

func (c *ConditionalExpression) evaluateNumber(left float64) (bool, error) {
	right, err := strconv.ParseFloat(c.value, 64)
	if err != nil {
		return false, fmt.Errorf("not a numeric value in %q: %w", c.String(), err)
	}
	switch c.operator {
	case "=":
		return left == right, nil
	case "<":
		return left < right, nil
	case "<=":
		return left <= right, nil
	case ">":
		return left > right, nil
	case ">=":
		return left >= right, nil
	}
	return false, fmt.Errorf("unsupported operator %q", c.operator)
}
