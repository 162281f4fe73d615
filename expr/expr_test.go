package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deviceVars() map[string]interface{} {
	return map[string]interface{}{
		"hostname":     "RATL01.mycompany.com",
		"softwareType": "IOS",
		"location":     "ATL",
		"mgmtAddress":  "10.30.2.1",
		"deviceType":   "router",
		"uptimeDays":   41.0,
		"interfaces":   []interface{}{"Gi0/0", "Gi0/1"},
	}
}

func TestCompileError(t *testing.T) {
	_, err := Compile(`deviceType ==`)
	assert.Error(t, err)
	_, err = Compile(``)
	assert.Error(t, err)
}

func TestValue(t *testing.T) {
	ev := Evaluator{}
	tests := []struct {
		source string
		want   interface{}
	}{
		{`location + "-" + deviceType`, "ATL-router"},
		{`mgmtAddress`, "10.30.2.1"},
		{`uptimeDays + 1.0`, 42.0},
		{`size(interfaces)`, int64(2)},
		{`softwareType.startsWith("IOS")`, true},
		{`[location, deviceType]`, []interface{}{"ATL", "router"}},
		{`{"site": location}`, map[string]interface{}{"site": "ATL"}},
		{`null`, nil},
	}

	for _, tt := range tests {
		value, ok, err := ev.Value(MustCompile(tt.source), deviceVars())
		require.NoError(t, err, tt.source)
		assert.True(t, ok, tt.source)
		assert.Equal(t, tt.want, value, tt.source)
	}
}

func TestValueUndefined(t *testing.T) {
	e := MustCompile(`serialNumber + "-x"`)

	value, ok, err := Evaluator{}.Value(e, deviceVars())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)

	_, ok, err = Evaluator{Strict: true}.Value(e, deviceVars())
	assert.False(t, ok)
	var ee *EvalError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, `serialNumber + "-x"`, ee.Expr)
}

func TestCondition(t *testing.T) {
	ev := Evaluator{}
	vars := deviceVars()

	ok, err := ev.Condition(MustCompile(`deviceType == "router"`), vars)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ev.Condition(MustCompile(`deviceType == "switch" && location == "ATL"`), vars)
	require.NoError(t, err)
	assert.False(t, ok)

	// undefined and non-boolean conditions are false unless strict
	for _, source := range []string{`missing == "x"`, `location`} {
		ok, err = ev.Condition(MustCompile(source), vars)
		assert.NoError(t, err, source)
		assert.False(t, ok, source)

		_, err = Evaluator{Strict: true}.Condition(MustCompile(source), vars)
		assert.Error(t, err, source)
	}
}
