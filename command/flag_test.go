package command

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestEnumValueAcceptsListedValue(t *testing.T) {
	t.Parallel()

	e := &EnumValue{Enum: []string{"text", "json"}, Default: "text"}
	assert.NilError(t, e.Set("json"))
	assert.Equal(t, e.String(), "json")
}

func TestEnumValueRejectsUnlistedValue(t *testing.T) {
	t.Parallel()

	e := &EnumValue{Enum: []string{"text", "json"}, Default: "text"}
	err := e.Set("xml")
	assert.ErrorContains(t, err, "allowed values")
	assert.Equal(t, e.String(), "text")
}

func TestEnumValueDefaultWhenUnset(t *testing.T) {
	t.Parallel()

	e := &EnumValue{Enum: []string{"a", "b"}, Default: "a"}
	assert.Equal(t, e.String(), "a")
}
