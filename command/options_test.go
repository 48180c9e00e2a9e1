package command

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/peak/gosort/sortkey"
)

func TestParseFieldPosPlain(t *testing.T) {
	t.Parallel()

	field, char, err := parseFieldPos("2")
	assert.NilError(t, err)
	assert.Equal(t, field, 2)
	assert.Equal(t, char, 0)
}

func TestParseFieldPosWithCharOffset(t *testing.T) {
	t.Parallel()

	field, char, err := parseFieldPos("3.5")
	assert.NilError(t, err)
	assert.Equal(t, field, 3)
	assert.Equal(t, char, 5)
}

func TestParseFieldPosRejectsNonPositive(t *testing.T) {
	t.Parallel()

	_, _, err := parseFieldPos("0")
	assert.ErrorContains(t, err, "positive")
}

func TestParseFieldPosRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := parseFieldPos("x")
	assert.ErrorContains(t, err, "invalid field number")
}

func TestParseKeySpecStartOnly(t *testing.T) {
	t.Parallel()

	k, err := parseKeySpec("2.3")
	assert.NilError(t, err)
	assert.DeepEqual(t, k, sortkey.KeyField{StartField: 2, StartChar: 3})
}

func TestParseKeySpecStartAndEnd(t *testing.T) {
	t.Parallel()

	k, err := parseKeySpec("1,3.2")
	assert.NilError(t, err)
	assert.DeepEqual(t, k, sortkey.KeyField{StartField: 1, EndField: 3, EndChar: 2})
}

func TestParseKeySpecPropagatesError(t *testing.T) {
	t.Parallel()

	_, err := parseKeySpec("bad")
	assert.ErrorContains(t, err, "invalid field number")
}
