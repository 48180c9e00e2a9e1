package tmpdir

import (
	"os"
	"testing"

	"gotest.tools/v3/assert"
)

func TestNewCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir, err := New("")
	assert.NilError(t, err)
	defer dir.Close()

	info, err := os.Stat(dir.Path())
	assert.NilError(t, err)
	assert.Assert(t, info.IsDir())
}

func TestNextFileCreatesUniquelyNamedFiles(t *testing.T) {
	t.Parallel()

	dir, err := New("")
	assert.NilError(t, err)
	defer dir.Close()

	f1, p1, err := dir.NextFile()
	assert.NilError(t, err)
	defer f1.Close()

	f2, p2, err := dir.NextFile()
	assert.NilError(t, err)
	defer f2.Close()

	assert.Assert(t, p1 != p2)

	_, err = f1.WriteString("hello")
	assert.NilError(t, err)
}

func TestCloseRemovesDirectoryAndIsIdempotent(t *testing.T) {
	t.Parallel()

	dir, err := New("")
	assert.NilError(t, err)

	path := dir.Path()
	assert.NilError(t, dir.Close())

	_, err = os.Stat(path)
	assert.Assert(t, os.IsNotExist(err))

	// A second Close must not panic or return a different error.
	assert.NilError(t, dir.Close())
}
