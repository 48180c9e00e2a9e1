package compress

import (
	"bytes"
	"io"
	"testing"

	"gotest.tools/v3/assert"
)

func roundTrip(t *testing.T, codec Codec, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf)
	assert.NilError(t, err)
	_, err = w.Write(payload)
	assert.NilError(t, err)
	assert.NilError(t, w.Close())

	r, err := codec.NewReader(&buf)
	assert.NilError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	assert.NilError(t, err)
	return out
}

func TestNoneCodecIsIdentity(t *testing.T) {
	t.Parallel()

	out := roundTrip(t, None, []byte("hello\nworld\n"))
	assert.Equal(t, string(out), "hello\nworld\n")
}

func TestGzipCodecRoundTrip(t *testing.T) {
	t.Parallel()

	out := roundTrip(t, GzipCodec{}, []byte("a\nb\nc\n"))
	assert.Equal(t, string(out), "a\nb\nc\n")
}

func TestExecCodecRoundTripThroughGzip(t *testing.T) {
	t.Parallel()

	out := roundTrip(t, ExecCodec{Program: "gzip"}, []byte("run\ndata\n"))
	assert.Equal(t, string(out), "run\ndata\n")
}

func TestExecCodecRejectsEmptyProgram(t *testing.T) {
	t.Parallel()

	_, err := ExecCodec{Program: "  "}.NewWriter(&bytes.Buffer{})
	assert.ErrorContains(t, err, "compress-prog")
}
