// Package compress adapts run files to optionally flow through an
// external compressor/decompressor process or a built-in gzip codec.
// The merge stage is oblivious to which Codec (if any) a run uses; it
// only sees io.Reader/io.WriteCloser (§4.5 "Compressed runs").
package compress

import "io"

// Codec wraps a byte sink on the write side and a byte source on the
// read side around an underlying stream.
type Codec interface {
	// NewWriter returns a WriteCloser whose Close both flushes/finishes
	// the compression and waits for any child process to fully
	// terminate, matching §4.5: "the run is considered closed only when
	// the compressor has fully terminated".
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader returns a ReadCloser whose bytes are the decompressed
	// stream read from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// None is the identity Codec used for plain (uncompressed) runs.
var None Codec = noneCodec{}

type noneCodec struct{}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (noneCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
