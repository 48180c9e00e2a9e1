package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec is the built-in alternative to an external --compress-prog:
// no child process, same Codec contract.
type GzipCodec struct{}

func (GzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

func (GzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return gr, nil
}
