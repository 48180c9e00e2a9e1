package compress

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/peak/gosort/xerrors"
)

// ExecCodec runs an external compressor/decompressor, e.g. "zstd -q" or
// "gzip". The same program is expected to compress when given no extra
// flags and decompress when given "-d" (GNU-style tools), matching how
// coreutils' sort --compress-prog works.
type ExecCodec struct {
	Program string
}

func (c ExecCodec) args(decompress bool) ([]string, error) {
	argv, err := shellquote.Split(c.Program)
	if err != nil {
		return nil, xerrors.New(xerrors.KindCompressor, "parse-compress-prog", err)
	}
	if len(argv) == 0 {
		return nil, xerrors.New(xerrors.KindCompressor, "parse-compress-prog", fmt.Errorf("empty --compress-prog"))
	}
	if decompress {
		argv = append(argv, "-d")
	}
	return argv, nil
}

// NewWriter spawns the compressor with its stdin piped from the caller
// and its stdout writing directly to w. Close waits for the process to
// exit, satisfying "closed only when the compressor has fully
// terminated".
func (c ExecCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	argv, err := c.args(false)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(context.Background(), argv[0], argv[1:]...)
	cmd.Stdout = w

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, xerrors.New(xerrors.KindCompressor, "start-compressor", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, xerrors.New(xerrors.KindCompressor, "start-compressor", err)
	}

	return &execWriteCloser{stdin: stdin, cmd: cmd}, nil
}

// NewReader spawns the decompressor with its stdin fed from r and
// returns a ReadCloser over its stdout.
func (c ExecCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	argv, err := c.args(true)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(context.Background(), argv[0], argv[1:]...)
	cmd.Stdin = r

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, xerrors.New(xerrors.KindCompressor, "start-decompressor", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, xerrors.New(xerrors.KindCompressor, "start-decompressor", err)
	}

	return &execReadCloser{stdout: stdout, cmd: cmd}, nil
}

type execWriteCloser struct {
	stdin io.WriteCloser
	cmd   *exec.Cmd
}

func (e *execWriteCloser) Write(p []byte) (int, error) { return e.stdin.Write(p) }

func (e *execWriteCloser) Close() error {
	if err := e.stdin.Close(); err != nil {
		return xerrors.New(xerrors.KindCompressor, "close-compressor-stdin", err)
	}
	if err := e.cmd.Wait(); err != nil {
		return xerrors.New(xerrors.KindCompressor, "wait-compressor", err)
	}
	return nil
}

type execReadCloser struct {
	stdout io.ReadCloser
	cmd    *exec.Cmd
}

func (e *execReadCloser) Read(p []byte) (int, error) { return e.stdout.Read(p) }

func (e *execReadCloser) Close() error {
	_ = e.stdout.Close()
	if err := e.cmd.Wait(); err != nil {
		return xerrors.New(xerrors.KindCompressor, "wait-decompressor", err)
	}
	return nil
}
