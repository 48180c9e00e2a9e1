package command

import (
	"bufio"
	"io"
	"os"
	"sort"

	"github.com/karrick/godirwalk"

	"github.com/peak/gosort/xerrors"
)

// resolveInputPaths builds the final, ordered list of input file paths
// for one sort invocation: positional arguments plus whatever
// --files0-from names, with any directory argument expanded to the
// files underneath it. A nil, empty result means "read from stdin".
func resolveInputPaths(args []string, files0From string) ([]string, error) {
	if files0From != "" {
		extra, err := readFiles0From(files0From)
		if err != nil {
			return nil, err
		}
		args = append(append([]string{}, args...), extra...)
	}

	var resolved []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, xerrors.New(xerrors.KindInputIO, "stat-input", err)
		}
		if !info.IsDir() {
			resolved = append(resolved, a)
			continue
		}

		var dirFiles []string
		err = godirwalk.Walk(a, &godirwalk.Options{
			Callback: func(path string, de *godirwalk.Dirent) error {
				if de.IsDir() {
					return nil
				}
				dirFiles = append(dirFiles, path)
				return nil
			},
			Unsorted: true,
		})
		if err != nil {
			return nil, xerrors.New(xerrors.KindInputIO, "walk-input-dir", err)
		}
		sort.Strings(dirFiles)
		resolved = append(resolved, dirFiles...)
	}

	return resolved, nil
}

// readFiles0From reads a NUL-separated list of paths from path (or
// stdin when path is "-"), matching coreutils sort's --files0-from.
func readFiles0From(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, xerrors.New(xerrors.KindInputIO, "open-files0-from", err)
		}
		defer f.Close()
		r = f
	}

	br := bufio.NewReader(r)
	var out []string
	for {
		tok, err := br.ReadString(0)
		if n := len(tok); n > 0 && tok[n-1] == 0 {
			tok = tok[:n-1]
		}
		if tok != "" {
			out = append(out, tok)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, xerrors.New(xerrors.KindInputIO, "read-files0-from", err)
		}
	}
	return out, nil
}

// inputStreams turns a resolved path list into the (first, NextFunc)
// pair sortengine.Reader needs, opening files lazily and in order. An
// empty paths list reads a single stream from stdin.
type inputStreams struct {
	paths   []string
	idx     int
	current *os.File
}

func newInputStreams(paths []string) *inputStreams {
	return &inputStreams{paths: paths}
}

// First returns the initial stream to read from.
func (s *inputStreams) First() (io.Reader, error) {
	if len(s.paths) == 0 {
		return os.Stdin, nil
	}
	f, err := os.Open(s.paths[0])
	if err != nil {
		return nil, xerrors.New(xerrors.KindInputIO, "open-input", err)
	}
	s.current = f
	s.idx = 1
	return f, nil
}

// Next implements sortengine.NextFunc.
func (s *inputStreams) Next() (io.Reader, bool, error) {
	if s.current != nil {
		_ = s.current.Close()
		s.current = nil
	}
	if s.idx >= len(s.paths) {
		return nil, false, nil
	}

	f, err := os.Open(s.paths[s.idx])
	if err != nil {
		return nil, false, xerrors.New(xerrors.KindInputIO, "open-input", err)
	}
	s.current = f
	s.idx++
	return f, true, nil
}

// Close releases whichever stream is currently open.
func (s *inputStreams) Close() error {
	if s.current != nil {
		return s.current.Close()
	}
	return nil
}
