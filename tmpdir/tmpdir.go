// Package tmpdir implements the temporary-file manager (§4.6): a single
// scratch directory that mints uniquely named run files and is
// recursively removed on teardown regardless of exit path.
package tmpdir

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/termie/go-shutil"

	"github.com/peak/gosort/xerrors"
)

// Dir owns one scratch directory. The zero value is not usable; create
// one with New.
type Dir struct {
	path    string
	counter uint64

	closeOnce sync.Once
	closeErr  error
}

// New creates a scratch directory inside base (the system temp directory
// when base is empty).
func New(base string) (*Dir, error) {
	path, err := os.MkdirTemp(base, "gosort-")
	if err != nil {
		return nil, xerrors.New(xerrors.KindTmp, "mkdir-scratch", err)
	}
	return &Dir{path: path}, nil
}

// Path returns the scratch directory's path; it is absolute when base is
// empty or absolute.
func (d *Dir) Path() string { return d.path }

// NextFile returns a freshly created, open-for-write file inside the
// scratch directory along with its path, uniquely named within the
// directory's lifetime.
func (d *Dir) NextFile() (*os.File, string, error) {
	n := atomic.AddUint64(&d.counter, 1)
	name := fmt.Sprintf("run-%06d", n)
	path := d.path + string(os.PathSeparator) + name

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, "", xerrors.New(xerrors.KindTmp, "create-run-file", err)
	}
	return f, path, nil
}

// Close recursively removes the scratch directory and everything under
// it. Safe to call more than once; only the first call's result is
// reported, subsequent calls are no-ops, which makes it safe to schedule
// from a deferred panic-recovery alongside an explicit teardown path.
func (d *Dir) Close() error {
	d.closeOnce.Do(func() {
		if err := shutil.RmTree(d.path, true); err != nil {
			d.closeErr = xerrors.New(xerrors.KindTmp, "remove-scratch", err)
		}
	})
	return d.closeErr
}
