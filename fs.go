package fat16

import (
	"io"
	"os"
	"path"
	"time"

	"github.com/aligator/fat16/checkpoint"
	"github.com/spf13/afero"
)

// Fs provides a read-only afero.Fs on top of a Volume.
// All modifying methods fail with ErrReadOnly.
// Names are cleaned lexically like in other afero.Fs implementations, so "A/B/.." is "A"
// even if the ".." entry stored in B points elsewhere. Volume.Lookup follows the stored entries instead.
type Fs struct {
	vol *Volume
}

// New opens the FAT16 image provided by reader as afero.Fs.
func New(reader io.ReaderAt, opts ...Option) (*Fs, error) {
	vol, err := Open(reader, opts...)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	return NewFs(vol), nil
}

// NewFs wraps an already opened volume.
func NewFs(vol *Volume) *Fs {
	return &Fs{vol: vol}
}

func (fs *Fs) Volume() *Volume {
	return fs.vol
}

// Label returns the label of the volume.
func (fs *Fs) Label() string {
	return fs.vol.Label()
}

// clean converts an afero name into an absolute path without "." or ".." components.
func clean(name string) string {
	return path.Clean("/" + name)
}

func (fs *Fs) Open(name string) (afero.File, error) {
	entry, err := fs.vol.Lookup(clean(name))
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	file, err := fs.vol.OpenEntry(entry)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	file.path = name

	return file, nil
}

// OpenFile only supports os.O_RDONLY, any other flag fails with ErrReadOnly.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, fs.readOnly("open", name)
	}
	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	entry, err := fs.vol.Lookup(clean(name))
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return entry.FileInfo(), nil
}

func (fs *Fs) Name() string {
	return "fat16"
}

func (fs *Fs) readOnly(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: checkpoint.From(ErrReadOnly)}
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, fs.readOnly("create", name)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return fs.readOnly("mkdir", name)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return fs.readOnly("mkdir", path)
}

func (fs *Fs) Remove(name string) error {
	return fs.readOnly("remove", name)
}

func (fs *Fs) RemoveAll(path string) error {
	return fs.readOnly("remove", path)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: checkpoint.From(ErrReadOnly)}
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return fs.readOnly("chmod", name)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return fs.readOnly("chown", name)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return fs.readOnly("chtimes", name)
}
