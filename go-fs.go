package fat16

import (
	"errors"
	"io"
	"io/fs"
)

// GoFs wraps the afero FAT16 implementation to be compatible with fs.FS.
type GoFs struct {
	Fs
}

// NewGoFS opens a FAT16 filesystem from the given reader as fs.FS compatible filesystem.
func NewGoFS(reader io.ReaderAt, opts ...Option) (*GoFs, error) {
	fs, err := New(reader, opts...)
	if err != nil {
		return nil, err
	}

	return &GoFs{*fs}, nil
}

func (g GoFs) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	file, err := g.Fs.Open(name)
	if err != nil {
		return nil, err
	}

	f, ok := file.(*File)
	if !ok {
		return nil, errors.New("invalid File implementation")
	}

	return f, nil
}

func (g GoFs) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	return g.Fs.Stat(name)
}
