// Package imagefile opens FAT16 image files from an afero.Fs.
// Compressed images (.gz, .zst, .xz) are decompressed into memory, raw images
// are read directly from the file.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aligator/fat16/checkpoint"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

var (
	ErrOpenImage  = errors.New("could not open the image file")
	ErrDecompress = errors.New("could not decompress the image file")
)

// Compression is the compression format of an image file.
type Compression string

const (
	None Compression = ""
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
	Xz   Compression = "xz"
)

// DetectCompression derives the compression from the file extension.
func DetectCompression(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return Gzip
	case strings.HasSuffix(name, ".zst"):
		return Zstd
	case strings.HasSuffix(name, ".xz"):
		return Xz
	default:
		return None
	}
}

// Image is an opened image file. It implements io.ReaderAt.
type Image struct {
	name        string
	compression Compression

	reader io.ReaderAt
	size   int64
	file   afero.File
}

// Open opens the image file name on fsys.
func Open(fsys afero.Fs, name string) (*Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}

	img := &Image{
		name:        name,
		compression: DetectCompression(name),
	}

	if img.compression == None {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, checkpoint.Wrap(err, ErrOpenImage)
		}
		if info.IsDir() {
			f.Close()
			return nil, checkpoint.Wrap(fmt.Errorf("%v is a directory", name), ErrOpenImage)
		}

		img.reader = f
		img.size = info.Size()
		img.file = f
		return img, nil
	}

	defer f.Close()

	data, err := decompress(f, img.compression)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrDecompress)
	}

	img.reader = bytes.NewReader(data)
	img.size = int64(len(data))
	return img, nil
}

func decompress(r io.Reader, compression Compression) ([]byte, error) {
	switch compression {
	case Gzip:
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		defer reader.Close()
		return readAll(reader)
	case Zstd:
		reader, err := zstd.NewReader(r)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		defer reader.Close()
		return readAll(reader)
	case Xz:
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		return readAll(reader)
	default:
		return nil, fmt.Errorf("unknown compression %q", compression)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return data, nil
}

func (img *Image) ReadAt(p []byte, off int64) (int, error) {
	return img.reader.ReadAt(p, off)
}

// Size is the size of the (decompressed) image in bytes.
func (img *Image) Size() int64 {
	return img.size
}

func (img *Image) Name() string {
	return img.name
}

func (img *Image) Compression() Compression {
	return img.compression
}

// Close closes the underlying file of raw images.
// Decompressed images only drop their data.
func (img *Image) Close() error {
	img.reader = bytes.NewReader(nil)
	if img.file == nil {
		return nil
	}

	err := img.file.Close()
	img.file = nil
	return checkpoint.From(err)
}
