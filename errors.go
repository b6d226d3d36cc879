package fat16

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// These errors describe what went wrong while reading a volume.
// They are always wrapped using the checkpoint package, so use errors.Is to check for them.
var (
	ErrTruncatedImage    = errors.New("image is smaller than the structure it should contain")
	ErrInvalidBootSector = errors.New("invalid boot sector")
	ErrClusterOutOfRange = errors.New("cluster number is out of the range of the FAT")
	ErrBrokenChain       = errors.New("cluster chain contains a free, reserved or bad cluster")
	ErrCyclicChain       = errors.New("cluster chain is longer than the FAT")
	ErrIoFailure         = errors.New("could not read from the image")

	ErrNotFound      = fmt.Errorf("entry not found: %w", fs.ErrNotExist)
	ErrNotADirectory = fmt.Errorf("entry is no directory: %w", syscall.ENOTDIR)
	ErrReadOnly      = fmt.Errorf("fat16 volumes are read-only: %w", syscall.EROFS)
)
