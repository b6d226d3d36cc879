package fat16

import (
	"os"
	"time"
)

// FileInfo returns the entry as os.FileInfo. Sys() returns the FullEntry itself.
func (e FullEntry) FileInfo() os.FileInfo {
	return entryFileInfo{e}
}

type entryFileInfo struct {
	entry FullEntry
}

func (e entryFileInfo) Name() string {
	return e.entry.Name
}

func (e entryFileInfo) Size() int64 {
	return int64(e.entry.Size)
}

// Mode reports every entry as readable only, as volumes are never written.
func (e entryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir | 0555
	}
	return 0444
}

// ModTime returns time.Time{} if the write date contained invalid values.
func (e entryFileInfo) ModTime() time.Time {
	return e.entry.Written.Time()
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}
