package fat16

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"syscall"

	"github.com/aligator/fat16/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// fileVolume provides all methods needed from a Volume for File.
// It mainly exists to be able to mock the Volume in tests.
// Generated mock using mockgen:
//
//	mockgen -source=file.go -destination=file_mock.go -package fat16
type fileVolume interface {
	readClusterAt(p []byte, cluster uint16, off int64) (int, error)
	clusterSize() int64
	ReadDir(dir FullEntry) ([]FullEntry, error)
}

// File gives read and seek access to the bytes of an entry, or lists a directory.
// It implements afero.File and fs.ReadDirFile.
type File struct {
	vol  fileVolume
	path string

	entry FullEntry
	// clusters is the whole chain of the entry, resolved once when opening it.
	clusters []uint16

	offset    int64
	dirOffset int
}

// OpenEntry opens an entry returned by Lookup or ReadDir.
// The cluster chain of files is resolved completely, so broken chains fail here already.
func (v *Volume) OpenEntry(entry FullEntry) (*File, error) {
	f := &File{
		vol:   v,
		path:  entry.Name,
		entry: entry,
	}

	if !entry.IsDir() {
		chain, err := v.fat.Chain(entry.Cluster)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadFile)
		}
		f.clusters = chain
	}

	return f, nil
}

// Entry returns the entry the file was opened for.
func (f *File) Entry() FullEntry {
	return f.entry
}

// Clusters returns the cluster chain of the file.
func (f *File) Clusters() []uint16 {
	return f.clusters
}

func (f *File) Close() error {
	if f.vol == nil {
		return afero.ErrFileClosed
	}

	f.vol = nil
	f.path = ""
	f.entry = FullEntry{}
	f.clusters = nil
	f.offset = 0
	f.dirOffset = 0

	return nil
}

// Read reads up to len(p) bytes from the current offset, crossing cluster boundaries as needed.
// If the image ends early, the bytes read so far are returned without error.
// At or behind the end of the file it returns 0, io.EOF.
func (f *File) Read(p []byte) (n int, err error) {
	if f.vol == nil {
		return 0, afero.ErrFileClosed
	}
	if f.entry.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err = f.readAt(p, f.offset)
	f.offset += int64(n)

	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, checkpoint.Wrap(err, ErrReadFile)
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if f.vol == nil {
		return 0, afero.ErrFileClosed
	}
	if f.entry.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}
	if off < 0 {
		return 0, checkpoint.Wrap(fmt.Errorf("%w, offset: %v", syscall.EINVAL, off), ErrReadFile)
	}

	n, err = f.readAt(p, off)
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, checkpoint.Wrap(err, ErrReadFile)
}

// readAt copies the file content at off into p, limited by the file size and the cluster chain.
// It returns io.EOF if it stopped early because of the end of the file, the chain or the image.
func (f *File) readAt(p []byte, off int64) (int, error) {
	size := int64(f.entry.Size)
	if off >= size {
		return 0, io.EOF
	}
	if remaining := size - off; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	clusterSize := f.vol.clusterSize()
	n := 0
	for n < len(p) {
		cluster, ok := f.clusterAt(off)
		if !ok {
			return n, io.EOF
		}

		inCluster := off % clusterSize
		chunk := p[n:]
		if int64(len(chunk)) > clusterSize-inCluster {
			chunk = chunk[:clusterSize-inCluster]
		}

		read, err := f.vol.readClusterAt(chunk, cluster, inCluster)
		n += read
		off += int64(read)
		if err != nil {
			return n, err
		}
		if read < len(chunk) {
			return n, io.EOF
		}
	}

	return n, nil
}

// clusterAt returns the cluster holding the byte at off.
// It returns false if the offset lies behind the chain.
func (f *File) clusterAt(off int64) (uint16, bool) {
	index := off / f.vol.clusterSize()
	if index >= int64(len(f.clusters)) {
		return 0, false
	}
	return f.clusters[index], true
}

// Seek sets the offset for the next Read, which may also be behind the end of the file.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the resulting offset is negative.
// Directories only support seeking to the start, which restarts the listing.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.vol == nil {
		return 0, afero.ErrFileClosed
	}

	if f.entry.IsDir() {
		if offset != 0 || whence != io.SeekStart {
			return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, directories can only be rewound", syscall.EINVAL))
		}
		f.dirOffset = 0
		return 0, nil
	}

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = int64(f.entry.Size) + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, checkpoint.From(ErrReadOnly)
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, checkpoint.From(ErrReadOnly)
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	return checkpoint.From(ErrReadOnly)
}

// Sync has nothing to do as nothing is ever written.
func (f *File) Sync() error {
	return nil
}

func (f *File) Name() string {
	return f.path
}

func (f *File) Stat() (os.FileInfo, error) {
	if f.vol == nil {
		return nil, afero.ErrFileClosed
	}
	return f.entry.FileInfo(), nil
}

// listing returns the directory content without "." and ".." entries and volume labels.
func (f *File) listing() ([]FullEntry, error) {
	if f.vol == nil {
		return nil, afero.ErrFileClosed
	}
	if !f.entry.IsDir() {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	all, err := f.vol.ReadDir(f.entry)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	content := make([]FullEntry, 0, len(all))
	for _, e := range all {
		if e.IsDotEntry() || e.IsVolumeLabel() {
			continue
		}
		content = append(content, e)
	}
	return content, nil
}

// nextEntries continues the directory listing.
// If count <= 0, all remaining entries are returned.
// Otherwise at most count entries are returned and io.EOF once there are none left.
func (f *File) nextEntries(count int) ([]FullEntry, error) {
	content, err := f.listing()
	if err != nil {
		return nil, err
	}

	if f.dirOffset > len(content) {
		f.dirOffset = len(content)
	}
	rest := content[f.dirOffset:]

	if count <= 0 {
		f.dirOffset += len(rest)
		return rest, nil
	}

	if len(rest) == 0 {
		return nil, io.EOF
	}
	if count > len(rest) {
		count = len(rest)
	}
	f.dirOffset += count
	return rest[:count], nil
}

// Readdir reads the contents of a directory.
// May return syscall.ENOTDIR if the current File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	content, err := f.nextEntries(count)

	result := make([]os.FileInfo, len(content))
	for i := range content {
		result[i] = content[i].FileInfo()
	}

	return result, err
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.nextEntries(count)

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name
	}

	return names, err
}

// ReadDir implements fs.ReadDirFile.
func (f *File) ReadDir(count int) ([]fs.DirEntry, error) {
	content, err := f.nextEntries(count)

	result := make([]fs.DirEntry, len(content))
	for i := range content {
		result[i] = fs.FileInfoToDirEntry(content[i].FileInfo())
	}

	return result, err
}
