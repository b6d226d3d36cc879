package fat16

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aligator/fat16/checkpoint"
)

// rootCluster is the key of the root directory in the materialization cache.
// ".." entries of first level directories also point to it.
const rootCluster = 0

// Option configures a Volume.
type Option func(v *Volume)

// WithLogger sets the logger used for mount and directory diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Volume) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Volume is an opened FAT16 image.
// It is safe for concurrent use: lookups of already decoded directories share a read lock,
// decoding a new directory takes the write lock.
type Volume struct {
	lock sync.RWMutex

	reader io.ReaderAt
	boot   BootSector
	fat    *FatTable
	tree   *tree

	logger *slog.Logger
}

// Open mounts the FAT16 image provided by r: it parses the boot sector, loads the first FAT
// and decodes the root directory. Subdirectories are decoded on demand.
func Open(r io.ReaderAt, opts ...Option) (*Volume, error) {
	v := &Volume{
		reader: r,
		tree:   newTree(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}

	boot, err := ParseBootSector(r)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	v.boot = boot

	v.logger.Debug("parsed boot sector",
		"bytesPerSector", boot.BytesPerSector,
		"sectorsPerCluster", boot.SectorsPerCluster,
		"fatStart", boot.FatStart(),
		"rootDirStart", boot.RootDirStart(),
		"dataStart", boot.DataStart(),
	)
	if !boot.IsFAT16() {
		v.logger.Warn("cluster count does not match FAT16, reading it as FAT16 anyway", "clusters", boot.ClusterCount())
	}

	v.fat, err = LoadFat(r, boot.FatStart(), boot.FatSize())
	if err != nil {
		return nil, checkpoint.From(err)
	}

	raw := make([]byte, int64(boot.RootEntryCount)*entrySize)
	if err := v.readFull(raw, boot.RootDirStart()); err != nil {
		return nil, checkpoint.From(err)
	}

	entries, err := decodeDirectoryRun(raw)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	v.tree.add(rootCluster, entries)

	return v, nil
}

func (v *Volume) BootSector() BootSector {
	return v.boot
}

func (v *Volume) FAT() *FatTable {
	return v.fat
}

// DataStart is the byte offset of the data area.
func (v *Volume) DataStart() int64 {
	return v.boot.DataStart()
}

// Label returns the volume label entry of the root directory or,
// if there is none, the label stored in the boot sector.
func (v *Volume) Label() string {
	v.lock.RLock()
	defer v.lock.RUnlock()

	for _, i := range v.tree.dirs[rootCluster] {
		if e := v.tree.entries[i]; e.IsVolumeLabel() {
			return e.ShortName
		}
	}
	return v.boot.VolumeLabel
}

// EntryCount returns the number of entries decoded so far.
func (v *Volume) EntryCount() int {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return len(v.tree.entries)
}

func (v *Volume) clusterSize() int64 {
	return v.boot.ClusterSize()
}

// clusterOffset returns the byte offset of cluster in the image.
func (v *Volume) clusterOffset(cluster uint16) (int64, error) {
	if cluster < 2 || int(cluster) >= v.fat.Len() {
		return 0, checkpoint.Wrap(fmt.Errorf("cluster %d has no data", cluster), ErrClusterOutOfRange)
	}

	return v.boot.DataStart() + int64(cluster-2)*v.boot.ClusterSize(), nil
}

// readClusterAt reads into p starting at off bytes inside of the given cluster.
// Short reads of the image are returned as they are, together with io.EOF.
func (v *Volume) readClusterAt(p []byte, cluster uint16, off int64) (int, error) {
	base, err := v.clusterOffset(cluster)
	if err != nil {
		return 0, checkpoint.From(err)
	}

	if off < 0 || off >= v.boot.ClusterSize() {
		return 0, checkpoint.Wrap(fmt.Errorf("offset %d outside of cluster %d", off, cluster), ErrReadFile)
	}
	if off+int64(len(p)) > v.boot.ClusterSize() {
		p = p[:v.boot.ClusterSize()-off]
	}

	n, err := v.reader.ReadAt(p, base+off)
	if err != nil && err != io.EOF {
		return n, checkpoint.Wrap(err, ErrIoFailure)
	}
	return n, err
}

// readFull fills p from the image, failing with ErrTruncatedImage if the image ends before.
func (v *Volume) readFull(p []byte, off int64) error {
	n, err := v.reader.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err != nil && err != io.EOF {
		return checkpoint.Wrap(err, ErrIoFailure)
	}
	return checkpoint.Wrap(fmt.Errorf("at %d: got %d of %d bytes", off, n, len(p)), ErrTruncatedImage)
}
