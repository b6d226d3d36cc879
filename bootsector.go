package fat16

import (
	"fmt"
	"io"
	"strings"

	"github.com/aligator/fat16/checkpoint"
)

// BootSector is the geometry of a volume as read once from its boot sector.
type BootSector struct {
	OEMName           string
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors      uint32
	SectorsPerFAT     uint16
	VolumeLabel       string
	FileSystemType    string
}

// ParseBootSector reads the BIOS Parameter Block from the beginning of the image.
// Zero bytes per sector or sectors per cluster are rejected as ErrInvalidBootSector
// since every following offset calculation divides by them.
func ParseBootSector(r io.ReaderAt) (BootSector, error) {
	raw := make([]byte, bpbSize)
	n, err := r.ReadAt(raw, 0)
	if n < bpbSize {
		if err != nil && err != io.EOF {
			return BootSector{}, checkpoint.Wrap(err, ErrIoFailure)
		}
		return BootSector{}, checkpoint.Wrap(fmt.Errorf("boot sector: got %d of %d bytes", n, bpbSize), ErrTruncatedImage)
	}

	bpb := BPB{}
	if err := unpack(raw, &bpb); err != nil {
		return BootSector{}, checkpoint.Wrap(err, ErrInvalidBootSector)
	}

	if bpb.BytesPerSector == 0 {
		return BootSector{}, checkpoint.Wrap(fmt.Errorf("bytes per sector is 0"), ErrInvalidBootSector)
	}
	if bpb.SectorsPerCluster == 0 {
		return BootSector{}, checkpoint.Wrap(fmt.Errorf("sectors per cluster is 0"), ErrInvalidBootSector)
	}

	totalSectors := uint32(bpb.TotalSectors16)
	if totalSectors == 0 {
		totalSectors = bpb.TotalSectors32
	}

	return BootSector{
		OEMName:           strings.TrimRight(string(bpb.BSOEMName[:]), " \x00"),
		BytesPerSector:    bpb.BytesPerSector,
		SectorsPerCluster: bpb.SectorsPerCluster,
		ReservedSectors:   bpb.ReservedSectorCount,
		NumFATs:           bpb.NumFATs,
		RootEntryCount:    bpb.RootEntryCount,
		TotalSectors:      totalSectors,
		SectorsPerFAT:     bpb.FATSize16,
		VolumeLabel:       strings.TrimRight(string(bpb.BSVolumeLabel[:]), " \x00"),
		FileSystemType:    strings.TrimRight(string(bpb.BSFileSystemType[:]), " \x00"),
	}, nil
}

// FatStart is the byte offset of the first FAT copy.
func (b BootSector) FatStart() int64 {
	return int64(b.ReservedSectors) * int64(b.BytesPerSector)
}

// FatSize is the size of one FAT copy in bytes.
func (b BootSector) FatSize() int64 {
	return int64(b.SectorsPerFAT) * int64(b.BytesPerSector)
}

// RootDirStart is the byte offset of the fixed size root directory region.
func (b BootSector) RootDirStart() int64 {
	return b.FatStart() + int64(b.NumFATs)*b.FatSize()
}

// RootDirSize is the size of the root directory region rounded up to whole sectors.
func (b BootSector) RootDirSize() int64 {
	sectors := (int64(b.RootEntryCount)*entrySize + int64(b.BytesPerSector) - 1) / int64(b.BytesPerSector)
	return sectors * int64(b.BytesPerSector)
}

// DataStart is the byte offset of cluster 2.
func (b BootSector) DataStart() int64 {
	return b.RootDirStart() + b.RootDirSize()
}

// ClusterSize is the size of one cluster in bytes.
func (b BootSector) ClusterSize() int64 {
	return int64(b.SectorsPerCluster) * int64(b.BytesPerSector)
}

// ClusterCount is the number of data clusters the volume provides.
// The FAT type of a volume is defined by it: FAT16 volumes have between 4085 and 65524 clusters.
func (b BootSector) ClusterCount() int64 {
	dataSectors := int64(b.TotalSectors) - b.DataStart()/int64(b.BytesPerSector)
	if dataSectors < 0 {
		return 0
	}
	return dataSectors / int64(b.SectorsPerCluster)
}

// IsFAT16 reports whether the cluster count classifies the volume as FAT16.
func (b BootSector) IsFAT16() bool {
	count := b.ClusterCount()
	return count >= 4085 && count < 65525
}
