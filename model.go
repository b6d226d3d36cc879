// File model contains the structs which match the direct structures of the FAT16 filesystem.
// They are decoded using restruct, all fields are little endian.

package fat16

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
)

const (
	// bpbSize is the size of the BIOS Parameter Block including the FAT16 specific data.
	bpbSize = 62

	// entrySize is the size of every directory record.
	entrySize = 32
)

type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	BSDriveNumber       byte
	BSReserved1         byte
	BSBootSignature     byte
	BSVolumeID          uint32
	BSVolumeLabel       [11]byte
	BSFileSystemType    [8]byte
}

type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// LongFilenameEntry overlays an EntryHeader whose attribute marks it as long filename fragment.
type LongFilenameEntry struct {
	Sequence  byte
	First     [5]uint16
	Attribute byte
	EntryType byte
	Checksum  byte
	Second    [6]uint16
	Zero      [2]byte
	Third     [2]uint16
}

// chars returns the 13 character slots in their logical order.
func (l LongFilenameEntry) chars() []uint16 {
	chars := make([]uint16, 0, 13)
	chars = append(chars, l.First[:]...)
	chars = append(chars, l.Second[:]...)
	return append(chars, l.Third[:]...)
}

func unpack(raw []byte, v interface{}) error {
	return restruct.Unpack(raw, binary.LittleEndian, v)
}
