package fat16

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/aligator/fat16/checkpoint"
)

// fatEntry is a single FAT16 value.
type fatEntry uint16

func (e fatEntry) IsFree() bool {
	return e == 0
}

func (e fatEntry) IsNextCluster() bool {
	return e >= 0x0002 && e <= 0xFFEF
}

// IsReserved also covers the value 1 which is never a valid cluster link.
func (e fatEntry) IsReserved() bool {
	return e == 0x0001 || (e >= 0xFFF0 && e <= 0xFFF6)
}

func (e fatEntry) IsBad() bool {
	return e == 0xFFF7
}

func (e fatEntry) IsEOF() bool {
	return e >= 0xFFF8
}

// LinkKind classifies the value a FAT holds for a cluster.
type LinkKind uint8

const (
	LinkFree LinkKind = iota
	LinkNext
	LinkReserved
	LinkBad
	LinkEndOfChain
)

func (k LinkKind) String() string {
	switch k {
	case LinkFree:
		return "free"
	case LinkNext:
		return "next"
	case LinkReserved:
		return "reserved"
	case LinkBad:
		return "bad"
	case LinkEndOfChain:
		return "end-of-chain"
	default:
		return fmt.Sprintf("LinkKind(%d)", uint8(k))
	}
}

// ClusterLink answers "what follows cluster N". Cluster is only set for LinkNext.
type ClusterLink struct {
	Kind    LinkKind
	Cluster uint16
}

// FatTable is the in-memory copy of the first FAT, indexed by cluster number.
// Index 0 and 1 are placeholders as cluster numbering starts at 2.
type FatTable struct {
	entries []fatEntry
}

// maxFatSize is the size of a table holding an entry for every 16 bit cluster number.
const maxFatSize = 0x10000 * 2

// LoadFat reads size bytes at offset and interprets them as little endian FAT16 values.
// Only the first maxFatSize bytes are read as no cluster number can address the rest.
func LoadFat(r io.ReaderAt, offset, size int64) (*FatTable, error) {
	if size < 0 {
		return nil, checkpoint.Wrap(fmt.Errorf("FAT size %d", size), ErrInvalidBootSector)
	}
	if size > maxFatSize {
		size = maxFatSize
	}

	raw := make([]byte, size)
	n, err := r.ReadAt(raw, offset)
	if int64(n) < size {
		if err != nil && err != io.EOF {
			return nil, checkpoint.Wrap(err, ErrIoFailure)
		}
		return nil, checkpoint.Wrap(fmt.Errorf("FAT at %d: got %d of %d bytes", offset, n, size), ErrTruncatedImage)
	}

	entries := make([]fatEntry, size/2)
	for i := range entries {
		entries[i] = fatEntry(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return &FatTable{entries: entries}, nil
}

// Len returns the number of cluster numbers the table can address.
func (t *FatTable) Len() int {
	return len(t.entries)
}

// Next looks up the link stored for cluster.
func (t *FatTable) Next(cluster uint16) (ClusterLink, error) {
	if int(cluster) >= len(t.entries) {
		return ClusterLink{}, checkpoint.Wrap(fmt.Errorf("cluster %d, FAT length %d", cluster, len(t.entries)), ErrClusterOutOfRange)
	}

	e := t.entries[cluster]
	switch {
	case e.IsFree():
		return ClusterLink{Kind: LinkFree}, nil
	case e.IsNextCluster():
		return ClusterLink{Kind: LinkNext, Cluster: uint16(e)}, nil
	case e.IsBad():
		return ClusterLink{Kind: LinkBad}, nil
	case e.IsEOF():
		return ClusterLink{Kind: LinkEndOfChain}, nil
	default:
		return ClusterLink{Kind: LinkReserved}, nil
	}
}

// Chain follows the links starting at start until an end-of-chain marker.
// A start cluster of 0 denotes an empty file and yields an empty chain.
// As no chain can contain more clusters than the table, longer chains fail with ErrCyclicChain.
func (t *FatTable) Chain(start uint16) ([]uint16, error) {
	if start == 0 {
		return nil, nil
	}

	var chain []uint16
	cluster := start
	for {
		if cluster < 2 {
			return chain, checkpoint.Wrap(fmt.Errorf("cluster %d in chain of %d", cluster, start), ErrClusterOutOfRange)
		}
		if len(chain) >= len(t.entries) {
			return chain, checkpoint.Wrap(fmt.Errorf("chain of %d", start), ErrCyclicChain)
		}
		chain = append(chain, cluster)

		link, err := t.Next(cluster)
		if err != nil {
			return chain, checkpoint.From(err)
		}

		switch link.Kind {
		case LinkNext:
			cluster = link.Cluster
		case LinkEndOfChain:
			return chain, nil
		default:
			return chain, checkpoint.Wrap(fmt.Errorf("cluster %d links to %v", cluster, link.Kind), ErrBrokenChain)
		}
	}
}
