// Package fattest builds small FAT16 images in memory for tests.
//
// Images are assembled from raw 32 byte directory records, so tests can also
// build broken images: cyclic directories, dangling long filename fragments,
// FAT chains pointing anywhere.
package fattest

import (
	"encoding/binary"
	"strings"
)

// Geometry is the BIOS Parameter Block of a built image.
type Geometry struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	SectorsPerFAT     uint16
	TotalSectors      uint16
}

// DefaultGeometry uses 512 byte sectors and clusters, two FATs of one sector
// (clusters 2 to 255) and a root directory of 64 entries.
func DefaultGeometry() Geometry {
	return Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntryCount:    64,
		SectorsPerFAT:     1,
		TotalSectors:      1 + 2*1 + 4 + 254,
	}
}

func (g Geometry) ClusterSize() int {
	return int(g.BytesPerSector) * int(g.SectorsPerCluster)
}

func (g Geometry) FatStart() int {
	return int(g.ReservedSectors) * int(g.BytesPerSector)
}

func (g Geometry) RootDirStart() int {
	return g.FatStart() + int(g.NumFATs)*int(g.SectorsPerFAT)*int(g.BytesPerSector)
}

func (g Geometry) DataStart() int {
	rootSectors := (int(g.RootEntryCount)*32 + int(g.BytesPerSector) - 1) / int(g.BytesPerSector)
	return g.RootDirStart() + rootSectors*int(g.BytesPerSector)
}

// ClusterOffset is the byte offset of cluster in the image.
func (g Geometry) ClusterOffset(cluster uint16) int {
	return g.DataStart() + (int(cluster)-2)*g.ClusterSize()
}

// The write timestamp of every record built by Short: 2021-03-04 12:34:56.
const (
	WriteDate uint16 = (2021-1980)<<9 | 3<<5 | 4
	WriteTime uint16 = 12<<11 | 34<<5 | 56/2
)

// Image is a FAT16 image under construction.
type Image struct {
	Geometry Geometry
	Label    string

	fat      []uint16
	root     [][]byte
	clusters map[uint16][]byte
	next     uint16
}

func New(geometry Geometry) *Image {
	fat := make([]uint16, int(geometry.SectorsPerFAT)*int(geometry.BytesPerSector)/2)
	fat[0] = 0xFFF8
	fat[1] = 0xFFFF

	return &Image{
		Geometry: geometry,
		Label:    "NO NAME",
		fat:      fat,
		clusters: make(map[uint16][]byte),
		next:     2,
	}
}

// SetFAT stores value as FAT entry of cluster.
func (img *Image) SetFAT(cluster, value uint16) {
	img.fat[cluster] = value
}

// Link chains the given clusters in order and terminates the chain.
func (img *Image) Link(clusters ...uint16) {
	for i, c := range clusters {
		if i == len(clusters)-1 {
			img.fat[c] = 0xFFFF
		} else {
			img.fat[c] = clusters[i+1]
		}
	}
}

// WriteCluster stores data at the beginning of cluster.
func (img *Image) WriteCluster(cluster uint16, data []byte) {
	buf := make([]byte, img.Geometry.ClusterSize())
	copy(buf, data)
	img.clusters[cluster] = buf
}

// AddRoot appends records to the root directory.
func (img *Image) AddRoot(records ...[]byte) {
	img.root = append(img.root, records...)
}

// Alloc returns n clusters which are neither linked in the FAT nor written yet.
func (img *Image) Alloc(n int) []uint16 {
	var clusters []uint16
	for len(clusters) < n {
		c := img.next
		img.next++
		if img.fat[c] != 0 || img.clusters[c] != nil {
			continue
		}
		clusters = append(clusters, c)
	}
	return clusters
}

// WriteData allocates a chain for data, writes it and returns the first cluster.
// Empty data gets no cluster at all and returns 0.
func (img *Image) WriteData(data []byte) uint16 {
	size := img.Geometry.ClusterSize()
	count := (len(data) + size - 1) / size
	if count == 0 {
		return 0
	}

	chain := img.Alloc(count)
	img.Link(chain...)
	for i, c := range chain {
		end := (i + 1) * size
		if end > len(data) {
			end = len(data)
		}
		img.WriteCluster(c, data[i*size:end])
	}
	return chain[0]
}

// Dir allocates a directory inside of the directory starting at parent (0 for root),
// writes its "." and ".." entries followed by records and returns its first cluster.
// Use Short to create the entry pointing to it.
func (img *Image) Dir(parent uint16, records ...[]byte) uint16 {
	size := img.Geometry.ClusterSize() / 32
	count := (len(records) + 2 + size - 1) / size

	chain := img.Alloc(count)
	img.Link(chain...)

	all := append([][]byte{
		Short(".", 0x10, chain[0], 0),
		Short("..", 0x10, parent, 0),
	}, records...)
	img.writeRecords(chain, all)
	return chain[0]
}

// WriteDirAt writes records into already chosen clusters, which get linked in order.
// Nothing is added automatically, so "." and ".." have to be part of records.
func (img *Image) WriteDirAt(clusters []uint16, records ...[]byte) {
	img.Link(clusters...)
	img.writeRecords(clusters, records)
}

func (img *Image) writeRecords(chain []uint16, records [][]byte) {
	perCluster := img.Geometry.ClusterSize() / 32
	for i, c := range chain {
		buf := make([]byte, 0, img.Geometry.ClusterSize())
		for j := i * perCluster; j < (i+1)*perCluster && j < len(records); j++ {
			buf = append(buf, records[j]...)
		}
		img.WriteCluster(c, buf)
	}
}

// Bytes renders the whole image.
func (img *Image) Bytes() []byte {
	g := img.Geometry
	out := make([]byte, int(g.TotalSectors)*int(g.BytesPerSector))

	boot := out[:512]
	copy(boot[0:3], []byte{0xEB, 0x3C, 0x90})
	copy(boot[3:11], "MSWIN4.1")
	binary.LittleEndian.PutUint16(boot[11:], g.BytesPerSector)
	boot[13] = g.SectorsPerCluster
	binary.LittleEndian.PutUint16(boot[14:], g.ReservedSectors)
	boot[16] = g.NumFATs
	binary.LittleEndian.PutUint16(boot[17:], g.RootEntryCount)
	binary.LittleEndian.PutUint16(boot[19:], g.TotalSectors)
	boot[21] = 0xF8
	binary.LittleEndian.PutUint16(boot[22:], g.SectorsPerFAT)
	binary.LittleEndian.PutUint16(boot[24:], 32)
	binary.LittleEndian.PutUint16(boot[26:], 2)
	boot[36] = 0x80
	boot[38] = 0x29
	binary.LittleEndian.PutUint32(boot[39:], 0x12345678)
	copy(boot[43:54], pad(img.Label, 11))
	copy(boot[54:62], "FAT16   ")
	boot[510] = 0x55
	boot[511] = 0xAA

	fatSize := int(g.SectorsPerFAT) * int(g.BytesPerSector)
	for i := 0; i < int(g.NumFATs); i++ {
		fat := out[g.FatStart()+i*fatSize:]
		for c, value := range img.fat {
			binary.LittleEndian.PutUint16(fat[c*2:], value)
		}
	}

	root := out[g.RootDirStart():g.DataStart()]
	for i, record := range img.root {
		copy(root[i*32:], record)
	}

	for c, data := range img.clusters {
		copy(out[g.ClusterOffset(c):], data)
	}

	return out
}

func pad(s string, n int) []byte {
	out := []byte(strings.Repeat(" ", n))
	copy(out, s)
	return out
}

// RawName converts "NOTES.TXT" into its padded 11 byte form "NOTES   TXT".
// "." and ".." are kept as they are.
func RawName(name string) [11]byte {
	var raw [11]byte
	copy(raw[:], pad("", 11))

	if name == "." || name == ".." {
		copy(raw[:], name)
		return raw
	}

	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		base, ext = name[:i], name[i+1:]
	}
	copy(raw[:8], base)
	copy(raw[8:], ext)
	return raw
}

// Short builds a short directory record.
func Short(name string, attr byte, cluster uint16, size uint32) []byte {
	raw := RawName(name)
	return ShortRaw(raw, attr, cluster, size)
}

// ShortRaw builds a short directory record from an already padded name.
func ShortRaw(name [11]byte, attr byte, cluster uint16, size uint32) []byte {
	record := make([]byte, 32)
	copy(record[0:11], name[:])
	record[11] = attr
	binary.LittleEndian.PutUint16(record[22:], WriteTime)
	binary.LittleEndian.PutUint16(record[24:], WriteDate)
	binary.LittleEndian.PutUint16(record[26:], cluster)
	binary.LittleEndian.PutUint32(record[28:], size)
	return record
}

// Checksum calculates the short name checksum stored in long filename fragments.
func Checksum(name [11]byte) byte {
	var sum byte
	for _, c := range name {
		sum = (sum>>1 | sum<<7) + c
	}
	return sum
}

// Long builds the long filename fragments for name in on-disk order,
// which is the fragment holding the end of the name first.
func Long(name string, short [11]byte) [][]byte {
	units := []uint16{}
	for _, c := range []byte(name) {
		units = append(units, uint16(c))
	}

	count := (len(units) + 12) / 13
	if len(units) < count*13 {
		units = append(units, 0x0000)
	}
	for len(units) < count*13 {
		units = append(units, 0xFFFF)
	}

	checksum := Checksum(short)
	fragments := make([][]byte, count)
	for i := 0; i < count; i++ {
		sequence := byte(i + 1)
		if i == count-1 {
			sequence |= 0x40
		}
		fragments[count-1-i] = fragment(sequence, units[i*13:(i+1)*13], checksum)
	}
	return fragments
}

func fragment(sequence byte, units []uint16, checksum byte) []byte {
	record := make([]byte, 32)
	record[0] = sequence
	record[11] = 0x0F
	record[13] = checksum

	offsets := []int{1, 3, 5, 7, 9, 14, 16, 18, 20, 22, 24, 28, 30}
	for i, off := range offsets {
		binary.LittleEndian.PutUint16(record[off:], units[i])
	}
	return record
}

// Entry builds the long filename fragments followed by the short record.
// If long is empty, only the short record is returned.
func Entry(long, short string, attr byte, cluster uint16, size uint32) [][]byte {
	raw := RawName(short)
	record := ShortRaw(raw, attr, cluster, size)
	if long == "" {
		return [][]byte{record}
	}
	return append(Long(long, raw), record)
}

// Records flattens groups of records like the ones returned by Entry.
func Records(groups ...[][]byte) [][]byte {
	var all [][]byte
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}
