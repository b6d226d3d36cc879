package fat16

import (
	"strings"

	"github.com/aligator/fat16/checkpoint"
)

// Attr is the attribute bitmask of a directory entry.
type Attr byte

const (
	AttrReadOnly  Attr = 0x01
	AttrHidden    Attr = 0x02
	AttrSystem    Attr = 0x04
	AttrVolumeID  Attr = 0x08
	AttrDirectory Attr = 0x10
	AttrArchive   Attr = 0x20
	AttrLongName       = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// String returns the 6 character summary of the flags in the order
// Archive, Directory, Volume, System, Hidden, Read-only. Unset flags are printed as '-'.
func (a Attr) String() string {
	flags := []struct {
		attr   Attr
		letter byte
	}{
		{AttrArchive, 'A'},
		{AttrDirectory, 'D'},
		{AttrVolumeID, 'V'},
		{AttrSystem, 'S'},
		{AttrHidden, 'H'},
		{AttrReadOnly, 'R'},
	}

	summary := make([]byte, len(flags))
	for i, f := range flags {
		summary[i] = '-'
		if a&f.attr != 0 {
			summary[i] = f.letter
		}
	}
	return string(summary)
}

// isLongName reports if a record carrying this attribute is a long filename fragment.
// Besides the regular 0x0F marker, volume label and system bits set together also
// mark a fragment, as no real entry uses that combination.
func (a Attr) isLongName() bool {
	return a&AttrLongName == AttrLongName || (a&AttrVolumeID != 0 && a&AttrSystem != 0)
}

const (
	entryEnd     = 0x00
	entryDeleted = 0xE5
	// entryKanji is stored instead of 0xE5 when a name really starts with that byte.
	entryKanji = 0x05

	// nameSentinel replaces every long filename character which is not printable ASCII.
	// It never ends up in a name, names get truncated at its first occurrence.
	nameSentinel = 0x00
)

// FullEntry is a directory entry with its long filename reconstructed.
type FullEntry struct {
	// Name is the long filename or, if there is none, the 8.3 short name.
	Name string
	// ShortName is the 8.3 name like "NOTES.TXT".
	ShortName string
	Attr      Attr
	Cluster   uint16
	Size      uint32
	Written   Timestamp

	// Parent is the first cluster of the directory containing the entry, 0 for the root directory.
	Parent uint16
}

// IsDir reports whether the entry is a directory.
// Volume labels are never directories, even with the directory bit set.
func (e FullEntry) IsDir() bool {
	return e.Attr&AttrDirectory != 0 && e.Attr&AttrVolumeID == 0
}

func (e FullEntry) IsVolumeLabel() bool {
	return e.Attr&AttrVolumeID != 0
}

// IsDotEntry reports whether the entry is the "." or ".." entry of a directory.
func (e FullEntry) IsDotEntry() bool {
	return e.ShortName == "." || e.ShortName == ".."
}

func (e FullEntry) matches(name string) bool {
	return e.Name == name || e.ShortName == name
}

// decodeDirectoryRun decodes consecutive 32 byte records into entries.
// Long filename fragments are collected until their short entry follows.
// Decoding stops at the first end marker; fragments without short entry are dropped.
func decodeDirectoryRun(raw []byte) ([]FullEntry, error) {
	var (
		entries   []FullEntry
		fragments [][]byte
	)

	for offset := 0; offset+entrySize <= len(raw); offset += entrySize {
		record := raw[offset : offset+entrySize]

		switch record[0] {
		case entryEnd:
			return entries, nil
		case entryDeleted:
			continue
		}

		if Attr(record[11]).isLongName() {
			lfn := LongFilenameEntry{}
			if err := unpack(record, &lfn); err != nil {
				return entries, checkpoint.Wrap(err, ErrReadDir)
			}
			fragments = append(fragments, decodeFragment(lfn))
			continue
		}

		header := EntryHeader{}
		if err := unpack(record, &header); err != nil {
			return entries, checkpoint.Wrap(err, ErrReadDir)
		}
		entries = append(entries, newFullEntry(header, fragments))
		fragments = nil
	}

	return entries, nil
}

// decodeFragment converts the 13 UCS-2 characters of a fragment to single bytes.
func decodeFragment(lfn LongFilenameEntry) []byte {
	chars := lfn.chars()
	part := make([]byte, len(chars))
	for i, c := range chars {
		if c < 0x20 || c > 0x7E {
			part[i] = nameSentinel
			continue
		}
		part[i] = byte(c)
	}
	return part
}

// longName joins the fragments in reverse order of appearance, as the fragment
// holding the end of the name is stored first.
func longName(fragments [][]byte) string {
	var name []byte
	for i := len(fragments) - 1; i >= 0; i-- {
		name = append(name, fragments[i]...)
	}

	for i, c := range name {
		if c == nameSentinel {
			return string(name[:i])
		}
	}
	return string(name)
}

// shortName renders the padded 11 byte name as 8.3 name.
func shortName(raw [11]byte, attr Attr) string {
	if raw[0] == entryKanji {
		raw[0] = entryDeleted
	}

	if attr&AttrVolumeID != 0 {
		return strings.TrimRight(string(raw[:]), " ")
	}

	name := strings.TrimRight(string(raw[:8]), " ")
	ext := strings.TrimRight(string(raw[8:11]), " ")
	if ext != "" {
		name += "." + ext
	}
	return name
}

func newFullEntry(header EntryHeader, fragments [][]byte) FullEntry {
	attr := Attr(header.Attribute)
	short := shortName(header.Name, attr)

	name := longName(fragments)
	if name == "" {
		name = short
	}

	return FullEntry{
		Name:      name,
		ShortName: short,
		Attr:      attr,
		Cluster:   header.FirstClusterLO,
		Size:      header.FileSize,
		Written:   ParseTimestamp(header.WriteDate, header.WriteTime),
	}
}
