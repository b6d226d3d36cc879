package fat16

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/aligator/fat16/internal/fattest"
	"github.com/google/go-cmp/cmp"
)

func TestParseBootSector(t *testing.T) {
	valid := fattest.New(fattest.DefaultGeometry())
	valid.Label = "TESTVOL"

	zeroBytesPerSector := valid.Bytes()
	binary.LittleEndian.PutUint16(zeroBytesPerSector[11:], 0)

	zeroSectorsPerCluster := valid.Bytes()
	zeroSectorsPerCluster[13] = 0

	largestFat := valid.Bytes()
	binary.LittleEndian.PutUint16(largestFat[11:], 0xFFFF)
	binary.LittleEndian.PutUint16(largestFat[22:], 0xFFFF)

	tests := []struct {
		name    string
		reader  io.ReaderAt
		want    BootSector
		wantErr error
	}{
		{
			name:   "default test image",
			reader: bytes.NewReader(valid.Bytes()),
			want: BootSector{
				OEMName:           "MSWIN4.1",
				BytesPerSector:    512,
				SectorsPerCluster: 1,
				ReservedSectors:   1,
				NumFATs:           2,
				RootEntryCount:    64,
				TotalSectors:      261,
				SectorsPerFAT:     1,
				VolumeLabel:       "TESTVOL",
				FileSystemType:    "FAT16",
			},
		},
		{
			name:   "largest FAT geometry",
			reader: bytes.NewReader(largestFat),
			want: BootSector{
				OEMName:           "MSWIN4.1",
				BytesPerSector:    0xFFFF,
				SectorsPerCluster: 1,
				ReservedSectors:   1,
				NumFATs:           2,
				RootEntryCount:    64,
				TotalSectors:      261,
				SectorsPerFAT:     0xFFFF,
				VolumeLabel:       "TESTVOL",
				FileSystemType:    "FAT16",
			},
		},
		{
			name:    "image smaller than the boot sector",
			reader:  truncatedReader(valid.Bytes(), 20),
			wantErr: ErrTruncatedImage,
		},
		{
			name:    "empty image",
			reader:  bytes.NewReader(nil),
			wantErr: ErrTruncatedImage,
		},
		{
			name:    "zero bytes per sector",
			reader:  bytes.NewReader(zeroBytesPerSector),
			wantErr: ErrInvalidBootSector,
		},
		{
			name:    "zero sectors per cluster",
			reader:  bytes.NewReader(zeroSectorsPerCluster),
			wantErr: ErrInvalidBootSector,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBootSector(tt.reader)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseBootSector() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseBootSector() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseBootSector_totalSectors32(t *testing.T) {
	raw := fattest.New(fattest.DefaultGeometry()).Bytes()
	binary.LittleEndian.PutUint16(raw[19:], 0)
	binary.LittleEndian.PutUint32(raw[32:], 70000)

	got, err := ParseBootSector(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalSectors != 70000 {
		t.Errorf("BootSector.TotalSectors = %v, want 70000", got.TotalSectors)
	}
}

func TestBootSector_offsets(t *testing.T) {
	tests := []struct {
		name             string
		boot             BootSector
		wantFatStart     int64
		wantRootDirStart int64
		wantDataStart    int64
	}{
		{
			name:             "test image geometry",
			boot:             BootSector{BytesPerSector: 512, SectorsPerCluster: 1, ReservedSectors: 1, NumFATs: 2, RootEntryCount: 64, SectorsPerFAT: 1},
			wantFatStart:     512,
			wantRootDirStart: 1536,
			wantDataStart:    3584,
		},
		{
			name:             "typical 64 MB FAT16",
			boot:             BootSector{BytesPerSector: 512, SectorsPerCluster: 4, ReservedSectors: 4, NumFATs: 2, RootEntryCount: 512, SectorsPerFAT: 128},
			wantFatStart:     2048,
			wantRootDirStart: 2048 + 2*65536,
			wantDataStart:    2048 + 2*65536 + 16384,
		},
		{
			name:             "root entries not filling the last sector",
			boot:             BootSector{BytesPerSector: 512, SectorsPerCluster: 2, ReservedSectors: 1, NumFATs: 1, RootEntryCount: 17, SectorsPerFAT: 2},
			wantFatStart:     512,
			wantRootDirStart: 1536,
			wantDataStart:    1536 + 1024,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.boot.FatStart(); got != tt.wantFatStart {
				t.Errorf("BootSector.FatStart() = %v, want %v", got, tt.wantFatStart)
			}
			if got := tt.boot.RootDirStart(); got != tt.wantRootDirStart {
				t.Errorf("BootSector.RootDirStart() = %v, want %v", got, tt.wantRootDirStart)
			}
			if got := tt.boot.DataStart(); got != tt.wantDataStart {
				t.Errorf("BootSector.DataStart() = %v, want %v", got, tt.wantDataStart)
			}
		})
	}
}

// TestBootSector_offsetOrder checks data > root > FAT >= 0 and sector alignment
// of the data area for a range of geometries.
func TestBootSector_offsetOrder(t *testing.T) {
	for _, bytesPerSector := range []uint16{512, 1024, 2048, 4096} {
		for _, rootEntries := range []uint16{1, 16, 17, 224, 512} {
			for _, numFATs := range []uint8{1, 2} {
				b := BootSector{
					BytesPerSector:    bytesPerSector,
					SectorsPerCluster: 4,
					ReservedSectors:   1,
					NumFATs:           numFATs,
					RootEntryCount:    rootEntries,
					SectorsPerFAT:     32,
				}

				if !(b.DataStart() > b.RootDirStart() && b.RootDirStart() > b.FatStart() && b.FatStart() >= 0) {
					t.Errorf("%+v: offsets not increasing: fat %d, root %d, data %d", b, b.FatStart(), b.RootDirStart(), b.DataStart())
				}
				if b.DataStart()%int64(bytesPerSector) != 0 {
					t.Errorf("%+v: data start %d is not sector aligned", b, b.DataStart())
				}
			}
		}
	}
}

func TestBootSector_IsFAT16(t *testing.T) {
	tests := []struct {
		name string
		boot BootSector
		want bool
	}{
		{
			name: "tiny test image is FAT12 sized",
			boot: BootSector{BytesPerSector: 512, SectorsPerCluster: 1, ReservedSectors: 1, NumFATs: 2, RootEntryCount: 64, SectorsPerFAT: 1, TotalSectors: 261},
			want: false,
		},
		{
			name: "64 MB volume",
			boot: BootSector{BytesPerSector: 512, SectorsPerCluster: 4, ReservedSectors: 4, NumFATs: 2, RootEntryCount: 512, SectorsPerFAT: 128, TotalSectors: 131072},
			want: true,
		},
		{
			name: "total sectors smaller than the metadata",
			boot: BootSector{BytesPerSector: 512, SectorsPerCluster: 4, ReservedSectors: 4, NumFATs: 2, RootEntryCount: 512, SectorsPerFAT: 128, TotalSectors: 10},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.boot.IsFAT16(); got != tt.want {
				t.Errorf("BootSector.IsFAT16() = %v, want %v (clusters: %d)", got, tt.want, tt.boot.ClusterCount())
			}
		})
	}
}
