package fat16

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/aligator/fat16/internal/fattest"
)

// Content of the files in the standard test image.
var (
	readmeContent = []byte("# Hello\n\nThis volume is only used by tests.\n")
	helloContent  = []byte("Hello World from a file with a loong name\n")
	notesContent  = []byte("42 bytes of notes, stored in one cluster!\n")
	deepContent   = []byte("deep")
	multiContent  = bytes.Repeat([]byte("0123456789abcdef"), 80) // 1280 bytes, 3 clusters
)

// testImage builds the standard test image:
//
//	/TESTVOL (volume label)
//	/README.MD
//	/HelloWorldThisIsALoongFileName.txt (HELLOW~1.TXT)
//	/DOCS/NOTES.TXT
//	/DOCS/SUB/DEEP.TXT
//	/EMPTY.TXT
//	/Multi Cluster.bin (MULTIC~1.BIN)
func testImage(t *testing.T) *fattest.Image {
	t.Helper()

	img := fattest.New(fattest.DefaultGeometry())
	img.Label = "TESTVOL"

	readme := img.WriteData(readmeContent)
	hello := img.WriteData(helloContent)

	docs := img.Alloc(1)[0]
	notes := img.WriteData(notesContent)
	deep := img.WriteData(deepContent)
	sub := img.Dir(docs, fattest.Short("DEEP.TXT", 0x20, deep, uint32(len(deepContent))))
	img.WriteDirAt([]uint16{docs}, fattest.Records(
		[][]byte{
			fattest.Short(".", 0x10, docs, 0),
			fattest.Short("..", 0x10, 0, 0),
		},
		fattest.Entry("", "NOTES.TXT", 0x20, notes, uint32(len(notesContent))),
		fattest.Entry("", "SUB", 0x10, sub, 0),
	)...)

	multi := img.WriteData(multiContent)

	img.AddRoot(fattest.Records(
		[][]byte{fattest.Short("TESTVOL", 0x08, 0, 0)},
		fattest.Entry("", "README.MD", 0x20, readme, uint32(len(readmeContent))),
		fattest.Entry("HelloWorldThisIsALoongFileName.txt", "HELLOW~1.TXT", 0x20, hello, uint32(len(helloContent))),
		fattest.Entry("", "DOCS", 0x10, docs, 0),
		fattest.Entry("", "EMPTY.TXT", 0x20, 0, 0),
		fattest.Entry("Multi Cluster.bin", "MULTIC~1.BIN", 0x20, multi, uint32(len(multiContent))),
	)...)

	return img
}

// testingOpen opens img and fails the test on any error.
func testingOpen(t *testing.T, img *fattest.Image) *Volume {
	t.Helper()

	v, err := Open(bytes.NewReader(img.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// recordingReader remembers the largest buffer ReadAt was called with.
type recordingReader struct {
	r       io.ReaderAt
	largest int
}

func (r *recordingReader) ReadAt(p []byte, off int64) (int, error) {
	if len(p) > r.largest {
		r.largest = len(p)
	}
	return r.r.ReadAt(p, off)
}

// truncatedReader serves only the first size bytes of an image.
func truncatedReader(img []byte, size int) *bytes.Reader {
	return bytes.NewReader(img[:size])
}

func names(entries []FullEntry) string {
	result := make([]string, len(entries))
	for i, e := range entries {
		result[i] = e.Name
	}
	return strings.Join(result, ",")
}
