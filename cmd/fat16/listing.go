package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aligator/fat16"
	"github.com/fatih/color"
)

const (
	headerFormat = "%-14s   %-15s   %-12s   %-9s   %-8s      %-s\n"
	rowFormat    = "%-14d   %s             %s           %s       %-10d    %s\n"
)

var (
	separatorLine = strings.Repeat("-", 102)
	contentsLine  = strings.Repeat("=", 102)
)

// lister prints entries in the columns of the classic FAT16 reader.
type lister struct {
	w        io.Writer
	dirColor *color.Color
}

func newLister(w io.Writer) *lister {
	return &lister{
		w:        w,
		dirColor: color.New(color.FgBlue, color.Bold),
	}
}

func (l *lister) header() {
	fmt.Fprintf(l.w, headerFormat, "First Cluster", "Last Modified Time", "Last Modified Date", "Attributes", "Length", "FileName")
	fmt.Fprintln(l.w, separatorLine)
}

// row prints e, using name instead of the entry name if it is not empty.
func (l *lister) row(e fat16.FullEntry, name string) {
	if name == "" {
		name = e.Name
	}
	if e.IsDir() {
		name = l.dirColor.Sprint(name)
	}

	fmt.Fprintf(l.w, rowFormat, e.Cluster, e.Written.Clock(), e.Written.Date(), e.Attr, e.Size, name)
}

func (l *lister) found(path string, e fat16.FullEntry) {
	fmt.Fprintf(l.w, "\nEntry found for path: %s\n\n", path)
	l.header()
	l.row(e, "")
}

func (l *lister) contents(e fat16.FullEntry) {
	fmt.Fprintf(l.w, "\n%s\nCONTENTS OF %s\n", contentsLine, e.Name)
}

func (l *lister) notFound(path string) {
	fmt.Fprintf(l.w, "Entry not found for path: %s\n", path)
}

// listDirectory prints all entries of dir, including "." and ".." and volume labels.
func (l *lister) listDirectory(vol *fat16.Volume, dir fat16.FullEntry) error {
	children, err := vol.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, child := range children {
		l.row(child, "")
	}
	return nil
}
