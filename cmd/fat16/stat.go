package main

import (
	"fmt"
	"io"
	"time"

	"github.com/aligator/fat16"
	"github.com/spf13/cobra"
)

// entrySummary is the machine readable form of a directory entry.
type entrySummary struct {
	Name       string   `json:"name" yaml:"name"`
	ShortName  string   `json:"shortName" yaml:"shortName"`
	Directory  bool     `json:"directory" yaml:"directory"`
	Attributes string   `json:"attributes" yaml:"attributes"`
	Size       uint32   `json:"size" yaml:"size"`
	Cluster    uint16   `json:"cluster" yaml:"cluster"`
	Clusters   []uint16 `json:"clusters,omitempty" yaml:"clusters,omitempty"`
	Parent     uint16   `json:"parent" yaml:"parent"`
	Modified   string   `json:"modified,omitempty" yaml:"modified,omitempty"`
}

func newEntrySummary(vol *fat16.Volume, e fat16.FullEntry) (entrySummary, error) {
	summary := entrySummary{
		Name:       e.Name,
		ShortName:  e.ShortName,
		Directory:  e.IsDir(),
		Attributes: e.Attr.String(),
		Size:       e.Size,
		Cluster:    e.Cluster,
		Parent:     e.Parent,
	}

	if t := e.Written.Time(); !t.IsZero() {
		summary.Modified = t.Format(time.RFC3339)
	}

	if !e.IsDir() {
		f, err := vol.OpenEntry(e)
		if err != nil {
			return entrySummary{}, err
		}
		summary.Clusters = f.Clusters()
		f.Close()
	}

	return summary, nil
}

func (s entrySummary) writeText(w io.Writer) {
	fmt.Fprintf(w, "Name:        %s\n", s.Name)
	fmt.Fprintf(w, "Short name:  %s\n", s.ShortName)
	fmt.Fprintf(w, "Directory:   %v\n", s.Directory)
	fmt.Fprintf(w, "Attributes:  %s\n", s.Attributes)
	fmt.Fprintf(w, "Size:        %d\n", s.Size)
	fmt.Fprintf(w, "Cluster:     %d\n", s.Cluster)
	if len(s.Clusters) > 0 {
		fmt.Fprintf(w, "Clusters:    %v\n", s.Clusters)
	}
	fmt.Fprintf(w, "Parent:      %d\n", s.Parent)
	if s.Modified != "" {
		fmt.Fprintf(w, "Modified:    %s\n", s.Modified)
	}
}

func createStatCommand(a *app) *cobra.Command {
	var format formatValue

	statCmd := &cobra.Command{
		Use:   "stat [flags] IMAGE PATH",
		Short: "show the details of a directory entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, img, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			entry, err := vol.Lookup(args[1])
			if err != nil {
				return err
			}

			summary, err := newEntrySummary(vol, entry)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, summary, summary.writeText)
		},
	}

	addFormatFlag(statCmd.Flags(), &format)

	return statCmd
}
