package main

import (
	"fmt"
	"io"

	"github.com/aligator/fat16"
	"github.com/spf13/cobra"
)

// volumeSummary describes the geometry of a volume.
type volumeSummary struct {
	Label             string `json:"label" yaml:"label"`
	OEMName           string `json:"oemName" yaml:"oemName"`
	FileSystemType    string `json:"fileSystemType" yaml:"fileSystemType"`
	FAT16             bool   `json:"fat16" yaml:"fat16"`
	BytesPerSector    uint16 `json:"bytesPerSector" yaml:"bytesPerSector"`
	SectorsPerCluster uint8  `json:"sectorsPerCluster" yaml:"sectorsPerCluster"`
	ReservedSectors   uint16 `json:"reservedSectors" yaml:"reservedSectors"`
	NumFATs           uint8  `json:"numFATs" yaml:"numFATs"`
	RootEntryCount    uint16 `json:"rootEntryCount" yaml:"rootEntryCount"`
	TotalSectors      uint32 `json:"totalSectors" yaml:"totalSectors"`
	SectorsPerFAT     uint16 `json:"sectorsPerFAT" yaml:"sectorsPerFAT"`
	Clusters          int64  `json:"clusters" yaml:"clusters"`
	FatStart          int64  `json:"fatStart" yaml:"fatStart"`
	RootDirStart      int64  `json:"rootDirStart" yaml:"rootDirStart"`
	DataStart         int64  `json:"dataStart" yaml:"dataStart"`
}

func newVolumeSummary(vol *fat16.Volume) volumeSummary {
	boot := vol.BootSector()
	return volumeSummary{
		Label:             vol.Label(),
		OEMName:           boot.OEMName,
		FileSystemType:    boot.FileSystemType,
		FAT16:             boot.IsFAT16(),
		BytesPerSector:    boot.BytesPerSector,
		SectorsPerCluster: boot.SectorsPerCluster,
		ReservedSectors:   boot.ReservedSectors,
		NumFATs:           boot.NumFATs,
		RootEntryCount:    boot.RootEntryCount,
		TotalSectors:      boot.TotalSectors,
		SectorsPerFAT:     boot.SectorsPerFAT,
		Clusters:          boot.ClusterCount(),
		FatStart:          boot.FatStart(),
		RootDirStart:      boot.RootDirStart(),
		DataStart:         boot.DataStart(),
	}
}

func (s volumeSummary) writeText(w io.Writer) {
	fmt.Fprintf(w, "Label:               %s\n", s.Label)
	fmt.Fprintf(w, "OEM name:            %s\n", s.OEMName)
	fmt.Fprintf(w, "File system type:    %s\n", s.FileSystemType)
	fmt.Fprintf(w, "FAT16 cluster count: %v\n", s.FAT16)
	fmt.Fprintf(w, "Bytes per sector:    %d\n", s.BytesPerSector)
	fmt.Fprintf(w, "Sectors per cluster: %d\n", s.SectorsPerCluster)
	fmt.Fprintf(w, "Reserved sectors:    %d\n", s.ReservedSectors)
	fmt.Fprintf(w, "FATs:                %d\n", s.NumFATs)
	fmt.Fprintf(w, "Root entries:        %d\n", s.RootEntryCount)
	fmt.Fprintf(w, "Total sectors:       %d\n", s.TotalSectors)
	fmt.Fprintf(w, "Sectors per FAT:     %d\n", s.SectorsPerFAT)
	fmt.Fprintf(w, "Clusters:            %d\n", s.Clusters)
	fmt.Fprintf(w, "FAT start:           %d\n", s.FatStart)
	fmt.Fprintf(w, "Root directory:      %d\n", s.RootDirStart)
	fmt.Fprintf(w, "Data start:          %d\n", s.DataStart)
}

func createInfoCommand(a *app) *cobra.Command {
	var format formatValue

	infoCmd := &cobra.Command{
		Use:   "info [flags] IMAGE",
		Short: "show the boot sector geometry of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, img, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			summary := newVolumeSummary(vol)
			return writeOutput(cmd.OutOrStdout(), format, summary, summary.writeText)
		},
	}

	addFormatFlag(infoCmd.Flags(), &format)

	return infoCmd
}
