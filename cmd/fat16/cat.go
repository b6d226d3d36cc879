package main

import (
	"io"

	"github.com/spf13/cobra"
)

func createCatCommand(a *app) *cobra.Command {
	var (
		bufferSize int64
		offset     int64
	)

	catCmd := &cobra.Command{
		Use:   "cat [flags] IMAGE PATH",
		Short: "print the content of a file",
		Long: `Cat prints the content of the file at PATH.
Like ls and shell, ".." follows the entries stored in the directories.`,
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
			f, err := vol.OpenEntry(entry)
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := f.Seek(offset, io.SeekStart); err != nil {
				return err
			}

			var r io.Reader = f
			if bufferSize > 0 {
				r = io.LimitReader(f, bufferSize)
			}
			_, err = io.Copy(cmd.OutOrStdout(), r)
			return err
		},
	}

	catCmd.Flags().Int64VarP(&bufferSize, "buffer-size", "b", 0, "print at most this many bytes, 0 prints everything")
	catCmd.Flags().Int64VarP(&offset, "offset", "o", 0, "start reading at this offset")

	return catCmd
}
