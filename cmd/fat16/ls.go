package main

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/aligator/fat16"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func createLsCommand(a *app) *cobra.Command {
	var recursive bool

	lsCmd := &cobra.Command{
		Use:   "ls [flags] IMAGE [PATH]",
		Short: "show an entry and list the contents of directories",
		Long: `Ls prints the directory entry found for PATH (default "/") and,
if it is a directory, all entries it contains.
With --recursive the whole tree below PATH is listed with full paths.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "/"
			if len(args) == 2 {
				name = args[1]
			}

			vol, img, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			l := newLister(cmd.OutOrStdout())
			if recursive {
				return walk(l, vol, name)
			}
			return list(l, vol, name)
		},
	}

	lsCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "list all entries below PATH")

	return lsCmd
}

func list(l *lister, vol *fat16.Volume, name string) error {
	entry, err := vol.Lookup(name)
	if err != nil {
		if errors.Is(err, fat16.ErrNotFound) || errors.Is(err, fat16.ErrNotADirectory) {
			l.notFound(name)
		}
		return err
	}

	l.found(name, entry)
	if !entry.IsDir() {
		return nil
	}

	l.contents(entry)
	return l.listDirectory(vol, entry)
}

// walk lists every entry below root in lexical order.
// A directory whose cluster was listed before is printed but not descended into,
// so directories pointing to themselves or an ancestor end the walk.
func walk(l *lister, vol *fat16.Volume, root string) error {
	fsys := fat16.NewFs(vol)
	visited := make(map[uint16]bool)

	l.header()
	return afero.Walk(fsys, path.Clean("/"+root), func(name string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		entry, ok := info.Sys().(fat16.FullEntry)
		if !ok {
			return nil
		}
		l.row(entry, name)

		if entry.IsDir() {
			if visited[entry.Cluster] {
				return filepath.SkipDir
			}
			visited[entry.Cluster] = true
		}
		return nil
	})
}
