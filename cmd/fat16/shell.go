package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aligator/fat16"
	"github.com/spf13/cobra"
)

func createShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell IMAGE",
		Short: "interactively look up paths and print their contents",
		Long: `Shell asks for a path, prints the entry found for it and its contents.
Directories list their entries, for files the number of bytes to print is asked for.
It repeats until an empty path is entered or the input ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, img, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			s := &shell{
				vol: vol,
				in:  bufio.NewReader(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
				l:   newLister(cmd.OutOrStdout()),
			}
			return s.run()
		},
	}
}

type shell struct {
	vol *fat16.Volume
	in  *bufio.Reader
	out io.Writer
	l   *lister
}

func (s *shell) run() error {
	for {
		name, ok, err := s.prompt("Enter the file path: ")
		if err != nil {
			return err
		}
		if !ok || name == "" {
			return nil
		}

		if err := s.show(name); err != nil {
			return err
		}
	}
}

// prompt prints question and reads the answer.
// It returns false if the input ended without an answer.
func (s *shell) prompt(question string) (string, bool, error) {
	fmt.Fprint(s.out, question)

	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}
	if err == io.EOF && line == "" {
		fmt.Fprintln(s.out)
		return "", false, nil
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func (s *shell) show(name string) error {
	entry, err := s.vol.Lookup(name)
	if errors.Is(err, fat16.ErrNotFound) || errors.Is(err, fat16.ErrNotADirectory) {
		s.l.notFound(name)
		return nil
	}
	if err != nil {
		return err
	}

	s.l.found(name, entry)
	s.l.contents(entry)
	if entry.IsDir() {
		return s.l.listDirectory(s.vol, entry)
	}

	answer, ok, err := s.prompt("Enter the buffer size: ")
	if err != nil || !ok {
		return err
	}
	size, err := strconv.ParseInt(strings.TrimSpace(answer), 10, 64)
	if err != nil || size < 0 {
		return fmt.Errorf("invalid buffer size %q", answer)
	}

	f, err := s.vol.OpenEntry(entry)
	if err != nil {
		return err
	}
	defer f.Close()

	// The size is only an upper bound, the file may end before.
	if _, err := io.CopyN(s.out, f, size); err != nil && err != io.EOF {
		return err
	}
	fmt.Fprintln(s.out)
	return nil
}
