// Command fat16 inspects FAT16 disk images without mounting them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aligator/fat16"
	"github.com/aligator/fat16/checkpoint"
	"github.com/aligator/fat16/internal/imagefile"
	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app holds the state shared by all commands.
type app struct {
	fs afero.Fs

	verbose bool
	noColor bool

	logger *slog.Logger
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fat16",
		Short: "Read files and directories of FAT16 images",
		Long: `fat16 reads FAT16 disk images (optionally compressed with gzip, zstd or xz)
and lists directories, prints files and shows directory entry details.
Images are never modified.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug information and error traces")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		createLsCommand(a),
		createCatCommand(a),
		createStatCommand(a),
		createInfoCommand(a),
		createShellCommand(a),
	)

	return rootCmd
}

// setup configures logging and colors after the flags got parsed.
func (a *app) setup(w io.Writer) {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}

	noColor := a.noColor || !isTerminal(w)
	a.logger = slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))

	if a.noColor {
		color.NoColor = true
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// openVolume opens the image file and mounts it.
// The returned image has to be closed by the caller.
func (a *app) openVolume(name string) (*fat16.Volume, *imagefile.Image, error) {
	img, err := imagefile.Open(a.fs, name)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Debug("opened image", "name", name, "size", img.Size(), "compression", img.Compression())

	vol, err := fat16.Open(img, fat16.WithLogger(a.logger))
	if err != nil {
		img.Close()
		return nil, nil, err
	}
	return vol, img, nil
}

// reportError prints err and, in verbose mode, the trail of checkpoints it passed.
func (a *app) reportError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	if a.verbose {
		fmt.Fprintln(w, checkpoint.Trace(err))
	}
}

func main() {
	a := &app{
		fs:     afero.NewOsFs(),
		logger: slog.Default(),
	}

	rootCmd := newRootCommand(a)
	if err := rootCmd.Execute(); err != nil {
		a.reportError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
