package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aligator/fat16"
	"gopkg.in/yaml.v3"
)

const testHeader = "First Cluster    Last Modified Time   Last Modified Date   Attributes   Length        FileName\n"

func TestLs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		want      []string
		dontWant  []string
		wantErr   error
		wantExact string
	}{
		{
			name: "root",
			args: []string{"ls", "/disk.img"},
			want: []string{
				"\nEntry found for path: /\n\n",
				testHeader,
				strings.Repeat("-", 102) + "\n",
				"\n" + strings.Repeat("=", 102) + "\nCONTENTS OF /\n",
				row("0", "12:34:56", "04/03/2021", "--V---", "0", "CLIVOL"),
				row("2", "12:34:56", "04/03/2021", "A-----", "21", "README.TXT"),
				row("3", "12:34:56", "04/03/2021", "-D----", "0", "DOCS"),
				row("5", "12:34:56", "04/03/2021", "A-----", "4", "Long Name.txt"),
			},
		},
		{
			name: "subdirectory of compressed image",
			args: []string{"ls", "/disk.img.gz", "/DOCS"},
			want: []string{
				"Entry found for path: /DOCS\n",
				"CONTENTS OF DOCS\n",
				row("3", "12:34:56", "04/03/2021", "-D----", "0", "."),
				row("0", "12:34:56", "04/03/2021", "-D----", "0", ".."),
				row("4", "12:34:56", "04/03/2021", "A-----", "21", "NOTES.TXT"),
			},
		},
		{
			name:     "file",
			args:     []string{"ls", "/disk.img", "LONGNA~1.TXT"},
			want:     []string{row("5", "12:34:56", "04/03/2021", "A-----", "4", "Long Name.txt")},
			dontWant: []string{"CONTENTS OF"},
		},
		{
			name: "recursive",
			args: []string{"ls", "-r", "/disk.img"},
			want: []string{
				testHeader,
				row("3", "12:34:56", "04/03/2021", "-D----", "0", "/DOCS"),
				row("4", "12:34:56", "04/03/2021", "A-----", "21", "/DOCS/NOTES.TXT"),
				row("5", "12:34:56", "04/03/2021", "A-----", "4", "/Long Name.txt"),
			},
			dontWant: []string{"CLIVOL", "/DOCS/.\n"},
		},
		{
			name: "recursive directory pointing to itself",
			args: []string{"ls", "--recursive", "/loop.img"},
			want: []string{
				row("3", "12:34:56", "04/03/2021", "-D----", "0", "/LOOP"),
				row("0", "12:34:56", "04/03/2021", "A-----", "0", "/LOOP/FILE.TXT"),
				row("3", "12:34:56", "04/03/2021", "-D----", "0", "/LOOP/SELF"),
			},
			dontWant: []string{"/LOOP/SELF/"},
		},
		{
			name:      "not found",
			args:      []string{"ls", "/disk.img", "/DOCS/NOPE"},
			wantExact: "Entry not found for path: /DOCS/NOPE\n",
			wantErr:   fat16.ErrNotFound,
		},
		{
			name:      "file as directory",
			args:      []string{"ls", "/disk.img", "README.TXT/X"},
			wantExact: "Entry not found for path: README.TXT/X\n",
			wantErr:   fat16.ErrNotADirectory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execCmd(t, newTestApp(t), "", tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantExact != "" && stdout != tt.wantExact {
				t.Errorf("output = %q, want %q", stdout, tt.wantExact)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output does not contain %q:\n%s", want, stdout)
				}
			}
			for _, dontWant := range tt.dontWant {
				if strings.Contains(stdout, dontWant) {
					t.Errorf("output contains %q:\n%s", dontWant, stdout)
				}
			}
		})
	}
}

func TestCat(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "whole file", args: []string{"cat", "/disk.img", "README.TXT"}, want: string(readmeContent)},
		{name: "nested file", args: []string{"cat", "/disk.img.gz", "/DOCS/NOTES.TXT"}, want: string(notesContent)},
		{name: "long name", args: []string{"cat", "/disk.img", "Long Name.txt"}, want: "long"},
		{name: "offset and buffer size", args: []string{"cat", "/disk.img", "README.TXT", "--offset", "6", "--buffer-size", "4"}, want: "from"},
		{name: "buffer bigger than file", args: []string{"cat", "/disk.img", "README.TXT", "-b", "100"}, want: string(readmeContent)},
		{name: "offset behind the end", args: []string{"cat", "/disk.img", "README.TXT", "-o", "100"}, want: ""},
		{name: "negative offset", args: []string{"cat", "/disk.img", "README.TXT", "-o", "-1"}, wantErr: true},
		{name: "directory", args: []string{"cat", "/disk.img", "DOCS"}, wantErr: true},
		{name: "dot dot entry of a subdirectory", args: []string{"cat", "/disk.img", "DOCS/../README.TXT"}, want: string(readmeContent)},
		{name: "dot dot follows the stored entry", args: []string{"cat", "/loop.img", "LOOP/SELF/../FILE.TXT"}, wantErr: true},
		{name: "missing file", args: []string{"cat", "/disk.img", "NOPE"}, wantErr: true},
		{name: "missing argument", args: []string{"cat", "/disk.img"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execCmd(t, newTestApp(t), "", tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && stdout != tt.want {
				t.Errorf("output = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestStat(t *testing.T) {
	want := entrySummary{
		Name:       "NOTES.TXT",
		ShortName:  "NOTES.TXT",
		Attributes: "A-----",
		Size:       21,
		Cluster:    4,
		Clusters:   []uint16{4},
		Parent:     3,
		Modified:   "2021-03-04T12:34:56Z",
	}

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execCmd(t, newTestApp(t), "", "stat", "/disk.img", "DOCS/NOTES.TXT", "--format", "json")
		if err != nil {
			t.Fatal(err)
		}

		var got entrySummary
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid json %q: %v", stdout, err)
		}
		if got.Name != want.Name || got.Cluster != want.Cluster || got.Parent != want.Parent || got.Modified != want.Modified || len(got.Clusters) != 1 {
			t.Errorf("stat = %+v, want %+v", got, want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, _, err := execCmd(t, newTestApp(t), "", "stat", "/disk.img", "DOCS", "-f", "yaml")
		if err != nil {
			t.Fatal(err)
		}

		var got entrySummary
		if err := yaml.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid yaml %q: %v", stdout, err)
		}
		if !got.Directory || got.Cluster != 3 || got.Attributes != "-D----" || len(got.Clusters) != 0 {
			t.Errorf("stat = %+v, want the DOCS directory", got)
		}
	})

	t.Run("text", func(t *testing.T) {
		stdout, _, err := execCmd(t, newTestApp(t), "", "stat", "/disk.img", "LONGNA~1.TXT")
		if err != nil {
			t.Fatal(err)
		}
		for _, line := range []string{
			"Name:        Long Name.txt\n",
			"Short name:  LONGNA~1.TXT\n",
			"Clusters:    [5]\n",
			"Modified:    2021-03-04T12:34:56Z\n",
		} {
			if !strings.Contains(stdout, line) {
				t.Errorf("output does not contain %q:\n%s", line, stdout)
			}
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, _, err := execCmd(t, newTestApp(t), "", "stat", "/disk.img", "DOCS", "--format", "xml")
		if err == nil || !strings.Contains(err.Error(), "unsupported format") {
			t.Errorf("Execute() error = %v, want unsupported format", err)
		}
	})
}

func TestInfo(t *testing.T) {
	stdout, stderr, err := execCmd(t, newTestApp(t), "", "info", "/disk.img", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}

	var got volumeSummary
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if got.Label != "CLIVOL" || got.DataStart != 3584 || got.BytesPerSector != 512 || got.FileSystemType != "FAT16" {
		t.Errorf("info = %+v", got)
	}
	if got.FAT16 || got.Clusters != 254 {
		t.Errorf("info = %v clusters, FAT16 %v, want 254 clusters which are too few for FAT16", got.Clusters, got.FAT16)
	}
	if !strings.Contains(stderr, "cluster count does not match FAT16") {
		t.Errorf("stderr does not contain the FAT16 warning:\n%s", stderr)
	}
}

func TestShell(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		want     []string
		dontWant []string
		wantErr  bool
	}{
		{
			name:  "file",
			stdin: "DOCS/NOTES.TXT\n4\n",
			want: []string{
				"Enter the file path: \nEntry found for path: DOCS/NOTES.TXT\n\n",
				row("4", "12:34:56", "04/03/2021", "A-----", "21", "NOTES.TXT"),
				"CONTENTS OF NOTES.TXT\nEnter the buffer size: 0123\nEnter the file path: ",
			},
			dontWant: []string{"4567"},
		},
		{
			name:  "buffer bigger than the file",
			stdin: "/README.TXT\n1000",
			want:  []string{"Enter the buffer size: " + string(readmeContent) + "\n"},
		},
		{
			name:  "directory",
			stdin: "/DOCS/../DOCS\n",
			want: []string{
				"CONTENTS OF DOCS\n",
				row("4", "12:34:56", "04/03/2021", "A-----", "21", "NOTES.TXT"),
			},
			dontWant: []string{"Enter the buffer size"},
		},
		{
			name:  "not found",
			stdin: "NOPE\n",
			want:  []string{"Enter the file path: Entry not found for path: NOPE\n"},
		},
		{
			name:  "file as directory",
			stdin: "README.TXT/X\n",
			want:  []string{"Entry not found for path: README.TXT/X\n"},
		},
		{
			name:     "several paths until an empty line",
			stdin:    "NOPE\nREADME.TXT\n5\n\nDOCS\n",
			want:     []string{"Entry not found for path: NOPE\n", "Enter the buffer size: hello\n"},
			dontWant: []string{"CONTENTS OF DOCS"},
		},
		{
			name:  "buffer size far bigger than the file",
			stdin: "README.TXT\n9000000000000000000\n",
			want:  []string{"Enter the buffer size: " + string(readmeContent) + "\nEnter the file path: "},
		},
		{
			name:    "buffer size out of range",
			stdin:   "README.TXT\n99999999999999999999\n",
			wantErr: true,
		},
		{
			name:    "invalid buffer size",
			stdin:   "README.TXT\nmany\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execCmd(t, newTestApp(t), tt.stdin, "shell", "/disk.img")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output does not contain %q:\n%s", want, stdout)
				}
			}
			for _, dontWant := range tt.dontWant {
				if strings.Contains(stdout, dontWant) {
					t.Errorf("output contains %q:\n%s", dontWant, stdout)
				}
			}
		})
	}
}
