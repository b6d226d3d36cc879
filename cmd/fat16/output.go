package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// formatValue is a pflag.Value only accepting the supported output formats.
type formatValue string

const (
	formatText formatValue = "text"
	formatJSON formatValue = "json"
	formatYAML formatValue = "yaml"
)

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(s string) error {
	switch formatValue(s) {
	case formatText, formatJSON, formatYAML:
		*f = formatValue(s)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (supported: text, json, yaml)", s)
	}
}

func (f *formatValue) Type() string {
	return "format"
}

func addFormatFlag(flags *pflag.FlagSet, format *formatValue) {
	*format = formatText
	flags.VarP(format, "format", "f", "output format: text, json or yaml")
}

// writeOutput writes v in the given format. Text output is written by text.
func writeOutput(w io.Writer, format formatValue, v interface{}, text func(w io.Writer)) error {
	switch format {
	case formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case formatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		text(w)
		return nil
	}
}
