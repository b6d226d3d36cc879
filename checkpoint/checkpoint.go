// Package checkpoint decorates errors with the location they passed through,
// which results in something similar to a stacktrace.
// Every error attached to a checkpoint can still be checked by errors.Is and
// retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err by a new checkpoint carrying the caller location.
// It returns nil if err == nil.
func From(err error) error {
	if err == nil {
		return nil
	}
	if passThrough(err) {
		return err
	}

	return newCheckpoint(err, nil)
}

// Wrap adds a checkpoint to prev and attaches kind, an error which further
// describes what failed at this point:
//
//	var ErrSomethingSpecial = errors.New("a very bad error")
//
//	func someFunction() error {
//		err := somethingElse()
//		return checkpoint.Wrap(err, ErrSomethingSpecial)
//	}
//
// Both errors.Is(err, ErrSomethingSpecial) and a check for the error of
// somethingElse() succeed on the result.
// Returns nil if prev == nil.
func Wrap(prev, kind error) error {
	if prev == nil {
		return nil
	}
	if passThrough(prev) {
		return prev
	}

	return newCheckpoint(prev, kind)
}

// Trace renders the recorded locations of err, outermost first, one per line.
// Errors without checkpoints render as their plain message.
func Trace(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	for err != nil {
		cp, ok := err.(*checkpoint)
		if !ok {
			b.WriteString("\t" + strings.ReplaceAll(err.Error(), "\n", "\n\t"))
			break
		}

		b.WriteString(cp.location())
		if cp.kind != nil {
			b.WriteString(": " + cp.kind.Error())
		}
		b.WriteString("\n")
		err = cp.prev
	}

	return strings.TrimRight(b.String(), "\n")
}

// io.EOF and io.ErrUnexpectedEOF must be returned as they are.
// https://github.com/golang/go/issues/39155
func passThrough(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func newCheckpoint(prev, kind error) *checkpoint {
	_, file, line, ok := runtime.Caller(2)

	cp := &checkpoint{
		kind: kind,
		prev: prev,
	}
	if ok {
		cp.file = filepath.Base(file)
		cp.line = line
	}
	return cp
}

type checkpoint struct {
	kind error
	prev error

	file string
	line int
}

func (e *checkpoint) location() string {
	if e.file == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

// Error joins the kinds of all checkpoints with the root cause, skipping
// kinds which are already part of the cause message.
func (e *checkpoint) Error() string {
	prev := e.prev.Error()
	if e.kind == nil || strings.Contains(prev, e.kind.Error()) {
		return prev
	}
	return e.kind.Error() + ": " + prev
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.kind != nil && errors.Is(e.kind, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.kind != nil && errors.As(e.kind, target)
}
