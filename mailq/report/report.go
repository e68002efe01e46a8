// SPDX-License-Identifier: GPL-3.0-or-later

// Package report writes one mail queue listing per instance, each under a titled header.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPlaceholder is the name postmulti uses for the default, unnamed instance.
	DefaultPlaceholder = "-"
	// DefaultDisplayName replaces the placeholder in headers.
	DefaultDisplayName = "DEFAULT"

	titleSuffix = "/MailQueue"
)

// ErrWrite means the report could not be written to its destination.
var ErrWrite = errors.New("write")

type Formatter struct {
	Placeholder string
	DisplayName string
}

func New() *Formatter {
	return &Formatter{
		Placeholder: DefaultPlaceholder,
		DisplayName: DefaultDisplayName,
	}
}

// Title returns the name shown in the header for an instance.
func (f *Formatter) Title(name string) string {
	if name == f.Placeholder {
		return f.DisplayName
	}
	return name
}

// Header returns the section header for an instance:
//
//	<title>/MailQueue
//	<'=' repeated len(title)+10 times>
//	<empty line>
func (f *Formatter) Header(name string) string {
	title := f.Title(name)
	return title + titleSuffix + "\n" +
		strings.Repeat("=", utf8.RuneCountInString(title)+10) + "\n\n"
}

// Write writes the header for name, then everything from r unchanged, then an empty line.
// Errors from r are returned as is; errors from w are wrapped with ErrWrite.
func (f *Formatter) Write(w io.Writer, name string, r io.Reader) error {
	if _, err := io.WriteString(w, f.Header(name)); err != nil {
		return fmt.Errorf("%w: '%s' header: %v", ErrWrite, name, err)
	}

	ew := &errWriter{w: w}
	if _, err := io.Copy(ew, r); err != nil {
		if ew.err != nil {
			return fmt.Errorf("%w: '%s' queue: %v", ErrWrite, name, ew.err)
		}
		return err
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("%w: '%s' trailer: %v", ErrWrite, name, err)
	}
	return nil
}

// errWriter remembers the write error so Write can tell it apart from a read error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
