// SPDX-License-Identifier: GPL-3.0-or-later

// Package linelist reads the first token of each input line into a bounded list.
package linelist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// List is an ordered list of tokens with a fixed maximum number of entries
// and a fixed maximum entry size. Oversized entries are truncated.
type List struct {
	entries []string
	width   int
}

// New returns an empty list holding up to capacity entries of at most width-1 bytes each.
func New(capacity, width int) *List {
	return &List{
		entries: make([]string, 0, max(capacity, 0)),
		width:   max(width, 1),
	}
}

// Add appends token, truncated to width-1 bytes. It reports false if the list is full.
func (l *List) Add(token string) bool {
	if l.Full() {
		return false
	}
	if len(token) > l.width-1 {
		token = token[:l.width-1]
	}
	l.entries = append(l.entries, token)
	return true
}

func (l *List) Len() int   { return len(l.entries) }
func (l *List) Cap() int   { return cap(l.entries) }
func (l *List) Full() bool { return len(l.entries) == cap(l.entries) }

func (l *List) At(i int) string { return l.entries[i] }

// Names returns a copy of the entries in insertion order.
func (l *List) Names() []string {
	return append([]string(nil), l.entries...)
}

// Parse reads lines from r until the list holds capacity entries or r is exhausted.
// The entry for a line is its leading run of non-space bytes, at most width-1 bytes long;
// the rest of the line is discarded. Lines that start with a space or are empty are skipped.
// The capacity bounds entries, not lines: skipped lines are consumed without using up
// capacity, so more than capacity lines may be read before the list is full.
//
// On a read error the entries parsed so far are returned together with the error.
func Parse(r io.Reader, capacity, width int) (*List, error) {
	l := New(capacity, width)
	br := bufio.NewReaderSize(r, max(l.width, 16))

	for !l.Full() {
		line, err := readLine(br, l.width-1)
		if err != nil && !errors.Is(err, io.EOF) {
			return l, fmt.Errorf("parse line %d: %w", l.Len()+1, err)
		}
		if tok := token(line); len(tok) > 0 {
			l.Add(string(tok))
		}
		if err != nil {
			return l, nil
		}
	}

	return l, nil
}

// readLine returns up to limit bytes of the next line and consumes the whole line.
// At end of data it returns the unterminated tail, if any, together with io.EOF.
func readLine(br *bufio.Reader, limit int) ([]byte, error) {
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if n := min(len(chunk), limit-len(line)); n > 0 {
			line = append(line, chunk[:n]...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, err
	}
}

func token(line []byte) []byte {
	if i := bytes.IndexFunc(line, isSpace); i >= 0 {
		return line[:i]
	}
	return line
}

// isSpace matches the C locale isspace(3) set.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
