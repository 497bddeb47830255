// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package table provides a reader for line-oriented delimited text tables.
// Fields are split on a single delimiter with no quoting or escaping.
package table

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// ErrMissingColumn is returned when a required column is absent
// from a record.
var ErrMissingColumn = errors.New("missing column")

// maxLine is the longest line that will be read.
const maxLine = 1 << 24

// Reader reads delimited records.
type Reader struct {
	// Comma is the field delimiter. It is set to
	// '\t' by NewReader.
	Comma rune

	// Comment, if not empty, is the line prefix
	// that marks lines to be ignored.
	Comment string

	// Placeholder is the value returned by Record.Field
	// for columns that are not present in a record.
	Placeholder string

	sc   *bufio.Scanner
	line int
}

// NewReader returns a tab-delimited Reader reading from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLine)
	return &Reader{Comma: '\t', sc: sc}
}

// Record is a single line of a table.
type Record struct {
	// Line is the 1-based line number of
	// the record in its source.
	Line int

	Fields []string

	placeholder string
}

// Has returns whether the record has a column i.
func (r Record) Has(i int) bool { return 0 <= i && i < len(r.Fields) }

// Field returns the value of column i, or the reader's
// placeholder if the record has no column i.
func (r Record) Field(i int) string {
	if !r.Has(i) {
		return r.placeholder
	}
	return r.Fields[i]
}

// Int returns the value of column i parsed as a base 10 integer.
func (r Record) Int(i int) (int, error) {
	if !r.Has(i) {
		return 0, fmt.Errorf("line %d: column %d: %w", r.Line, i+1, ErrMissingColumn)
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.Fields[i]))
	if err != nil {
		return 0, fmt.Errorf("line %d: column %d: %w", r.Line, i+1, err)
	}
	return n, nil
}

// String returns the value of column i, failing if the column is missing.
func (r Record) String(i int) (string, error) {
	if !r.Has(i) {
		return "", fmt.Errorf("line %d: column %d: %w", r.Line, i+1, ErrMissingColumn)
	}
	return r.Fields[i], nil
}

// Read returns the next record. Blank lines and comment lines
// are skipped. At the end of the input Read returns io.EOF.
func (r *Reader) Read() (Record, error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimRight(r.sc.Text(), "\r")
		if text == "" {
			continue
		}
		if r.Comment != "" && strings.HasPrefix(text, r.Comment) {
			continue
		}
		return Record{
			Line:        r.line,
			Fields:      strings.Split(text, string(r.Comma)),
			placeholder: r.Placeholder,
		}, nil
	}
	err := r.sc.Err()
	if err != nil {
		return Record{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return Record{}, io.EOF
}

// ReadAll returns all remaining records.
func (r *Reader) ReadAll() ([]Record, error) {
	var recs []Record
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return recs, nil
			}
			return nil, err
		}
		recs = append(recs, rec)
	}
}

// sampleSize is the number of bytes used to detect a delimiter.
const sampleSize = 64 << 10

// Sniff returns the most likely field delimiter of the table in r and a
// reader that yields the complete content of r. If no delimiter can be
// detected, Sniff returns '\t'.
func Sniff(r io.Reader) (rune, io.Reader, error) {
	sample := make([]byte, sampleSize)
	n, err := io.ReadFull(r, sample)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, nil, err
	}
	sample = sample[:n]

	comma := '\t'
	d := detector.New()
	delims := d.DetectDelimiter(bytes.NewReader(sample), '"')
	if len(delims) > 0 && len(delims[0]) > 0 {
		comma = rune(delims[0][0])
	}
	return comma, io.MultiReader(bytes.NewReader(sample), r), nil
}

// Open opens the named table file. If delim is "auto", the delimiter
// is detected from the file content, otherwise delim must be "tab" or
// a single character. The returned io.Closer closes the file.
func Open(path, delim string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	var src io.Reader = f
	comma := '\t'
	switch delim {
	case "", "tab":
	case "auto":
		comma, src, err = Sniff(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		rs := []rune(delim)
		if len(rs) != 1 {
			f.Close()
			return nil, nil, fmt.Errorf("invalid delimiter: %q", delim)
		}
		comma = rs[0]
	}
	r := NewReader(src)
	r.Comma = comma
	return r, f, nil
}
