// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coordjoin joins the rows of two tables whose genomic
// coordinates overlap.
package coordjoin

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kortschak/overlap/cluster"
	"github.com/kortschak/overlap/internal/table"
)

// Columns is the 0-based layout of the coordinate columns of a table.
type Columns struct {
	Chromosome int
	Start      int
	Stop       int
}

// Table is a table of coordinate annotated rows.
type Table struct {
	Header []string
	Rows   []Row
}

// Row is a table row and its coordinates.
type Row struct {
	Chromosome string
	Start      int
	Stop       int
	Fields     []string
}

// placeholder is the header value used for tables without a header.
const placeholder = "-"

// Load reads a table from r using the coordinate layout cols. If header
// is false, the header is a placeholder for each column of the first row.
func Load(r *table.Reader, cols Columns, header bool) (*Table, error) {
	var t Table
	for first := true; ; first = false {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return &t, nil
			}
			return nil, err
		}
		if first {
			if header {
				t.Header = rec.Fields
				continue
			}
			t.Header = make([]string, len(rec.Fields))
			for i := range t.Header {
				t.Header[i] = placeholder
			}
		}

		chr, err := rec.String(cols.Chromosome)
		if err != nil {
			return nil, err
		}
		start, err := rec.Int(cols.Start)
		if err != nil {
			return nil, err
		}
		stop, err := rec.Int(cols.Stop)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, Row{Chromosome: chr, Start: start, Stop: stop, Fields: rec.Fields})
	}
}

// overlaps reports whether the query row coordinates q and the target t
// overlap, with t taking the role of the reference segment.
func overlaps(q cluster.Segment, t cluster.Interval) bool {
	return cluster.Overlaps(cluster.Segment{Low: t.Start, High: t.Stop}, cluster.Interval{Start: q.Low, Stop: q.High})
}

// Left returns the header and rows of the left join of a and b. Each row of
// a is extended with the fields of the first row of b on the same chromosome
// that overlaps it, or with empty fields if there is none. Joined fields from
// b are truncated or padded to the width of b's header.
func Left(a, b *Table, index cluster.IndexFunc) (header []string, rows [][]string, err error) {
	width := len(b.Header)
	header = append(append(header, a.Header...), b.Header...)

	byChr := make(map[string][]cluster.Interval)
	rowsOf := make(map[string][]Row)
	for _, r := range b.Rows {
		// The Owner field holds the row's position within its chromosome.
		byChr[r.Chromosome] = append(byChr[r.Chromosome], cluster.Interval{
			Owner: strconv.Itoa(len(rowsOf[r.Chromosome])),
			Start: r.Start,
			Stop:  r.Stop,
		})
		rowsOf[r.Chromosome] = append(rowsOf[r.Chromosome], r)
	}
	indexes := make(map[string]cluster.OverlapIndex)
	for chr, ivs := range byChr {
		indexes[chr], err = index(ivs, overlaps)
		if err != nil {
			return nil, nil, fmt.Errorf("chromosome %s: %w", chr, err)
		}
	}

	for _, r := range a.Rows {
		match := make([]string, width)
		if idx, ok := indexes[r.Chromosome]; ok {
			hits := idx.Query(cluster.Segment{Low: r.Start, High: r.Stop})
			if len(hits) != 0 {
				i, _ := strconv.Atoi(hits[0].Owner)
				copy(match, rowsOf[r.Chromosome][i].Fields)
			}
		}
		rows = append(rows, append(append([]string(nil), r.Fields...), match...))
	}
	return header, rows, nil
}
