// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// joincoords joins two tab-delimited tables on overlapping genomic
// coordinates. Each row of the first table is written with the columns of
// the first row of the second table on the same chromosome whose coordinates
// overlap it, or with empty columns if there is no such row.
//
// The coordinate columns of each table are given as a comma-separated list
// of 1-based chromosome, start and stop column numbers.
//
// usage: joincoords -1 cnvs.tsv -a 2,3,4 -2 genes.tsv -b 1,2,3 > joined.tsv
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/kortschak/overlap/cluster"
	"github.com/kortschak/overlap/internal/coordjoin"
	"github.com/kortschak/overlap/internal/table"
)

func main() {
	cols1 := columnsValue{Chromosome: 0, Start: 1, Stop: 2}
	cols2 := columnsValue{Chromosome: 0, Start: 1, Stop: 2}
	file1 := flag.String("1", "", "specify the first table; its columns are written first (required)")
	file2 := flag.String("2", "", "specify the second table; its columns are written last (required)")
	flag.Var(&cols1, "a", "specify the chromosome,start,stop columns of the first table")
	flag.Var(&cols2, "b", "specify the chromosome,start,stop columns of the second table")
	noHeader1 := flag.Bool("no-header-1", false, "specify the first table has no header")
	noHeader2 := flag.Bool("no-header-2", false, "specify the second table has no header")
	index := flag.String("index", "linear", "specify overlap index (linear or tree)")
	flag.Parse()
	if *file1 == "" || *file2 == "" {
		flag.Usage()
		os.Exit(2)
	}
	fn, err := cluster.IndexByName(*index)
	if err != nil {
		log.Fatal(err)
	}

	log.Println(os.Args)
	a, err := load(*file1, coordjoin.Columns(cols1), !*noHeader1)
	if err != nil {
		log.Fatal(err)
	}
	b, err := load(*file2, coordjoin.Columns(cols2), !*noHeader2)
	if err != nil {
		log.Fatal(err)
	}

	header, rows, err := coordjoin.Left(a, b, fn)
	if err != nil {
		log.Fatal(err)
	}
	w := bufio.NewWriter(os.Stdout)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	err = w.Flush()
	if err != nil {
		log.Fatal(err)
	}
}

func load(path string, cols coordjoin.Columns, header bool) (*coordjoin.Table, error) {
	r, c, err := table.Open(path, "tab")
	if err != nil {
		return nil, err
	}
	defer c.Close()
	t, err := coordjoin.Load(r, cols, header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// columnsValue is a flag value holding a coordinate column layout.
type columnsValue coordjoin.Columns

// Set parses a comma-separated list of 1-based chromosome, start and
// stop column numbers.
func (c *columnsValue) Set(v string) error {
	f := strings.Split(v, ",")
	if len(f) != 3 {
		return fmt.Errorf("expected three columns: %q", v)
	}
	var cols [3]int
	for i, s := range f {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("invalid column number: %d", n)
		}
		cols[i] = n - 1
	}
	*c = columnsValue{Chromosome: cols[0], Start: cols[1], Stop: cols[2]}
	return nil
}

// String satisfies the flag.Value interface.
func (c *columnsValue) String() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%d,%d,%d", c.Chromosome+1, c.Start+1, c.Stop+1)
}
