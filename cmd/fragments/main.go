// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fragments extracts genomic fragments from a FASTA file. It takes a
// tab-delimited table of sequence name, 1-based start and 1-based end
// records, with an optional fourth fragment name column, and writes the
// sequence of each fragment, extended by tail bases on each side, in
// FASTA format.
//
// Fragments without a name are named seq:from:to_fragment_n where from
// and to are the extracted 1-based coordinates and n is the number of the
// fragment on its sequence.
//
// usage: fragments -in genome.fa -frags regions.tsv [-tail 100] > fragments.fa
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/hts/fai"

	"github.com/kortschak/overlap/internal/table"
)

func main() {
	in := flag.String("in", "", "specify FASTA sequence file (required)")
	fragsFile := flag.String("frags", "", "specify fragment coordinate table (required)")
	tail := flag.Int("tail", 0, "specify the number of flanking bases to include on each side")
	flag.Parse()
	if *in == "" || *fragsFile == "" || *tail < 0 {
		flag.Usage()
		os.Exit(2)
	}

	log.Println(os.Args)
	r, c, err := table.Open(*fragsFile, "tab")
	if err != nil {
		log.Fatal(err)
	}
	frags, err := readFragments(r)
	c.Close()
	if err != nil {
		log.Fatalf("failed to read fragments: %v", err)
	}

	genome, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer genome.Close()

	log.Println("indexing sequence")
	idx, err := fai.NewIndex(genome)
	if err != nil {
		log.Fatal(err)
	}

	w := bufio.NewWriter(os.Stdout)
	n, err := extract(w, fai.NewFile(genome, idx), idx, frags, *tail)
	if err != nil {
		log.Fatal(err)
	}
	err = w.Flush()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("extracted %d of %d fragments", n, len(frags))
}

// fragment is a requested sequence region with 1-based inclusive
// coordinates.
type fragment struct {
	parent      string
	start, stop int
	name        string
}

// readFragments returns the fragments described by the records in r.
func readFragments(r *table.Reader) ([]fragment, error) {
	var frags []fragment
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return frags, nil
			}
			return nil, err
		}
		parent, err := rec.String(0)
		if err != nil {
			return nil, err
		}
		start, err := rec.Int(1)
		if err != nil {
			return nil, err
		}
		stop, err := rec.Int(2)
		if err != nil {
			return nil, err
		}
		frags = append(frags, fragment{parent: parent, start: start, stop: stop, name: rec.Field(3)})
	}
}

// extract writes the sequences of frags extended by tail bases to dst in
// FASTA format, clamping to the ends of the parent sequence. Fragments on
// sequences not present in idx are skipped. It returns the number of
// fragments written.
func extract(dst io.Writer, fa *fai.File, idx fai.Index, frags []fragment, tail int) (int, error) {
	counts := make(map[string]int)
	var n int
	for _, f := range frags {
		rec, ok := idx[f.parent]
		if !ok {
			continue
		}
		counts[f.parent]++

		left := max(f.start-tail-1, 0)
		right := min(f.stop+tail, rec.Length)
		if right < left {
			return n, fmt.Errorf("invalid fragment %s:%d-%d", f.parent, f.start, f.stop)
		}
		r, err := fa.SeqRange(f.parent, left, right)
		if err != nil {
			return n, err
		}
		b, err := ioutil.ReadAll(r)
		if err != nil {
			return n, err
		}

		name := f.name
		if name == "" {
			name = fmt.Sprintf("%s:%d:%d_fragment_%d", f.parent, left+1, right, counts[f.parent])
		}
		s := linear.NewSeq(name, alphabet.BytesToLetters(b), alphabet.DNAredundant)
		_, err = fmt.Fprintf(dst, "%60a\n", s)
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
