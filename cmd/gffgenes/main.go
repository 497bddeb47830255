// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gffgenes finds the genes overlapping tagged genomic coordinates. It takes
// a tab-delimited file of tag, chromosome, start and stop records and a GFF3
// annotation, and writes tag and gene ID pairs for every gene overlapping a
// record. Chromosome names are taken from the chromosome attribute of the
// GFF3 region features, and gene IDs from the feature Dbxref attribute.
//
// If the lengths flag is given, a table of chromosome names and lengths is
// written instead.
//
// usage: gffgenes -coords coords.tsv -gff annotation.gff3 > genes.tsv
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/overlap/cluster"
	"github.com/kortschak/overlap/internal/gff3"
	"github.com/kortschak/overlap/internal/table"
)

func main() {
	coordsFile := flag.String("coords", "", "specify file with coordinates to search in the annotation")
	gffFile := flag.String("gff", "", "specify GFF3 annotation file (required)")
	feature := flag.String("feature", "gene", "specify the feature type to report")
	dbxref := flag.String("dbxref", "GeneID", "specify the Dbxref database used for feature IDs")
	lengths := flag.Bool("lengths", false, "specify to only write a table of chromosome lengths")
	index := flag.String("index", "linear", "specify overlap index (linear or tree)")
	flag.Parse()
	if *gffFile == "" || (*coordsFile == "" && !*lengths) {
		flag.Usage()
		os.Exit(2)
	}
	fn, err := cluster.IndexByName(*index)
	if err != nil {
		log.Fatal(err)
	}

	log.Println(os.Args)
	f, err := os.Open(*gffFile)
	if err != nil {
		log.Fatal(err)
	}
	ann, err := gff3.Load(f, *feature, *dbxref)
	f.Close()
	if err != nil {
		log.Fatalf("failed to read annotation: %v", err)
	}
	if ann.Unplaced != 0 {
		log.Printf("ignoring %d %s features on sequences without a chromosome", ann.Unplaced, *feature)
	}

	w := bufio.NewWriter(os.Stdout)
	defer func() {
		err := w.Flush()
		if err != nil {
			log.Fatal(err)
		}
	}()

	if *lengths {
		for _, l := range ann.Lengths {
			fmt.Fprintf(w, "%s\t%d\n", l.Chromosome, l.Length)
		}
		return
	}

	r, c, err := table.Open(*coordsFile, "tab")
	if err != nil {
		log.Fatal(err)
	}
	coords, err := gff3.LoadCoords(r)
	c.Close()
	if err != nil {
		log.Fatalf("failed to read coordinates: %v", err)
	}
	hits, err := gff3.Annotate(coords, ann, fn)
	if err != nil {
		log.Fatal(err)
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s\t%s\n", h.Tag, h.Feature)
	}
}
