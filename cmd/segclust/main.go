// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// segclust finds clusters of patients sharing genomic regions. It takes a
// table of per-patient mutation intervals, partitions them by chromosome and
// cuts each chromosome into reference segments at every interval start and
// stop. Each segment overlapped by the intervals of two or more patients is
// reported as a cluster.
//
// Clusters are written as tab-delimited lines of segment start, segment end,
// chromosome, comma-separated patient IDs and a cluster ID of the form
// chromosome.n.type.members, or as GFF features with the -format gff flag.
//
// usage: segclust -in patients.tsv -type d > clusters.tsv
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"

	"github.com/kortschak/overlap/cluster"
	"github.com/kortschak/overlap/internal/table"
)

func main() {
	in := flag.String("in", "", "specify input patient interval file (required)")
	typ := flag.String("type", "", "specify the mutation type tag used in cluster IDs (e.g. d for deletion, D for duplication)")
	out := flag.String("out", "", "specify output file (default stdout)")
	format := flag.String("format", "tsv", "specify output format (tsv or gff)")
	header := flag.Bool("header", false, "specify the input has a header line")
	delim := flag.String("delim", "tab", "specify input delimiter (tab, auto or a single character)")
	owner := flag.Int("owner", cluster.PatientColumns.Owner+1, "specify 1-based patient ID column")
	chr := flag.Int("chr", cluster.PatientColumns.Partition+1, "specify 1-based chromosome column")
	start := flag.Int("start", cluster.PatientColumns.Start+1, "specify 1-based interval start column")
	stop := flag.Int("stop", cluster.PatientColumns.Stop+1, "specify 1-based interval stop column")
	index := flag.String("index", "linear", "specify overlap index (linear or tree)")
	threads := flag.Int("cores", 1, "specify the maximum number of chromosomes to process concurrently (<=0 is use all cores)")
	nodes := flag.String("nodes", "", "specify file to write cluster to patient network edges")
	dotOut := flag.String("dot", "", "specify file to write the cluster network in DOT format")
	verbose := flag.Bool("verbose", false, "specify verbose logging")
	flag.Parse()

	if *in == "" || *owner < 1 || *chr < 1 || *start < 1 || *stop < 1 {
		flag.Usage()
		os.Exit(2)
	}
	switch *format {
	case "tsv", "gff":
	default:
		log.Fatalf("unknown output format: %q", *format)
	}
	fn, err := cluster.IndexByName(*index)
	if err != nil {
		log.Fatal(err)
	}
	workers := *threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	log.Println(os.Args)
	r, f, err := table.Open(*in, *delim)
	if err != nil {
		log.Fatal(err)
	}
	cols := cluster.Columns{Owner: *owner - 1, Partition: *chr - 1, Start: *start - 1, Stop: *stop - 1}
	parts, err := cluster.Load(r, cols, *header)
	f.Close()
	if err != nil {
		log.Fatalf("failed to read %s: %v", *in, err)
	}
	log.Printf("read %d chromosomes", parts.Len())
	if *verbose {
		for _, k := range parts.Keys() {
			log.Printf("\t%s: %d intervals", k, len(parts.Intervals(k)))
		}
	}

	c := cluster.Clusterer{Tag: *typ, Index: fn, Workers: workers}
	clusters, err := c.Run(parts)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("found %d clusters", len(clusters))

	dst := os.Stdout
	if *out != "" {
		dst, err = os.Create(*out)
		if err != nil {
			log.Fatal(err)
		}
	}
	switch *format {
	case "tsv":
		err = cluster.Write(dst, clusters)
	case "gff":
		err = writeGFF(dst, clusters)
	}
	if err != nil {
		log.Fatalf("failed to write clusters: %v", err)
	}
	if dst != os.Stdout {
		err = dst.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	if *nodes != "" {
		err = writeFile(*nodes, func(w io.Writer) error { return writeEdges(w, clusters) })
		if err != nil {
			log.Fatalf("failed to write network edges: %v", err)
		}
	}
	if *dotOut != "" {
		err = writeFile(*dotOut, func(w io.Writer) error { return writeDOT(w, clusters) })
		if err != nil {
			log.Fatalf("failed to write network: %v", err)
		}
	}
}

// writeGFF writes clusters to w as GFF features. Segment coordinates
// are treated as 1-based and inclusive. Segments starting before the
// first base are clipped to start at 1 and segments ending before it
// are an error.
func writeGFF(w io.Writer, clusters []cluster.Cluster) error {
	enc := gff.NewWriter(w, 60, true)
	for _, c := range clusters {
		if c.High < 1 {
			return fmt.Errorf("cluster %s: segment %d-%d has no GFF coordinates", c.ID, c.Low, c.High)
		}
		_, err := enc.Write(&gff.Feature{
			SeqName:    c.Partition,
			Source:     "segclust",
			Feature:    "cluster",
			FeatStart:  max(c.Low-1, 0),
			FeatEnd:    c.High,
			FeatStrand: seq.None,
			FeatFrame:  gff.NoFrame,
			FeatAttributes: gff.Attributes{
				{Tag: "Cluster", Value: c.ID},
				{Tag: "Members", Value: fmt.Sprint(len(c.Owners))},
				{Tag: "Owners", Value: joinOwners(c.Owners)},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// writeFile creates the named file and writes to it with fn.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = fn(f)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
