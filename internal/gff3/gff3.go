// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gff3 loads gene models from GFF3 annotation files and finds the
// genes overlapping sets of coordinate records.
package gff3

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kortschak/overlap/cluster"
	"github.com/kortschak/overlap/internal/table"
)

// GFF3 columns.
const (
	seqID = iota
	_
	featType
	start
	end
	_
	_
	_
	attributes
)

// Annotation holds feature intervals grouped by chromosome.
type Annotation struct {
	// Features holds the features of each chromosome as
	// intervals owned by their Dbxref ID, sorted by start.
	Features map[string][]cluster.Interval

	// Lengths holds the lengths of chromosomes in the order
	// their regions first appear in the file. When more than one
	// region names a chromosome the last length is kept.
	Lengths []Length

	// Unplaced is the number of features found on sequences
	// that have no chromosome region.
	Unplaced int
}

// Length is the length of a chromosome.
type Length struct {
	Chromosome string
	Length     int
}

// Load reads a GFF3 annotation from r, collecting features of the given
// type identified by the named Dbxref database. Chromosome names are taken
// from region features with the attribute genome=chromosome.
func Load(r io.Reader, feature, dbxref string) (*Annotation, error) {
	tr := table.NewReader(r)
	tr.Comment = "#"

	ann := &Annotation{Features: make(map[string][]cluster.Interval)}
	chromosomes := make(map[string]string)
	lengthOf := make(map[string]int)
	for {
		rec, err := tr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		typ, err := rec.String(featType)
		if err != nil {
			return nil, err
		}
		if typ != feature && typ != "region" {
			continue
		}
		raw, err := rec.String(attributes)
		if err != nil {
			return nil, err
		}
		attrs := parseAttributes(raw)

		if attrs["genome"] == "chromosome" {
			name := attrs["chromosome"]
			length, err := rec.Int(end)
			if err != nil {
				return nil, err
			}
			if i, ok := lengthOf[name]; ok {
				ann.Lengths[i].Length = length
			} else {
				lengthOf[name] = len(ann.Lengths)
				ann.Lengths = append(ann.Lengths, Length{Chromosome: name, Length: length})
			}
			chromosomes[rec.Fields[seqID]] = name
			continue
		}
		if typ != feature {
			continue
		}

		id, ok := parseDbxref(attrs["Dbxref"])[dbxref]
		if !ok {
			return nil, fmt.Errorf("line %d: no %s Dbxref for %s feature", rec.Line, dbxref, feature)
		}
		s, err := rec.Int(start)
		if err != nil {
			return nil, err
		}
		e, err := rec.Int(end)
		if err != nil {
			return nil, err
		}
		chr, ok := chromosomes[rec.Fields[seqID]]
		if !ok {
			ann.Unplaced++
			continue
		}
		ann.Features[chr] = append(ann.Features[chr], cluster.Interval{Owner: id, Start: s, Stop: e})
	}
	for _, f := range ann.Features {
		sort.SliceStable(f, func(i, j int) bool { return f[i].Start < f[j].Start })
	}
	return ann, nil
}

// parseAttributes returns the tag=value pairs of a GFF3 attribute column.
func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, pair := range strings.Split(s, ";") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			attrs[kv[0]] = kv[1]
		} else {
			attrs[kv[0]] = ""
		}
	}
	return attrs
}

// parseDbxref returns the db:id pairs of a Dbxref attribute value.
func parseDbxref(s string) map[string]string {
	refs := make(map[string]string)
	if s == "" {
		return refs
	}
	for _, ref := range strings.Split(s, ",") {
		kv := strings.SplitN(ref, ":", 2)
		if len(kv) == 2 {
			refs[kv[0]] = kv[1]
		}
	}
	return refs
}

// Overlaps returns whether the coordinate query q and the feature f
// overlap. The query may contain the feature, be contained by it, or
// cross either of its ends.
func Overlaps(q cluster.Segment, f cluster.Interval) bool {
	return (q.Low <= f.Start && q.High >= f.Stop) ||
		(q.Low >= f.Start && q.High <= f.Stop) ||
		(q.Low < f.Start && q.High > f.Start) ||
		(q.Low < f.Stop && q.High > f.Stop)
}

// Coord is a tagged coordinate record.
type Coord struct {
	Tag        string
	Chromosome string
	Start      int
	Stop       int
}

// LoadCoords reads tab-delimited tag, chromosome, start and stop records.
func LoadCoords(r *table.Reader) ([]Coord, error) {
	var coords []Coord
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return coords, nil
			}
			return nil, err
		}
		tag, err := rec.String(0)
		if err != nil {
			return nil, err
		}
		chr, err := rec.String(1)
		if err != nil {
			return nil, err
		}
		s, err := rec.Int(2)
		if err != nil {
			return nil, err
		}
		e, err := rec.Int(3)
		if err != nil {
			return nil, err
		}
		coords = append(coords, Coord{Tag: tag, Chromosome: chr, Start: s, Stop: e})
	}
}

// Hit is a feature found for a tagged coordinate record.
type Hit struct {
	Tag     string
	Feature string
}

// Annotate returns the features of ann that overlap each coordinate.
// Hits are grouped by tag in order of each tag's first hit, and each
// feature is reported once per tag. Coordinates on chromosomes without
// features have no hits.
func Annotate(coords []Coord, ann *Annotation, index cluster.IndexFunc) ([]Hit, error) {
	indexes := make(map[string]cluster.OverlapIndex)
	var tags []string
	found := make(map[string][]string)
	seen := make(map[Hit]bool)
	for _, c := range coords {
		idx, ok := indexes[c.Chromosome]
		if !ok {
			var err error
			idx, err = index(ann.Features[c.Chromosome], Overlaps)
			if err != nil {
				return nil, fmt.Errorf("chromosome %s: %w", c.Chromosome, err)
			}
			indexes[c.Chromosome] = idx
		}
		for _, f := range idx.Query(cluster.Segment{Low: c.Start, High: c.Stop}) {
			h := Hit{Tag: c.Tag, Feature: f.Owner}
			if seen[h] {
				continue
			}
			seen[h] = true
			if _, ok := found[c.Tag]; !ok {
				tags = append(tags, c.Tag)
			}
			found[c.Tag] = append(found[c.Tag], f.Owner)
		}
	}

	var hits []Hit
	for _, tag := range tags {
		for _, f := range found[tag] {
			hits = append(hits, Hit{Tag: tag, Feature: f})
		}
	}
	return hits, nil
}
