// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

// minOwners is the number of distinct owners a segment must have to
// be reported as a cluster.
const minOwners = 2

// Partitions is a set of intervals grouped by partition key. Keys are
// kept in the order they were first added.
type Partitions struct {
	keys      []string
	intervals map[string][]Interval
}

// NewPartitions returns an empty set of partitions.
func NewPartitions() *Partitions {
	return &Partitions{intervals: make(map[string][]Interval)}
}

// Add appends iv to the partition named key.
func (p *Partitions) Add(key string, iv Interval) {
	ivs, ok := p.intervals[key]
	if !ok {
		p.keys = append(p.keys, key)
	}
	p.intervals[key] = append(ivs, iv)
}

// Keys returns the partition keys in order of first addition.
func (p *Partitions) Keys() []string { return p.keys }

// Intervals returns the intervals of the partition named key in the
// order they were added.
func (p *Partitions) Intervals(key string) []Interval { return p.intervals[key] }

// Len returns the number of partitions.
func (p *Partitions) Len() int { return len(p.keys) }

// Cluster is a reference segment shared by at least two owners.
type Cluster struct {
	Segment
	Partition string
	// Owners holds the distinct owners of intervals
	// overlapping the segment in input order.
	Owners []string
	ID     string
}

// ClusterID returns the identifier of the nth cluster of a partition,
// with the given tag and number of members.
func ClusterID(partition string, n int, tag string, members int) string {
	return fmt.Sprintf("%s.%d.%s.%d", partition, n, tag, members)
}

// Clusterer finds clusters of overlapping intervals.
type Clusterer struct {
	// Tag is the caller supplied label included in
	// cluster identifiers, for example a mutation type.
	Tag string

	// Index is used to construct the overlap index for
	// each partition. If nil, a Linear index is used.
	Index IndexFunc

	// Workers is the maximum number of partitions to
	// cluster concurrently. Values less than 2 cluster
	// partitions sequentially.
	Workers int
}

// Partition returns the clusters of the intervals in a single partition,
// in segment order. Cluster sequence numbers start at 1.
func (c Clusterer) Partition(key string, ivs []Interval) ([]Cluster, error) {
	segs := Segments(ivs)
	if len(segs) == 0 {
		return nil, nil
	}
	index := c.Index
	if index == nil {
		index = func(targets []Interval, match Predicate) (OverlapIndex, error) {
			return NewLinear(targets, match), nil
		}
	}
	idx, err := index(ivs, Overlaps)
	if err != nil {
		return nil, fmt.Errorf("partition %s: %w", key, err)
	}

	owners := make([][]string, len(segs))
	for i, s := range segs {
		owners[i] = uniqOwners(idx.Query(s))
	}

	var clusters []Cluster
	for i, s := range segs {
		if len(owners[i]) < minOwners {
			continue
		}
		clusters = append(clusters, Cluster{
			Segment:   s,
			Partition: key,
			Owners:    owners[i],
			ID:        ClusterID(key, len(clusters)+1, c.Tag, len(owners[i])),
		})
	}
	return clusters, nil
}

// Run returns the clusters of every partition in p. Clusters are
// returned grouped by partition in partition key order regardless of
// the number of workers used.
func (c Clusterer) Run(p *Partitions) ([]Cluster, error) {
	results := make([][]Cluster, p.Len())
	if c.Workers < 2 {
		for i, key := range p.Keys() {
			cl, err := c.Partition(key, p.Intervals(key))
			if err != nil {
				return nil, err
			}
			results[i] = cl
		}
		return flatten(results), nil
	}

	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i, key := range p.Keys() {
		i, key := i, key
		g.Go(func() error {
			cl, err := c.Partition(key, p.Intervals(key))
			if err != nil {
				return err
			}
			results[i] = cl
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return flatten(results), nil
}

func flatten(parts [][]Cluster) []Cluster {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	if n == 0 {
		return nil
	}
	all := make([]Cluster, 0, n)
	for _, p := range parts {
		all = append(all, p...)
	}
	return all
}

// uniqOwners returns the distinct owners of ivs in order of
// first appearance.
func uniqOwners(ivs []Interval) []string {
	if len(ivs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ivs))
	owners := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		if seen[iv.Owner] {
			continue
		}
		seen[iv.Owner] = true
		owners = append(owners, iv.Owner)
	}
	return owners
}

// Write writes clusters to w as tab-delimited lines of the segment
// bounds, the partition, the comma-joined owners and the cluster ID.
func Write(w io.Writer, clusters []Cluster) error {
	bw := bufio.NewWriter(w)
	for _, c := range clusters {
		_, err := fmt.Fprintf(bw, "%d\t%d\t%s\t%s\t%s\n", c.Low, c.High, c.Partition, strings.Join(c.Owners, ","), c.ID)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
