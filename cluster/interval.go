// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cluster provides types and functions for grouping labelled
// genomic intervals into clusters of shared reference segments.
//
// Intervals are grouped by a partition key, usually a chromosome name.
// Within a partition the start and stop coordinates of every interval
// are used as breakpoints that cut the coordinate axis into reference
// segments, and each segment covered by intervals from at least two
// distinct owners is reported as a cluster.
package cluster

import "sort"

// Interval is a labelled coordinate range. Start is expected to be
// no greater than Stop, but this is not enforced.
type Interval struct {
	Owner string
	Start int
	Stop  int
}

// Segment is a reference segment between two consecutive breakpoints.
// It is also used as the query range for an OverlapIndex.
type Segment struct {
	Low  int
	High int
}

// Breakpoints returns the sorted distinct start and stop values of ivs.
func Breakpoints(ivs []Interval) []int {
	if len(ivs) == 0 {
		return nil
	}
	seen := make(map[int]bool, 2*len(ivs))
	pts := make([]int, 0, 2*len(ivs))
	for _, iv := range ivs {
		for _, p := range [2]int{iv.Start, iv.Stop} {
			if seen[p] {
				continue
			}
			seen[p] = true
			pts = append(pts, p)
		}
	}
	sort.Ints(pts)
	return pts
}

// Segments returns the reference segments defined by the breakpoints
// of ivs. A set of intervals with fewer than two distinct breakpoints
// has no segments.
func Segments(ivs []Interval) []Segment {
	pts := Breakpoints(ivs)
	if len(pts) < 2 {
		return nil
	}
	segs := make([]Segment, len(pts)-1)
	for i := range segs {
		segs[i] = Segment{Low: pts[i], High: pts[i+1]}
	}
	return segs
}

// Overlaps returns whether the segment s and the interval iv overlap.
//
// The test is the disjunction of four conditions: s contains iv, iv
// strictly contains s, the high edge of s falls in (iv.Start, iv.Stop],
// or the low edge of s falls in [iv.Start, iv.Stop). The conditions
// differ in how they treat shared boundaries, so a zero length interval
// sitting on a breakpoint overlaps the segments on both sides of it
// while an interval that merely ends where s begins does not.
func Overlaps(s Segment, iv Interval) bool {
	return (s.Low <= iv.Start && s.High >= iv.Stop) ||
		(s.Low > iv.Start && s.High < iv.Stop) ||
		(s.High > iv.Start && s.High <= iv.Stop) ||
		(s.Low >= iv.Start && s.Low < iv.Stop)
}

// Predicate is an overlap test between a query range and a target
// interval. Predicates used with a Tree must only return true when the
// closed ranges [q.Low, q.High] and [t.Start, t.Stop] intersect.
type Predicate func(q Segment, t Interval) bool
