// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
)

// OverlapIndex is a set of target intervals that can be queried for
// the targets matching a query range.
type OverlapIndex interface {
	// Query returns the targets that match q, in the order
	// they were given to the index.
	Query(q Segment) []Interval
}

// IndexFunc returns an OverlapIndex over targets using match as the
// overlap test.
type IndexFunc func(targets []Interval, match Predicate) (OverlapIndex, error)

// ErrInvertedInterval is returned when an interval tree is built from
// an interval with Start greater than Stop.
var ErrInvertedInterval = errors.New("cluster: inverted interval")

// IndexByName returns the IndexFunc for the named index implementation,
// either "linear" or "tree".
func IndexByName(name string) (IndexFunc, error) {
	switch name {
	case "linear":
		return func(targets []Interval, match Predicate) (OverlapIndex, error) {
			return NewLinear(targets, match), nil
		}, nil
	case "tree":
		return func(targets []Interval, match Predicate) (OverlapIndex, error) {
			return NewTree(targets, match)
		}, nil
	default:
		return nil, fmt.Errorf("cluster: unknown index type: %q", name)
	}
}

// Linear is an OverlapIndex that tests every target against each query.
type Linear struct {
	targets []Interval
	match   Predicate
}

// NewLinear returns a Linear index over targets.
func NewLinear(targets []Interval, match Predicate) *Linear {
	return &Linear{targets: targets, match: match}
}

// Query satisfies the OverlapIndex interface.
func (l *Linear) Query(q Segment) []Interval {
	var found []Interval
	for _, t := range l.targets {
		if l.match(q, t) {
			found = append(found, t)
		}
	}
	return found
}

// Tree is an OverlapIndex backed by an interval tree. Candidates are
// selected by closed range intersection and then filtered by the
// index's Predicate, so a Tree returns the same results as a Linear
// index for any Predicate that implies closed range intersection.
type Tree struct {
	tree    interval.IntTree
	targets []Interval
	match   Predicate
}

// NewTree returns a Tree index over targets. It returns an error
// wrapping ErrInvertedInterval if any target has Start > Stop.
func NewTree(targets []Interval, match Predicate) (*Tree, error) {
	t := &Tree{targets: targets, match: match}
	for i, iv := range targets {
		if iv.Start > iv.Stop {
			return nil, fmt.Errorf("%w: %s %d-%d", ErrInvertedInterval, iv.Owner, iv.Start, iv.Stop)
		}
		err := t.tree.Insert(treeInterval{uid: uintptr(i), start: iv.Start, stop: iv.Stop}, true)
		if err != nil {
			return nil, err
		}
	}
	if len(targets) != 0 {
		t.tree.AdjustRanges()
	}
	return t, nil
}

// Query satisfies the OverlapIndex interface.
func (t *Tree) Query(q Segment) []Interval {
	if len(t.targets) == 0 {
		return nil
	}
	lo, hi := q.Low, q.High
	if lo > hi {
		lo, hi = hi, lo
	}
	hits := t.tree.Get(closedRange{lo: lo, hi: hi})
	if len(hits) == 0 {
		return nil
	}
	idx := make([]int, 0, len(hits))
	for _, h := range hits {
		idx = append(idx, int(h.ID()))
	}
	sort.Ints(idx)
	var found []Interval
	for _, i := range idx {
		if t.match(q, t.targets[i]) {
			found = append(found, t.targets[i])
		}
	}
	return found
}

// treeInterval is a closed interval stored in the tree as the
// closed range [start, stop].
type treeInterval struct {
	uid         uintptr
	start, stop int
}

func (i treeInterval) Overlap(b interval.IntRange) bool {
	return b.Start <= i.stop && i.start <= b.End
}
func (i treeInterval) ID() uintptr { return i.uid }
func (i treeInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.stop}
}

// closedRange is a tree query matching stored ranges that intersect
// the closed range [lo, hi].
type closedRange struct {
	lo, hi int
}

// Overlap returns whether b intersects the closed range.
func (q closedRange) Overlap(b interval.IntRange) bool {
	return b.Start <= q.hi && q.lo <= b.End
}
