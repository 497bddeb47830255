// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touches is a closed range intersection predicate.
func touches(q Segment, t Interval) bool {
	return q.Low <= t.Stop && t.Start <= q.High
}

func TestTreeMatchesLinear(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, match := range []struct {
		name string
		fn   Predicate
	}{
		{name: "overlaps", fn: Overlaps},
		{name: "touches", fn: touches},
	} {
		t.Run(match.name, func(t *testing.T) {
			for n := 0; n < 100; n++ {
				targets := randomIntervals(rnd, rnd.Intn(50), 500)
				lin := NewLinear(targets, match.fn)
				tree, err := NewTree(targets, match.fn)
				require.NoError(t, err)

				queries := Segments(targets)
				for i := 0; i < 20; i++ {
					lo := rnd.Intn(600) - 50
					queries = append(queries, Segment{Low: lo, High: lo + rnd.Intn(100)})
				}
				for _, q := range queries {
					assert.Equal(t, lin.Query(q), tree.Query(q), "query %v", q)
				}
			}
		})
	}
}

func TestTreeOrder(t *testing.T) {
	targets := []Interval{
		{Owner: "c", Start: 30, Stop: 40},
		{Owner: "a", Start: 0, Stop: 100},
		{Owner: "b", Start: 35, Stop: 35},
	}
	tree, err := NewTree(targets, Overlaps)
	require.NoError(t, err)
	assert.Equal(t, targets, tree.Query(Segment{30, 40}))
	assert.Nil(t, tree.Query(Segment{200, 300}))
}

func TestEmptyIndex(t *testing.T) {
	tree, err := NewTree(nil, Overlaps)
	require.NoError(t, err)
	assert.Nil(t, tree.Query(Segment{0, 10}))
	assert.Nil(t, NewLinear(nil, Overlaps).Query(Segment{0, 10}))
}

func TestTreeInverted(t *testing.T) {
	_, err := NewTree([]Interval{{Owner: "a", Start: 10, Stop: 5}}, Overlaps)
	assert.True(t, errors.Is(err, ErrInvertedInterval), "unexpected error: %v", err)
}

func TestTreeExtremeBounds(t *testing.T) {
	ivs := []Interval{
		{Owner: "A", Start: 10, Stop: math.MaxInt},
		{Owner: "B", Start: 20, Stop: math.MaxInt},
		{Owner: "C", Start: math.MinInt, Stop: 15},
	}
	want := []Cluster{
		{Segment: Segment{10, 15}, Partition: "1", Owners: []string{"A", "C"}, ID: "1.1.d.2"},
		{Segment: Segment{20, math.MaxInt}, Partition: "1", Owners: []string{"A", "B"}, ID: "1.2.d.2"},
	}
	for _, name := range []string{"linear", "tree"} {
		fn, err := IndexByName(name)
		require.NoError(t, err)
		got, err := Clusterer{Tag: "d", Index: fn}.Partition("1", ivs)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestIndexByName(t *testing.T) {
	for _, name := range []string{"linear", "tree"} {
		fn, err := IndexByName(name)
		require.NoError(t, err)
		idx, err := fn([]Interval{{Owner: "a", Start: 1, Stop: 5}}, Overlaps)
		require.NoError(t, err)
		assert.Len(t, idx.Query(Segment{2, 3}), 1)
	}
	_, err := IndexByName("hash")
	assert.Error(t, err)
}
