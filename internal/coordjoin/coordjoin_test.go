// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coordjoin

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kortschak/overlap/cluster"
	"github.com/kortschak/overlap/internal/table"
)

func load(t *testing.T, in string, cols Columns, header bool) *Table {
	t.Helper()
	tab, err := Load(table.NewReader(strings.NewReader(in)), cols, header)
	require.NoError(t, err)
	return tab
}

func TestLoad(t *testing.T) {
	tab := load(t, "cnv\tchr\tfrom\tto\nc1\t1\t10\t20\n", Columns{Chromosome: 1, Start: 2, Stop: 3}, true)
	assert.Equal(t, []string{"cnv", "chr", "from", "to"}, tab.Header)
	assert.Equal(t, []Row{{Chromosome: "1", Start: 10, Stop: 20, Fields: []string{"c1", "1", "10", "20"}}}, tab.Rows)

	tab = load(t, "c1\t1\t10\t20\nc2\t1\t30\t40\n", Columns{Chromosome: 1, Start: 2, Stop: 3}, false)
	assert.Equal(t, []string{"-", "-", "-", "-"}, tab.Header)
	assert.Len(t, tab.Rows, 2)

	_, err := Load(table.NewReader(strings.NewReader("c1\t1\tx\t20\n")), Columns{Chromosome: 1, Start: 2, Stop: 3}, false)
	assert.True(t, errors.Is(err, strconv.ErrSyntax), "unexpected error: %v", err)
}

func TestLeft(t *testing.T) {
	a := load(t, `id	chr	start	stop
a1	1	100	200
a2	1	500	600
a3	2	100	200
a4	1	200	300
`, Columns{Chromosome: 1, Start: 2, Stop: 3}, true)

	b := load(t, `1	150	160	geneX	extra
1	120	180	geneY
1	50	100	geneZ
1	550	700	geneW
3	100	200	geneV
`, Columns{Chromosome: 0, Start: 1, Stop: 2}, false)

	wantHeader := []string{"id", "chr", "start", "stop", "-", "-", "-", "-", "-"}
	wantRows := [][]string{
		{"a1", "1", "100", "200", "1", "150", "160", "geneX", "extra"},
		{"a2", "1", "500", "600", "1", "550", "700", "geneW", ""},
		{"a3", "2", "100", "200", "", "", "", "", ""},
		{"a4", "1", "200", "300", "", "", "", "", ""},
	}
	for _, name := range []string{"linear", "tree"} {
		index, err := cluster.IndexByName(name)
		require.NoError(t, err)
		header, rows, err := Left(a, b, index)
		require.NoError(t, err)
		assert.Equal(t, wantHeader, header, name)
		assert.Equal(t, wantRows, rows, name)
	}
}
