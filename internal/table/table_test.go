// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	const in = "# comment\na\tb\tc\r\n\nd\t\te\nf\n"
	r := NewReader(strings.NewReader(in))
	r.Comment = "#"
	r.Placeholder = "-"

	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, 2, recs[0].Line)
	assert.Equal(t, []string{"a", "b", "c"}, recs[0].Fields)
	assert.Equal(t, 4, recs[1].Line)
	assert.Equal(t, []string{"d", "", "e"}, recs[1].Fields)
	assert.Equal(t, 5, recs[2].Line)

	assert.True(t, recs[2].Has(0))
	assert.False(t, recs[2].Has(1))
	assert.False(t, recs[2].Has(-1))
	assert.Equal(t, "f", recs[2].Field(0))
	assert.Equal(t, "-", recs[2].Field(3))

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestRecordInt(t *testing.T) {
	rec := Record{Line: 7, Fields: []string{"12", " 13 ", "x"}}

	n, err := rec.Int(0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = rec.Int(1)
	require.NoError(t, err)
	assert.Equal(t, 13, n)

	_, err = rec.Int(2)
	assert.True(t, errors.Is(err, strconv.ErrSyntax), "unexpected error: %v", err)
	assert.Contains(t, err.Error(), "line 7: column 3")

	_, err = rec.Int(3)
	assert.True(t, errors.Is(err, ErrMissingColumn), "unexpected error: %v", err)

	_, err = rec.String(5)
	assert.True(t, errors.Is(err, ErrMissingColumn), "unexpected error: %v", err)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{in: "a,b,c\n1,2,3\n4,5,6\n", want: ','},
		{in: "a\tb\tc\n1\t2\t3\n4\t5\t6\n", want: '\t'},
	}
	for _, test := range tests {
		comma, r, err := Sniff(strings.NewReader(test.in))
		require.NoError(t, err)
		assert.Equal(t, test.want, comma)

		b, err := ioutil.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, test.in, string(b), "sniffed content not replayed")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	err := ioutil.WriteFile(path, []byte("a;b\n1;2\n"), 0o664)
	require.NoError(t, err)

	r, c, err := Open(path, ";")
	require.NoError(t, err)
	defer c.Close()
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rec.Fields)

	_, _, err = Open(path, "ab")
	assert.Error(t, err)

	_, _, err = Open(filepath.Join(dir, "missing"), "tab")
	assert.True(t, errors.Is(err, os.ErrNotExist), "unexpected error: %v", err)
}
