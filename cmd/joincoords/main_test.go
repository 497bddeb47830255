// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsValue(t *testing.T) {
	var c columnsValue
	err := c.Set("2, 3,4")
	require.NoError(t, err)
	assert.Equal(t, columnsValue{Chromosome: 1, Start: 2, Stop: 3}, c)
	assert.Equal(t, "2,3,4", c.String())

	for _, bad := range []string{"1,2", "1,2,x", "0,1,2", "1,2,3,4"} {
		assert.Error(t, c.Set(bad), bad)
	}
}
