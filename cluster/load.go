// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cluster

import (
	"fmt"
	"io"

	"github.com/kortschak/overlap/internal/table"
)

// Columns is the 0-based positional layout of interval records.
type Columns struct {
	Owner     int
	Start     int
	Stop      int
	Partition int
}

// PatientColumns is the layout of raw patient mutation tables:
// patient ID, chromosome, mutation start and mutation stop.
var PatientColumns = Columns{Owner: 0, Partition: 1, Start: 2, Stop: 3}

// Load reads intervals from r using the column layout cols, grouping
// them by partition. If header is true the first record is skipped.
// Any missing column or malformed coordinate fails the whole load.
func Load(r *table.Reader, cols Columns, header bool) (*Partitions, error) {
	p := NewPartitions()
	for first := true; ; first = false {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return p, nil
			}
			return nil, err
		}
		if first && header {
			continue
		}

		owner, err := rec.String(cols.Owner)
		if err != nil {
			return nil, fmt.Errorf("owner: %w", err)
		}
		key, err := rec.String(cols.Partition)
		if err != nil {
			return nil, fmt.Errorf("partition: %w", err)
		}
		start, err := rec.Int(cols.Start)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		stop, err := rec.Int(cols.Stop)
		if err != nil {
			return nil, fmt.Errorf("stop: %w", err)
		}
		p.Add(key, Interval{Owner: owner, Start: start, Stop: stop})
	}
}
