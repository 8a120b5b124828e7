// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"fmt"
	"sort"

	"github.com/tvervier/geobel/spatial"
	"github.com/tvervier/geobel/utils"
	"github.com/uber/h3-go/v4"
)

// FailedRow identifies an input row whose address (and company fallback, if
// any) could not be geocoded.
type FailedRow struct {
	Row     int
	Address string
	Company string
}

// DedupFailures collapses failures whose addresses only differ in case or
// diacritics, keeping the first occurrence. Batch files routinely repeat the
// same worksite address dozens of times; the report should name it once.
func DedupFailures(failures []FailedRow) []FailedRow {
	seen := make(map[string]bool, len(failures))
	out := make([]FailedRow, 0, len(failures))

	for _, f := range failures {
		key := utils.LowerASCIIFolding(f.Address)
		if seen[key] {
			continue
		}

		seen[key] = true

		out = append(out, f)
	}

	return out
}

// clusterResolution is fine enough (~460m hexagons) that distinct street
// addresses should not share a cell; when several do, the provider most
// likely answered with the same locality-level point for all of them.
const clusterResolution = 8

// minClusterSize is the number of distinct display addresses in one cell
// before the cluster is considered suspect.
const minClusterSize = 3

// Cluster groups resolved addresses that landed in the same H3 cell.
type Cluster struct {
	Cell         string
	Addresses    []string
	SpreadMeters float64
}

// SuspectClusters flags groups of distinct addresses resolving to nearly the
// same point, a common signature of locality-centroid false positives that
// slipped past validation.
func SuspectClusters(outcomes []RecordOutcome) ([]Cluster, error) {
	type group struct {
		addresses map[string]bool
		points    []*spatial.Point
	}

	groups := make(map[h3.Cell]*group)

	for _, o := range outcomes {
		if o.Record == nil || o.Record.Point == nil {
			continue
		}

		cell, err := h3.LatLngToCell(h3.NewLatLng(o.Record.Point.Lat, o.Record.Point.Lng), clusterResolution)
		if err != nil {
			return nil, fmt.Errorf("converting %v to h3 cell: %w", o.Record.Point, err)
		}

		g, ok := groups[cell]
		if !ok {
			g = &group{addresses: make(map[string]bool)}
			groups[cell] = g
		}

		g.addresses[o.Record.DisplayAddress] = true
		g.points = append(g.points, o.Record.Point)
	}

	var clusters []Cluster

	for cell, g := range groups {
		if len(g.addresses) < minClusterSize {
			continue
		}

		addresses := make([]string, 0, len(g.addresses))
		for addr := range g.addresses {
			addresses = append(addresses, addr)
		}

		sort.Strings(addresses)

		var spread float64

		for _, p := range g.points[1:] {
			if d := g.points[0].HaversineDistance(p); d > spread {
				spread = d
			}
		}

		clusters = append(clusters, Cluster{
			Cell:         cell.String(),
			Addresses:    addresses,
			SpreadMeters: spread,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return len(clusters[i].Addresses) > len(clusters[j].Addresses)
	})

	return clusters, nil
}
