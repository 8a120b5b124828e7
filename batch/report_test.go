// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tvervier/geobel/resolve"
	"github.com/tvervier/geobel/spatial"
)

func TestDedupFailures(t *testing.T) {
	failures := []FailedRow{
		{Row: 1, Address: "Rue de l'Étang 3, 4000 Liège"},
		{Row: 2, Address: "rue de l'etang 3, 4000 liege"},
		{Row: 3, Address: "Chaussée de Mons 12, 7000 Mons"},
		{Row: 4, Address: "RUE DE L'ÉTANG 3, 4000 LIÈGE"},
	}

	got := DedupFailures(failures)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Row)
	assert.Equal(t, 3, got[1].Row)
}

func TestDedupFailuresEmpty(t *testing.T) {
	assert.Empty(t, DedupFailures(nil))
}

func outcomeAt(row int, address string, lat, lng float64) RecordOutcome {
	return RecordOutcome{
		Row: row,
		Record: &resolve.ResolvedRecord{
			DisplayAddress: address,
			Point:          spatial.NewPoint(lat, lng),
			Source:         resolve.SourceLocationIQ,
		},
	}
}

func TestSuspectClusters(t *testing.T) {
	outcomes := []RecordOutcome{
		// three distinct addresses within meters of each other, the
		// signature of a locality centroid answered for all of them
		outcomeAt(1, "rue haute 1, 1000 bruxelles, Belgique", 50.8370, 4.3470),
		outcomeAt(2, "rue basse 9, 1000 bruxelles, Belgique", 50.8371, 4.3471),
		outcomeAt(3, "rue du midi 4, 1000 bruxelles, Belgique", 50.8372, 4.3469),
		// a lone point far away
		outcomeAt(4, "quai des ardennes 3, 4020 liège, Belgique", 50.6200, 5.5900),
		// a failed row, ignored
		{Row: 5, Record: &resolve.ResolvedRecord{Source: resolve.SourceFailure}},
	}

	clusters, err := SuspectClusters(outcomes)
	require.NoError(t, err)

	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Addresses, 3)
	assert.Contains(t, clusters[0].Addresses, "rue haute 1, 1000 bruxelles, Belgique")
	assert.NotEmpty(t, clusters[0].Cell)
	assert.Greater(t, clusters[0].SpreadMeters, 0.0)
	assert.Less(t, clusters[0].SpreadMeters, 100.0)
}

func TestSuspectClustersRepeatedAddress(t *testing.T) {
	// the same display address many times is expected, not suspect
	outcomes := []RecordOutcome{
		outcomeAt(1, "rue haute 1, 1000 bruxelles, Belgique", 50.8370, 4.3470),
		outcomeAt(2, "rue haute 1, 1000 bruxelles, Belgique", 50.8370, 4.3470),
		outcomeAt(3, "rue haute 1, 1000 bruxelles, Belgique", 50.8370, 4.3470),
		outcomeAt(4, "rue haute 1, 1000 bruxelles, Belgique", 50.8370, 4.3470),
	}

	clusters, err := SuspectClusters(outcomes)
	require.NoError(t, err)
	assert.Empty(t, clusters)
}
