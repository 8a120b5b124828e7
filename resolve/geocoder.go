// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolve turns messy Belgian address strings into validated
// coordinates. It combines text normalization, structured parsing and a
// LocationIQ → variant → Nominatim fallback ladder with memoization, so that
// a batch run issues at most one round of network calls per distinct
// normalized address.
package resolve

import (
	"fmt"

	"github.com/tvervier/geobel/spatial"
)

// Provenance values recorded on every result. The reporting layer filters on
// these literal strings, so they must not change.
const (
	SourceLocationIQ        = "LocationIQ"
	SourceLocationIQVariant = "LocationIQ (variante)"
	SourceNominatim         = "Nominatim"
	SourceFailure           = "Échec"
)

// SourceCompanyFallback tags a result obtained by geocoding the company name
// after the postal address failed, wrapping the underlying provenance.
func SourceCompanyFallback(nested string) string {
	return fmt.Sprintf("Fallback entreprise (%s)", nested)
}

// GeoCandidate is a raw provider hit, before validation. Never persisted.
type GeoCandidate struct {
	Lat       float64
	Lng       float64
	PlaceType string // house, building, address, village, ...
	PlaceRank int    // OSM place rank; 0 when the provider omits it
}

// GeoResult is the accepted outcome for one normalized address. A nil Point
// with SourceFailure means the whole ladder was exhausted.
type GeoResult struct {
	Point  *spatial.Point `json:"point"`
	Source string         `json:"source"`
}

// ResolvedRecord is the per-row outcome: the address as it should be
// displayed (country suffix included), coordinates if any, and provenance.
type ResolvedRecord struct {
	DisplayAddress string         `json:"adresse"`
	Point          *spatial.Point `json:"point"`
	Source         string         `json:"source"`
}

// Geocoder is the common shape of the provider adapters. parsed may be nil;
// adapters that cannot use structured fields ignore it. A failed lookup of
// any kind (transport, malformed response, empty result set) is reported as
// an error and never as a partial candidate.
type Geocoder interface {
	Geocode(address string, parsed *ParsedAddress) (*GeoCandidate, error)
}
