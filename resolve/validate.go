// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"math"

	"github.com/tvervier/geobel/spatial"
)

// Default rejection box around the Belgian reference centroid. Providers that
// cannot resolve an address sometimes answer with a country-level point; any
// hit inside this box is discarded as a false positive.
const (
	// BelgiumCentroidLat is the latitude of the Belgian reference centroid.
	BelgiumCentroidLat = 50.64
	// BelgiumCentroidLng is the longitude of the Belgian reference centroid.
	BelgiumCentroidLng = 4.67
	// DefaultCentroidTolerance is the half-width, in degrees, of the
	// rejection box on both axes.
	DefaultCentroidTolerance = 0.5
)

// precisePlaceTypes are the LocationIQ result types specific enough to trust.
var precisePlaceTypes = map[string]bool{
	"house":    true,
	"building": true,
	"address":  true,
}

// minPlaceRank is the lowest OSM place rank accepted when the provider
// reports one; ranks 28 and above correspond to addressable objects.
const minPlaceRank = 28

// Validator decides whether a provider candidate is acceptable. The centroid
// check is a coarse box comparison, not a geodesic distance: it is cheap and
// slightly over-inclusive near the box edges, which is accepted.
type Validator struct {
	Centroid  spatial.Point
	Tolerance float64
}

// NewValidator returns a validator configured for Belgium.
func NewValidator() *Validator {
	return &Validator{
		Centroid:  spatial.Point{Lat: BelgiumCentroidLat, Lng: BelgiumCentroidLng},
		Tolerance: DefaultCentroidTolerance,
	}
}

// NotCentroid reports whether the coordinates fall outside the rejection box
// around the country centroid.
func (v *Validator) NotCentroid(lat, lng float64) bool {
	return math.Abs(lat-v.Centroid.Lat) >= v.Tolerance ||
		math.Abs(lng-v.Centroid.Lng) >= v.Tolerance
}

// Precise reports whether a structured-search hit is specific enough: an
// address-class place type, and a place rank of at least 28 when the provider
// reports one.
func (v *Validator) Precise(c *GeoCandidate) bool {
	if !precisePlaceTypes[c.PlaceType] {
		return false
	}

	return c.PlaceRank == 0 || c.PlaceRank >= minPlaceRank
}

// AcceptStructured applies both checks, as required for LocationIQ results.
func (v *Validator) AcceptStructured(c *GeoCandidate) bool {
	return c != nil && v.Precise(c) && v.NotCentroid(c.Lat, c.Lng)
}

// AcceptFreeform applies only the centroid check. Nominatim results carry no
// comparable place metadata, so the precision class does not apply.
func (v *Validator) AcceptFreeform(c *GeoCandidate) bool {
	return c != nil && v.NotCentroid(c.Lat, c.Lng)
}
