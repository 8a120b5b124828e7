// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import "testing"

func TestNotCentroid(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{name: "exact centroid rejected", lat: 50.64, lng: 4.67, want: false},
		{name: "near centroid rejected", lat: 50.8, lng: 4.5, want: false},
		{name: "brussels city center accepted", lat: 50.85, lng: 4.35, want: true},
		{name: "liège accepted", lat: 50.633, lng: 5.567, want: true},
		{name: "box edge accepted", lat: 51.14, lng: 4.67, want: true},
		{name: "same lat far lng accepted", lat: 50.64, lng: 3.0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.NotCentroid(tt.lat, tt.lng); got != tt.want {
				t.Errorf("NotCentroid(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestNotCentroidConfigurable(t *testing.T) {
	v := NewValidator()
	v.Tolerance = 0.05

	// A point rejected with the default tolerance passes with a tighter box.
	if !v.NotCentroid(50.8, 4.5) {
		t.Error("tightened tolerance should accept (50.8, 4.5)")
	}
}

func TestPrecise(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		c    GeoCandidate
		want bool
	}{
		{name: "house with high rank", c: GeoCandidate{PlaceType: "house", PlaceRank: 30}, want: true},
		{name: "building without rank", c: GeoCandidate{PlaceType: "building"}, want: true},
		{name: "address at threshold", c: GeoCandidate{PlaceType: "address", PlaceRank: 28}, want: true},
		{name: "house below threshold", c: GeoCandidate{PlaceType: "house", PlaceRank: 27}, want: false},
		{name: "village rejected", c: GeoCandidate{PlaceType: "village", PlaceRank: 30}, want: false},
		{name: "administrative rejected", c: GeoCandidate{PlaceType: "administrative"}, want: false},
		{name: "empty type rejected", c: GeoCandidate{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Precise(&tt.c); got != tt.want {
				t.Errorf("Precise(%+v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestAcceptStructured(t *testing.T) {
	v := NewValidator()

	if v.AcceptStructured(nil) {
		t.Error("nil candidate must be rejected")
	}

	// precise but sitting on the centroid
	if v.AcceptStructured(&GeoCandidate{Lat: 50.64, Lng: 4.67, PlaceType: "house", PlaceRank: 30}) {
		t.Error("centroid hit must be rejected even when precise")
	}

	if !v.AcceptStructured(&GeoCandidate{Lat: 50.85, Lng: 4.35, PlaceType: "house", PlaceRank: 30}) {
		t.Error("precise non-centroid hit must be accepted")
	}
}

func TestAcceptFreeform(t *testing.T) {
	v := NewValidator()

	// no place metadata required
	if !v.AcceptFreeform(&GeoCandidate{Lat: 50.85, Lng: 4.35}) {
		t.Error("non-centroid hit must be accepted")
	}

	if v.AcceptFreeform(&GeoCandidate{Lat: 50.64, Lng: 4.67}) {
		t.Error("centroid hit must be rejected")
	}

	if v.AcceptFreeform(nil) {
		t.Error("nil candidate must be rejected")
	}
}
