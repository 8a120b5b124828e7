// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "full address with country",
			in:   "Grand'Route 71, 4367 Crisnée, Belgique",
			want: "Grand'Route 71, 4367 crisnée",
		},
		{
			name: "country in english",
			in:   "Rue de la Loi 16, 1000 Bruxelles, Belgium",
			want: "rue de la loi 16, 1000 bruxelles",
		},
		{
			name: "country without comma",
			in:   "Rue de la Loi 16 Belgique",
			want: "rue de la loi 16",
		},
		{
			name: "noise tokens removed",
			in:   "Rue Haute 15 Bte 3, 1000 Bruxelles",
			want: "rue haute 15 3, 1000 bruxelles",
		},
		{
			name: "internal postal box removed",
			in:   "Internal Postal Box Avenue Louise 54",
			want: "avenue louise 54",
		},
		{
			name: "case postale and biz removed",
			in:   "Case postale (Biz) Chaussée de Mons 100",
			want: "chaussée de mons 100",
		},
		{
			name: "abbreviation av with dot",
			in:   "Av. Louise 54, 1050 Ixelles",
			want: "avenue louise 54, 1050 ixelles",
		},
		{
			name: "abbreviation chem without dot",
			in:   "chem des Dames 3",
			want: "chemin des dames 3",
		},
		{
			name: "abbreviation bd",
			in:   "Bd du Souverain 36",
			want: "boulevard du souverain 36",
		},
		{
			name: "abbreviation rte",
			in:   "rte de Wavre 12",
			want: "route de wavre 12",
		},
		{
			name: "whitespace collapsed",
			in:   "  rue   du   Moulin   5  ",
			want: "rue du moulin 5",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "blank input",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Grand'Route 71, 4367 Crisnée, Belgique",
		"Av. Louise 54 Bte 12, 1050 Ixelles",
		"Internal Postal Box bd de Waterloo 1",
		"Bruxelles",
		"",
		"  rue   du   Moulin  5 , Belgium",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeRemovesAllNoise(t *testing.T) {
	in := "Bte Case postale (Biz) Internal Postal Box rue Neuve 1"
	got := Normalize(in)

	for _, tok := range noiseTokens {
		if strings.Contains(got, tok) {
			t.Errorf("Normalize(%q) still contains %q: %q", in, tok, got)
		}
	}
}

func TestNormalizeCountryEquivalence(t *testing.T) {
	// Stripping the trailing country must converge with the bare form.
	if a, b := Normalize("Rue de la Loi 1, Belgique"), Normalize("Rue de la Loi 1"); a != b {
		t.Errorf("country suffix not stripped: %q != %q", a, b)
	}
}

func TestNormalizeKeepsGrandRouteCasing(t *testing.T) {
	got := Normalize("GRAND'ROUTE 71")
	if got != "Grand'Route 71" {
		t.Errorf("Normalize() = %q, want %q", got, "Grand'Route 71")
	}
}
