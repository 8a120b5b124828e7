// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"regexp"
	"strings"
)

// ParsedAddress holds the structured fields extracted from a normalized
// address of the common Belgian form "Grand'Route 71, 4367 Crisnée".
type ParsedAddress struct {
	StreetAndNumber string
	Street          string
	HouseNumber     string // empty when the street part carries no number
	PostalCode      string // four digits
	City            string
}

// "<rue + n°>, <CP> <ville>"
var addressRe = regexp.MustCompile(`^(.+?)\s*,\s*(\d{4})\s+([^,]+)$`)

// trailing house number, optionally suffixed by a single letter or dash
var houseNumberRe = regexp.MustCompile(`^(.+?)\s+(\d+[A-Za-z\-]?)$`)

// Parse extracts structured fields from a normalized address. It returns nil
// when the string does not match the "<street>, <postal code> <city>"
// pattern; that is a normal outcome (many addresses name only a locality),
// not an error. When the street part carries no recognizable trailing house
// number, Street equals StreetAndNumber and HouseNumber is empty — still a
// successful parse.
func Parse(addr string) *ParsedAddress {
	m := addressRe.FindStringSubmatch(strings.TrimSpace(addr))
	if m == nil {
		return nil
	}

	p := &ParsedAddress{
		StreetAndNumber: strings.TrimSpace(m[1]),
		PostalCode:      m[2],
		City:            strings.TrimSpace(m[3]),
	}

	if m2 := houseNumberRe.FindStringSubmatch(p.StreetAndNumber); m2 != nil {
		p.Street = strings.TrimSpace(m2[1])
		p.HouseNumber = m2[2]
	} else {
		p.Street = p.StreetAndNumber
	}

	return p
}
