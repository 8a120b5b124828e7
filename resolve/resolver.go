// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/tvervier/geobel/spatial"
)

// countryDisplaySuffix is appended to addresses for display only; it is never
// sent back into a geocoding query.
const countryDisplaySuffix = ", Belgique"

// standalone 4-digit token, assumed to be a postal code
var postalCodeRe = regexp.MustCompile(`\b\d{4}\b`)

// Resolver drives the fallback ladder across the two providers and memoizes
// the outcome per normalized address, so repeated addresses in a batch file
// cost a single round of network calls. The memo also guarantees at-most-once
// in-flight per key, which keeps the guarantee under the concurrent serve
// mode.
type Resolver struct {
	structured Geocoder
	freeform   Geocoder
	validator  *Validator
	store      CacheRepository // optional persistent cache, may be nil

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	done   chan struct{}
	result *GeoResult
}

// NewResolver wires the ladder. store may be nil, in which case results only
// live for the duration of the process.
func NewResolver(structured, freeform Geocoder, validator *Validator, store CacheRepository) *Resolver {
	return &Resolver{
		structured: structured,
		freeform:   freeform,
		validator:  validator,
		store:      store,
		cache:      make(map[string]*cacheEntry),
	}
}

// Resolve runs the ladder for a normalized address, at most once per distinct
// string per process lifetime. It always terminates with a well-formed
// result: the worst case is a nil point tagged SourceFailure. It never
// returns an error.
func (r *Resolver) Resolve(address string) *GeoResult {
	r.mu.Lock()
	if e, ok := r.cache[address]; ok {
		r.mu.Unlock()
		<-e.done

		return e.result
	}

	e := &cacheEntry{done: make(chan struct{})}
	r.cache[address] = e
	r.mu.Unlock()

	e.result = r.resolveUncached(address)
	close(e.done)

	return e.result
}

func (r *Resolver) resolveUncached(address string) *GeoResult {
	if address == "" {
		return &GeoResult{Source: SourceFailure}
	}

	if r.store != nil {
		res, err := r.store.Get(address)
		if err != nil {
			log.Printf("Cache lookup failed for %q: %v", address, err)
		} else if res != nil {
			return res
		}
	}

	res := r.ladder(address)

	if r.store != nil {
		if err := r.store.Put(address, res); err != nil {
			log.Printf("Cache store failed for %q: %v", address, err)
		}
	}

	return res
}

// ladder is the deterministic fallback sequence, short-circuiting on the
// first accepted candidate:
//  1. LocationIQ with the full address (structured when it parses);
//  2. LocationIQ again with the postal code stripped, when that changes
//     anything — some addresses only resolve without their code;
//  3. Nominatim free-text;
//  4. failure sentinel.
func (r *Resolver) ladder(address string) *GeoResult {
	if p := r.structuredLookup(address); p != nil {
		return &GeoResult{Point: p, Source: SourceLocationIQ}
	}

	variant := strings.TrimSpace(postalCodeRe.ReplaceAllString(address, ""))
	if variant != address {
		if p := r.structuredLookup(variant); p != nil {
			return &GeoResult{Point: p, Source: SourceLocationIQVariant}
		}
	}

	candidate, err := r.freeform.Geocode(address, nil)
	if err != nil {
		if !IsNotFoundError(err) {
			log.Printf("Nominatim failed for %q: %v", address, err)
		}
	} else if r.validator.AcceptFreeform(candidate) {
		return &GeoResult{
			Point:  spatial.NewPoint(candidate.Lat, candidate.Lng),
			Source: SourceNominatim,
		}
	}

	return &GeoResult{Source: SourceFailure}
}

func (r *Resolver) structuredLookup(address string) *spatial.Point {
	candidate, err := r.structured.Geocode(address, Parse(address))
	if err != nil {
		if !IsNotFoundError(err) {
			log.Printf("LocationIQ failed for %q: %v", address, err)
		}

		return nil
	}

	if !r.validator.AcceptStructured(candidate) {
		return nil
	}

	return spatial.NewPoint(candidate.Lat, candidate.Lng)
}

// ResolveRecord is the caller-facing entry point for one input row. It
// normalizes and resolves the postal address; when that fails and a company
// name is present, the company name goes through the same ladder and cache,
// and a success switches the displayed address to the company's normalized
// form with a wrapped provenance.
func (r *Resolver) ResolveRecord(rawAddress, rawCompany string) *ResolvedRecord {
	address := Normalize(rawAddress)
	res := r.Resolve(address)

	if res.Point == nil {
		if company := Normalize(rawCompany); company != "" {
			if companyRes := r.Resolve(company); companyRes.Point != nil {
				return &ResolvedRecord{
					DisplayAddress: company + countryDisplaySuffix,
					Point:          companyRes.Point,
					Source:         SourceCompanyFallback(companyRes.Source),
				}
			}
		}
	}

	return &ResolvedRecord{
		DisplayAddress: address + countryDisplaySuffix,
		Point:          res.Point,
		Source:         res.Source,
	}
}

// CachedCount returns the number of distinct addresses memoized so far.
func (r *Resolver) CachedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.cache)
}
