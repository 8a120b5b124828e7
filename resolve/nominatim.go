// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const nominatimEndpoint = "https://nominatim.openstreetmap.org/search"

// Retry budget for timeout-class failures. A fixed delay, not exponential
// backoff: the free service throttles per second and a longer wait buys
// nothing.
const (
	nominatimMaxRetries = 2
	nominatimRetryDelay = time.Second
)

// NominatimClient queries the free Nominatim geocoding service with a single
// free-text query constrained to Belgium. Timeout-class failures are retried
// a bounded number of times; everything else gives up immediately.
type NominatimClient struct {
	endpoint   string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewNominatimClient creates a Nominatim adapter using the given HTTP client
// (see NewHTTPClient; the identifying User-Agent it sets is mandatory here).
func NewNominatimClient(client *http.Client) *NominatimClient {
	return &NominatimClient{
		endpoint:   nominatimEndpoint,
		client:     client,
		maxRetries: nominatimMaxRetries,
		retryDelay: nominatimRetryDelay,
	}
}

type nominatimHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode implements the Geocoder interface. Nominatim exposes no place-type
// metadata comparable to LocationIQ's, so the parsed form is ignored and the
// caller applies only the centroid check.
func (c *NominatimClient) Geocode(address string, _ *ParsedAddress) (*GeoCandidate, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.retryDelay)
		}

		candidate, err := c.geocodeOnce(address)
		if err == nil {
			return candidate, nil
		}

		lastErr = err

		// An empty-but-successful response is final: there is nothing to retry.
		if !IsRetryableError(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *NominatimClient) geocodeOnce(address string) (*GeoCandidate, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	params.Set("countrycodes", "be")
	params.Set("accept-language", "fr")

	resp, err := c.client.Get(c.endpoint + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("decoding nominatim response: %w", err)
	}

	if len(hits) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("aucun résultat pour %q", address),
		}
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", hits[0].Lat, err)
	}

	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", hits[0].Lon, err)
	}

	return &GeoCandidate{Lat: lat, Lng: lng}, nil
}
