// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const locationIQEndpoint = "https://eu1.locationiq.com/v1/search"

// LocationIQClient queries the LocationIQ search API. When the address parses
// into street/number/postcode/city it issues a structured query, which gives
// noticeably better results on house-number level lookups; otherwise it falls
// back to a free-text query of decreasing specificity.
type LocationIQClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewLocationIQClient creates a LocationIQ adapter using the given HTTP
// client (see NewHTTPClient).
func NewLocationIQClient(apiKey string, client *http.Client) *LocationIQClient {
	return &LocationIQClient{
		apiKey:   apiKey,
		endpoint: locationIQEndpoint,
		client:   client,
	}
}

// locationIQHit mirrors one element of the response array. Coordinates come
// back as strings.
type locationIQHit struct {
	Lat       string `json:"lat"`
	Lon       string `json:"lon"`
	Type      string `json:"type"`
	PlaceRank int    `json:"place_rank"`
}

// Geocode implements the Geocoder interface. The caller is expected to run
// the validator on the returned candidate; this method only guarantees a
// well-formed first hit.
func (c *LocationIQClient) Geocode(address string, parsed *ParsedAddress) (*GeoCandidate, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "fr")
	params.Set("countrycodes", "be")
	params.Set("normalizecity", "1")

	switch {
	case parsed != nil && parsed.HouseNumber != "":
		params.Set("street", parsed.Street+" "+parsed.HouseNumber)
		params.Set("city", parsed.City)
		params.Set("postcode", parsed.PostalCode)
	case parsed != nil:
		params.Set("q", fmt.Sprintf("%s, %s %s", parsed.StreetAndNumber, parsed.PostalCode, parsed.City))
	default:
		params.Set("q", address)
	}

	resp, err := c.client.Get(c.endpoint + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("locationiq request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var hits []locationIQHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("decoding locationiq response: %w", err)
	}

	if len(hits) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("aucun résultat pour %q", address),
		}
	}

	hit := hits[0]

	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", hit.Lat, err)
	}

	lng, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", hit.Lon, err)
	}

	return &GeoCandidate{
		Lat:       lat,
		Lng:       lng,
		PlaceType: hit.Type,
		PlaceRank: hit.PlaceRank,
	}, nil
}
