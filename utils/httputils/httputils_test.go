// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package httputils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAppendRequestHeaders(t *testing.T) {
	var gotUA string

	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	client := &http.Client{
		Transport: &AppendRequestHeadersRoundTripper{
			Transport: http.DefaultTransport,
			Headers:   map[string]string{"User-Agent": "geobel/test"},
		},
	}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if gotUA != "geobel/test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "geobel/test")
	}
}

func TestLoggingRoundTripper(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var buf strings.Builder

	client := &http.Client{
		Transport: &LoggingRoundTripper{
			Transport: http.DefaultTransport,
			Writer:    &buf,
		},
	}

	resp, err := client.Get(ts.URL + "/search?q=test")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	out := buf.String()
	if !strings.Contains(out, "> GET /search?q=test") {
		t.Errorf("request dump missing, got:\n%s", out)
	}

	if !strings.Contains(out, "< RESPONSE:") {
		t.Errorf("response dump missing, got:\n%s", out)
	}
}

func TestLoggingRoundTripperNilWriter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := &http.Client{Transport: &LoggingRoundTripper{Transport: http.DefaultTransport}}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
