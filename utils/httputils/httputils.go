// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils provides utility round-trippers for the geocoding HTTP clients.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"
)

// AppendRequestHeadersRoundTripper adds headers to every outgoing request.
// Nominatim's usage policy requires an identifying User-Agent, so the
// geocoding clients wrap their transport with this.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}

// LoggingRoundTripper adds a very primitive logging to a http transaction.
// API keys travel in the query string, so dumps are only meant for local
// debugging.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

const maxDumpLines, maxDumpChars = 256, 512

// reduce the content of the lines.
func abbreviate(lines []string, prefix rune) []string {
	for i, line := range lines {
		if i >= maxDumpLines {
			break
		}

		lines[i] = fmt.Sprintf("%c %s", prefix, line)
	}

	if len(lines) > maxDumpLines {
		lines = lines[:maxDumpLines]
		lines = append(lines, "…")
	}

	for i, line := range lines {
		if len(line) > maxDumpChars {
			lines[i] = line[0:maxDumpChars] + "…"
		}
	}

	return lines
}

func (t *LoggingRoundTripper) dump(data []byte, prefix rune) error {
	lines := abbreviate(strings.Split(string(data), "\n"), prefix)
	lines = append(lines, "")
	_, err := fmt.Fprint(t.Writer, strings.Join(lines, "\n"))

	return err
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	reqDump, err := httputil.DumpRequestOut(req, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if err := t.dump(reqDump, '>'); err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	respDump, err := httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	if _, err := fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n", time.Since(start)); err != nil {
		return nil, err
	}

	return resp, t.dump(respDump, '<')
}
