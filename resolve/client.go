// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tvervier/geobel/utils/httputils"
)

// DefaultTimeout bounds every provider call; no ladder step blocks longer.
const DefaultTimeout = 15 * time.Second

// ClientOptions configures the HTTP stack shared by the provider adapters.
type ClientOptions struct {
	// UserAgent identifies the program to the providers. Nominatim rejects
	// anonymous clients.
	UserAgent string

	// Timeout per request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Enables light tracing of HTTP requests and responses on stderr.
	EnableHTTPTrace bool

	// Enables full HTTP body tracing.
	EnableHTTPBodyTrace bool
}

// NewHTTPClient builds the transport chain used by both providers: a plain
// transport with conservative connection limits, optional tracing, and the
// identifying headers.
func NewHTTPClient(options *ClientOptions) *http.Client {
	if options == nil {
		options = &ClientOptions{}
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	var httpLogWriter io.Writer
	if options.EnableHTTPTrace {
		httpLogWriter = os.Stderr
	}

	transport := &http.Transport{
		MaxIdleConns:          4,
		MaxIdleConnsPerHost:   2,
		MaxConnsPerHost:       2,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    httpLogWriter,
		DumpBody:  options.EnableHTTPBodyTrace,
		Transport: transport,
	}

	userAgent := "geobel/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		Transport: loggingTransport,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: headerTransport,
	}
}
