// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// GeocodingError représente les erreurs spécifiques de géocodage.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType définit les types d'erreurs de géocodage.
type ErrorType int

const (
	// ErrorTypeUnknown erreur inconnue.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit limite de débit atteinte.
	ErrorTypeRateLimit
	// ErrorTypeTimeout délai de connexion dépassé.
	ErrorTypeTimeout
	// ErrorTypeNotFound aucun résultat pour l'adresse.
	ErrorTypeNotFound
	// ErrorTypeInvalidRequest requête invalide.
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError service indisponible ou erreur réseau.
	ErrorTypeNetworkError
)

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

// IsRetryableError reports whether an error is worth a bounded retry. Only
// timeout and unavailable-class failures qualify: a malformed response, an
// empty result set or a rejected request will not improve on a second call.
func IsRetryableError(err error) bool {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type == ErrorTypeTimeout || geoErr.Type == ErrorTypeNetworkError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// IsNotFoundError reports whether a provider answered successfully but with
// no usable result.
func IsNotFoundError(err error) bool {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type == ErrorTypeNotFound
	}

	return false
}

// ClassifyHTTPError classe un statut HTTP en erreur de géocodage.
func ClassifyHTTPError(statusCode int) *GeocodingError {
	switch statusCode {
	case http.StatusTooManyRequests: // 429
		return &GeocodingError{
			Type:    ErrorTypeRateLimit,
			Message: "limite de débit atteinte",
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &GeocodingError{
			Type:    ErrorTypeInvalidRequest,
			Message: "clé API refusée",
		}
	case http.StatusBadRequest:
		return &GeocodingError{
			Type:    ErrorTypeInvalidRequest,
			Message: "requête invalide",
		}
	case http.StatusNotFound:
		return &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: "adresse introuvable",
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &GeocodingError{
			Type:    ErrorTypeNetworkError,
			Message: fmt.Sprintf("service indisponible (code %d)", statusCode),
		}
	default:
		return &GeocodingError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("erreur HTTP %d", statusCode),
		}
	}
}
