// Package validation provides input validation helpers.
package validation

import (
	"net/url"
	"strings"
)

// NonBlank reports whether s contains at least one non-whitespace character.
// Rejection reasons and moderator messages must pass this before any write.
func NonBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ValidCoordinates reports whether a latitude/longitude pair is in range.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ValidateImageURL checks that an image URL is http(s) with a host.
// This prevents javascript:, data:, and other dangerous URL schemes from
// entering restaurant records.
func ValidateImageURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
