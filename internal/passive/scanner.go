// Package passive scores already loaded page content for static signs of a
// React Server Components deployment.
package passive

import (
	"mime"
	"regexp"
	"strings"

	"github.com/rsc-sentinel/pkg/models"
)

// ComponentStreamType is the media type of the Flight component stream
const ComponentStreamType = "text/x-component"

const (
	WeightContentType = 100
	WeightFlightInit  = 80
	WeightServerDOM   = 30

	// Threshold lets the content-type signal stand alone but not the bundle name
	Threshold = 50
)

var flightInitPattern = regexp.MustCompile(`(window|self)\.__next_f\s*=`)

const serverDOMModule = "react-server-dom-webpack"

// Scan computes the passive finding for a page. It has no side effects.
func Scan(markup, contentType string) models.PassiveFinding {
	score := 0
	details := make([]string, 0, 3)

	if IsComponentStream(contentType) {
		score += WeightContentType
		details = append(details, "Found: Content-Type "+ComponentStreamType)
	}
	if flightInitPattern.MatchString(markup) {
		score += WeightFlightInit
		details = append(details, "Found: window.__next_f (App Router)")
	}
	if strings.Contains(markup, serverDOMModule) {
		score += WeightServerDOM
		details = append(details, "Found: "+serverDOMModule)
	}

	return models.PassiveFinding{
		IsVulnerableSignal: score >= Threshold,
		Score:              score,
		Details:            details,
	}
}

// IsComponentStream reports whether a Content-Type header names the component stream
func IsComponentStream(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), ComponentStreamType)
	}
	return mediaType == ComponentStreamType
}
