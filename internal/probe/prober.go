// Package probe confirms that a target speaks the Flight component stream by
// sending one side-effect-free GET.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/rsc-sentinel/internal/logger"
	"github.com/rsc-sentinel/internal/passive"
	"github.com/rsc-sentinel/internal/waf"
	"github.com/rsc-sentinel/pkg/models"
	"github.com/rsc-sentinel/pkg/utils"
)

// HeaderName is the request header asking for the component stream
const HeaderName = "RSC"

// NetworkError is the sole detail reported when the request fails
const NetworkError = "Network Error"

var framePattern = regexp.MustCompile(`^\d+:["IHL]`)

// Prober sends the fingerprint request
type Prober struct {
	client      *http.Client
	log         logger.Logger
	userAgent   string
	maxBodySize int64
}

// New creates a prober. maxBodySize bounds how much of the body is read.
func New(client *http.Client, log logger.Logger, userAgent string, maxBodySize int64) *Prober {
	return &Prober{
		client:      client,
		log:         log.WithField("component", "probe"),
		userAgent:   userAgent,
		maxBodySize: maxBodySize,
	}
}

// Probe fingerprints target. Transport failures never escape as errors.
func (p *Prober) Probe(ctx context.Context, target string) models.ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		p.log.Warn("Failed to build probe request", "target", target, "error", err)
		return networkFailure()
	}
	req.Header.Set(HeaderName, "1")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("Probe request failed", "target", target, "error", err)
		return networkFailure()
	}
	defer resp.Body.Close()

	body, err := utils.ReadLimited(resp.Body, p.maxBodySize)
	if err != nil {
		p.log.Warn("Failed to read probe response", "target", target, "error", err)
		return networkFailure()
	}

	result := Classify(resp.Header, body)
	result.HTTPStatus = resp.StatusCode

	if vendor, ok := waf.Detect(waf.Response{Header: resp.Header, Body: body, Status: resp.StatusCode}); ok {
		result.WAF = string(vendor)
	}

	p.log.Debug("Probe finished",
		"target", target,
		"status", resp.StatusCode,
		"detected", result.Detected,
		"waf", result.WAF)

	return result
}

// Classify applies the three response checks
func Classify(header http.Header, body string) models.ProbeResult {
	details := make([]string, 0, 3)

	if strings.Contains(header.Get("Content-Type"), passive.ComponentStreamType) {
		details = append(details, "Response Content-Type became "+passive.ComponentStreamType)
	}
	if varyListsRSC(header) {
		details = append(details, fmt.Sprintf("Vary header contains '%s'", HeaderName))
	}
	if framePattern.MatchString(body) {
		details = append(details, "Body structure matches React Flight Protocol")
	}

	return models.ProbeResult{
		Detected: len(details) > 0,
		Details:  details,
	}
}

func varyListsRSC(header http.Header) bool {
	for _, v := range header.Values("Vary") {
		for _, token := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(token), HeaderName) {
				return true
			}
		}
	}
	return false
}

func networkFailure() models.ProbeResult {
	return models.ProbeResult{Detected: false, Details: []string{NetworkError}}
}

// IsNetworkFailure reports whether r is the result of a failed request
func IsNetworkFailure(r models.ProbeResult) bool {
	return !r.Detected && len(r.Details) == 1 && r.Details[0] == NetworkError
}
