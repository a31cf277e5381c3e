// Package waf classifies a response as coming from, or blocked by, a known
// middlebox. The result only annotates findings; nothing gates on it.
package waf

import (
	"net/http"
	"strings"
)

// Vendor names a middlebox
type Vendor string

const (
	Cloudflare   Vendor = "Cloudflare"
	AWSWAF       Vendor = "AWS WAF"
	Akamai       Vendor = "Akamai"
	Imperva      Vendor = "Imperva"
	F5BigIP      Vendor = "F5 BIG-IP"
	Sucuri       Vendor = "Sucuri"
	ModSecurity  Vendor = "ModSecurity"
	NginxGeneric Vendor = "Nginx Generic"
)

// Response is the part of an HTTP response the predicates look at
type Response struct {
	Header http.Header
	Body   string
	Status int
}

// Signature pairs a vendor with its predicate
type Signature struct {
	Vendor Vendor
	Match  func(Response) bool
}

// Signatures is evaluated in order and the first match wins. The generic
// server-header entry must stay last.
var Signatures = []Signature{
	{Cloudflare, matchCloudflare},
	{AWSWAF, matchAWS},
	{Akamai, matchAkamai},
	{Imperva, matchImperva},
	{F5BigIP, matchF5},
	{Sucuri, matchSucuri},
	{ModSecurity, matchModSecurity},
	{NginxGeneric, matchNginxGeneric},
}

// Detect returns the first vendor whose predicate matches
func Detect(resp Response) (Vendor, bool) {
	return DetectWith(Signatures, resp)
}

// DetectWith runs first-match iteration over an arbitrary table
func DetectWith(table []Signature, resp Response) (Vendor, bool) {
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	for _, sig := range table {
		if sig.Match(resp) {
			return sig.Vendor, true
		}
	}
	return "", false
}

func server(r Response) string {
	return r.Header.Get("Server")
}

func has(r Response, name string) bool {
	_, ok := r.Header[http.CanonicalHeaderKey(name)]
	return ok
}

func matchCloudflare(r Response) bool {
	return strings.EqualFold(server(r), "cloudflare") ||
		has(r, "CF-Ray") ||
		strings.Contains(r.Body, "Cloudflare")
}

func matchAWS(r Response) bool {
	return has(r, "X-Amzn-Trace-Id") ||
		(r.Status == http.StatusForbidden && strings.EqualFold(server(r), "awselb/2.0"))
}

func matchAkamai(r Response) bool {
	return strings.EqualFold(server(r), "AkamaiGHost") || has(r, "Akamai-Origin-Hop")
}

func matchImperva(r Response) bool {
	return has(r, "X-Iinfo") || has(r, "X-CDN") || strings.Contains(r.Body, "Incapsula")
}

func matchF5(r Response) bool {
	return has(r, "X-Cnection") || strings.Contains(server(r), "BigIP")
}

func matchSucuri(r Response) bool {
	return has(r, "X-Sucuri-ID") || has(r, "X-Sucuri-Cache")
}

func matchModSecurity(r Response) bool {
	lower := strings.ToLower(r.Body)
	return strings.Contains(lower, "mod_security") || strings.Contains(lower, "modsecurity")
}

func matchNginxGeneric(r Response) bool {
	return strings.Contains(strings.ToLower(server(r)), "nginx") &&
		(r.Status == http.StatusForbidden || r.Status == http.StatusNotAcceptable)
}
