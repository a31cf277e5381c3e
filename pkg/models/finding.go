package models

import "time"

// PassiveFinding is the static evidence gathered from an already loaded page
type PassiveFinding struct {
	IsVulnerableSignal bool     `json:"is_vulnerable_signal" yaml:"is_vulnerable_signal"`
	Score              int      `json:"score" yaml:"score"`
	Details            []string `json:"details" yaml:"details"`
}

// ProbeResult is the outcome of one active protocol fingerprint request
type ProbeResult struct {
	Detected   bool     `json:"detected" yaml:"detected"`
	Details    []string `json:"details" yaml:"details"`
	HTTPStatus int      `json:"http_status,omitempty" yaml:"http_status,omitempty"`
	WAF        string   `json:"waf,omitempty" yaml:"waf,omitempty"`
}

// Assessment is the record of one escalation cycle against a target
type Assessment struct {
	Target    string          `json:"target" yaml:"target"`
	State     string          `json:"state" yaml:"state"`
	Passive   *PassiveFinding `json:"passive,omitempty" yaml:"passive,omitempty"`
	Probe     *ProbeResult    `json:"probe,omitempty" yaml:"probe,omitempty"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	StartTime time.Time       `json:"start_time" yaml:"start_time"`
	Duration  time.Duration   `json:"duration" yaml:"duration"`
}
