package utils

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/rsc-sentinel/internal/config"
)

// NewHTTPClient creates the client shared by the page fetcher and the prober
func NewHTTPClient(cfg *config.Config) (*http.Client, error) {
	transport, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Scanning.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !cfg.Scanning.FollowRedirects {
				return http.ErrUseLastResponse
			}
			if len(via) >= cfg.Scanning.MaxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// NewTransport builds a transport honouring the configured proxy and TLS settings
func NewTransport(cfg *config.Config) (*http.Transport, error) {
	dialer := &net.Dialer{
		Timeout:   cfg.Scanning.Timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.Scanning.VerifySSL,
		},
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if cfg.Scanning.Proxy == "" {
		return transport, nil
	}

	proxyURL, err := url.Parse(cfg.Scanning.Proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch proxyURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
	case "socks5":
		socks, err := proxy.FromURL(proxyURL, dialer)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		ctxDialer, ok := socks.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("SOCKS5 dialer does not support contexts")
		}
		transport.DialContext = ctxDialer.DialContext
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", proxyURL.Scheme)
	}

	return transport, nil
}

// ReadLimited reads at most limit bytes of r
func ReadLimited(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NormalizeTarget adds a scheme when missing and rejects anything that is not http(s)
func NormalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("empty target")
	}

	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid target %q: %w", target, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("target %q has no host", target)
	}

	parsed.Fragment = ""
	return parsed.String(), nil
}
