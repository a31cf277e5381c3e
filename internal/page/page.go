// Package page holds a loaded target page and exposes the two operations the
// escalation controller may invoke on it.
package page

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gocolly/colly/v2"

	"github.com/rsc-sentinel/internal/config"
	"github.com/rsc-sentinel/internal/logger"
	"github.com/rsc-sentinel/internal/passive"
	"github.com/rsc-sentinel/internal/probe"
	"github.com/rsc-sentinel/pkg/models"
)

// Page is a target whose markup has been loaded. The passive finding is
// computed once at load time and never changes afterwards.
type Page struct {
	URL         string
	ContentType string
	Status      int

	finding models.PassiveFinding
	prober  *probe.Prober
}

// Loader fetches pages with a colly collector
type Loader struct {
	cfg       *config.Config
	log       logger.Logger
	transport http.RoundTripper
	prober    *probe.Prober
}

// NewLoader creates a loader sharing transport with the prober
func NewLoader(cfg *config.Config, log logger.Logger, transport http.RoundTripper, prober *probe.Prober) *Loader {
	return &Loader{
		cfg:       cfg,
		log:       log.WithField("component", "page"),
		transport: transport,
		prober:    prober,
	}
}

func (l *Loader) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(l.cfg.Scanning.UserAgent),
		colly.MaxBodySize(int(l.cfg.Scanning.MaxBodySize)),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	)
	c.SetRequestTimeout(l.cfg.Scanning.Timeout)
	if l.transport != nil {
		c.WithTransport(l.transport)
	}
	if !l.cfg.Scanning.FollowRedirects {
		c.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		})
	}
	return c
}

// Load fetches target and scores its markup
func (l *Loader) Load(ctx context.Context, target string) (*Page, error) {
	c := l.newCollector()

	var (
		mu      sync.Mutex
		loaded  *Page
		markup  string
		loadErr error
	)

	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
	})

	c.OnResponse(func(r *colly.Response) {
		mu.Lock()
		defer mu.Unlock()
		loaded = &Page{
			URL:         r.Request.URL.String(),
			ContentType: r.Headers.Get("Content-Type"),
			Status:      r.StatusCode,
		}
		markup = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		if r == nil || r.StatusCode == 0 {
			loadErr = err
		}
	})

	if err := c.Visit(target); err != nil && loaded == nil {
		return nil, fmt.Errorf("failed to load %s: %w", target, err)
	}
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	if loaded == nil {
		if loadErr == nil {
			loadErr = ctx.Err()
		}
		if loadErr == nil {
			loadErr = fmt.Errorf("no response")
		}
		return nil, fmt.Errorf("failed to load %s: %w", target, loadErr)
	}

	loaded.finding = passive.Scan(markup, loaded.ContentType)
	loaded.prober = l.prober

	l.log.Debug("Page loaded",
		"target", loaded.URL,
		"status", loaded.Status,
		"content_type", loaded.ContentType,
		"bytes", len(markup))

	return loaded, nil
}

// FromMarkup builds a page from markup already in hand
func FromMarkup(url, markup, contentType string, prober *probe.Prober) *Page {
	return &Page{
		URL:         url,
		ContentType: contentType,
		finding:     passive.Scan(markup, contentType),
		prober:      prober,
	}
}

// GetPassiveFinding returns the finding computed at load time
func (p *Page) GetPassiveFinding(ctx context.Context) (models.PassiveFinding, error) {
	return p.finding, nil
}

// RunActiveProbe fingerprints the page's own address
func (p *Page) RunActiveProbe(ctx context.Context) (models.ProbeResult, error) {
	if p.prober == nil {
		return models.ProbeResult{}, fmt.Errorf("page %s has no prober", p.URL)
	}
	return p.prober.Probe(ctx, p.URL), nil
}
