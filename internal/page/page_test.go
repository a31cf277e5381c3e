package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsc-sentinel/internal/config"
	"github.com/rsc-sentinel/internal/logger"
	"github.com/rsc-sentinel/internal/probe"
)

const appRouterPage = `<!DOCTYPE html><html><body><div id="__next"></div>
<script>(self.__next_f=self.__next_f||[]).push([0]);</script></body></html>`

func newLoader(t *testing.T, srv *httptest.Server) *Loader {
	t.Helper()
	cfg := config.Default()
	prober := probe.New(srv.Client(), logger.Discard(), cfg.Scanning.UserAgent, cfg.Scanning.MaxBodySize)
	return NewLoader(cfg, logger.Discard(), srv.Client().Transport, prober)
}

func TestLoadScoresMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("RSC") == "1" {
			w.Header().Set("Content-Type", "text/x-component")
			_, _ = w.Write([]byte(`0:["$","div",null,{}]`))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(appRouterPage))
	}))
	defer srv.Close()

	p, err := newLoader(t, srv).Load(context.Background(), srv.URL)
	require.NoError(t, err)

	finding, err := p.GetPassiveFinding(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 80, finding.Score)
	assert.True(t, finding.IsVulnerableSignal)

	result, err := p.RunActiveProbe(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Detected)
}

func TestLoadKeepsErrorPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}))
	defer srv.Close()

	p, err := newLoader(t, srv).Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, p.Status)
}

func TestLoadUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	loader := newLoader(t, srv)
	url := srv.URL
	srv.Close()

	_, err := loader.Load(context.Background(), url)
	assert.Error(t, err)
}

func TestFromMarkupWithoutProber(t *testing.T) {
	p := FromMarkup("https://example.com", "react-server-dom-webpack", "text/html", nil)

	finding, err := p.GetPassiveFinding(context.Background())
	require.NoError(t, err)
	assert.False(t, finding.IsVulnerableSignal)

	_, err = p.RunActiveProbe(context.Background())
	assert.Error(t, err)
}
