package passive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name        string
		markup      string
		contentType string
		wantScore   int
		wantSignal  bool
		wantDetails int
	}{
		{
			name:        "content type alone",
			markup:      "0:[\"$\",\"div\",null,{}]",
			contentType: "text/x-component",
			wantScore:   100,
			wantSignal:  true,
			wantDetails: 1,
		},
		{
			name:        "content type with params",
			contentType: "text/x-component; charset=utf-8",
			wantScore:   100,
			wantSignal:  true,
			wantDetails: 1,
		},
		{
			name:        "flight init marker",
			markup:      `<script>(self.__next_f = self.__next_f || []).push([0])</script>`,
			contentType: "text/html; charset=utf-8",
			wantScore:   80,
			wantSignal:  true,
			wantDetails: 1,
		},
		{
			name:        "module name alone stays below threshold",
			markup:      `<script src="/_next/static/chunks/react-server-dom-webpack-client.js"></script>`,
			contentType: "text/html",
			wantScore:   30,
			wantSignal:  false,
			wantDetails: 1,
		},
		{
			name:        "all signals add up",
			markup:      `window.__next_f=[];/* react-server-dom-webpack */`,
			contentType: "text/x-component",
			wantScore:   210,
			wantSignal:  true,
			wantDetails: 3,
		},
		{
			name:        "plain page",
			markup:      "<html><body>hello</body></html>",
			contentType: "text/html",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.markup, tt.contentType)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantSignal, got.IsVulnerableSignal)
			assert.Len(t, got.Details, tt.wantDetails)
		})
	}
}

func TestScanDetailOrder(t *testing.T) {
	got := Scan(`self.__next_f = []; react-server-dom-webpack`, "text/x-component")
	assert.Equal(t, []string{
		"Found: Content-Type text/x-component",
		"Found: window.__next_f (App Router)",
		"Found: react-server-dom-webpack",
	}, got.Details)
}

func TestIsComponentStream(t *testing.T) {
	assert.True(t, IsComponentStream("text/x-component"))
	assert.True(t, IsComponentStream("TEXT/X-COMPONENT"))
	assert.False(t, IsComponentStream("text/html"))
	assert.False(t, IsComponentStream(""))
}
