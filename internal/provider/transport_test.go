package provider

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProxySelector(t *testing.T) {
	httpsReq := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	httpReq := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)

	// Scheme-specific proxy wins for https traffic.
	selector := proxySelector(Config{HTTPProxy: "http://proxy-a:3128", HTTPSProxy: "http://proxy-b:3128"})
	u, err := selector(httpsReq)
	if err != nil {
		t.Fatalf("selector failed: %v", err)
	}
	if u.Host != "proxy-b:3128" {
		t.Errorf("https request should use the https proxy, got %s", u.Host)
	}

	u, err = selector(httpReq)
	if err != nil {
		t.Fatalf("selector failed: %v", err)
	}
	if u.Host != "proxy-a:3128" {
		t.Errorf("http request should use the http proxy, got %s", u.Host)
	}

	// Only the http proxy configured: https traffic falls back to it.
	selector = proxySelector(Config{HTTPProxy: "http://proxy-a:3128"})
	u, err = selector(httpsReq)
	if err != nil {
		t.Fatalf("selector failed: %v", err)
	}
	if u.Host != "proxy-a:3128" {
		t.Errorf("https request should fall back to the http proxy, got %s", u.Host)
	}
}
