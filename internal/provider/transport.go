package provider

import (
	"net/http"
	"net/url"
)

// newTransport builds the outbound HTTP transport for a network-backed
// variant. Explicit proxy settings in the config win over the process
// environment; with none set, the standard HTTP(S)_PROXY variables apply.
func newTransport(config Config) *http.Transport {
	return &http.Transport{Proxy: proxySelector(config)}
}

func proxySelector(config Config) func(*http.Request) (*url.URL, error) {
	if config.HTTPProxy == "" && config.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		proxy := config.HTTPProxy
		if req.URL.Scheme == "https" && config.HTTPSProxy != "" {
			proxy = config.HTTPSProxy
		}
		if proxy == "" {
			return http.ProxyFromEnvironment(req)
		}
		return url.Parse(proxy)
	}
}
