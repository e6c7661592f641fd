package ratelimit

import (
	"strings"
)

// HealthPath is never rate limited.
const HealthPath = "/api/health"

// MatchEndpoint returns the configuration governing a request, or nil when none
// applies. An exact path wins; otherwise the longest configured path ending in
// "/" that prefixes the request path is used. Methods compare case-insensitively.
// The health check always matches an unlimited entry.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == HealthPath && strings.EqualFold(method, "GET") {
		return &EndpointConfig{Path: HealthPath, Method: "GET"}
	}

	var best *EndpointConfig
	for i := range configs {
		ec := &configs[i]
		if !strings.EqualFold(ec.Method, method) {
			continue
		}
		if ec.Path == path {
			return ec
		}
		if strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			if best == nil || len(ec.Path) > len(best.Path) {
				best = ec
			}
		}
	}
	return best
}
