package utils

import (
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// OriginFilter decides which browser origins may call the API cross-origin.
// Patterns are host names, optionally with a scheme, and may use glob
// wildcards such as "*.example.com". Loopback hosts are always allowed and
// an empty filter allows everything.
type OriginFilter struct {
	mu           sync.RWMutex
	hosts        map[string]bool // exact match hosts
	globPatterns []glob.Glob     // compiled glob patterns
	rawPatterns  []string        // original pattern strings for debugging
}

// NewOriginFilter compiles patterns into a filter. Invalid glob patterns fall back to exact matches.
func NewOriginFilter(patterns []string) *OriginFilter {
	f := &OriginFilter{}
	f.Set(patterns)
	return f
}

// Set replaces the patterns of the filter.
func (f *OriginFilter) Set(patterns []string) {
	hosts := make(map[string]bool)
	globs := make([]glob.Glob, 0)
	raw := make([]string, 0)

	for _, p := range patterns {
		host := patternHost(p)
		if host == "" {
			continue
		}
		if host == "*" {
			globs = append(globs, glob.MustCompile("*"))
			raw = append(raw, host)
			continue
		}
		if strings.ContainsAny(host, "*?") {
			if g, err := glob.Compile(host, '.'); err == nil {
				globs = append(globs, g)
				raw = append(raw, host)
				continue
			}
		}
		hosts[host] = true
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.hosts = hosts
	f.globPatterns = globs
	f.rawPatterns = raw
}

func patternHost(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" || strings.HasPrefix(p, "#") {
		return ""
	}
	if p == "*" {
		return p
	}
	if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
		p = "https://" + p
	}
	if parsed, err := url.Parse(p); err == nil && parsed.Hostname() != "" {
		return parsed.Hostname()
	}
	p = strings.TrimPrefix(strings.TrimPrefix(p, "https://"), "http://")
	if i := strings.IndexAny(p, "/:"); i != -1 {
		p = p[:i]
	}
	return p
}

// IsAllowed reports whether origin (e.g. "https://app.example.com:8443") is allowed.
func (f *OriginFilter) IsAllowed(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	if isLoopbackHost(host) {
		return true
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.hosts) == 0 && len(f.globPatterns) == 0 {
		return true
	}
	if f.hosts[host] {
		return true
	}
	for _, g := range f.globPatterns {
		if g.Match(host) {
			return true
		}
	}
	return false
}

// Patterns returns the configured exact hosts and glob patterns.
func (f *OriginFilter) Patterns() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, 0, len(f.hosts)+len(f.rawPatterns))
	for h := range f.hosts {
		out = append(out, h)
	}
	return append(out, f.rawPatterns...)
}

func isLoopbackHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
