package fetcher

import (
	"fmt"
	"net"
	"net/url"
)

// validateURL checks scheme, host and (optionally) private-IP exposure
// before a request is made. denyPrivateIPs is only ever false in tests
// exercising an httptest.Server, which binds to loopback.
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme %q not allowed, only http/https", u.Scheme)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("url has empty hostname")
	}
	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("dns lookup failed for %s: %w", hostname, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("hostname %q resolves to private ip %s", hostname, ip)
		}
	}
	return nil
}

// isPrivateIP reports whether ip is loopback, private, or link-local.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}

// validateRedirectTarget re-runs the same check on every redirect hop; a
// URL that starts out public can still redirect into a private network.
func validateRedirectTarget(urlStr string, denyPrivateIPs bool) error {
	if err := validateURL(urlStr, denyPrivateIPs); err != nil {
		return fmt.Errorf("redirect target rejected: %w", err)
	}
	return nil
}
