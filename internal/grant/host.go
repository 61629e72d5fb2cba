package grant

import (
	"fmt"
	"net"
	"strings"
)

// ValidateHost checks the configured allowed host before it is ever
// interpolated into a CREATE USER statement. Accepted forms: "localhost",
// an IP literal, a hostname, or "%" in dev mode only.
func ValidateHost(host string, devMode bool) error {
	if host == "" || len(host) > 255 {
		return ErrInvalidHost
	}
	if host == "%" {
		if devMode {
			return nil
		}
		return ErrWildcardHost
	}
	if host == "localhost" {
		return nil
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if validHostname(host) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidHost, host)
}

func validHostname(hostname string) bool {
	if hostname == "" || len(hostname) > 253 {
		return false
	}
	if strings.HasPrefix(hostname, ".") || strings.HasSuffix(hostname, ".") ||
		strings.HasPrefix(hostname, "-") || strings.HasSuffix(hostname, "-") {
		return false
	}
	if strings.Contains(hostname, "..") {
		return false
	}
	for i := 0; i < len(hostname); i++ {
		b := hostname[i]
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		case b == '.' || b == '-':
		default:
			return false
		}
	}
	return true
}
