package validation

import (
	"fmt"
	"net/url"
)

// ValidateBaseURL validates a site base URL. The base URL must be absolute
// with an http or https scheme and a hostname, because every page location
// is resolved against it.
func ValidateBaseURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL scheme %q: only http and https are allowed", parsed.Scheme)
	}

	if parsed.Host == "" {
		return nil, fmt.Errorf("base URL must have a hostname")
	}

	return parsed, nil
}
