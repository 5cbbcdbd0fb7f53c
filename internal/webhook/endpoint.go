package webhook

import (
	"net/url"
	"strings"
)

// ValidateEndpoint checks that endpoint looks like a webhook URL: an absolute
// http(s) URL with a host whose path contains marker. An empty marker skips
// the path check.
func ValidateEndpoint(endpoint, marker string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return &ConfigurationError{Reason: "set the production webhook URL before submitting"}
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return &ConfigurationError{Endpoint: endpoint, Reason: "not a URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ConfigurationError{Endpoint: endpoint, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return &ConfigurationError{Endpoint: endpoint, Reason: "missing host"}
	}
	if marker != "" && !strings.Contains(u.Path, marker) {
		return &ConfigurationError{Endpoint: endpoint, Reason: "path does not contain " + strings.Trim(marker, "/")}
	}
	return nil
}
