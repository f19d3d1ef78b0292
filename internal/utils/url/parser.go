package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL performs comprehensive URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ResolveURL resolves a possibly-relative href against a base URL and returns a string
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}

// RemoveParameter drops every occurrence of the query parameter name from
// rawURL. The remaining parameters keep their order and original encoding,
// and the "?" disappears when nothing is left.
func RemoveParameter(rawURL, name string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.RawQuery == "" {
		return rawURL, nil
	}

	pairs := strings.Split(u.RawQuery, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if key == name {
			continue
		}
		kept = append(kept, pair)
	}

	u.RawQuery = strings.Join(kept, "&")
	u.ForceQuery = false
	return u.String(), nil
}

// AppendParameter adds name=value to the end of the query of rawURL,
// leaving existing parameters untouched
func AppendParameter(rawURL, name, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	pair := url.QueryEscape(name) + "=" + url.QueryEscape(value)
	if q := strings.TrimRight(u.RawQuery, "&"); q != "" {
		u.RawQuery = q + "&" + pair
	} else {
		u.RawQuery = pair
	}
	return u.String(), nil
}

// SetParameter replaces any existing name parameter with name=value
func SetParameter(rawURL, name, value string) (string, error) {
	stripped, err := RemoveParameter(rawURL, name)
	if err != nil {
		return "", err
	}
	return AppendParameter(stripped, name, value)
}
