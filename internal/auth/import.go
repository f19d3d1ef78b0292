package auth

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// browserCookie is the cookie shape produced by browser cookie export
// extensions, which name the expiry expirationDate
type browserCookie struct {
	Cookie
	ExpirationDate float64 `json:"expirationDate"`
}

// ParseCookiesJSON reads a JSON array of cookies, either in the stored form
// or as exported by browser extensions
func ParseCookiesJSON(r io.Reader) ([]Cookie, error) {
	var raw []browserCookie
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	cookies := make([]Cookie, 0, len(raw))
	for _, bc := range raw {
		c := bc.Cookie
		if c.Expires == 0 && bc.ExpirationDate > 0 {
			c.Expires = bc.ExpirationDate
		}
		if c.Path == "" {
			c.Path = "/"
		}
		c.SameSite = normalizeSameSite(c.SameSite)
		if c.Name == "" {
			continue
		}
		cookies = append(cookies, c)
	}
	return cookies, nil
}

// ParseCookiesNetscape reads a Netscape cookies.txt file as written by curl
// and most browser exporters
func ParseCookiesNetscape(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		httpOnly := false
		if strings.HasPrefix(line, "#HttpOnly_") {
			line = strings.TrimPrefix(line, "#HttpOnly_")
			httpOnly = true
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			fields = strings.Fields(line)
		}
		if len(fields) < 7 {
			continue
		}

		cookie := Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HTTPOnly: httpOnly,
		}
		if expiry, err := strconv.ParseInt(fields[4], 10, 64); err == nil && expiry > 0 {
			cookie.Expires = float64(expiry)
		}

		cookies = append(cookies, cookie)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cookies, nil
}

// normalizeSameSite maps exporter spellings onto the DevTools values
func normalizeSameSite(s string) string {
	switch strings.ToLower(s) {
	case "strict":
		return "Strict"
	case "lax":
		return "Lax"
	case "none", "no_restriction":
		return "None"
	default:
		return ""
	}
}
