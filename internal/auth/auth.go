// Package auth provides InsightIDR API key authentication.
package auth

import "net/http"

// HeaderAPIKey is the request header carrying the platform API key.
const HeaderAPIKey = "X-Api-Key"

// Credentials holds the InsightIDR API key.
type Credentials struct {
	APIKey string
}

// Apply adds the credential header to an HTTP request.
func (c *Credentials) Apply(req *http.Request) {
	if c == nil {
		return
	}
	req.Header.Set(HeaderAPIKey, c.APIKey)
}

// Valid reports whether credentials are configured.
func (c *Credentials) Valid() bool {
	return c != nil && c.APIKey != ""
}
