package models

import "time"

// Token is the access token used to authorize API requests.
type Token struct {
	Value     string
	Type      string
	ExpiresAt time.Time
}

// ValidAt reports whether the token is present and expires strictly after now.
func (t Token) ValidAt(now time.Time) bool {
	return t.Value != "" && t.ExpiresAt.After(now)
}

// Header renders the Authorization header value, e.g. "Bearer abc".
func (t Token) Header() string {
	typ := t.Type
	if typ == "" {
		typ = "Bearer"
	}
	return typ + " " + t.Value
}
