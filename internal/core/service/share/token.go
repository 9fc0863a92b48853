package share

import (
	"crypto/rand"
	"encoding/base64"
	"net/url"
	"strings"
)

// tokenBytes is the entropy of a share token (192 bits)
const tokenBytes = 24

// NewToken returns a fresh unguessable URL-safe share token
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// URL builds the public share URL of token
func URL(baseURL string, token string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(token)
}
