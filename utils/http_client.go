package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient returns the shared client for outbound calls. The timeout
// bounds the suggestion call so a stuck upstream cannot hold a request open.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
	}
}
