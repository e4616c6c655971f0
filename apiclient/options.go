package apiclient

import (
	"net/http"
	"net/url"
)

type requestConfig struct {
	query     url.Values
	header    http.Header
	bearer    string
	noRefresh bool
}

// RequestOption adjusts a single logical request.
type RequestOption func(*requestConfig)

// WithQuery appends query parameters to the request URL.
func WithQuery(q url.Values) RequestOption {
	return func(c *requestConfig) {
		for k, vs := range q {
			for _, v := range vs {
				c.query.Add(k, v)
			}
		}
	}
}

// WithHeader sets an extra request header.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		c.header.Set(key, value)
	}
}

// WithBearer authenticates the request with token instead of the session's
// access token.
func WithBearer(token string) RequestOption {
	return func(c *requestConfig) {
		c.bearer = token
	}
}

// WithoutRefresh surfaces a 401 directly instead of refreshing and retrying.
// Credential endpoints use it so "invalid credentials" reaches the caller.
func WithoutRefresh() RequestOption {
	return func(c *requestConfig) {
		c.noRefresh = true
	}
}

func newRequestConfig(opts []RequestOption) *requestConfig {
	c := &requestConfig{
		query:  url.Values{},
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
