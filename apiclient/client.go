// Package apiclient wraps HTTP calls to the booking API. It injects the
// session's bearer token and, on a 401, refreshes the access token once and
// replays the request.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-booking-client/internal/config"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// TokenStore is the session state the client reads and writes.
// *session.Manager satisfies it.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	OAuth2Token() *oauth2.Token
	SetAccessToken(token string) error
	Clear() error
}

// Response is a successful API response with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into out. An empty body leaves out untouched.
func (r *Response) Decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type Client struct {
	baseURL     string
	refreshPath string
	httpClient  *http.Client
	tokens      TokenStore
	logger      zerolog.Logger
	tracer      Tracer
	refreshes   singleflight.Group
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger; the default trace hook writes to it too
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
		c.tracer = LogTracer(logger)
	}
}

// WithTracer installs a hook called after every dispatched request
func WithTracer(t Tracer) ClientOption {
	return func(c *Client) {
		c.tracer = t
	}
}

// New creates a client for the API described by cfg, authenticating with tokens.
func New(cfg config.ClientConfig, tokens TokenStore, opts ...ClientOption) (*Client, error) {
	if cfg == nil || cfg.GetBaseURL() == "" {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidInput, "base URL is required")
	}
	if tokens == nil {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidInput, "token store is required")
	}

	c := &Client{
		baseURL:     strings.TrimSuffix(cfg.GetBaseURL(), "/"),
		refreshPath: cfg.GetRefreshPath(),
		httpClient:  &http.Client{Timeout: cfg.GetHTTPTimeout()},
		tokens:      tokens,
		logger:      zerolog.Nop(),
	}
	c.tracer = LogTracer(c.logger)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Send performs one logical request. body may be nil, a *Multipart, raw JSON
// bytes or any value encodable as JSON. Status codes of 400 and above are
// returned as *HTTPError.
func (c *Client) Send(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	rc := newRequestConfig(opts)
	if path == c.refreshPath {
		rc.noRefresh = true
	}
	return c.send(withAttempt(ctx, 0), uuid.NewString(), method, path, payload, contentType, rc)
}

// DoJSON sends the request and decodes the response body into out.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	resp, err := c.Send(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) send(ctx context.Context, requestID, method, path string, payload []byte, contentType string, rc *requestConfig) (*Response, error) {
	attempt := attemptFrom(ctx)
	resp, sentToken, err := c.dispatch(ctx, requestID, method, path, payload, contentType, rc)
	if err != nil {
		return nil, err
	}

	if resp.Status == http.StatusUnauthorized && !rc.noRefresh && rc.bearer == "" && attempt+1 < maxAttempts {
		// Another request may already have refreshed the token this one was sent with.
		if current := c.tokens.AccessToken(); current == "" || current == sentToken {
			if _, err := c.Refresh(ctx); err != nil {
				return nil, err
			}
		}
		return c.send(withAttempt(ctx, attempt+1), requestID, method, path, payload, contentType, rc)
	}

	if resp.Status >= http.StatusBadRequest {
		return nil, &HTTPError{
			Method:  method,
			Path:    path,
			Status:  resp.Status,
			Message: extractMessage(resp.Body),
			Body:    resp.Body,
		}
	}
	return resp, nil
}

// dispatch issues a single HTTP round trip and returns the access token it
// was authenticated with.
func (c *Client) dispatch(ctx context.Context, requestID, method, path string, payload []byte, contentType string, rc *requestConfig) (*Response, string, error) {
	u := c.baseURL + path
	if len(rc.query) > 0 {
		u += "?" + rc.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("X-Request-ID", requestID)
	for k, vs := range rc.header {
		req.Header[k] = vs
	}

	tok := c.tokens.OAuth2Token()
	if rc.bearer != "" {
		tok = &oauth2.Token{AccessToken: rc.bearer, TokenType: "Bearer"}
	}
	var token string
	if tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(req)
		token = tok.AccessToken
	}

	start := time.Now()
	ev := TraceEvent{
		RequestID: requestID,
		Method:    method,
		URL:       u,
		Header:    redact(req.Header),
		Attempt:   attemptFrom(ctx),
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		ev.Duration = time.Since(start)
		ev.Err = err
		c.trace(ev)
		return nil, token, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	ev.Duration = time.Since(start)
	ev.Status = httpResp.StatusCode
	if err != nil {
		ev.Err = err
		c.trace(ev)
		return nil, token, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	c.trace(ev)

	return &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: data}, token, nil
}

func (c *Client) trace(ev TraceEvent) {
	if c.tracer != nil {
		c.tracer(ev)
	}
}

// Refresh exchanges the refresh token for a new access token and stores it.
// Concurrent callers share one refresh call. On failure the session is
// cleared and the returned error matches ErrSessionExpired.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	v, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		// The shared call must not die with whichever caller started it.
		return c.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	token, err := c.requestRefresh(ctx)
	if err != nil {
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.logger.Error().Err(clearErr).Msg("Failed to clear session after refresh failure")
		}
		c.logger.Warn().Err(err).Msg("Token refresh failed, session cleared")
		return "", fmt.Errorf("%w: %w", bookerrors.ErrSessionExpired, err)
	}
	if err := c.tokens.SetAccessToken(token); err != nil {
		return "", err
	}
	c.logger.Debug().Msg("Access token refreshed")
	return token, nil
}

func (c *Client) requestRefresh(ctx context.Context) (string, error) {
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return "", bookerrors.ErrNoRefreshToken
	}

	var out refreshResponse
	err := c.DoJSON(ctx, http.MethodPost, c.refreshPath, struct{}{}, &out, WithBearer(refreshToken), WithoutRefresh())
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("refresh response carried no access token")
	}
	return out.AccessToken, nil
}
