package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/common"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
	"github.com/google/uuid"
)

// TokenSource yields the bearer token attached to authenticated requests.
// An empty token means "no Authorization header".
type TokenSource interface {
	Token() string
}

// Request describes one call to the backend.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Public requests carry no bearer token and never trigger the
	// unauthorized hook (login, register).
	Public bool

	// multipart payload, set by Upload
	contentType string
	raw         io.Reader
}

// API is the transport contract the services are written against.
type API interface {
	Do(ctx context.Context, req Request) (json.RawMessage, error)
}

// HTTPClient talks JSON to the backend over a single fixed base URL.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	logger  logging.Logger

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

// NewHTTPClient parses baseURL and returns a client whose requests time out
// after timeout (0 means no timeout).
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{baseURL: u, logger: logger}
	c.http = &http.Client{
		Timeout:   timeout,
		Transport: &bearerTransport{next: http.DefaultTransport, client: c},
	}
	return c, nil
}

// SetTokenSource wires the session in after construction; the session store
// itself depends on the client for login.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// OnUnauthorized registers fn to run whenever an authenticated request is
// rejected with 401/403.
func (c *HTTPClient) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

type publicKey struct{}

// bearerTransport attaches the session token to every non-public request.
type bearerTransport struct {
	next   http.RoundTripper
	client *HTTPClient
}

func (t *bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if public, _ := r.Context().Value(publicKey{}).(bool); public {
		return t.next.RoundTrip(r)
	}
	token := t.client.token()
	if token == "" {
		return t.next.RoundTrip(r)
	}
	r = r.Clone(r.Context())
	r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return t.next.RoundTrip(r)
}

func (c *HTTPClient) buildURL(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Do sends req and returns the raw response body of a 2xx answer. Non-2xx
// answers become *APIError; transport failures wrap ErrUnavailable.
func (c *HTTPClient) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	var body io.Reader
	contentType := ""
	switch {
	case req.raw != nil:
		body, contentType = req.raw, req.contentType
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	requestID := uuid.NewString()
	log := c.logger.With("request_id", requestID, "method", req.Method, "path", req.Path)

	ctx = context.WithValue(ctx, publicKey{}, req.Public)
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.buildURL(req.Path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, messageFrom(data))
		log.Debug(ctx, "backend rejected request", "status", resp.StatusCode, "message", apiErr.Message)
		if errors.Is(apiErr, ErrUnauthorized) && !req.Public {
			c.mu.RLock()
			hook := c.onUnauthorized
			c.mu.RUnlock()
			if hook != nil {
				hook(ctx)
			}
		}
		return nil, apiErr
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode)
	return data, nil
}

// Upload posts a multipart form with one file part and plain fields.
func (c *HTTPClient) Upload(ctx context.Context, path, fileField, fileName string, file io.Reader, fields map[string]string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("multipart field %s: %w", k, err)
		}
	}
	part, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("multipart file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("multipart copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("multipart close: %w", err)
	}

	_, err = c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        path,
		contentType: w.FormDataContentType(),
		raw:         &buf,
	})
	return err
}

func messageFrom(body []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}
