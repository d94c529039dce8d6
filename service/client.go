package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sportzone-cli/config"
	"sportzone-cli/session"
	"sportzone-cli/store"
)

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultUserAgent   = config.AppName
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// Client wraps HTTP access to the SportZone API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
	limiter     *rate.Limiter
	logger      *zap.Logger
	cache       store.Cache
	session     *session.Session
	newID       func() string
}

// APIError is returned when the SportZone API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "sportzone api error"
	}
	if e.Message != "" {
		return fmt.Sprintf("sportzone api error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("sportzone api error: %s: %s", e.Status, e.Body)
}

func statusIs(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

// IsUnauthorized reports a 401 or 403, which means the session is no longer accepted.
func IsUnauthorized(err error) bool {
	return statusIs(err, http.StatusUnauthorized) || statusIs(err, http.StatusForbidden)
}

// IsConflict reports a booking clash. The booking service answers an
// overlapping slot with a 500 carrying an "already booked" message rather
// than a 409, so both are recognized.
func IsConflict(err error) bool {
	if statusIs(err, http.StatusConflict) {
		return true
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		return false
	}
	text := strings.ToLower(apiErr.Message + " " + apiErr.Body)
	return strings.Contains(text, slotTakenMarker)
}

const slotTakenMarker = "already booked"

// NewClient creates a new API client. If httpClient is nil, a default client is used.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     defaultBaseURL,
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
		logger:      zap.NewNop(),
		newID:       func() string { return uuid.NewString() },
	}
}

// FromConfig builds a client for the configured API. cache may be nil.
func FromConfig(cfg config.Config, logger *zap.Logger, cache store.Cache) *Client {
	c := NewClient(&http.Client{Timeout: cfg.Timeout})
	c.baseURL = strings.TrimRight(cfg.APIURL, "/")
	c.maxAttempts = cfg.MaxAttempts
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if logger != nil {
		c.logger = logger.Named("api")
	}
	c.cache = cache
	return c
}

// WithSession returns a copy of the client that authenticates as s.
func (c *Client) WithSession(s *session.Session) *Client {
	next := *c
	next.session = s
	return &next
}

func (c *Client) Session() *session.Session {
	return c.session
}

func (c *Client) endpoint(path string, query url.Values) string {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method string, endpoint string, body any, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = encoded
	}
	idempotencyKey := ""
	if method == http.MethodPost {
		idempotencyKey = c.newID()
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		requestID := c.newID()
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}
		if token := c.session.BearerToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		log := c.logger.With(
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Int("attempt", attempt),
		)
		started := time.Now()
		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(method, err) && attempt < maxAttempts {
				log.Warn("request failed, retrying", zap.Error(err))
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			log.Error("request failed", zap.Error(err))
			return fmt.Errorf("request failed: %w", err)
		}
		log.Debug("response", zap.Int("status", res.StatusCode), zap.Duration("elapsed", time.Since(started)))

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       strings.TrimSpace(string(snippet)),
			}
			apiErr.Message = errorMessage(snippet)
			if c.shouldRetryStatus(method, res.StatusCode) && attempt < maxAttempts {
				log.Warn("transient status, retrying", zap.Int("status", res.StatusCode))
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, res.Body)
			_ = res.Body.Close()
			return nil
		}
		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

// errorMessage pulls a readable message out of the API's error bodies, which
// carry either "message" or "error" plus optional field details.
func errorMessage(body []byte) string {
	var payload struct {
		Message string            `json:"message"`
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	msg := strings.TrimSpace(payload.Message)
	if msg == "" {
		msg = strings.TrimSpace(payload.Error)
	}
	if len(payload.Details) > 0 {
		parts := make([]string, 0, len(payload.Details))
		for field, detail := range payload.Details {
			parts = append(parts, field+": "+detail)
		}
		sort.Strings(parts)
		if msg != "" {
			msg += " "
		}
		msg += "(" + strings.Join(parts, ", ") + ")"
	}
	return msg
}

// POST creates bookings and orders server-side, so a status code is never
// retried for it: the request may already have taken effect.
func (c *Client) shouldRetryStatus(method string, code int) bool {
	if !idempotent(method) {
		return false
	}
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(method string, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if idempotent(method) {
		return true
	}
	// Only a failed dial guarantees nothing reached the server.
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
