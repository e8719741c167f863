package miro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Blimmp/miro-svg-dl/pkg/errors"
	"github.com/Blimmp/miro-svg-dl/pkg/logger"
	"github.com/Blimmp/miro-svg-dl/pkg/ratelimit"
	"github.com/Blimmp/miro-svg-dl/pkg/retry"
)

// Client talks to the Miro REST API. Every request it sends, listing pages
// and content probes alike, passes through the one rate limiter it owns, so
// the 4 req/s ceiling holds across the whole run.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	limiter    ratelimit.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     logger.Logger
}

// NewClient creates a new Miro API client authenticating with a bearer token
func NewClient(token string, timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.NewInterval(ratelimit.DefaultRequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"Authorization": fmt.Sprintf("Bearer %s", token),
			"Accept":        "application/json, image/svg+xml, */*",
		},
		baseURL:    DefaultBaseURL,
		limiter:    limiter,
		maxRetries: 3,
		retryDelay: time.Second,
		logger:     log,
	}
}

// SetBaseURL overrides the API base URL (tests point this at a local server)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetRetryPolicy configures the listing retry budget
func (c *Client) SetRetryPolicy(maxRetries int, retryDelay time.Duration) {
	c.maxRetries = maxRetries
	c.retryDelay = retryDelay
}

// Limiter returns the shared rate limiter
func (c *Client) Limiter() ratelimit.Limiter {
	return c.limiter
}

// doRequest performs a rate-limited HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	c.limiter.Wait()

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(url string, target interface{}) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to parse JSON: %v", err), resp.StatusCode)
	}

	return nil
}

// FetchResponse is the raw outcome of a content probe
type FetchResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetch retrieves a URL and returns status, content type and body. Unlike
// GetJSON it does not treat non-2xx statuses as errors; the probe chain
// decides what a miss means. An error is returned only for transport
// failures (timeout, DNS, connection refused).
func (c *Client) Fetch(url string) (*FetchResponse, error) {
	resp, err := c.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to read body: %v", err), resp.StatusCode)
	}

	return &FetchResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// checkResponseStatus maps an HTTP response status onto the error taxonomy
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	errType := errors.TypeForStatusCode(resp.StatusCode)

	switch errType {
	case errors.ErrorTypeAuth:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeAuth, "invalid or expired token, or missing boards:read scope", resp.StatusCode)
	case errors.ErrorTypeNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeNotFound, "resource not found", resp.StatusCode)
	case errors.ErrorTypeRateLimit:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeRateLimit, "rate limit exceeded", resp.StatusCode)
	case errors.ErrorTypeServerError:
		c.logger.WarnWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeServerError, "server error", resp.StatusCode)
	default:
		return errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
	}
}

// ItemIterator walks a board's item listing for one item type, one page at
// a time, following the continuation cursor until the server stops
// returning one.
type ItemIterator struct {
	client   *Client
	boardID  string
	itemType string
	cursor   string
	page     []Item
	pos      int
	started  bool
	done     bool
}

// Items returns a lazy iterator over every item of itemType on the board
func (c *Client) Items(boardID, itemType string) *ItemIterator {
	return &ItemIterator{
		client:   c,
		boardID:  boardID,
		itemType: itemType,
	}
}

// Next returns the next item. The second return value is false once the
// listing is exhausted. An auth failure surfaces as an auth error; any other
// listing failure surfaces as a transient error after the retry budget.
func (it *ItemIterator) Next() (Item, bool, error) {
	for it.pos >= len(it.page) {
		if it.done {
			return Item{}, false, nil
		}
		if err := it.fetchPage(); err != nil {
			return Item{}, false, err
		}
	}

	item := it.page[it.pos]
	it.pos++
	return item, true, nil
}

// fetchPage loads the next listing page through the retry budget
func (it *ItemIterator) fetchPage() error {
	var url string
	if !it.started {
		url = ItemsURL(it.client.baseURL, it.boardID, it.itemType, DefaultPageLimit)
	} else {
		url = ItemsCursorURL(it.client.baseURL, it.boardID, it.cursor)
	}

	var page ItemsPage
	err := retry.Do(func() error {
		page = ItemsPage{}
		return it.client.GetJSON(url, &page)
	}, &retry.Config{
		MaxAttempts: it.client.maxRetries,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:    it.client.retryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		RetryIf: retry.DefaultRetryIf,
		Context: context.Background(),
		Logger:  it.client.logger,
	})

	if err != nil {
		if errors.IsAuth(err) {
			return err
		}
		// Anything else that survives the budget means this item type
		// cannot be listed right now; the orchestrator skips it.
		return errors.New(errors.ErrorTypeTransient,
			fmt.Sprintf("listing %s items failed: %v", it.itemType, err), 0)
	}

	it.started = true
	it.page = page.Data
	it.pos = 0
	it.cursor = page.Cursor
	if page.Cursor == "" {
		it.done = true
	}

	it.client.logger.DebugWithFields("fetched items page", map[string]interface{}{
		"board_id":  it.boardID,
		"item_type": it.itemType,
		"count":     len(page.Data),
		"has_more":  page.Cursor != "",
	})

	return nil
}
