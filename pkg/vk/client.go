package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vkleads/pkg/errors"
	"vkleads/pkg/logger"
)

const (
	// DefaultAPIURI is the method endpoint root
	DefaultAPIURI = "https://api.vk.com/method"

	// DefaultVersion is the API version sent with every call
	DefaultVersion = "5.199"
)

// Options configures a Client
type Options struct {
	Token   string
	APIURI  string
	Version string
	Timeout time.Duration
}

// Client calls VK API methods with a single access token
type Client struct {
	httpClient *http.Client
	apiURI     string
	version    string
	token      string
	logger     logger.Logger
}

// NewClient creates a new VK API client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.APIURI == "" {
		opts.APIURI = DefaultAPIURI
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		apiURI:     strings.TrimRight(opts.APIURI, "/"),
		version:    opts.Version,
		token:      opts.Token,
		logger:     log,
	}
}

// SetHTTPClient replaces the underlying HTTP client
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// envelope is the outer shape of every method response
type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *apiError       `json:"error"`
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// methodURL builds the request URL. The token is part of the query, so the
// URL must never be logged.
func (c *Client) methodURL(method string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("access_token", c.token)
	q.Set("v", c.version)
	return fmt.Sprintf("%s/%s?%s", c.apiURI, method, q.Encode())
}

// Call invokes method and decodes the response payload into target
func (c *Client) Call(ctx context.Context, method string, params url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL(method, params), nil)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeUnknown, err, "create request %s", method)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.DebugWithFields("Calling API method", map[string]interface{}{
		"method": method,
		"params": params.Encode(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, token included
		if uerr, ok := err.(*url.Error); ok {
			err = uerr.Err
		}
		// a cancelled run is not a failure of this listing
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.logger.WarnWithFields("API call cancelled", map[string]interface{}{
				"method": method,
				"error":  ctxErr.Error(),
			})
			return fmt.Errorf("request %s: %w", method, ctxErr)
		}
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   method,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return errors.Wrap(errors.ErrorTypeNetwork, err, "request %s", method)
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(method, resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("read %s response: %w", method, ctxErr)
		}
		return errors.Wrap(errors.ErrorTypeNetwork, err, "read %s response", method)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("Failed to parse API response", map[string]interface{}{
			"method":       method,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.Wrap(errors.ErrorTypeParsing, err, "parse %s response", method)
	}

	if env.Error != nil {
		c.logger.WarnWithFields("API returned error", map[string]interface{}{
			"method":     method,
			"error_code": env.Error.Code,
			"error_msg":  env.Error.Message,
		})
		return errors.New(errors.FromAPICode(env.Error.Code), env.Error.Code, "%s: %s", method, env.Error.Message)
	}

	if target != nil {
		if err := json.Unmarshal(env.Response, target); err != nil {
			return errors.Wrap(errors.ErrorTypeParsing, err, "decode %s payload", method)
		}
	}

	c.logger.DebugWithFields("API method completed", map[string]interface{}{
		"method":   method,
		"duration": time.Since(start),
	})
	return nil
}

// checkResponseStatus maps transport level statuses. VK reports method
// errors inside a 200 response.
func (c *Client) checkResponseStatus(method string, resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	c.logger.WarnWithFields("Unexpected HTTP status", map[string]interface{}{
		"method": method,
		"status": resp.StatusCode,
	})

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.New(errors.ErrorTypeRateLimit, resp.StatusCode, "%s: rate limit exceeded", method)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.New(errors.ErrorTypeAuth, resp.StatusCode, "%s: authentication failed", method)
	case errors.IsRetryableStatusCode(resp.StatusCode):
		return errors.New(errors.ErrorTypeNetwork, resp.StatusCode, "%s: server error", method)
	default:
		return errors.New(errors.ErrorTypeAPI, resp.StatusCode, "%s: unexpected status code %d", method, resp.StatusCode)
	}
}
