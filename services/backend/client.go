package backend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"platter/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client is the single configured connection to the REST backend. Every API
// module issues its calls through it.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a Client for baseURL. The backend's cookies belong to the
// browser, so no cookie jar is kept; callers pass them per request.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetCookieJar(nil).
		SetHeader("Accept", "application/json")
	return &Client{http: h, logger: logger.Named("backend")}
}

// envelope is the backend's response shape: a message plus an optional payload.
type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if creds := CredentialsFrom(ctx); creds != nil && creds.Cookie != "" {
		req.SetHeader("Cookie", creds.Cookie)
	}
	return req
}

// send executes one call and decodes the envelope. The request is prepared by
// build; method and path are relative to the base URL.
func send[T any](ctx context.Context, c *Client, module, op, method, path string, build func(*resty.Request)) (T, string, error) {
	var out envelope[T]
	req := c.request(ctx).SetResult(&out)
	if build != nil {
		build(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	status := "error"
	if resp != nil && resp.StatusCode() != 0 {
		status = strconv.Itoa(resp.StatusCode())
	}
	metrics.BackendRequestDuration.WithLabelValues(module, op, status).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn("Backend call failed", zap.String("module", module), zap.String("op", op), zap.Error(err))
		return out.Data, "", fmt.Errorf("%s.%s: %w: %v", module, op, ErrTransport, err)
	}
	if creds := CredentialsFrom(ctx); creds != nil {
		creds.addSetCookies(resp.Header().Values("Set-Cookie"))
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Module: module, Operation: op}
		if body, ok := resp.Error().(*errorBody); ok {
			apiErr.Message = body.Message
			if apiErr.Message == "" {
				apiErr.Message = body.Error
			}
		}
		c.logger.Debug("Backend returned error", zap.String("module", module), zap.String("op", op),
			zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
		return out.Data, "", apiErr
	}
	return out.Data, out.Message, nil
}

// none is the payload type for calls that only return a message.
type none struct{}
