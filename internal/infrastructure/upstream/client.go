// Package upstream wraps outbound HTTP calls to the services the directory
// depends on: one bounded timeout per attempt and a bounded number of
// retries for transient failures.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"telehealth-directory/config"
	"telehealth-directory/pkg/metrics"

	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 8 << 20

var (
	ErrUpstreamStatus    = errors.New("upstream returned unexpected status")
	ErrMalformedResponse = errors.New("malformed upstream response")
	ErrResponseTooLarge  = errors.New("upstream response too large")
)

// StatusError carries the status code of a rejected call.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", e.Service, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUpstreamStatus
}

// RequestFunc builds a fresh request for every attempt.
type RequestFunc func(ctx context.Context) (*http.Request, error)

type Client struct {
	service    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	maxBody    int64
	log        *logrus.Logger
	metrics    *metrics.Metrics
}

func NewClient(service string, cfg config.UpstreamConfig, httpClient *http.Client, log *logrus.Logger, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		service:    service,
		httpClient: httpClient,
		timeout:    timeout,
		maxRetries: retries,
		maxBody:    maxBodyBytes,
		log:        log,
		metrics:    m,
	}
}

// Do sends the request built by build and returns the body of a 2xx response.
func (c *Client) Do(ctx context.Context, build RequestFunc) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.metrics.ObserveRetry(c.service)
			c.log.WithFields(logrus.Fields{
				"service": c.service,
				"attempt": attempt + 1,
			}).Warnf("Retrying upstream request: %+v", lastErr)
		}

		body, retry, err := c.attempt(ctx, build)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, build RequestFunc) ([]byte, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := build(attemptCtx)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(c.service, "error", started)
		c.log.WithFields(logrus.Fields{
			"service": c.service,
			"url":     redactedURL(req),
		}).Warnf("Failed upstream request: %+v", err)
		return nil, true, fmt.Errorf("%s request: %w", c.service, err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveUpstream(c.service, strconv.Itoa(resp.StatusCode), started)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))
		c.log.WithFields(logrus.Fields{
			"service": c.service,
			"status":  resp.StatusCode,
		}).Warn("Upstream returned unexpected status")
		return nil, resp.StatusCode >= 500, &StatusError{Service: c.service, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, true, fmt.Errorf("%s read body: %w", c.service, err)
	}
	if int64(len(body)) > c.maxBody {
		c.log.WithFields(logrus.Fields{
			"service": c.service,
			"limit":   c.maxBody,
		}).Warn("Upstream response exceeds size limit")
		return nil, false, fmt.Errorf("%s: %w", c.service, ErrResponseTooLarge)
	}
	return body, false, nil
}

// redactedURL drops the query string, which may carry credentials.
func redactedURL(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
