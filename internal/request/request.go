package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned without contacting the remote service while the
// circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker open")

// Options carries the headers and query parameters of a single request.
type Options struct {
	Headers map[string]string
	Params  map[string]string
}

// Response is a successful (2xx) response with its raw body.
type Response struct {
	Status int
	Data   []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Data, v)
}

// ResponseError is returned when the remote service answered with a non-2xx
// status. Body holds the compacted JSON body, or the JSON string encoding of
// the body when it is not valid JSON.
type ResponseError struct {
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("request failed with status code %d: %s", e.Status, e.Body)
}

// IsRequestError reports whether err was produced by a service that responded
// with an error status, as opposed to a failure to reach the service at all.
func IsRequestError(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr)
}

// Config controls transport and resilience behaviour of a Client.
type Config struct {
	Name        string
	Timeout     time.Duration
	RetryCount  int
	RetryWait   time.Duration
	MaxFailures uint32 // consecutive failures before the breaker opens (0 = 5)
	OpenTimeout time.Duration
}

// Client performs GET requests through resty, guarded by a circuit breaker.
// It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	circuit *gobreaker.CircuitBreaker
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	httpClient := resty.New()
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}
	httpClient.SetRetryCount(cfg.RetryCount)
	if cfg.RetryWait > 0 {
		httpClient.SetRetryWaitTime(cfg.RetryWait)
	}

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 2 * time.Minute
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: countsAsSuccess,
	})

	return &Client{
		http:    httpClient,
		circuit: cb,
	}
}

// Get performs a GET against url with the given options.
func (c *Client) Get(ctx context.Context, url string, opts Options) (*Response, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeaders(opts.Headers).
			SetQueryParams(opts.Params).
			Get(url)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
			return nil, &ResponseError{
				Status: resp.StatusCode(),
				Body:   compactBody(resp.Body()),
			}
		}

		return &Response{Status: resp.StatusCode(), Data: resp.Body()}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// countsAsSuccess keeps client-side errors (other than rate limiting) and
// calls cancelled by the caller from tripping the breaker; the remote service
// itself is healthy in that case.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Status < 500 && respErr.Status != http.StatusTooManyRequests
	}
	return false
}

func compactBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		return buf.String()
	}
	encoded, _ := json.Marshal(string(body))
	return string(encoded)
}
