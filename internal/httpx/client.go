package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errServerError  = errors.New("server error")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// maxBody caps how much of an upstream response is read.
const maxBody = 4 << 20

// Client performs single outbound GETs through a circuit breaker.
// A non-2xx answer is "absent", not an error; only 5xx answers count against the breaker.
type Client struct {
	name    string
	http    *http.Client
	circuit *gobreaker.CircuitBreaker
}

// New wraps a shared http.Client (which carries the request timeout) with a breaker named after the upstream.
func New(name string, client *http.Client) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{name: name, http: client, circuit: cb}
}

// GetJSON decodes a 2xx body into out. found is false when the upstream answered non-2xx.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) (bool, error) {
	body, found, err := c.get(ctx, url, header)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("%s: decode: %w", c.name, err)
	}
	return true, nil
}

// GetText returns a 2xx body as a string. found is false when the upstream answered non-2xx.
func (c *Client) GetText(ctx context.Context, url string, header http.Header) (string, bool, error) {
	body, found, err := c.get(ctx, url, header)
	if err != nil || !found {
		return "", false, err
	}
	return string(body), true, nil
}

type result struct {
	status int
	body   []byte
}

func (c *Client) get(ctx context.Context, url string, header http.Header) ([]byte, bool, error) {
	if c.http == nil {
		return nil, false, errNoHTTPClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	out, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
			return result{status: resp.StatusCode}, nil
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return nil, err
		}
		return result{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		if errors.Is(err, errServerError) {
			return nil, false, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, false, fmt.Errorf("%s: %w: %v", c.name, errCircuitOpen, err)
		}
		return nil, false, fmt.Errorf("%s: %w", c.name, err)
	}

	res, ok := out.(result)
	if !ok {
		return nil, false, fmt.Errorf("%s: unexpected result type from circuit breaker", c.name)
	}
	if res.status < 200 || res.status >= 300 {
		return nil, false, nil
	}
	return res.body, true, nil
}
