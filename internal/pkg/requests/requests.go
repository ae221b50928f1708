package requests

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// Doer is the part of fasthttp.Client used here.
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// Client fetches class pages. It makes exactly one attempt per call.
type Client struct {
	cli     Doer
	timeout time.Duration
}

func NewClient(timeout time.Duration) *Client {
	return NewClientWith(&fasthttp.Client{
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		// drupal settings blobs make these pages large
		ReadBufferSize: 16 * 1024,
	}, timeout)
}

func NewClientWith(cli Doer, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Client{cli: cli, timeout: timeout}
}

func (c *Client) Get(url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.SetUserAgent(userAgent)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.cli.DoTimeout(req, resp, c.timeout); err != nil {
		zap.L().Warn("client get failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: expected %d but got %d", ErrUnexpectedStatus, fasthttp.StatusOK, resp.StatusCode())
	}

	contentEncoding := resp.Header.Peek("Content-Encoding")
	if bytes.EqualFold(contentEncoding, []byte("gzip")) {
		zap.L().Debug("unzipping response", zap.String("url", url))
		body, err := resp.BodyGunzip()
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", url, err)
		}
		return body, nil
	}
	// resp is released on return, so the body must be copied out
	return append([]byte(nil), resp.Body()...), nil
}
