// Bazzite Sunshine Manager
// Copyright (c) 2026 The Bazzite Sunshine Manager Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Bazzite Sunshine Manager.
//
// Bazzite Sunshine Manager is free software: you can redistribute it and/or
// modify it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Bazzite Sunshine Manager is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Bazzite Sunshine Manager.  If not, see <http://www.gnu.org/licenses/>.

// Package httpclient provides the HTTP client shared by the art providers:
// pooled transport, per-request timeouts, host-scoped bearer auth and
// bounded body reads.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/config"
)

const (
	// DefaultTimeoutSeconds is the default timeout for HTTP requests
	DefaultTimeoutSeconds = 30
	// MaxBodyBytes caps how much of a response body Fetch will read.
	MaxBodyBytes = 32 << 20
)

// ErrBodyTooLarge is returned by Fetch when a body exceeds its limit.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// StatusCode returns the HTTP status carried by a StatusError in err's
// chain, or 0 when there is none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// BearerTransport adds "Authorization: Bearer <Token>" to requests whose
// host is Host. Requests to any other host are sent without credentials.
type BearerTransport struct {
	Base  http.RoundTripper
	Token string
	Host  string
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = DefaultTransport
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", config.AppName+"/"+config.AppVersion)
	if t.Token != "" && strings.EqualFold(req.URL.Hostname(), t.Host) {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP round trip: %w", err)
	}
	return resp, nil
}

// DefaultTransport provides a configured transport with connection pooling and reasonable timeouts
var DefaultTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ResponseHeaderTimeout: 30 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	// Connection pooling settings
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// Client is an http.Client whose every request is bounded by Timeout.
type Client struct {
	*http.Client
}

// NewClient creates a client with the given per-request timeout. A zero
// timeout uses DefaultTimeoutSeconds.
func NewClient(timeout time.Duration) *Client {
	return NewBearerClient(timeout, "", "")
}

// NewBearerClient creates a client that authenticates requests to host
// with token.
func NewBearerClient(timeout time.Duration, token, host string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds * time.Second
	}
	return &Client{
		Client: &http.Client{
			Transport: &BearerTransport{
				Base:  DefaultTransport,
				Token: token,
				Host:  host,
			},
			Timeout: timeout,
		},
	}
}

// WithTransport returns a copy of c sending requests through base instead
// of DefaultTransport. Tests use it to target httptest servers.
func (c *Client) WithTransport(base http.RoundTripper) *Client {
	hc := *c.Client
	if bt, ok := hc.Transport.(*BearerTransport); ok {
		cp := *bt
		cp.Base = base
		hc.Transport = &cp
	} else {
		hc.Transport = base
	}
	return &Client{Client: &hc}
}

// Get performs a GET request and returns the response
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing GET request: %w", err)
	}

	return resp, nil
}

// Fetch GETs url and returns the body. Non-2xx responses return a
// *StatusError; bodies larger than limit return ErrBodyTooLarge. A limit of
// zero or less means MaxBodyBytes.
func (c *Client) Fetch(ctx context.Context, url string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = MaxBodyBytes
	}

	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("%w: %d bytes from %s", ErrBodyTooLarge, resp.ContentLength, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes from %s", ErrBodyTooLarge, limit, url)
	}
	if resp.ContentLength > 0 && int64(len(body)) != resp.ContentLength {
		return nil, fmt.Errorf("download incomplete: expected %d bytes, got %d", resp.ContentLength, len(body))
	}
	return body, nil
}
