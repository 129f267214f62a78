// Copyright (C) 2020 The Shelf Authors.
//
// This file is part of Shelf.
//
// Shelf is free software: you can redistribute it and/or modify it under the
// terms of the GNU Affero General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.
//
// Shelf is distributed in the hope that it will be useful, but WITHOUT ANY
// WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License for
// more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with Shelf.  If not, see <https://www.gnu.org/licenses/>.

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/defsub/shelf/config"
	"github.com/defsub/shelf/lib/log"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

const (
	DirectiveMaxAge       = "max-age"
	DirectiveOnlyIfCached = "only-if-cached"
)

var (
	HeaderUserAgent    = http.CanonicalHeaderKey("User-Agent")
	HeaderCacheControl = http.CanonicalHeaderKey("Cache-Control")
	ErrCacheMiss       = errors.New("cache miss")
)

// StatusError is returned for any non-200 response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error %d: %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

type Client struct {
	client     *http.Client
	useCache   bool
	userAgent  string
	cache      httpcache.Cache
	maxAge     time.Duration
	onlyCached bool
	limiter    *RateLimiter
	backoff    time.Duration
}

// NewClient creates a client that throttles uncached requests through
// limiter. A nil limiter disables throttling.
func NewClient(config *config.ClientConfig, limiter *RateLimiter) *Client {
	c := Client{limiter: limiter, backoff: backoff}
	c.userAgent = config.UserAgent
	c.useCache = config.UseCache
	if c.useCache {
		c.maxAge = config.MaxAge
		c.cache = diskcache.New(config.CacheDir)
		transport := httpcache.NewTransport(c.cache)
		c.client = transport.Client()
		log.Printf("using cache dir %s\n", config.CacheDir)
	} else {
		c.client = &http.Client{}
	}
	c.client.Timeout = config.Timeout
	return &c
}

// UseOnlyIfCached restricts requests to cached responses, returning
// ErrCacheMiss for anything else.
func (c *Client) UseOnlyIfCached(enabled bool) {
	c.onlyCached = enabled
}

func (c *Client) doGet(ctx context.Context, headers map[string]string, urlStr string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set(HeaderUserAgent, c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.onlyCached && !c.useCache {
		return nil, ErrCacheMiss
	}

	throttle := c.limiter != nil
	if c.useCache {
		maxAge := int(c.maxAge.Seconds())
		if c.onlyCached {
			req.Header.Set(HeaderCacheControl, DirectiveOnlyIfCached)
		} else if maxAge > 0 {
			req.Header.Set(HeaderCacheControl, fmt.Sprintf("%s=%d", DirectiveMaxAge, maxAge))
		}
		// peek into the cache, if there's something there don't slow down
		cachedResp, err := httpcache.CachedResponse(c.cache, req)
		if err != nil {
			log.Printf("cache error %s\n", err)
		}
		if cachedResp != nil {
			cachedResp.Body.Close()
			throttle = false
		}
	}
	if throttle {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	log.Printf("get %s\n", req.URL.String())
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if c.onlyCached && resp.StatusCode == http.StatusGatewayTimeout {
		// the cache returns 504 for cache only miss
		resp.Body.Close()
		return nil, ErrCacheMiss
	}

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp, &StatusError{StatusCode: resp.StatusCode, URL: urlStr}
	}

	return resp, nil
}

const (
	maxAttempts = 5
	backoff     = time.Second * 3
)

func retryable(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func (c *Client) doGetWithRetry(ctx context.Context, headers map[string]string, url string) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err = c.doGet(ctx, headers, url)
		if err == nil || resp == nil {
			// success
			// or error with no response
			break
		}
		if !retryable(resp.StatusCode) {
			break
		}
		// server error, try again with backoff
		if attempt+1 < maxAttempts {
			log.Printf("got err %d: retry backoff attempt %d of %d\n",
				resp.StatusCode,
				attempt+1,
				maxAttempts)
			if serr := SleepWithContext(ctx, c.backoff); serr != nil {
				return nil, serr
			}
		}
	}

	return resp, err
}

func (c *Client) GetWith(ctx context.Context, headers map[string]string, url string) (http.Header, []byte, error) {
	resp, err := c.doGetWithRetry(ctx, headers, url)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.Header, body, err
}

func (c *Client) Get(ctx context.Context, url string) (http.Header, []byte, error) {
	return c.GetWith(ctx, nil, url)
}

func (c *Client) GetJson(ctx context.Context, url string, result interface{}) error {
	return c.GetJsonWith(ctx, nil, url, result)
}

func (c *Client) GetJsonWith(ctx context.Context, headers map[string]string, url string, result interface{}) error {
	// read fully so the cache transport sees EOF and stores the body
	_, body, err := c.GetWith(ctx, headers, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}
