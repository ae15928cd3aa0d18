/* Copyright (C) 2024, 2025 Driftnote contributors
 *
 * This file is part of Driftnote.
 *
 * Driftnote is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Driftnote is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with Driftnote.  If not, see <https://www.gnu.org/licenses/>.
 */

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/driftnote/driftnote/pkg/cli/config"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrContentTypeMismatch is returned when the remote responds with a
// payload that is not JSON
var ErrContentTypeMismatch = errors.New("content type mismatch")

// HTTPError represents an HTTP error response from the remote
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found error
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100

	contentTypeJSON = "application/json"
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

// HTTP is a remote data service reached over a PostgREST-style HTTP API
type HTTP struct {
	creds      config.Credentials
	tokens     TokenSource
	version    string
	HTTPClient *http.Client
}

// NewHTTP returns a new HTTP remote
func NewHTTP(creds config.Credentials, tokens TokenSource, version string) *HTTP {
	return &HTTP{
		creds:      creds,
		tokens:     tokens,
		version:    version,
		HTTPClient: NewRateLimitedHTTPClient(),
	}
}

// Configured returns true if the credentials are well-formed
func (h *HTTP) Configured() bool {
	return h.creds.Configured()
}

func (h *HTTP) endpoint(path string) string {
	return strings.TrimRight(h.creds.URL, "/") + path
}

func (h *HTTP) token() string {
	if h.tokens == nil {
		return ""
	}

	return h.tokens.Token()
}

func (h *HTTP) newReq(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling payload")
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.endpoint(path), r)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("apikey", h.creds.Key)
	req.Header.Set("Client-Version", h.version)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if tok := h.token(); tok != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tok))
	}

	return req, nil
}

// checkRespErr turns an error status into an *HTTPError
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "remote responded with %d but client could not read the response body", res.StatusCode)
	}

	httpErr := &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(string(body), "\n"),
	}
	if res.StatusCode == http.StatusUnauthorized {
		return errors.Wrap(ErrUnauthenticated, httpErr.Error())
	}

	return httpErr
}

// do sends the request and decodes the JSON response into dest, if given
func (h *HTTP) do(req *http.Request, dest interface{}) error {
	log.Debug("HTTP %s %s\n", req.Method, req.URL.Path)

	res, err := h.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}
	defer res.Body.Close()

	log.Debug("HTTP %d %s\n", res.StatusCode, req.URL.Path)

	if err := checkRespErr(res); err != nil {
		return errors.Wrap(err, "remote responded with an error")
	}

	if dest == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	if got := res.Header.Get("Content-Type"); !strings.HasPrefix(got, contentTypeJSON) {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Is the remote url correct?", got, contentTypeJSON)
	}

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decoding the response")
	}

	return nil
}

// Select returns the rows of the collection that match the filter
func (h *HTTP) Select(ctx context.Context, collection string, filter Filter) ([]Row, error) {
	v := url.Values{}
	for key, val := range filter {
		v.Set(key, val)
	}

	path := fmt.Sprintf("/rest/v1/%s", collection)
	if len(v) > 0 {
		path = fmt.Sprintf("%s?%s", path, v.Encode())
	}

	req, err := h.newReq(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var ret []Row
	if err := h.do(req, &ret); err != nil {
		return nil, errors.Wrapf(err, "selecting %s", collection)
	}

	return ret, nil
}

// Upsert inserts or updates the row keyed by its id and returns the stored row
func (h *HTTP) Upsert(ctx context.Context, collection string, row Row) (Row, error) {
	req, err := h.newReq(ctx, http.MethodPost, fmt.Sprintf("/rest/v1/%s", collection), row)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")

	var ret Row
	if err := h.do(req, &ret); err != nil {
		return nil, errors.Wrapf(err, "upserting into %s", collection)
	}

	return ret, nil
}

// Delete deletes the row with the given id owned by the user
func (h *HTTP) Delete(ctx context.Context, collection, id, userID string) error {
	v := url.Values{}
	v.Set("user_id", userID)

	path := fmt.Sprintf("/rest/v1/%s/%s?%s", collection, url.PathEscape(id), v.Encode())
	req, err := h.newReq(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	if err := h.do(req, nil); err != nil {
		return errors.Wrapf(err, "deleting %s from %s", id, collection)
	}

	return nil
}

// Invoke calls a remote procedure and returns the record it produced
func (h *HTTP) Invoke(ctx context.Context, procedure string, params Row) (Row, error) {
	req, err := h.newReq(ctx, http.MethodPost, fmt.Sprintf("/rest/v1/rpc/%s", procedure), params)
	if err != nil {
		return nil, err
	}

	var ret Row
	if err := h.do(req, &ret); err != nil {
		return nil, errors.Wrapf(err, "invoking %s", procedure)
	}

	return ret, nil
}

// Ping checks that the remote is reachable
func (h *HTTP) Ping(ctx context.Context) error {
	req, err := h.newReq(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}

	return h.do(req, nil)
}
