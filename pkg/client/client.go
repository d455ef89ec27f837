// Package client is a Go client for the flametower HTTP API served by
// `flametower serve`.
//
// Transient failures (connection errors and 5xx responses) are retried with
// backoff. API errors are returned as [errors.Error] values carrying the
// server's error code, so callers can branch with errors.Is and
// errors.IsNotFound exactly as they would against a local catalog.
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/flametower/pkg/buildinfo"
	"github.com/matzehuels/flametower/pkg/catalog"
	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/httputil"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultDelay    = 200 * time.Millisecond
)

// Client talks to one flametower server.
type Client struct {
	base     *url.URL
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// New returns a client for the server at baseURL, e.g. "http://127.0.0.1:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid server URL %q", baseURL)
	}
	c := &Client{
		base:     u,
		http:     &http.Client{Timeout: defaultTimeout},
		headers:  map[string]string{"User-Agent": buildinfo.UserAgent()},
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server URL the client was created with.
func (c *Client) BaseURL() string { return c.base.String() }

// Health is the server's health report.
type Health struct {
	Status string `json:"status"`
	buildinfo.Info
}

// Health checks that the server is up and reports its version.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.getJSON(ctx, "/healthz", nil, &h)
	return h, err
}

// List returns one page of the file catalog.
func (c *Client) List(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Desc {
		v.Set("order", "desc")
	}
	var page catalog.Page
	err := c.getJSON(ctx, "/api/files", v, &page)
	return page, err
}

// Get returns the metadata of one file.
func (c *Client) Get(ctx context.Context, id string) (catalog.File, error) {
	var f catalog.File
	err := c.getJSON(ctx, filePath(id, ""), nil, &f)
	return f, err
}

// Delete removes a file from the catalog.
func (c *Client) Delete(ctx context.Context, id string) error {
	body, _, err := c.do(ctx, http.MethodDelete, filePath(id, ""), nil)
	if err != nil {
		return err
	}
	return body.Close()
}

// Dimensions lists the dimensions of a file.
func (c *Client) Dimensions(ctx context.Context, id string) ([]catalog.Dimension, error) {
	var dims []catalog.Dimension
	err := c.getJSON(ctx, filePath(id, "/dimensions"), nil, &dims)
	return dims, err
}

// Tasks lists the task names recorded in a file.
func (c *Client) Tasks(ctx context.Context, id string) ([]string, error) {
	var tasks []string
	err := c.getJSON(ctx, filePath(id, "/tasks"), nil, &tasks)
	return tasks, err
}

// FlameGraph fetches the flame tree of one dimension of a file.
func (c *Client) FlameGraph(ctx context.Context, req catalog.Request) (*catalog.FlameGraph, error) {
	var fg catalog.FlameGraph
	if err := c.getJSON(ctx, filePath(req.FileID, "/flamegraph"), requestValues(req), &fg); err != nil {
		return nil, err
	}
	return &fg, nil
}

// Rendered is one artifact rendered by the server.
type Rendered struct {
	Data        []byte
	ContentType string
	Cached      bool
}

// Render asks the server to render a file's flame graph in format. params
// carries render parameters such as width, search, zoom or style.
func (c *Client) Render(ctx context.Context, req catalog.Request, format string, params url.Values) (Rendered, error) {
	v := requestValues(req)
	for k, vals := range params {
		v[k] = vals
	}
	body, header, err := c.do(ctx, http.MethodGet, filePath(req.FileID, "/flamegraph."+format), v)
	if err != nil {
		return Rendered{}, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return Rendered{}, errors.Wrap(errors.ErrCodeNetwork, err, "read %s artifact", format)
	}
	return Rendered{
		Data:        data,
		ContentType: header.Get("Content-Type"),
		Cached:      header.Get("X-Cache") == "HIT",
	}, nil
}

func filePath(id, suffix string) string {
	return "/api/files/" + url.PathEscape(id) + suffix
}

func requestValues(req catalog.Request) url.Values {
	v := url.Values{}
	if req.Dimension != "" {
		v.Set("dimension", req.Dimension)
	}
	if !req.Include {
		v.Set("include", "false")
	}
	if len(req.Tasks) > 0 {
		v.Set("tasks", strings.Join(req.Tasks, ","))
	}
	return v
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	body, _, err := c.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode response of %s", path)
	}
	return nil
}

// do sends one request with retries and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values) (io.ReadCloser, http.Header, error) {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	var resp *http.Response
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		r, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path))
		}
		if err := checkStatus(r); err != nil {
			r.Body.Close()
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, resp.Header, nil
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// checkStatus turns a non-2xx response into a coded error. 5xx responses
// other than 501 are retryable.
func checkStatus(r *http.Response) error {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return nil
	}

	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if json.Unmarshal(data, &body) != nil || body.Error.Code == "" {
		body.Error.Code = codeFor(r.StatusCode)
		body.Error.Message = strings.TrimSpace(string(data))
		if body.Error.Message == "" {
			body.Error.Message = http.StatusText(r.StatusCode)
		}
	}
	err := errors.New(body.Error.Code, "%s", body.Error.Message)

	if r.StatusCode >= 500 && r.StatusCode != http.StatusNotImplemented {
		return httputil.Retryable(err)
	}
	return err
}

func codeFor(status int) errors.Code {
	switch status {
	case http.StatusNotFound:
		return errors.ErrCodeNotFound
	case http.StatusBadRequest:
		return errors.ErrCodeInvalidInput
	case http.StatusConflict:
		return errors.ErrCodeFileNotReady
	case http.StatusMethodNotAllowed:
		return errors.ErrCodeMethodNotAllowed
	case http.StatusNotImplemented:
		return errors.ErrCodeUnsupported
	case http.StatusGatewayTimeout:
		return errors.ErrCodeTimeout
	}
	if status >= 500 {
		return errors.ErrCodeInternal
	}
	return errors.ErrCodeNetwork
}
