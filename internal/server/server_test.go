package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flametower/pkg/cache"
	"github.com/matzehuels/flametower/pkg/catalog"
	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/observability"
	"github.com/matzehuels/flametower/pkg/pipeline"
)

func newTestServer(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()
	cat := catalog.New(
		catalog.WithSeedFiles(0),
		catalog.WithFiles(
			catalog.File{ID: "f1", Name: "order-service.jfr", Type: "jfr", Size: 2048, Status: catalog.StatusDone},
			catalog.File{ID: "f2", Name: "gateway.jfr", Type: "jfr", Size: 1024, Status: catalog.StatusProcessing},
		),
	)
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, logger, observability.NoopPipelineHooks{})
	srv := httptest.NewServer(New(Config{}, cat, runner, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func errorCode(t *testing.T, resp *http.Response) errors.Code {
	t.Helper()
	var body errorBody
	decode(t, resp, &body)
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := get(t, srv, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestRequestIDKept(t *testing.T) {
	srv := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(middleware.RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestListFiles(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := get(t, srv, "/api/files?sort=size&order=desc")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var page catalog.Page
	decode(t, resp, &page)
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("page = %+v, want 2 items", page)
	}
	if page.Items[0].ID != "f1" {
		t.Errorf("Items[0].ID = %q, want f1 (largest first)", page.Items[0].ID)
	}

	resp = get(t, srv, "/api/files?search=GATE")
	decode(t, resp, &page)
	if page.Total != 1 || page.Items[0].ID != "f2" {
		t.Errorf("search page = %+v, want f2 only", page)
	}
}

func TestListFilesPagePastEnd(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := get(t, srv, "/api/files?page=9223372036854775807&pageSize=10")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var page catalog.Page
	decode(t, resp, &page)
	if page.Total != 2 || len(page.Items) != 0 {
		t.Errorf("page = %+v, want no items of 2", page)
	}
}

func TestListFilesErrors(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		query string
		code  errors.Code
	}{
		{"pageSize=7", errors.ErrCodeInvalidQuery},
		{"page=x", errors.ErrCodeInvalidQuery},
		{"order=sideways", errors.ErrCodeInvalidQuery},
		{"sort=color", errors.ErrCodeInvalidQuery},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := get(t, srv, "/api/files?"+tt.query)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if got := errorCode(t, resp); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestGetAndDeleteFile(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := get(t, srv, "/api/files/f1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", resp.StatusCode)
	}
	var f catalog.File
	decode(t, resp, &f)
	if f.Name != "order-service.jfr" {
		t.Errorf("Name = %q", f.Name)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/files/f1", nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", del.StatusCode)
	}

	resp = get(t, srv, "/api/files/f1")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", resp.StatusCode)
	}
	if got := errorCode(t, resp); got != errors.ErrCodeFileNotFound {
		t.Errorf("code = %s, want %s", got, errors.ErrCodeFileNotFound)
	}
}

func TestFileNotReady(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{"/dimensions", "/tasks", "/flamegraph", "/flamegraph.svg"} {
		resp := get(t, srv, "/api/files/f2"+path)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("%s status = %d, want 409", path, resp.StatusCode)
		}
	}
}

func TestDimensionsAndTasks(t *testing.T) {
	srv := newTestServer(t, nil)

	var dims []catalog.Dimension
	decode(t, get(t, srv, "/api/files/f1/dimensions"), &dims)
	if len(dims) != len(catalog.DefaultDimensions) {
		t.Errorf("got %d dimensions, want %d", len(dims), len(catalog.DefaultDimensions))
	}

	var tasks []string
	decode(t, get(t, srv, "/api/files/f1/tasks"), &tasks)
	if len(tasks) < 3 {
		t.Errorf("tasks = %v, want at least 3", tasks)
	}
}

func TestFlameGraph(t *testing.T) {
	srv := newTestServer(t, nil)

	var fg catalog.FlameGraph
	decode(t, get(t, srv, "/api/files/f1/flamegraph?dimension=alloc"), &fg)
	if fg.Tree == nil || fg.Tree.Name != "root" {
		t.Fatalf("Tree = %+v, want root", fg.Tree)
	}
	if fg.Unit != "byte" {
		t.Errorf("Unit = %q, want byte", fg.Unit)
	}
	var sum int64
	for _, v := range fg.ThreadSplit {
		sum += v
	}
	if sum != fg.Total {
		t.Errorf("thread split sums to %d, want total %d", sum, fg.Total)
	}

	tests := []struct {
		query string
		code  errors.Code
	}{
		{"dimension=heat", errors.ErrCodeInvalidDimension},
		{"include=maybe", errors.ErrCodeInvalidQuery},
		{"tasks=no-such-task", errors.ErrCodeInvalidQuery},
	}
	for _, tt := range tests {
		resp := get(t, srv, "/api/files/f1/flamegraph?"+tt.query)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.query, resp.StatusCode)
		}
		if got := errorCode(t, resp); got != tt.code {
			t.Errorf("%s: code = %s, want %s", tt.query, got, tt.code)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, c)
	path := "/api/files/f1/flamegraph.svg?width=600&search=handler"

	resp := get(t, srv, path)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := resp.Header.Get(cacheHeader); got != "MISS" {
		t.Errorf("first %s = %q, want MISS", cacheHeader, got)
	}
	body, _ := io.ReadAll(resp.Body)
	svg := string(body)
	if !strings.Contains(svg, `viewBox="0 0 600.0`) {
		t.Errorf("svg does not use requested width: %.200s", svg)
	}
	if !strings.Contains(svg, "zoom=0") {
		t.Error("interactive svg has no zoom links")
	}

	resp = get(t, srv, path)
	if got := resp.Header.Get(cacheHeader); got != "HIT" {
		t.Errorf("second %s = %q, want HIT", cacheHeader, got)
	}
}

func TestRenderFormats(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		format string
		ctype  string
		want   string
	}{
		{"json", "application/json", `"frames"`},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph G {"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := get(t, srv, "/api/files/f1/flamegraph."+tt.format)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.ctype {
				t.Errorf("Content-Type = %q, want %q", ct, tt.ctype)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.want) {
				t.Errorf("body does not contain %q", tt.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		path string
		code errors.Code
	}{
		{"/api/files/f1/flamegraph.gif", errors.ErrCodeInvalidFormat},
		{"/api/files/f1/flamegraph.svg?width=wide", errors.ErrCodeInvalidQuery},
		{"/api/files/f1/flamegraph.svg?width=-5", errors.ErrCodeInvalidWidth},
		{"/api/files/f1/flamegraph.svg?zoom=9/9/9", errors.ErrCodeNodeNotFound},
		{"/api/files/nope/flamegraph.svg", errors.ErrCodeFileNotFound},
		{"/api/nothing", errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv, tt.path)
			if got := errorCode(t, resp); got != tt.code {
				t.Errorf("code = %s, want %s (status %d)", got, tt.code, resp.StatusCode)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/files", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	routes []string
	codes  []int
}

func (h *recordingHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.codes = append(h.codes, status)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t, nil)
	get(t, srv, "/api/files/f1")
	get(t, srv, "/api/files/missing")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 2 {
		t.Fatalf("got %d responses, want 2", len(hooks.routes))
	}
	for i, route := range hooks.routes {
		if !strings.HasPrefix(route, "/api/files/{id}") {
			t.Errorf("routes[%d] = %q, want pattern /api/files/{id}", i, route)
		}
	}
	if hooks.codes[0] != http.StatusOK || hooks.codes[1] != http.StatusNotFound {
		t.Errorf("codes = %v, want [200 404]", hooks.codes)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeInvalidWidth, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotReady, "x"), http.StatusConflict},
		{errors.New(errors.ErrCodeRender, "x"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
