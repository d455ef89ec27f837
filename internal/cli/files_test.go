package cli

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flametower/internal/server"
	"github.com/matzehuels/flametower/pkg/catalog"
	"github.com/matzehuels/flametower/pkg/client"
	"github.com/matzehuels/flametower/pkg/pipeline"
)

func newFilesServer(t *testing.T, opts ...catalog.Option) string {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, logger, nil)
	srv := httptest.NewServer(server.New(server.Config{}, catalog.New(opts...), runner, logger).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestAPIClientDefault(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Server.Addr = "127.0.0.1:9999"
	cl, err := c.apiClient()
	if err != nil {
		t.Fatal(err)
	}
	if got := cl.BaseURL(); got != "http://127.0.0.1:9999" {
		t.Errorf("BaseURL() = %q, want config address", got)
	}

	c.serverURL = "https://flame.example.com/"
	cl, err = c.apiClient()
	if err != nil {
		t.Fatal(err)
	}
	if got := cl.BaseURL(); got != "https://flame.example.com" {
		t.Errorf("BaseURL() = %q, want --server value", got)
	}
}

func TestFetchAllFiles(t *testing.T) {
	url := newFilesServer(t, catalog.WithSeedFiles(60))
	cl, err := client.New(url)
	if err != nil {
		t.Fatal(err)
	}
	files, err := fetchAllFiles(context.Background(), cl, "")
	if err != nil {
		t.Fatalf("fetchAllFiles() error: %v", err)
	}
	if len(files) != 60 {
		t.Errorf("fetchAllFiles() returned %d files, want 60", len(files))
	}
}

func TestFilesRenderCommand(t *testing.T) {
	c := newTestCLI(t)
	c.serverURL = newFilesServer(t,
		catalog.WithSeedFiles(0),
		catalog.WithFiles(catalog.File{ID: "f1", Name: "api.jfr", Status: catalog.StatusDone}),
	)
	out := filepath.Join(t.TempDir(), "f1.json")

	cmd := c.filesRenderCommand()
	cmd.SetArgs([]string{"f1", "-f", "json", "-o", out})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("files render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"frames"`) {
		t.Errorf("rendered JSON = %.80s", data)
	}

	cmd = c.filesRenderCommand()
	cmd.SetArgs([]string{"f1", "-f", "gif"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("files render with an invalid format should fail")
	}
}

func TestFlameFlagsRequest(t *testing.T) {
	f := flameFlags{dimension: "alloc", tasks: []string{"main"}, exclude: true}
	req := f.request("f1")
	if req.FileID != "f1" || req.Dimension != "alloc" || req.Include || len(req.Tasks) != 1 {
		t.Errorf("request() = %+v", req)
	}
	if !(flameFlags{}).request("f1").Include {
		t.Error("request() should include tasks by default")
	}
}

func TestFileTable(t *testing.T) {
	files := testFiles()
	out := fileTable(files, files[2].CreatedAt)
	for _, want := range []string{"ID", "api.jfr", "1.0 kB", "1 hour ago", "done"} {
		if !strings.Contains(out, want) {
			t.Errorf("fileTable() missing %q:\n%s", want, out)
		}
	}
}

func TestPageFooter(t *testing.T) {
	tests := []struct {
		page catalog.Page
		want string
	}{
		{catalog.Page{Page: 1, PageSize: 10, Total: 25}, "page 1 of 3 · 25 files"},
		{catalog.Page{Page: 1, PageSize: 10, Total: 0}, "page 1 of 1 · 0 files"},
		{catalog.Page{Page: 2, PageSize: 20, Total: 40}, "page 2 of 2 · 40 files"},
	}
	for _, tt := range tests {
		if got := pageFooter(tt.page); !strings.Contains(got, tt.want) {
			t.Errorf("pageFooter(%+v) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestFlameDocument(t *testing.T) {
	fg := &catalog.FlameGraph{Unit: "byte", Total: 7, ThreadSplit: map[string]int64{"main": 7}}
	doc := flameDocument(fg)
	if doc.Unit != "byte" || doc.Total != 7 || doc.ThreadSplit["main"] != 7 {
		t.Errorf("flameDocument() = %+v", doc)
	}
}
