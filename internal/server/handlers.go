package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flametower/pkg/buildinfo"
	"github.com/matzehuels/flametower/pkg/cache"
	"github.com/matzehuels/flametower/pkg/catalog"
	"github.com/matzehuels/flametower/pkg/errors"
	flameio "github.com/matzehuels/flametower/pkg/io"
	"github.com/matzehuels/flametower/pkg/pipeline"
)

// cacheHeader reports whether a rendered artifact came from the cache.
const cacheHeader = "X-Cache"

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatGraphSVG: "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.Query{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	var err error
	if query.Page, err = intParam(q.Get("page")); err != nil {
		writeError(w, err)
		return
	}
	if query.PageSize, err = intParam(q.Get("pageSize")); err != nil {
		writeError(w, err)
		return
	}
	switch strings.ToLower(q.Get("order")) {
	case "", "asc", "ascend":
	case "desc", "descend":
		query.Desc = true
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidQuery, "order must be asc or desc, got %q", q.Get("order")))
		return
	}

	page, err := s.catalog.List(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("deleted file", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDimensions(w http.ResponseWriter, r *http.Request) {
	dims, err := s.catalog.Dimensions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dims)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.catalog.Tasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleFlameGraph(w http.ResponseWriter, r *http.Request) {
	req, err := flameRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	fg, err := s.catalog.FlameGraph(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fg)
}

// handleRender renders the flame graph of a file in one pipeline format.
// Artifacts are cached under a per-file key scope.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	req, err := flameRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := renderOptions(r, format)
	if err != nil {
		writeError(w, err)
		return
	}

	fg, err := s.catalog.FlameGraph(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	doc := &flameio.Document{Tree: fg.Tree, Unit: fg.Unit, Total: fg.Total, ThreadSplit: fg.ThreadSplit}

	runner := s.runner.WithKeyer(cache.NewScopedKeyer(s.runner.Keyer, "file:"+req.FileID+":"))
	opts.Logger = s.logger
	res, err := runner.ExecuteDocument(r.Context(), doc, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if res.CacheInfo.RenderHit {
		w.Header().Set(cacheHeader, "HIT")
	} else {
		w.Header().Set(cacheHeader, "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

// flameRequest reads the file ID, dimension and task selection of a request.
// include defaults to true; tasks is a comma-separated list.
func flameRequest(r *http.Request) (catalog.Request, error) {
	q := r.URL.Query()
	req := catalog.Request{
		FileID:    chi.URLParam(r, "id"),
		Dimension: q.Get("dimension"),
		Include:   true,
		Tasks:     splitList(q.Get("tasks")),
	}
	if v := q.Get("include"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return catalog.Request{}, errors.New(errors.ErrCodeInvalidQuery, "include must be a boolean, got %q", v)
		}
		req.Include = b
	}
	return req, nil
}

// renderOptions reads pipeline options from the query string. Zoom links of
// interactive SVGs point back at the same request with the zoom replaced.
func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:     []string{format},
		Search:      q.Get("search"),
		Zoom:        q.Get("zoom"),
		Unit:        q.Get("unit"),
		Style:       q.Get("style"),
		Title:       q.Get("title"),
		Interactive: true,
		ZoomURL:     r.URL.RequestURI(),
	}

	var err error
	if opts.Width, err = floatParam("width", q.Get("width")); err != nil {
		return opts, err
	}
	if opts.MinPercent, err = floatParam("minPercent", q.Get("minPercent")); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam("scale", q.Get("scale")); err != nil {
		return opts, err
	}
	if v := q.Get("total"); v != "" {
		if opts.Total, err = strconv.ParseInt(v, 10, 64); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidQuery, "total must be an integer, got %q", v)
		}
	}
	if v := q.Get("interactive"); v != "" {
		if opts.Interactive, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidQuery, "interactive must be a boolean, got %q", v)
		}
	}
	if !opts.Interactive {
		opts.ZoomURL = ""
	}
	return opts, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidQuery, "expected an integer, got %q", v)
	}
	return n, nil
}

func floatParam(name, v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidQuery, "%s must be a number, got %q", name, v)
	}
	return f, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
