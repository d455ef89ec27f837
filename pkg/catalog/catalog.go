package catalog

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/units"
)

// Catalog is the in-memory file catalog.
type Catalog struct {
	mu    sync.RWMutex
	files []File // creation order
	dims  []Dimension
}

// Option configures a [Catalog].
type Option func(*config)

type config struct {
	seed  int
	now   time.Time
	files []File
}

// WithSeedFiles seeds n generated files. The default is 25.
func WithSeedFiles(n int) Option { return func(c *config) { c.seed = n } }

// WithFiles adds files as given, after the seeded ones. Files without an ID
// get a random one.
func WithFiles(files ...File) Option {
	return func(c *config) { c.files = append(c.files, files...) }
}

// WithClock fixes the time seeded files are dated from.
func WithClock(now time.Time) Option { return func(c *config) { c.now = now } }

// DefaultDimensions are the dimensions every profile carries.
var DefaultDimensions = []Dimension{
	{Key: "cpu-time", Unit: units.Nanoseconds, Filters: []string{"task", "state"}},
	{Key: "alloc", Unit: units.Bytes, Filters: []string{"task", "class"}},
	{Key: "wall-clock", Unit: units.Nanoseconds, Filters: []string{"task"}},
	{Key: "lock", Unit: units.Samples, Filters: []string{"task", "monitor"}},
}

// New creates a catalog.
func New(opts ...Option) *Catalog {
	cfg := config{seed: 25, now: time.Now()}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Catalog{dims: slices.Clone(DefaultDimensions)}
	c.files = seedFiles(cfg.seed, cfg.now)
	for _, f := range cfg.files {
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		c.files = append(c.files, f)
	}
	return c
}

// seedFiles generates n files with IDs derived from their names. Most are
// done; every seventh is still processing and every eleventh failed.
func seedFiles(n int, now time.Time) []File {
	files := make([]File, 0, n)
	services := []string{"order-service", "gateway", "inventory", "billing", "search"}
	for i := range n {
		name := fmt.Sprintf("%s-%02d.jfr", services[i%len(services)], i+1)
		status := StatusDone
		switch {
		case i%11 == 10:
			status = StatusFailed
		case i%7 == 6:
			status = StatusProcessing
		}
		files = append(files, File{
			ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte("flametower:"+name)).String(),
			Name:      name,
			Type:      "jfr",
			Size:      int64(1+(i*37)%97) * 512 * 1024,
			CreatedAt: now.Add(-time.Duration(n-i) * time.Hour).Truncate(time.Second),
			Status:    status,
		})
	}
	return files
}

// List returns one page of files matching q.
func (c *Catalog) List(ctx context.Context, q Query) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 0 {
		return Page{}, errors.New(errors.ErrCodeInvalidQuery, "page must be positive, got %d", q.Page)
	}
	if err := errors.ValidatePageSize(q.PageSize); err != nil {
		return Page{}, err
	}
	less, err := sorter(q.Sort)
	if err != nil {
		return Page{}, err
	}

	c.mu.RLock()
	var matched []File
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, f := range c.files {
		if needle == "" || strings.Contains(strings.ToLower(f.Name), needle) {
			matched = append(matched, f)
		}
	}
	c.mu.RUnlock()

	if less != nil {
		slices.SortStableFunc(matched, func(a, b File) int {
			if q.Desc {
				return less(b, a)
			}
			return less(a, b)
		})
	}

	page := Page{Total: len(matched), Page: q.Page, PageSize: q.PageSize, Items: []File{}}
	if pages := (len(matched) + q.PageSize - 1) / q.PageSize; q.Page <= pages {
		start := (q.Page - 1) * q.PageSize
		end := min(start+q.PageSize, len(matched))
		page.Items = matched[start:end]
	}
	return page, nil
}

func sorter(key string) (func(a, b File) int, error) {
	switch key {
	case "":
		return nil, nil
	case SortName:
		return func(a, b File) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }, nil
	case SortSize:
		return func(a, b File) int { return cmp.Compare(a.Size, b.Size) }, nil
	case SortCreateTime:
		return func(a, b File) int { return a.CreatedAt.Compare(b.CreatedAt) }, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidQuery, "unknown sort key %q (want %s, %s or %s)", key, SortName, SortSize, SortCreateTime)
}

// Get returns the file with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.index(id); i >= 0 {
		return c.files[i], nil
	}
	return File{}, errors.New(errors.ErrCodeFileNotFound, "file %s not found", id)
}

// Delete removes the file with the given ID.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeFileNotFound, "file %s not found", id)
	}
	c.files = slices.Delete(c.files, i, i+1)
	return nil
}

// Dimensions lists the dimensions recorded in a file.
func (c *Catalog) Dimensions(ctx context.Context, fileID string) ([]Dimension, error) {
	if _, err := c.ready(ctx, fileID); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.dims), nil
}

// Tasks lists a file's tasks in display order.
func (c *Catalog) Tasks(ctx context.Context, fileID string) ([]string, error) {
	if _, err := c.ready(ctx, fileID); err != nil {
		return nil, err
	}
	return tasksFor(fileID), nil
}

// FlameGraph returns the merged tree of the selected tasks.
func (c *Catalog) FlameGraph(ctx context.Context, req Request) (*FlameGraph, error) {
	f, err := c.ready(ctx, req.FileID)
	if err != nil {
		return nil, err
	}
	dim, err := c.dimension(req.Dimension)
	if err != nil {
		return nil, err
	}

	all := tasksFor(f.ID)
	for _, t := range req.Tasks {
		if !slices.Contains(all, t) {
			return nil, errors.New(errors.ErrCodeInvalidQuery, "file %s has no task %q", f.ID, t)
		}
	}

	out := &FlameGraph{ThreadSplit: make(map[string]int64, len(all)), Unit: dim.Unit}
	var trees []*flame.Node
	for _, task := range all {
		tree := generateTree(f.ID, dim, task)
		out.ThreadSplit[task] = tree.Weight()
		if selected(task, req) {
			trees = append(trees, tree)
		}
	}
	out.Tree = flame.Merge(trees...)
	out.Total = out.Tree.Weight()
	return out, nil
}

func selected(task string, req Request) bool {
	if len(req.Tasks) == 0 {
		return true
	}
	return slices.Contains(req.Tasks, task) == req.Include
}

// ready returns the file if it exists and has finished processing.
func (c *Catalog) ready(ctx context.Context, id string) (File, error) {
	f, err := c.Get(ctx, id)
	if err != nil {
		return File{}, err
	}
	if f.Status != StatusDone {
		return File{}, errors.New(errors.ErrCodeFileNotReady, "file %s is %s", f.Name, f.Status)
	}
	return f, nil
}

func (c *Catalog) dimension(key string) (Dimension, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if key == "" && len(c.dims) > 0 {
		return c.dims[0], nil
	}
	for _, d := range c.dims {
		if d.Key == key {
			return d, nil
		}
	}
	return Dimension{}, errors.New(errors.ErrCodeInvalidDimension, "unknown dimension %q", key)
}

func (c *Catalog) index(id string) int {
	return slices.IndexFunc(c.files, func(f File) bool { return f.ID == id })
}
