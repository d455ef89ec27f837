package catalog

import (
	"time"

	"github.com/matzehuels/flametower/pkg/flame"
)

// Status is the processing state of an uploaded profile.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Sort keys accepted by [Query].
const (
	SortName       = "name"
	SortSize       = "size"
	SortCreateTime = "createTime"
)

// DefaultPageSize is used when a query leaves PageSize unset.
const DefaultPageSize = 10

// File is one profile in the catalog.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createTime"`
	Status    Status    `json:"status"`
}

// Query selects one page of the file list.
type Query struct {
	Page     int    // 1-based; 0 means 1
	PageSize int    // 10, 20 or 50; 0 means DefaultPageSize
	Search   string // case-insensitive name substring
	Sort     string // SortName, SortSize or SortCreateTime; empty keeps creation order
	Desc     bool
}

// Page is a page of files plus the number of files matching the query.
type Page struct {
	Items    []File `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// Dimension is a measurable quantity recorded in a profile.
type Dimension struct {
	Key     string   `json:"key"`
	Unit    string   `json:"unit"`
	Filters []string `json:"filters"`
}

// Request asks for the flame tree of one dimension of a file.
type Request struct {
	FileID    string
	Dimension string
	Include   bool
	Tasks     []string
}

// FlameGraph is the tree for a request together with the weight of every
// task of the file, selected or not.
type FlameGraph struct {
	Tree        *flame.Node      `json:"tree"`
	ThreadSplit map[string]int64 `json:"threadSplit"`
	Total       int64            `json:"total"`
	Unit        string           `json:"unit"`
}
