package cache

// Keyer generates cache keys.
type Keyer interface {
	// TreeKey addresses a parsed tree by the hash of its source content.
	TreeKey(contentHash string) string
	// ArtifactKey addresses rendered output of a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every option that changes rendered output.
type ArtifactKeyOpts struct {
	Format      string   `json:"format"`
	Style       string   `json:"style,omitempty"`
	Width       float64  `json:"width"`
	Search      string   `json:"search,omitempty"`
	Zoom        string   `json:"zoom,omitempty"`
	Total       int64    `json:"total,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Palette     []string `json:"palette,omitempty"`
	Title       string   `json:"title,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	ZoomURL     string   `json:"zoom_url,omitempty"`
	MinPercent  float64  `json:"min_percent,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey returns "tree:<contentHash>".
func (DefaultKeyer) TreeKey(contentHash string) string {
	return "tree:" + contentHash
}

// ArtifactKey hashes the tree hash together with opts.
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
