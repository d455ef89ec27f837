package cache

// ScopedKeyer wraps a Keyer with a prefix so several namespaces can share
// one backend. The server scopes rendered graphs by catalog file:
//
//	keys := NewScopedKeyer(NewDefaultKeyer(), "file:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TreeKey generates a prefixed tree key.
func (k *ScopedKeyer) TreeKey(contentHash string) string {
	return k.prefix + k.inner.TreeKey(contentHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(treeHash, opts)
}
