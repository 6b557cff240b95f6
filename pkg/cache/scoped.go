package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving separate
// namespaces to callers that share one backend.
//
//	ci := NewScopedKeyer(NewDefaultKeyer(), "ci:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means the
// default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(fixtureHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(fixtureHash, opts)
}

// DiagramKey generates a prefixed diagram key.
func (k *ScopedKeyer) DiagramKey(layoutHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(layoutHash, opts)
}
