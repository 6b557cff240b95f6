package layout

import "github.com/matzehuels/boxflow/pkg/errors"

func (e *Engine) assert(ok bool, format string, args ...any) {
	if !ok {
		errors.Fatal(errors.ErrCodeInvalidOperation, "assertion failed: "+format, args...)
	}
}

func (e *Engine) assertValid(key Key) {
	e.assert(!key.IsInvalid() && int(key) < e.records.Len(), "invalid key %s", key)
}

func (e *Engine) assertNotRoot(key Key) {
	e.assertValid(key)
	e.assert(key != RootKey, "key must not be the root")
}

func (e *Engine) assertNotEqual(a, b Key) {
	e.assert(a != b, "keys must not be equal (%s)", a)
}

// Create allocates a detached box.
func (e *Engine) Create(tag string, cfg Config) Key {
	i, rec := e.records.Allocate()
	key := Key(i)
	rec.key = linkOf(key)
	rec.Tag = tag
	rec.Config = cfg
	return key
}

// CreateIn allocates a box and appends it to parent.
func (e *Engine) CreateIn(parent Key, tag string, cfg Config) Key {
	key := e.Create(tag, cfg)
	e.Append(parent, key)
	return key
}

// GetOrCreate reuses existing when it refers to a live box, resetting its
// tag and configuration but keeping its links, and creates a box otherwise.
func (e *Engine) GetOrCreate(existing Key, tag string, cfg Config) Key {
	if existing.IsInvalid() || int(existing) >= e.records.Len() {
		return e.Create(tag, cfg)
	}
	rec := e.record(existing)
	rec.Tag = tag
	rec.Config = cfg
	return existing
}

// Record returns the box's record for in-place configuration.
// It panics with INVALID_OPERATION for keys the engine does not hold.
func (e *Engine) Record(key Key) *BoxRecord {
	e.assertValid(key)
	return e.record(key)
}

// Root returns the root record.
func (e *Engine) Root() *BoxRecord {
	return e.record(RootKey)
}

func (e *Engine) record(key Key) *BoxRecord {
	return e.records.At(int(key))
}

// Append is an alias for InsertAtEnd.
func (e *Engine) Append(parent, child Key) {
	e.InsertAtEnd(parent, child)
}

// InsertAtEnd makes child the last child of parent.
func (e *Engine) InsertAtEnd(parent, child Key) {
	e.assertNotRoot(child)
	e.assertValid(parent)
	e.assertNotEqual(parent, child)

	p, c := e.record(parent), e.record(child)
	e.assert(!c.parent.valid(), "%s is already inserted", child)

	if !p.firstChild.valid() {
		e.assert(!p.lastChild.valid(), "%s has a last child but no first child", parent)
		e.adopt(p, c)
		return
	}
	e.InsertAfter(p.LastChild(), child)
}

// InsertAtStart makes child the first child of parent.
func (e *Engine) InsertAtStart(parent, child Key) {
	e.assertNotRoot(child)
	e.assertValid(parent)
	e.assertNotEqual(parent, child)

	p, c := e.record(parent), e.record(child)
	e.assert(!c.parent.valid(), "%s is already inserted", child)

	if !p.firstChild.valid() {
		e.assert(!p.lastChild.valid(), "%s has a last child but no first child", parent)
		e.adopt(p, c)
		return
	}
	e.InsertBefore(child, p.FirstChild())
}

func (e *Engine) adopt(p, c *BoxRecord) {
	p.firstChild, p.lastChild = c.key, c.key
	c.parent = p.key
	c.prevSibling, c.nextSibling = 0, 0
	e.version++
}

// InsertBefore links newSibling immediately before later.
func (e *Engine) InsertBefore(newSibling, later Key) {
	e.assertNotRoot(newSibling)
	e.assertValid(later)
	e.assertNotEqual(later, newSibling)

	l, n := e.record(later), e.record(newSibling)
	e.assert(!n.parent.valid(), "%s is already inserted", newSibling)
	e.assert(l.parent.valid(), "%s is not inserted", later)

	n.parent = l.parent
	n.prevSibling = l.prevSibling
	n.nextSibling = l.key
	if l.prevSibling.valid() {
		e.record(l.PreviousSibling()).nextSibling = n.key
	} else {
		p := e.record(l.Parent())
		e.assert(p.firstChild == l.key, "%s is not the first child of %s", later, l.Parent())
		p.firstChild = n.key
	}
	l.prevSibling = n.key
	e.version++
}

// InsertAfter links newSibling immediately after earlier.
func (e *Engine) InsertAfter(earlier, newSibling Key) {
	e.assertNotRoot(newSibling)
	e.assertValid(earlier)
	e.assertNotEqual(earlier, newSibling)

	l, n := e.record(earlier), e.record(newSibling)
	e.assert(!n.parent.valid(), "%s is already inserted", newSibling)
	e.assert(l.parent.valid(), "%s is not inserted", earlier)

	n.parent = l.parent
	n.prevSibling = l.key
	n.nextSibling = l.nextSibling
	if l.nextSibling.valid() {
		e.record(l.NextSibling()).prevSibling = n.key
	} else {
		p := e.record(l.Parent())
		e.assert(p.lastChild == l.key, "%s is not the last child of %s", earlier, l.Parent())
		p.lastChild = n.key
	}
	l.nextSibling = n.key
	e.version++
}

// Remove detaches key from its parent. The box keeps its own children and
// can be inserted again elsewhere.
func (e *Engine) Remove(key Key) {
	e.assertNotRoot(key)
	rec := e.record(key)
	e.assert(rec.parent.valid(), "%s is not inserted", key)

	p := e.record(rec.Parent())
	if rec.prevSibling.valid() {
		e.record(rec.PreviousSibling()).nextSibling = rec.nextSibling
	} else {
		p.firstChild = rec.nextSibling
	}
	if rec.nextSibling.valid() {
		e.record(rec.NextSibling()).prevSibling = rec.prevSibling
	} else {
		p.lastChild = rec.prevSibling
	}
	rec.parent, rec.prevSibling, rec.nextSibling = 0, 0, 0
	e.version++
}
