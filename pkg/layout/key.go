package layout

import "strconv"

// Key identifies a box in an [Engine]. Keys are dense indices into the
// record arena and stay valid until the engine is cleared.
type Key int32

const (
	// InvalidKey is returned for missing relations and failed lookups.
	InvalidKey Key = -1

	// RootKey is the key of the root box created by [Engine.Clear].
	RootKey Key = 0
)

// IsInvalid reports whether k does not refer to a box.
func (k Key) IsInvalid() bool { return k < 0 }

func (k Key) String() string {
	if k.IsInvalid() {
		return "invalid"
	}
	return "#" + strconv.Itoa(int(k))
}

// link stores a key as index+1 so that a zeroed record has no relations.
type link int32

func linkOf(k Key) link {
	if k < 0 {
		return 0
	}
	return link(k + 1)
}

func (l link) key() Key { return Key(l) - 1 }

func (l link) valid() bool { return l > 0 }
