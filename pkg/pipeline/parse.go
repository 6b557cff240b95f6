package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/matzehuels/boxflow/pkg/fixture"
	"github.com/matzehuels/boxflow/pkg/observability"
)

// LoadFixture reads and validates the fixture file at path.
func LoadFixture(ctx context.Context, path string) (*fixture.Fixture, error) {
	return load(ctx, path, func() (*fixture.Fixture, error) {
		return fixture.Load(path)
	})
}

// ParseFixture decodes and validates a fixture from r. source names the
// input in hooks and is used as the fixture name when the fixture has none.
func ParseFixture(ctx context.Context, r io.Reader, source string) (*fixture.Fixture, error) {
	return load(ctx, source, func() (*fixture.Fixture, error) {
		f, err := fixture.Decode(r)
		if err != nil {
			return nil, err
		}
		if f.Name == "" {
			f.Name = source
		}
		return f, nil
	})
}

func load(ctx context.Context, source string, fn func() (*fixture.Fixture, error)) (*fixture.Fixture, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	f, err := fn()
	boxes := 0
	if err == nil {
		boxes = CountBoxes(&f.Root)
	}
	hooks.OnLoadComplete(ctx, source, boxes, time.Since(start), err)
	return f, err
}

// CountBoxes returns the number of boxes declared by b and its descendants.
func CountBoxes(b *fixture.Box) int {
	n := 1
	for i := range b.Children {
		n += CountBoxes(&b.Children[i])
	}
	return n
}
