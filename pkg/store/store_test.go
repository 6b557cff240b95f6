package store

import (
	"context"
	stderrors "errors"
	"slices"
	"testing"

	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

func snap(name string, width float32) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		ID:      "id-" + name,
		Fixture: name,
		Canvas:  snapshot.Size{Width: width, Height: 100},
		Boxes: []snapshot.Box{
			{Key: 0, Tag: "root", Parent: -1, Rect: snapshot.Rect{Width: width, Height: 100}},
		},
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "toolbar"); !stderrors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Put = %v, want ErrNotFound", err)
	}

	if err := s.Put(ctx, snap("toolbar", 800)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "toolbar")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Canvas.Width != 800 || len(got.Boxes) != 1 {
		t.Errorf("Get = %+v", got)
	}

	if err := s.Put(ctx, snap("toolbar", 640)); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	if got, _ := s.Get(ctx, "toolbar"); got.Canvas.Width != 640 {
		t.Errorf("Put should replace, width = %v", got.Canvas.Width)
	}

	_ = s.Put(ctx, snap("dialog", 300))
	names, err := s.List(ctx)
	if err != nil || !slices.Equal(names, []string{"dialog", "toolbar"}) {
		t.Errorf("List = %v, %v", names, err)
	}

	if err := s.Delete(ctx, "toolbar"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "toolbar"); err != nil {
		t.Errorf("second Delete = %v", err)
	}
	if _, err := s.Get(ctx, "toolbar"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v", err)
	}
}

func TestFileStoreRejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	for _, name := range []string{"", "../etc/passwd", "a/b"} {
		if _, err := s.Get(ctx, name); !errors.Is(err, errors.ErrCodeInvalidFixture) {
			t.Errorf("Get(%q) = %v, want INVALID_FIXTURE", name, err)
		}
		if err := s.Put(ctx, snap(name, 1)); !errors.Is(err, errors.ErrCodeInvalidFixture) {
			t.Errorf("Put(%q) = %v, want INVALID_FIXTURE", name, err)
		}
	}
}

func TestMongoStoreUnreachable(t *testing.T) {
	ctx := context.Background()
	_, err := NewMongoStore(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200", "")
	if err == nil {
		t.Fatal("NewMongoStore should fail without a server")
	}
}

func TestMongoStoreValidatesBeforeIO(t *testing.T) {
	// Names are checked before the collection is touched, so a zero store works.
	var s MongoStore
	ctx := context.Background()
	if _, err := s.Get(ctx, "../x"); !errors.Is(err, errors.ErrCodeInvalidFixture) {
		t.Errorf("Get = %v", err)
	}
	if err := s.Delete(ctx, ""); !errors.Is(err, errors.ErrCodeInvalidFixture) {
		t.Errorf("Delete = %v", err)
	}
}
