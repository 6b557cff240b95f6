// Package store keeps named baseline snapshots for regression checks.
//
// A baseline is the snapshot a fixture is expected to produce. The
// "baseline save" command records one and "baseline check" compares a fresh
// layout against it. Two backends are provided:
//   - [FileStore]: one JSON file per fixture, for local use and CI
//   - [MongoStore]: a MongoDB collection keyed by fixture name, for teams
//     sharing baselines
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// ErrNotFound is returned when no baseline exists for a fixture.
var ErrNotFound = errors.New("baseline not found")

// Store persists baselines by fixture name.
type Store interface {
	// Get returns the baseline for name, or an error wrapping ErrNotFound.
	Get(ctx context.Context, name string) (*snapshot.Snapshot, error)
	// Put creates or replaces the baseline for s.Fixture.
	Put(ctx context.Context, s *snapshot.Snapshot) error
	// Delete removes a baseline. Missing baselines are not an error.
	Delete(ctx context.Context, name string) error
	// List returns all fixture names in sorted order.
	List(ctx context.Context) ([]string, error)
	Close() error
}
