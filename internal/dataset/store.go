package dataset

import (
	"context"
	"sync/atomic"

	"github.com/starford/herbscope/internal/herb"
)

// Store holds the live snapshot. Readers call Current once per request and
// work on that snapshot; reloads swap in a new one without locking.
type Store struct {
	cur atomic.Pointer[herb.Dataset]
}

// NewStore returns a Store serving ds.
func NewStore(ds *herb.Dataset) *Store {
	s := &Store{}
	s.cur.Store(ds)
	return s
}

// Current returns the live snapshot.
func (s *Store) Current() *herb.Dataset {
	return s.cur.Load()
}

// Swap installs ds and returns the previous snapshot.
func (s *Store) Swap(ds *herb.Dataset) *herb.Dataset {
	return s.cur.Swap(ds)
}

// Reload loads src and installs the result if its checksum differs from the
// live snapshot. On error the live snapshot is kept.
func (s *Store) Reload(ctx context.Context, src Source) (*herb.Dataset, bool, error) {
	ds, err := src.Load(ctx)
	if err != nil {
		return s.Current(), false, err
	}
	if cur := s.Current(); cur != nil && cur.Checksum == ds.Checksum {
		return cur, false, nil
	}
	s.Swap(ds)
	return ds, true, nil
}
