package ui

import "sync/atomic"

// Stats counts a run's comics. Safe for concurrent use.
type Stats struct {
	TotalComics   atomic.Int64
	TotalImages   atomic.Int64
	TotalFailures atomic.Int64
	TotalBytes    atomic.Int64
}

// Record counts one finished comic. Nil-safe.
func (s *Stats) Record(ok bool, bytes int64) {
	if s == nil {
		return
	}

	s.TotalComics.Add(1)
	if !ok {
		s.TotalFailures.Add(1)
		return
	}
	s.TotalImages.Add(1)
	s.TotalBytes.Add(bytes)
}
