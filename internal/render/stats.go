package render

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats holds render counters. The zero value is ready to use.
type Stats struct {
	// Files is the number of documents rendered, cached or not.
	Files atomic.Int64
	// Statements is the number of statements in those documents.
	Statements atomic.Int64
	// CacheHits is the number of documents served from the cache.
	CacheHits atomic.Int64
	// Errors is the number of documents that failed.
	Errors atomic.Int64
	// Duration is the time spent rendering, in nanoseconds.
	Duration atomic.Int64
}

// Snapshot returns the current values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Files:      s.Files.Load(),
		Statements: s.Statements.Load(),
		CacheHits:  s.CacheHits.Load(),
		Errors:     s.Errors.Load(),
		Duration:   time.Duration(s.Duration.Load()),
	}
}

// Reset sets all counters to zero.
func (s *Stats) Reset() {
	s.Files.Store(0)
	s.Statements.Store(0)
	s.CacheHits.Store(0)
	s.Errors.Store(0)
	s.Duration.Store(0)
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Files      int64
	Statements int64
	CacheHits  int64
	Errors     int64
	Duration   time.Duration
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("files=%d statements=%d cached=%d errors=%d duration=%s",
		s.Files, s.Statements, s.CacheHits, s.Errors, s.Duration)
}
