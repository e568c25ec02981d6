package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// MediaJanitor removes synthesized audio and video artifacts once they age
// out, keeping the media directory from growing without bound.
type MediaJanitor struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
}

// NewMediaJanitor creates a janitor for dir with the given retention
func NewMediaJanitor(dir string, maxAge time.Duration) *MediaJanitor {
	return &MediaJanitor{dir: dir, maxAge: maxAge, interval: 10 * time.Minute}
}

// Start sweeps periodically until ctx is cancelled
func (j *MediaJanitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := j.Sweep(); n > 0 {
					log.Printf("Media janitor removed %d expired artifacts", n)
				}
			}
		}
	}()
}

// Sweep removes expired files and returns how many were deleted
func (j *MediaJanitor) Sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return 0
	}
	cutoff := time.Now().Add(-j.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed
}
