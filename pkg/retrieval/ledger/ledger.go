package ledger

import (
	"sync"

	"alvely-be/pkg/search"
)

// Ledger tracks the identity keys of results already surfaced within one
// conversation session, so repeated searches and "load more" calls never
// show the same source or image twice. It is owned by the session and
// passed by reference into each pipeline run, never shared across sessions.
type Ledger struct {
	mu             sync.Mutex
	seenURLs       map[string]bool
	seenThumbnails map[string]bool
}

func New() *Ledger {
	return &Ledger{
		seenURLs:       make(map[string]bool),
		seenThumbnails: make(map[string]bool),
	}
}

// FilterNewWeb returns the subsequence of results not yet seen and marks
// them seen. Filtering and marking happen atomically under the lock.
func (l *Ledger) FilterNewWeb(results []search.WebResult) []search.WebResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	fresh := make([]search.WebResult, 0, len(results))
	for _, r := range results {
		if l.seenURLs[r.URL] {
			continue
		}
		l.seenURLs[r.URL] = true
		fresh = append(fresh, r)
	}
	return fresh
}

// FilterNewImages returns the subsequence of results not yet seen and marks
// them seen.
func (l *Ledger) FilterNewImages(results []search.ImageResult) []search.ImageResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	fresh := make([]search.ImageResult, 0, len(results))
	for _, r := range results {
		if l.seenThumbnails[r.ThumbnailURL] {
			continue
		}
		l.seenThumbnails[r.ThumbnailURL] = true
		fresh = append(fresh, r)
	}
	return fresh
}

// Reset clears both sets. Previously surfaced identities become eligible
// to be emitted again.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seenURLs = make(map[string]bool)
	l.seenThumbnails = make(map[string]bool)
}

// Sizes returns the current counts of seen URLs and thumbnails.
func (l *Ledger) Sizes() (urls int, thumbnails int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seenURLs), len(l.seenThumbnails)
}
