package ledger

import (
	"testing"

	"alvely-be/pkg/search"
)

func webResults(urls ...string) []search.WebResult {
	results := make([]search.WebResult, 0, len(urls))
	for _, u := range urls {
		results = append(results, search.WebResult{Title: "t", URL: u, Snippet: "s"})
	}
	return results
}

func imageResults(thumbs ...string) []search.ImageResult {
	results := make([]search.ImageResult, 0, len(thumbs))
	for _, th := range thumbs {
		results = append(results, search.ImageResult{ThumbnailURL: th, ContentURL: "c"})
	}
	return results
}

func urlsOf(results []search.WebResult) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}
	return urls
}

func TestFilterNewWeb(t *testing.T) {
	l := New()

	first := l.FilterNewWeb(webResults("a", "b"))
	if got := urlsOf(first); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("first batch = %v, want [a b]", got)
	}

	// Overlapping batch: only the unseen URL survives
	second := l.FilterNewWeb(webResults("b", "c"))
	if got := urlsOf(second); len(got) != 1 || got[0] != "c" {
		t.Errorf("second batch = %v, want [c]", got)
	}

	// Fully seen batch yields nothing
	third := l.FilterNewWeb(webResults("a", "c"))
	if len(third) != 0 {
		t.Errorf("third batch = %v, want empty", urlsOf(third))
	}
}

func TestFilterNewWebKeepsOrder(t *testing.T) {
	l := New()
	l.FilterNewWeb(webResults("b"))

	fresh := l.FilterNewWeb(webResults("c", "b", "a"))
	if got := urlsOf(fresh); len(got) != 2 || got[0] != "c" || got[1] != "a" {
		t.Errorf("filtered = %v, want [c a]", got)
	}
}

func TestFilterNewWebDuplicatesWithinBatch(t *testing.T) {
	l := New()

	fresh := l.FilterNewWeb(webResults("a", "a", "b"))
	if got := urlsOf(fresh); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("filtered = %v, want [a b]", got)
	}
}

func TestFilterNewImages(t *testing.T) {
	l := New()

	first := l.FilterNewImages(imageResults("t1", "t2"))
	if len(first) != 2 {
		t.Fatalf("first batch = %d results, want 2", len(first))
	}

	second := l.FilterNewImages(imageResults("t2", "t3"))
	if len(second) != 1 || second[0].ThumbnailURL != "t3" {
		t.Errorf("second batch = %v, want only t3", second)
	}
}

func TestWebAndImageSetsAreIndependent(t *testing.T) {
	l := New()

	l.FilterNewWeb(webResults("same-key"))
	fresh := l.FilterNewImages(imageResults("same-key"))
	if len(fresh) != 1 {
		t.Errorf("image with key seen only as URL was filtered out")
	}

	urls, thumbs := l.Sizes()
	if urls != 1 || thumbs != 1 {
		t.Errorf("Sizes() = (%d, %d), want (1, 1)", urls, thumbs)
	}
}

func TestReset(t *testing.T) {
	l := New()
	l.FilterNewWeb(webResults("a"))
	l.FilterNewImages(imageResults("t1"))

	l.Reset()

	urls, thumbs := l.Sizes()
	if urls != 0 || thumbs != 0 {
		t.Fatalf("Sizes() after reset = (%d, %d), want (0, 0)", urls, thumbs)
	}

	// Previously seen identities are eligible again
	fresh := l.FilterNewWeb(webResults("a"))
	if len(fresh) != 1 {
		t.Errorf("URL seen before reset was still filtered after reset")
	}
}
