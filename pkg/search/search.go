package search

import "context"

// WebResult is a single normalized web search hit. Identity key is URL.
type WebResult struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet"`
	DisplayURL string `json:"display_url"`
}

// ImageResult is a single normalized image search hit. Identity key is ThumbnailURL.
type ImageResult struct {
	ThumbnailURL string `json:"thumbnail_url"`
	ContentURL   string `json:"content_url"`
	HostPageURL  string `json:"host_page_url"`
}

// Gateway defines the contract for any keyword search backend.
type Gateway interface {
	// WebSearch issues one web search call for the query.
	WebSearch(ctx context.Context, query string) ([]WebResult, error)

	// ImageSearch issues one image search call for the query.
	ImageSearch(ctx context.Context, query string) ([]ImageResult, error)
}
