package bing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"alvely-be/pkg/search"
)

const (
	defaultBaseURL = "https://api.bing.microsoft.com"

	webEndpoint   = "/v7.0/search"
	imageEndpoint = "/v7.0/images/search"

	webPageSize   = 2
	imagePageSize = 10
)

// Client calls the Bing web and image search APIs and normalizes results.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Ensure Client implements the Gateway contract
var _ search.Gateway = &Client{}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Response structs (internal to this package) ---

type webSearchResponse struct {
	WebPages struct {
		Value []struct {
			Name       string `json:"name"`
			URL        string `json:"url"`
			Snippet    string `json:"snippet"`
			DisplayURL string `json:"displayUrl"`
		} `json:"value"`
	} `json:"webPages"`
}

type imageSearchResponse struct {
	Value []struct {
		ThumbnailURL string `json:"thumbnailUrl"`
		ContentURL   string `json:"contentUrl"`
		HostPageURL  string `json:"hostPageUrl"`
	} `json:"value"`
}

// --- Interface implementation ---

func (c *Client) WebSearch(ctx context.Context, query string) ([]search.WebResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(webPageSize))
	params.Set("textDecorations", "true")
	params.Set("textFormat", "HTML")

	body, err := c.get(ctx, webEndpoint, params)
	if err != nil {
		return nil, err
	}

	var parsed webSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal web search response: %w", err)
	}

	results := make([]search.WebResult, 0, len(parsed.WebPages.Value))
	for _, v := range parsed.WebPages.Value {
		// Results without a URL have no identity and cannot be deduplicated
		if v.URL == "" {
			continue
		}
		results = append(results, search.WebResult{
			Title:      v.Name,
			URL:        v.URL,
			Snippet:    v.Snippet,
			DisplayURL: v.DisplayURL,
		})
	}
	return results, nil
}

func (c *Client) ImageSearch(ctx context.Context, query string) ([]search.ImageResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(imagePageSize))
	params.Set("imageType", "photo")

	body, err := c.get(ctx, imageEndpoint, params)
	if err != nil {
		return nil, err
	}

	var parsed imageSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal image search response: %w", err)
	}

	results := make([]search.ImageResult, 0, len(parsed.Value))
	for _, v := range parsed.Value {
		if v.ThumbnailURL == "" {
			continue
		}
		results = append(results, search.ImageResult{
			ThumbnailURL: v.ThumbnailURL,
			ContentURL:   v.ContentURL,
			HostPageURL:  v.HostPageURL,
		})
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
