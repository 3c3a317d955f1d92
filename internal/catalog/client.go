// Package catalog fetches book metadata from the public volumes API
// (Google Books shaped): free-text search, category and author search,
// a canned trending query and single-volume lookup.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/johnmaronga/bookflow/internal/entities"
)

const (
	// DefaultBaseURL is the public catalog endpoint.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// MaxPageSize is the API's hard cap on results per call.
	MaxPageSize = 40

	// trendingQuery is the canned search backing the trending list.
	trendingQuery = "bestseller"
)

// Client talks to the remote catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a catalog client. An empty baseURL selects the
// public endpoint; a zero timeout defaults to 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Search runs a free-text query. maxResults is clamped to MaxPageSize;
// startIndex is the pagination offset.
func (c *Client) Search(ctx context.Context, query string, maxResults, startIndex int) ([]entities.Book, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	return c.fetchVolumes(ctx, query, "", maxResults, startIndex)
}

// SearchByCategory searches within a subject/category.
func (c *Client) SearchByCategory(ctx context.Context, category string, maxResults int) ([]entities.Book, error) {
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}
	return c.fetchVolumes(ctx, "subject:"+category, "relevance", maxResults, 0)
}

// SearchByAuthor searches for an author's books.
func (c *Client) SearchByAuthor(ctx context.Context, author string, maxResults int) ([]entities.Book, error) {
	if author == "" {
		return nil, fmt.Errorf("author is required")
	}
	return c.fetchVolumes(ctx, "inauthor:"+author, "", maxResults, 0)
}

// GetTrending fetches the canned trending/popular list.
func (c *Client) GetTrending(ctx context.Context, maxResults int) ([]entities.Book, error) {
	return c.fetchVolumes(ctx, trendingQuery, "relevance", maxResults, 0)
}

// GetVolume looks up a single volume by its catalog id, or nil when
// the catalog does not know the id.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (*entities.Book, error) {
	if volumeID == "" {
		return nil, fmt.Errorf("volume id is required")
	}

	reqURL := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(volumeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch volume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var item volumeItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	book := item.toBook()
	return &book, nil
}

func (c *Client) fetchVolumes(ctx context.Context, query, orderBy string, maxResults, startIndex int) ([]entities.Book, error) {
	if maxResults <= 0 || maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}
	if startIndex < 0 {
		startIndex = 0
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("startIndex", strconv.Itoa(startIndex))
	if orderBy != "" {
		params.Set("orderBy", orderBy)
	}

	reqURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	books := make([]entities.Book, 0, len(result.Items))
	for _, item := range result.Items {
		books = append(books, item.toBook())
	}
	return books, nil
}
