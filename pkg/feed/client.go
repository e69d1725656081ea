package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultAPIURL is the member-message endpoint used when no URL is
// configured.
const DefaultAPIURL = "https://november7-730026606190.europe-west1.run.app/messages"

// Client fetches member-message batches over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the first page of messages (the feed's default skip/limit).
func (c *Client) Fetch() (*Batch, error) {
	return c.get(c.baseURL)
}

// FetchPage retrieves a specific window of messages.
func (c *Client) FetchPage(skip, limit int) (*Batch, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed URL: %w", err)
	}
	q := u.Query()
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return c.get(u.String())
}

func (c *Client) get(target string) (*Batch, error) {
	resp, err := c.client.Get(target)
	if err != nil {
		return nil, fmt.Errorf("fetch member messages: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed API error (status %d): %s", resp.StatusCode, truncateBody(body))
	}

	var batch Batch
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return &batch, nil
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
