package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to the durable object store. The store accepts raw bytes and
// answers with the canonical retrieval URL for the stored object.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// PutFile uploads file bytes and returns the canonical URL.
func (c *Client) PutFile(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build storage form failed: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write storage form failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close storage form failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("build storage request failed: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read storage response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse storage json failed: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("empty storage url")
	}
	return parsed.URL, nil
}
