package indexing

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

const (
	TechniqueHighQuality = "high_quality"
	TechniqueEconomy     = "economy"
)

// ValidTechnique reports whether t is a supported indexing technique.
func ValidTechnique(t string) bool {
	return t == TechniqueHighQuality || t == TechniqueEconomy
}

// Credential scopes a call to one dataset on the indexing service.
type Credential struct {
	DatasetHandle string
	APIKey        string
}

// Client talks to the external document-indexing service. All calls carry the
// per-dataset bearer key from the credential record.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// CreateDocument submits file bytes for indexing and returns the service's
// document id.
func (c *Client) CreateDocument(ctx context.Context, cred Credential, filename string, data []byte, technique string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build indexing form failed: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write indexing form failed: %w", err)
	}
	if err := writer.WriteField("indexing_technique", technique); err != nil {
		return "", fmt.Errorf("write indexing form failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close indexing form failed: %w", err)
	}

	url := fmt.Sprintf("%s/datasets/%s/documents", c.baseURL, cred.DatasetHandle)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("build indexing request failed: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+cred.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("indexing request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read indexing response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("indexing response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Document struct {
			ID string `json:"id"`
		} `json:"document"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse indexing json failed: %w", err)
	}
	if parsed.Document.ID == "" {
		return "", fmt.Errorf("empty indexing document id")
	}
	return parsed.Document.ID, nil
}

// AttachMetadata attaches a named metadata field to an indexed document.
func (c *Client) AttachMetadata(ctx context.Context, cred Credential, documentID, key, value string) error {
	reqBody := map[string]string{
		"key":   key,
		"value": value,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal metadata request failed: %w", err)
	}

	url := fmt.Sprintf("%s/datasets/%s/documents/%s/metadata", c.baseURL, cred.DatasetHandle, documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("build metadata request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cred.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("metadata response status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

// CountDocuments returns the live document count of a dataset.
func (c *Client) CountDocuments(ctx context.Context, cred Credential) (int, error) {
	url := fmt.Sprintf("%s/datasets/%s/documents/count", c.baseURL, cred.DatasetHandle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build count request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("count request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read count response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("count response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("parse count json failed: %w", err)
	}
	return parsed.Count, nil
}

// DeleteDocument removes an indexed document from its dataset.
func (c *Client) DeleteDocument(ctx context.Context, cred Credential, documentID string) error {
	url := fmt.Sprintf("%s/datasets/%s/documents/%s", c.baseURL, cred.DatasetHandle, documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build delete request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete response status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
