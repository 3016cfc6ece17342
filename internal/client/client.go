// Package client is a small HTTP client for the document QA API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docqa/backend/internal/models"
)

// DefaultBaseURL matches the server's default listen address.
const DefaultBaseURL = "http://localhost:8000"

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	Message    string // "error" field of the body
	Detail     string // "message" field of the body, if any
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to one server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client. An empty baseURL means DefaultBaseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// UploadRaw posts the file at path as multipart field "file" and returns
// the status code and body untouched.
func (c *Client) UploadRaw(ctx context.Context, path string) (int, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		pr.Close()
		return 0, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req)
}

// Upload sends a document and decodes the result.
func (c *Client) Upload(ctx context.Context, path string) (*models.UploadResult, error) {
	status, body, err := c.UploadRaw(ctx, path)
	if err != nil {
		return nil, err
	}
	var out models.UploadResult
	if err := decode(status, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ask returns the server's answer to question.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(models.AskRequest{Question: &question})
	if err != nil {
		return "", err
	}
	var out models.AskResponse
	if err := c.do(ctx, http.MethodPost, "/ask", payload, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

// Files lists upload records, newest first.
func (c *Client) Files(ctx context.Context) ([]models.FileInfo, error) {
	var out []models.FileInfo
	if err := c.do(ctx, http.MethodGet, "/files", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear deletes every upload and returns the server's message.
func (c *Client) Clear(ctx context.Context) (string, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/clear", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Health reports server and model status.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	status, respBody, err := c.send(req)
	if err != nil {
		return err
	}
	return decode(status, respBody, out)
}

func (c *Client) send(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func decode(status int, body []byte, out any) error {
	if status < 200 || status > 299 {
		apiErr := &Error{StatusCode: status}
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			apiErr.Message, apiErr.Detail = e.Error, e.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
