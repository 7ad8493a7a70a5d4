// Package client talks to the upload relay over HTTP the same way the
// browser form does.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/dtroode/imagerelay/internal/model"
)

// ErrNoFile is returned when there is nothing to upload.
var ErrNoFile = errors.New("no file selected")

// ResponseError is a non-2xx answer from the relay.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("upload relay responded %d: %s", e.Status, e.Message)
}

// Client uploads files to a relay at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Upload sends one POST /api/upload with content under the multipart
// field "file". The body is streamed, not buffered.
func (c *Client) Upload(ctx context.Context, fileName string, content io.Reader) (model.UploadResponse, error) {
	if fileName == "" || content == nil {
		return model.UploadResponse{}, ErrNoFile
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", fileName)
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		pr.Close()
		return model.UploadResponse{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.UploadResponse{}, fmt.Errorf("failed to send upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.UploadResponse{}, responseError(resp)
	}

	var out model.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.UploadResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

// Download copies the object stored under key into w.
func (c *Client) Download(ctx context.Context, key string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/files/"+url.PathEscape(key), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, responseError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read object: %w", err)
	}
	return n, nil
}

func responseError(resp *http.Response) error {
	var body model.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &ResponseError{Status: resp.StatusCode, Message: body.Error}
}
