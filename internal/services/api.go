// API service for making raw HTTP requests to the SEO analysis backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL string = "http://localhost:8000"

// TokenSource supplies the current bearer token for outbound requests.
//
// An empty token means the call proceeds unauthenticated; public endpoints
// accept that, protected ones answer 401.
type TokenSource interface {
	Token() string
}

// APIService provides methods for making raw HTTP requests to the backend.
//
// Every request attaches the token from the configured TokenSource (when
// non-empty) as an Authorization header and honors the timeout passed per
// call. Failed calls surface raw errors; classification happens upstream.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewAPIService creates a new API service instance for the backend.
func NewAPIService(baseURL string, client *http.Client, tokens TokenSource) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
		tokens:     tokens,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the response carries a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Detail extracts the backend's structured error message, if present.
//
// FastAPI error bodies carry a top-level "detail" field.
func (r *APIResponse) Detail() string {
	var errBody struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(r.Body, &errBody); err == nil {
		return errBody.Detail
	}
	return ""
}

// Decode unmarshals the response body into target.
func (r *APIResponse) Decode(target any) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string, timeout time.Duration) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil, "", timeout)
}

// Post performs a POST request with the given JSON body and returns the raw response.
//
// A nil body sends an empty POST, which the pipeline stage endpoints expect.
func (a *APIService) Post(ctx context.Context, path string, data []byte, timeout time.Duration) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", timeout)
}

// Put performs a PUT request with the given JSON body and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte, timeout time.Duration) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, bytes.NewReader(data), "application/json", timeout)
}

// PostForm performs a POST with a URL-encoded form body.
//
// The login endpoint consumes credentials this way rather than as JSON.
func (a *APIService) PostForm(ctx context.Context, path string, form url.Values, timeout time.Duration) (*APIResponse, error) {
	body := strings.NewReader(form.Encode())
	return a.do(ctx, http.MethodPost, path, body, "application/x-www-form-urlencoded", timeout)
}

// PostMultipart performs a POST with a multipart form carrying fields and one file part.
func (a *APIService) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, timeout time.Duration) (*APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return a.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), timeout)
}

func (a *APIService) do(ctx context.Context, method, path string, body io.Reader, contentType string, timeout time.Duration) (*APIResponse, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fullURL := a.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.tokens != nil {
		if token := a.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
