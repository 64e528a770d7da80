package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs folder operations against a Foldery server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: &Config{
			Endpoint:       strings.TrimSuffix(cfg.Endpoint, "/"),
			User:           cfg.User,
			IdentityHeader: cfg.IdentityHeader,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Create registers a new folder and returns it.
func (c *Client) Create(ctx context.Context, opts CreateOptions) (*Folder, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, fmt.Errorf("create: %w", ErrEmptyName)
	}

	body := createRequest{Name: opts.Name, Parent: opts.Parent, Type: opts.Type}

	var folder Folder
	if err := c.do(ctx, http.MethodPost, "/folders/", body, http.StatusCreated, &folder); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	return &folder, nil
}

// List returns every folder owned by the configured user.
func (c *Client) List(ctx context.Context) ([]Folder, error) {
	folders := []Folder{}
	if err := c.do(ctx, http.MethodGet, "/folders/", nil, http.StatusOK, &folders); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return folders, nil
}

// Get returns a single folder.
func (c *Client) Get(ctx context.Context, id string) (*Folder, error) {
	if id == "" {
		return nil, fmt.Errorf("get: %w", ErrEmptyID)
	}

	var folder Folder
	if err := c.do(ctx, http.MethodGet, folderPath(id), nil, http.StatusOK, &folder); err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}

	return &folder, nil
}

// Update changes the given fields of a folder and returns the stored result.
func (c *Client) Update(ctx context.Context, id string, opts UpdateOptions) (*Folder, error) {
	if id == "" {
		return nil, fmt.Errorf("update: %w", ErrEmptyID)
	}
	if opts.IsEmpty() {
		return nil, fmt.Errorf("update: %w", ErrNothingToSend)
	}

	body := updateRequest{
		Name:          opts.Name,
		Type:          opts.Type,
		RequiredFiles: opts.RequiredFiles,
		SubFolders:    opts.SubFolders,
	}

	var folder Folder
	if err := c.do(ctx, http.MethodPut, folderPath(id), body, http.StatusOK, &folder); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	return &folder, nil
}

// Delete deletes one or more folders.
// Continues on error, collecting results for all ids.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if len(opts.IDs) == 0 {
		return nil, ErrNoIDs
	}

	results := make([]DeleteResult, 0, len(opts.IDs))
	for _, id := range opts.IDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := DeleteResult{ID: id}
		if err := c.do(ctx, http.MethodDelete, folderPath(id), nil, http.StatusOK, nil); err != nil {
			result.Err = err
		} else {
			result.Deleted = true
		}
		results = append(results, result)
	}

	return results, nil
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// do sends a JSON request and decodes the response into out when the
// server answers with want. Any other status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var reqBody io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(c.config.IdentityHeader, c.config.User)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		return parseServerError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	return nil
}

func folderPath(id string) string {
	return "/folders/" + url.PathEscape(id)
}

// parseServerError builds an *APIError, filling Code and Message when the
// body is a server error document.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}

	var se serverError
	if err := json.Unmarshal(body, &se); err == nil {
		apiErr.Code = se.Error
		apiErr.Message = se.Message
		apiErr.Details = se.Details
	}

	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " " + e.Code + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrBadRequest is returned for a missing identity or a malformed payload (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrForbidden is returned when the folder belongs to another user (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}

	// ErrNotFound is returned when the folder does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrConflict is returned when a folder with the same name exists (409).
	ErrConflict = &APIError{StatusCode: http.StatusConflict}
)
