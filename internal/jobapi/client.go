package jobapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusError reports a response whose HTTP status did not match the caller's
// expectation. The body is truncated for log friendliness.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// DecodeError reports a response body that could not be decoded as the
// expected JSON shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

const maxErrorBody = 512

// Config captures the knobs for a probe client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api.
	BaseURL string
	// Timeout bounds each request end to end.
	Timeout time.Duration
	// UserAgent is sent on every request.
	UserAgent string
}

// Client issues typed requests against the job-board API. One Client (and its
// underlying http.Client) is shared for a whole conformance run so connections
// are reused and default headers stay consistent.
type Client struct {
	base      string
	userAgent string
	http      *http.Client
}

// New builds a Client from the provided Config.
func New(cfg Config) *Client {
	return &Client{
		base:      strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.base }

// Health calls GET {base} and decodes the identifying message.
func (c *Client) Health(ctx context.Context) (HealthResponse, int, error) {
	var out HealthResponse
	status, err := c.getJSON(ctx, "", &out)
	return out, status, err
}

// Seed calls POST {base}/seed and decodes the reported counts.
func (c *Client) Seed(ctx context.Context) (SeedResponse, int, error) {
	var out SeedResponse
	status, err := c.postJSON(ctx, "/seed", nil, &out)
	return out, status, err
}

// ListDistricts calls GET {base}/districts.
func (c *Client) ListDistricts(ctx context.Context) ([]District, int, error) {
	var out []District
	status, err := c.getJSON(ctx, "/districts", &out)
	return out, status, err
}

// CreateDistrict calls POST {base}/districts.
func (c *Client) CreateDistrict(ctx context.Context, in NewDistrict) (District, int, error) {
	var out District
	status, err := c.postJSON(ctx, "/districts", in, &out)
	return out, status, err
}

// ListQualifications calls GET {base}/qualifications.
func (c *Client) ListQualifications(ctx context.Context) ([]Qualification, int, error) {
	var out []Qualification
	status, err := c.getJSON(ctx, "/qualifications", &out)
	return out, status, err
}

// CreateQualification calls POST {base}/qualifications.
func (c *Client) CreateQualification(ctx context.Context, in NewQualification) (Qualification, int, error) {
	var out Qualification
	status, err := c.postJSON(ctx, "/qualifications", in, &out)
	return out, status, err
}

// ListCategories calls GET {base}/categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, int, error) {
	var out []Category
	status, err := c.getJSON(ctx, "/categories", &out)
	return out, status, err
}

// CreateCategory calls POST {base}/categories.
func (c *Client) CreateCategory(ctx context.Context, in NewCategory) (Category, int, error) {
	var out Category
	status, err := c.postJSON(ctx, "/categories", in, &out)
	return out, status, err
}

// JobQuery carries the supported jobs-listing filters. Zero values are
// omitted from the query string.
type JobQuery struct {
	District      string
	Qualification string
	Category      string
	Search        string
	Page          int
	Limit         int
}

func (q JobQuery) encode() string {
	v := url.Values{}
	if q.District != "" {
		v.Set("district", q.District)
	}
	if q.Qualification != "" {
		v.Set("qualification", q.Qualification)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ListJobs calls GET {base}/jobs with the provided filters.
func (c *Client) ListJobs(ctx context.Context, q JobQuery) (JobPage, int, error) {
	var out JobPage
	status, err := c.getJSON(ctx, "/jobs"+q.encode(), &out)
	return out, status, err
}

// CreateJob calls POST {base}/jobs.
func (c *Client) CreateJob(ctx context.Context, in NewJob) (Job, int, error) {
	var out Job
	status, err := c.postJSON(ctx, "/jobs", in, &out)
	return out, status, err
}

// GetJob calls GET {base}/jobs/{id}.
func (c *Client) GetJob(ctx context.Context, id string) (Job, int, error) {
	var out Job
	status, err := c.getJSON(ctx, "/jobs/"+url.PathEscape(id), &out)
	return out, status, err
}

// GetStatus issues a GET for the given path and returns only the HTTP status
// code. It is used by the error-path checks, where any decodable body is
// irrelevant.
func (c *Client) GetStatus(ctx context.Context, path string) (int, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Preflight issues OPTIONS against the API root and returns the response
// headers for CORS inspection.
func (c *Client) Preflight(ctx context.Context) (http.Header, int, error) {
	req, err := c.newRequest(ctx, http.MethodOptions, "", nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("OPTIONS %s: %w", c.base, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Header, resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) (int, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	return c.do(req, path, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return 0, err
	}
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, &StatusError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(raw), maxErrorBody),
		}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, &DecodeError{Path: path, Err: err}
		}
	}
	return resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
