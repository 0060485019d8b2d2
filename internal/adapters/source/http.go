package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 32 << 20
	idPlaceholder  = "{id}"
)

// Paths are the collection endpoints relative to the base URL.
type Paths struct {
	Sectors      string
	Teams        string
	Employees    string
	Competencies string
	// Assignments must contain {id}.
	Assignments string
}

// DefaultPaths returns the endpoints of the organization API.
func DefaultPaths() Paths {
	return Paths{
		Sectors:      "/setores",
		Teams:        "/times",
		Employees:    "/colaboradores",
		Competencies: "/competencias",
		Assignments:  "/colaboradores/{id}/competencias",
	}
}

func (p Paths) of(c Collection) string {
	switch c {
	case CollectionSectors:
		return p.Sectors
	case CollectionTeams:
		return p.Teams
	case CollectionEmployees:
		return p.Employees
	case CollectionCompetencies:
		return p.Competencies
	}
	return ""
}

// HTTPOption applies a configuration option to the HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithPaths overrides the endpoints. Empty fields keep their default.
func WithPaths(p Paths) HTTPOption {
	return func(f *HTTPFetcher) {
		merge := func(dst *string, v string) {
			if v != "" {
				*dst = v
			}
		}
		merge(&f.paths.Sectors, p.Sectors)
		merge(&f.paths.Teams, p.Teams)
		merge(&f.paths.Employees, p.Employees)
		merge(&f.paths.Competencies, p.Competencies)
		merge(&f.paths.Assignments, p.Assignments)
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the client. Its timeout is kept as is.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// HTTPFetcher reads collections from the organization API.
type HTTPFetcher struct {
	base   string
	paths  Paths
	client *http.Client
}

// NewHTTPFetcher creates a fetcher rooted at baseURL.
func NewHTTPFetcher(baseURL string, opts ...HTTPOption) (*HTTPFetcher, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	f := &HTTPFetcher{
		base:   strings.TrimRight(baseURL, "/"),
		paths:  DefaultPaths(),
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Collection implements Fetcher.
func (f *HTTPFetcher) Collection(ctx context.Context, c Collection) ([]byte, error) {
	path := f.paths.of(c)
	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrCollectionMissing, c)
	}
	return f.get(ctx, path)
}

// Assignments implements Fetcher.
func (f *HTTPFetcher) Assignments(ctx context.Context, employeeID int64) ([]byte, error) {
	path := strings.ReplaceAll(f.paths.Assignments, idPlaceholder, strconv.FormatInt(employeeID, 10))
	return f.get(ctx, path)
}

func (f *HTTPFetcher) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: get %s: %d", ErrStatus, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}
