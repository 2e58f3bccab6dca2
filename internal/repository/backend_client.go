package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/kirychukyurii/dr-dashboard/internal/config"
	"github.com/kirychukyurii/dr-dashboard/internal/model"
	"github.com/kirychukyurii/dr-dashboard/internal/util"
)

const (
	statusPath   = "/status"
	failoverPath = "/initiate-failover"

	// maxBodyBytes bounds how much of a backend response is read
	maxBodyBytes = 1 << 20
)

// Backend operations, used in FetchError.Op
const (
	OpStatus   = "status"
	OpFailover = "failover"
)

// ErrMalformedBody is wrapped by FetchError when a 2xx response body cannot be interpreted
var ErrMalformedBody = errors.New("malformed response body")

// FetchError is the only failure kind of the backend client.
// Network failures, non-2xx responses and malformed bodies all surface as a FetchError.
type FetchError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("%s: %s %s: unexpected status %d", e.Op, e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// BackendRepository defines the interface for DR backend API operations
type BackendRepository interface {
	// FetchStatus issues a single GET {API_URL}/status
	FetchStatus(ctx context.Context) (*model.SystemStatus, error)

	// InitiateFailover issues a single POST {API_URL}/initiate-failover
	InitiateFailover(ctx context.Context) (*model.FailoverResult, error)

	// BaseURL returns the configured API base URL
	BaseURL() string
}

// backendClient implements BackendRepository over HTTP
type backendClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// statusPayload mirrors model.SystemStatus with pointers so missing sites can be detected
type statusPayload struct {
	PrimarySite *model.SiteStatus `json:"primarySite"`
	DRSite      *model.SiteStatus `json:"drSite"`
}

// NewBackendRepository creates a backend client for the configured API URL
func NewBackendRepository(cfg config.BackendConfig, logger *slog.Logger) (BackendRepository, error) {
	transport := cleanhttp.DefaultPooledTransport()

	// Configure TLS if provided
	if cfg.TLS != nil {
		tlsConfig, err := util.LoadTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS config: %w", err)
		}
		transport.TLSClientConfig = tlsConfig
	}

	return NewBackendRepositoryWithClient(cfg.APIURL, &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, logger), nil
}

// NewBackendRepositoryWithClient creates a backend client using the given HTTP client
func NewBackendRepositoryWithClient(baseURL string, httpClient *http.Client, logger *slog.Logger) BackendRepository {
	return &backendClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the configured API base URL
func (c *backendClient) BaseURL() string {
	return c.baseURL
}

// FetchStatus retrieves the current status of both sites
func (c *backendClient) FetchStatus(ctx context.Context) (*model.SystemStatus, error) {
	body, ferr := c.do(ctx, OpStatus, http.MethodGet, statusPath)
	if ferr != nil {
		return nil, ferr
	}

	var payload statusPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		ferr := c.fetchError(OpStatus, http.MethodGet, statusPath)
		ferr.Err = fmt.Errorf("%w: %v", ErrMalformedBody, err)
		return nil, ferr
	}

	// Both sites must be present, there is no partial status
	if payload.PrimarySite == nil || payload.DRSite == nil {
		ferr := c.fetchError(OpStatus, http.MethodGet, statusPath)
		ferr.Err = fmt.Errorf("%w: primarySite and drSite are required", ErrMalformedBody)
		return nil, ferr
	}

	c.logger.Debug("status fetched",
		slog.String("primary_region", payload.PrimarySite.Region),
		slog.String("dr_region", payload.DRSite.Region),
	)

	return &model.SystemStatus{
		PrimarySite: *payload.PrimarySite,
		DRSite:      *payload.DRSite,
	}, nil
}

// InitiateFailover asks the backend to start a failover
func (c *backendClient) InitiateFailover(ctx context.Context) (*model.FailoverResult, error) {
	body, ferr := c.do(ctx, OpFailover, http.MethodPost, failoverPath)
	if ferr != nil {
		return nil, ferr
	}

	if !gjson.ValidBytes(body) {
		ferr := c.fetchError(OpFailover, http.MethodPost, failoverPath)
		ferr.Err = fmt.Errorf("%w: invalid JSON", ErrMalformedBody)
		return nil, ferr
	}

	message := gjson.GetBytes(body, "message")
	if message.Type != gjson.String {
		ferr := c.fetchError(OpFailover, http.MethodPost, failoverPath)
		ferr.Err = fmt.Errorf("%w: message field is missing", ErrMalformedBody)
		return nil, ferr
	}

	return &model.FailoverResult{Message: message.String()}, nil
}

// do performs one request and returns the body of a 2xx response
func (c *backendClient) do(ctx context.Context, op, method, path string) ([]byte, *FetchError) {
	ferr := c.fetchError(op, method, path)

	req, err := http.NewRequestWithContext(ctx, method, ferr.URL, nil)
	if err != nil {
		ferr.Err = fmt.Errorf("failed to create request: %w", err)
		return nil, ferr
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		ferr.Err = err
		return nil, ferr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		ferr.StatusCode = resp.StatusCode
		return nil, ferr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		ferr.StatusCode = resp.StatusCode
		ferr.Err = fmt.Errorf("failed to read response body: %w", err)
		return nil, ferr
	}

	return body, nil
}

func (c *backendClient) fetchError(op, method, path string) *FetchError {
	return &FetchError{
		Op:     op,
		Method: method,
		URL:    c.baseURL + path,
	}
}
