// Package museum provides a client for the Harvard Art Museums collection API.
package museum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/logging"
	"github.com/ekaya-inc/artifact-collector/pkg/metrics"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
)

// DefaultTimeout is the maximum time to wait for one page.
const DefaultTimeout = 60 * time.Second

// maxBodyBytes bounds a single page response. 100 full object records are a
// few megabytes at most.
const maxBodyBytes = 64 << 20

// PageFetcher retrieves one page of object records for a classification.
type PageFetcher interface {
	FetchPage(ctx context.Context, classification string, page, size int) (*models.ObjectPage, error)
}

// Client provides access to the museum collection API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new collection API client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("museum"),
	}
}

var _ PageFetcher = (*Client)(nil)

// FetchPage requests GET {base}/object?apikey&classification&size&page.
// Every failure is returned as an *apperrors.TransportError with the api key
// redacted from its message.
func (c *Client) FetchPage(ctx context.Context, classification string, page, size int) (*models.ObjectPage, error) {
	op := fmt.Sprintf("fetch page %d", page)

	endpoint, err := buildURL(c.baseURL, url.Values{
		"apikey":         {c.apiKey},
		"classification": {classification},
		"size":           {strconv.Itoa(size)},
		"page":           {strconv.Itoa(page)},
	}, "object")
	if err != nil {
		return nil, &apperrors.TransportError{Op: op, Err: fmt.Errorf("failed to build URL: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &apperrors.TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", redact(err))}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching object page",
		zap.String("url", logging.SanitizeURL(endpoint)),
		zap.String("classification", classification),
		zap.Int("page", page))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordMuseumRequest(0, time.Since(start).Seconds())
		return nil, &apperrors.TransportError{Op: op, Err: fmt.Errorf("failed to call collection API: %w", redact(err))}
	}
	defer resp.Body.Close()
	metrics.RecordMuseumRequest(resp.StatusCode, time.Since(start).Seconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &apperrors.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", redact(err))}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Collection API returned error",
			zap.Int("status", resp.StatusCode),
			zap.Int("page", page),
			zap.String("body", logging.TruncateString(string(body), 512)))
		return nil, &apperrors.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(logging.TruncateString(string(body), 200)),
		}
	}

	var result models.ObjectPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &apperrors.TransportError{Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	c.logger.Debug("Got object page",
		zap.Int("page", page),
		zap.Int("records", len(result.Records)),
		zap.Int("pages", result.Info.Pages))

	return &result, nil
}

// redact scrubs the api key out of *url.Error values, which embed the full
// request URL in their message.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = logging.SanitizeURL(ue.URL)
	}
	return err
}

// buildURL constructs a URL by parsing the base, joining path segments and
// attaching the query.
func buildURL(baseURL string, query url.Values, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: scheme and host required", baseURL)
	}

	segments := append([]string{"/", u.Path}, pathSegments...)
	u.Path = path.Join(segments...)
	u.RawQuery = query.Encode()

	return u.String(), nil
}
