package podapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"podsync/internal/adapters/podapi/dto"
	"podsync/internal/config"
	"podsync/internal/domain/model"
	"podsync/internal/logging"
)

const productsEndpoint = "/store/products"

// CatalogService is the resilient fetcher consumed by the orchestrator.
type CatalogService interface {
	ListProducts(ctx context.Context, rc *RequestContext, limit, offset int) (*Page, error)
	GetProduct(ctx context.Context, rc *RequestContext, productID int64) (*dto.ProductDetail, error)
	Ping(ctx context.Context, rc *RequestContext) (*PingResult, error)
}

// Page is one fetched slice of the remote catalog together with the
// continuation decision.
type Page struct {
	Items      []dto.ListItem
	Count      int
	Total      int
	HTTPStatus int
	HasMore    bool
	NextOffset int
}

// PingResult reports a lightweight connectivity check.
type PingResult struct {
	TokenType      string             `json:"tokenType"`
	Endpoint       string             `json:"endpoint"`
	HTTPStatus     int                `json:"httpStatus"`
	RequestHeaders []string           `json:"requestHeaders"`
	Sample         []model.SampleItem `json:"sample"`
	Fetched        int                `json:"fetched"`
}

type Client struct {
	cfg        config.PodAPIConfig
	httpClient *http.Client
	logger     logging.Logger
}

func NewClient(cfg config.PodAPIConfig, httpClient *http.Client, logger logging.Logger) CatalogService {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) ListProducts(ctx context.Context, rc *RequestContext, limit, offset int) (*Page, error) {
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	status, body, err := c.get(ctx, rc, productsEndpoint, query)
	if err != nil {
		return nil, err
	}

	var resp dto.ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}

	items := resp.Items()
	total := 0
	if resp.Paging != nil {
		total = resp.Paging.Total
	}

	hasMore, nextOffset := resolveNextPage(&resp, offset, limit, len(items))

	c.logger.Debugw("fetched catalog page",
		"endpoint", productsEndpoint,
		"limit", limit,
		"offset", offset,
		"count", len(items),
		"total", total,
		"http_status", status,
	)

	return &Page{
		Items:      items,
		Count:      len(items),
		Total:      total,
		HTTPStatus: status,
		HasMore:    hasMore,
		NextOffset: nextOffset,
	}, nil
}

func (c *Client) GetProduct(ctx context.Context, rc *RequestContext, productID int64) (*dto.ProductDetail, error) {
	path := fmt.Sprintf("%s/%d", productsEndpoint, productID)

	_, body, err := c.get(ctx, rc, path, nil)
	if err != nil {
		return nil, err
	}

	detail, err := dto.DecodeDetail(body)
	if err != nil {
		return nil, fmt.Errorf("decode product %d detail: %w", productID, err)
	}

	return detail, nil
}

// Ping fetches a single catalog item to verify credentials and
// connectivity.
func (c *Client) Ping(ctx context.Context, rc *RequestContext) (*PingResult, error) {
	page, err := c.ListProducts(ctx, rc, 1, 0)
	if err != nil {
		return nil, err
	}

	return &PingResult{
		TokenType:      rc.TokenType,
		Endpoint:       productsEndpoint,
		HTTPStatus:     page.HTTPStatus,
		RequestHeaders: rc.Sanitized,
		Sample:         BuildSample(page.Items),
		Fetched:        page.Count,
	}, nil
}

// BuildSample projects the first items of a page into the compact form kept
// in diagnostics.
func BuildSample(items []dto.ListItem) []model.SampleItem {
	sample := make([]model.SampleItem, 0, 3)
	for _, item := range items {
		if len(sample) == 3 {
			break
		}
		sample = append(sample, model.SampleItem{
			ID:         item.ResolveID(),
			ExternalID: item.ExternalID,
			Name:       item.Name,
			Variants:   item.VariantCount,
		})
	}
	return sample
}

// get performs one authenticated GET with the retry policy: exponential
// backoff on connection failures, 5xx and 429 (honoring Retry-After), no
// retry on other 4xx.
func (c *Client) get(ctx context.Context, rc *RequestContext, path string, query url.Values) (int, []byte, error) {
	target := c.cfg.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	maxAttempts := c.cfg.RetryAttempts
	if maxAttempts < 1 {
		maxAttempts = 3
	}

	delay := retryBaseDelay

	for attempt := 1; ; attempt++ {
		status, header, body, err := c.doRequest(ctx, rc, target)
		if err != nil {
			if attempt >= maxAttempts {
				return 0, nil, &TransportError{Status: err.Error()}
			}
			c.logger.Warnw("catalog request failed, retrying", "url", target, "attempt", attempt, "error", err)
			wait := delay
			if wait > retryMaxTransportWait {
				wait = retryMaxTransportWait
			}
			if err := sleepWithContext(ctx, wait); err != nil {
				return 0, nil, err
			}
			delay = nextDelay(delay, retryMaxTransportWait)
			continue
		}

		if isRetryableStatus(status) && attempt < maxAttempts {
			wait := delay
			if status == http.StatusTooManyRequests {
				if ra := retryAfterDelay(header, time.Now()); ra > 0 {
					wait = ra
				}
				c.logger.Warnw("catalog API rate limited, retrying", "url", target, "wait", wait.String())
			} else {
				c.logger.Warnw("catalog API temporary error, retrying", "url", target, "http_status", status)
			}
			if err := sleepWithContext(ctx, wait); err != nil {
				return 0, nil, err
			}
			delay = nextDelay(delay, retryMaxDelay)
			continue
		}

		if status >= 400 {
			return status, nil, newTransportError(status, http.StatusText(status), body)
		}

		return status, body, nil
	}
}

func (c *Client) doRequest(ctx context.Context, rc *RequestContext, target string) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, nil, err
	}

	for name, value := range rc.Headers {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}

	return resp.StatusCode, resp.Header, body, nil
}
