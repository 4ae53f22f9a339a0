package notion

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

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/sprout/pkg/api"
)

const (
	DefaultBaseURL  = "https://api.notion.com"
	DefaultVersion  = "2022-06-28"
	DefaultPageSize = 100
	maxPageSize     = 100
)

// ErrNotFound is returned when the API reports an unknown object.
var ErrNotFound = errors.New("notion: object not found")

// APIError is a non-2xx response decoded from the API's error object.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion: %s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && (e.Status == http.StatusNotFound || e.Code == "object_not_found")
}

type Client struct {
	baseURL    string
	token      string
	version    string
	pageSize   int
	httpClient *http.Client
	log        *zap.Logger
}

// New builds a client from the notion.* config keys.
func New(cfg *viper.Viper, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.GetString("notion.base_url")), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	version := cfg.GetString("notion.version")
	if version == "" {
		version = DefaultVersion
	}
	size := cfg.GetInt("notion.page_size")
	if size <= 0 || size > maxPageSize {
		size = DefaultPageSize
	}
	timeout := cfg.GetDuration("notion.timeout")
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:  base,
		token:    cfg.GetString("notion.token"),
		version:  version,
		pageSize: size,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.Named("notion"),
	}
}

type listResponse struct {
	Results    []json.RawMessage `json:"results"`
	NextCursor *string           `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

// GetPage fetches a page's metadata and properties.
func (c *Client) GetPage(ctx context.Context, id string) (*api.Page, error) {
	var page api.Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+url.PathEscape(id), nil, &page); err != nil {
		return nil, fmt.Errorf("get page %s: %w", id, err)
	}
	return &page, nil
}

// GetBlockTree fetches the top-level blocks of id and, recursively, the
// children of every block that has any. Children of child databases are
// not fetched; their rows come from ListPages.
func (c *Client) GetBlockTree(ctx context.Context, id string) ([]api.Block, error) {
	blocks, err := c.children(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range blocks {
		b := &blocks[i]
		if !b.HasChildren || b.Kind() == api.KindChildDatabase {
			continue
		}
		kids, err := c.GetBlockTree(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.Children = kids
	}
	return blocks, nil
}

func (c *Client) children(ctx context.Context, id string) ([]api.Block, error) {
	out := []api.Block{}
	cursor := ""
	for {
		q := url.Values{}
		q.Set("page_size", strconv.Itoa(c.pageSize))
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}
		var resp listResponse
		path := "/v1/blocks/" + url.PathEscape(id) + "/children?" + q.Encode()
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, fmt.Errorf("list children of %s: %w", id, err)
		}
		for _, raw := range resp.Results {
			var b api.Block
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, fmt.Errorf("decode block under %s: %w", id, err)
			}
			out = append(out, b)
		}
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}
	c.log.Debug("fetched children", zap.String("block_id", id), zap.Int("count", len(out)))
	return out, nil
}

// ListPages returns every page of a database in the API's order.
func (c *Client) ListPages(ctx context.Context, databaseID string) ([]api.Page, error) {
	out := []api.Page{}
	cursor := ""
	for {
		body := map[string]any{"page_size": c.pageSize}
		if cursor != "" {
			body["start_cursor"] = cursor
		}
		var resp listResponse
		if err := c.do(ctx, http.MethodPost, "/v1/databases/"+url.PathEscape(databaseID)+"/query", body, &resp); err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, err)
		}
		for _, raw := range resp.Results {
			var p api.Page
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, fmt.Errorf("decode page in %s: %w", databaseID, err)
			}
			out = append(out, p)
		}
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}
	c.log.Debug("queried database", zap.String("database_id", databaseID), zap.Int("pages", len(out)))
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return err
		}
	}
	respBody, code, err := c.execRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if code >= 300 {
		apiErr := &APIError{Status: code}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		apiErr.Status = code
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Int("status", code), zap.String("code", apiErr.Code))
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (c *Client) execRequest(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}
