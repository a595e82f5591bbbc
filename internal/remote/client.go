package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public Postman API endpoint
const DefaultBaseURL = "https://api.getpostman.com"

const (
	apiKeyHeader   = "X-Api-Key"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

var errMalformedBody = errors.New("malformed response body")

// Client talks to the Postman API. Every call is a plain request/response
// round trip; nothing is retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client for the Postman API at baseURL. An empty
// baseURL selects DefaultBaseURL.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListWorkspaces returns all workspaces visible to the key. A response
// without a workspaces field yields an empty list.
func (c *Client) ListWorkspaces(ctx context.Context, apiKey string) ([]domain.Workspace, error) {
	body, err := c.get(ctx, apiKey, "/workspaces")
	if err != nil {
		return nil, err
	}

	workspaces, err := decodeList[domain.Workspace](body, "workspaces", "/workspaces")
	if err != nil {
		return nil, err
	}
	return lo.Map(workspaces, func(ws domain.Workspace, _ int) domain.Workspace {
		ws.Label = ws.Name
		return ws
	}), nil
}

// ListAPIs returns the APIs of a workspace
func (c *Client) ListAPIs(ctx context.Context, apiKey string, workspace domain.Workspace) ([]domain.API, error) {
	path := "/apis?workspace=" + url.QueryEscape(workspace.ID)
	body, err := c.get(ctx, apiKey, path)
	if err != nil {
		return nil, err
	}

	apis, err := decodeList[domain.API](body, "apis", path)
	if err != nil {
		return nil, err
	}
	return lo.Map(apis, func(api domain.API, _ int) domain.API {
		api.Label = api.Name
		return api
	}), nil
}

// ListVersions returns the versions of an API
func (c *Client) ListVersions(ctx context.Context, apiKey string, api domain.API) ([]domain.APIVersion, error) {
	path := "/apis/" + url.PathEscape(api.ID) + "/versions"
	body, err := c.get(ctx, apiKey, path)
	if err != nil {
		return nil, err
	}

	versions, err := decodeList[domain.APIVersion](body, "versions", path)
	if err != nil {
		return nil, err
	}
	return lo.Map(versions, func(v domain.APIVersion, _ int) domain.APIVersion {
		v.Label = v.Name
		return v
	}), nil
}

// FetchSchema resolves the schema attached to an API version and returns it
// with its content. The version is read first to discover its schema id.
func (c *Client) FetchSchema(ctx context.Context, apiKey, apiID, versionID string) (domain.Schema, error) {
	versionPath := versionPath(apiID, versionID)
	body, err := c.get(ctx, apiKey, versionPath)
	if err != nil {
		return domain.Schema{}, err
	}

	schemaID := gjson.GetBytes(body, "version.schema.0").String()
	if schemaID == "" {
		return domain.Schema{}, fmt.Errorf("version %s of api %s: %w", versionID, apiID, apperrors.ErrNoSchemaID)
	}

	path := schemaPath(apiID, versionID, schemaID)
	body, err = c.get(ctx, apiKey, path)
	if err != nil {
		return domain.Schema{}, err
	}

	res := gjson.GetBytes(body, "schema")
	if !res.IsObject() {
		return domain.Schema{}, &apperrors.TransportError{Op: http.MethodGet, URL: path, Err: errMalformedBody}
	}
	var schema domain.Schema
	if err := json.Unmarshal([]byte(res.Raw), &schema); err != nil {
		return domain.Schema{}, &apperrors.TransportError{Op: http.MethodGet, URL: path, Err: err}
	}
	if schema.ID == "" {
		schema.ID = schemaID
	}

	c.logger.Debug("fetched schema",
		slog.String("api_id", apiID),
		slog.String("version_id", versionID),
		slog.String("schema_id", schema.ID),
		slog.String("language", schema.Language),
		slog.Int("bytes", len(schema.Content)))
	return schema, nil
}

// PublishRequest identifies the schema to overwrite and carries its new body
type PublishRequest struct {
	APIID     string
	VersionID string
	SchemaID  string
	Type      string
	Language  string
	Content   string
}

// PublishResult reports how the service answered a publish
type PublishResult struct {
	Success    bool
	StatusCode int
	Body       string // start of the response body when rejected
}

// Err returns a StatusError when the publish was not accepted
func (r PublishResult) Err() error {
	if r.Success {
		return nil
	}
	return &apperrors.StatusError{StatusCode: r.StatusCode, Body: r.Body}
}

type publishBody struct {
	Schema struct {
		Type     string `json:"type"`
		Language string `json:"language"`
		Schema   string `json:"schema"`
	} `json:"schema"`
}

// PublishSchema replaces the schema body on the service. A transport
// failure is returned as an error; any answer from the service, accepted or
// not, is returned as a result. Only 200 counts as success.
func (c *Client) PublishSchema(ctx context.Context, apiKey string, req PublishRequest) (PublishResult, error) {
	var payload publishBody
	payload.Schema.Type = req.Type
	payload.Schema.Language = req.Language
	payload.Schema.Schema = req.Content

	data, err := json.Marshal(payload)
	if err != nil {
		return PublishResult{}, fmt.Errorf("marshal schema: %w", err)
	}

	path := schemaPath(req.APIID, req.VersionID, req.SchemaID)
	resp, err := c.do(ctx, http.MethodPut, apiKey, path, bytes.NewReader(data))
	if err != nil {
		return PublishResult{}, err
	}
	defer resp.Body.Close()

	result := PublishResult{
		Success:    resp.StatusCode == http.StatusOK,
		StatusCode: resp.StatusCode,
	}
	if !result.Success {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		result.Body = strings.TrimSpace(string(snippet))
		c.logger.Warn("publish rejected",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", result.Body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return result, nil
}

// get performs a GET and returns the body of a 2xx JSON response
func (c *Client) get(ctx context.Context, apiKey, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, apiKey, path, http.NoBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &apperrors.TransportError{Op: http.MethodGet, URL: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.TransportError{Op: http.MethodGet, URL: path, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return nil, &apperrors.TransportError{Op: http.MethodGet, URL: path, Err: errMalformedBody}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, method, apiKey, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &apperrors.TransportError{Op: method, URL: path, Err: err}
	}
	req.Header.Set(apiKeyHeader, apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("postman request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err))
		return nil, &apperrors.TransportError{Op: method, URL: path, Err: err}
	}

	c.logger.Debug("postman request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))
	return resp, nil
}

// decodeList extracts the array stored under field. A missing or null field
// is an empty list, not an error.
func decodeList[T any](body []byte, field, path string) ([]T, error) {
	res := gjson.GetBytes(body, field)
	if !res.Exists() || res.Type == gjson.Null {
		return []T{}, nil
	}
	if !res.IsArray() {
		return nil, &apperrors.TransportError{Op: http.MethodGet, URL: path, Err: errMalformedBody}
	}

	var out []T
	if err := json.Unmarshal([]byte(res.Raw), &out); err != nil {
		return nil, &apperrors.TransportError{Op: http.MethodGet, URL: path, Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func versionPath(apiID, versionID string) string {
	return "/apis/" + url.PathEscape(apiID) + "/versions/" + url.PathEscape(versionID)
}

func schemaPath(apiID, versionID, schemaID string) string {
	return versionPath(apiID, versionID) + "/schemas/" + url.PathEscape(schemaID)
}
