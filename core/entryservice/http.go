package entryservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const apiPrefix = "/api_v3/service"

// httpClient talks JSON to the remote service.
type httpClient struct {
	endpoint  string
	secret    string
	partnerID int
	http      *retryablehttp.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient creates an HTTP client for the entry-management service.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("entry service endpoint is required")
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	rc.Logger = newLeveledLogger(logger)
	rc.CheckRetry = checkRetry

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &httpClient{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		secret:    cfg.Secret,
		partnerID: cfg.PartnerID,
		http:      rc,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
	}, nil
}

// checkRetry retries only failures where the server cannot have applied the request.
// Transactions carry non-idempotent adds, so a 5xx after delivery is never retried.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return true, nil
		}
		return false, err
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true, nil
	}
	return false, nil
}

// Impersonate returns a copy of the client acting for partnerID.
// The copy shares the transport and the rate limiter.
func (c *httpClient) Impersonate(partnerID int) Client {
	cp := *c
	cp.partnerID = partnerID
	return &cp
}

// post sends body to path and decodes the JSON response into out.
func (c *httpClient) post(ctx context.Context, path string, body map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body["format"] = 1
	if c.secret != "" {
		body["ks"] = c.secret
	}
	if c.partnerID != 0 {
		body["partnerId"] = c.partnerID
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request to %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// call sends a single service action.
func (c *httpClient) call(ctx context.Context, service, action string, params map[string]any) (any, error) {
	if params == nil {
		params = map[string]any{}
	}
	var out any
	path := apiPrefix + "/" + service + "/action/" + action
	if err := c.post(ctx, path, params, &out); err != nil {
		return nil, err
	}
	if err := decodeError(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Do submits the transaction to the multirequest endpoint.
func (c *httpClient) Do(ctx context.Context, tx *Transaction) ([]Result, error) {
	calls := tx.Calls()
	if len(calls) == 0 {
		return nil, nil
	}

	body := make(map[string]any, len(calls)+3)
	for i, call := range calls {
		body[strconv.Itoa(i+1)] = encodeCall(call)
	}

	var out []any
	if err := c.post(ctx, apiPrefix+"/multirequest", body, &out); err != nil {
		return nil, err
	}

	c.logger.Debug("Multi-call transaction completed",
		zap.Int("calls", len(calls)),
		zap.Int("results", len(out)),
	)

	results := make([]Result, 0, len(out))
	for i, v := range out {
		if i >= len(calls) {
			break
		}
		results = append(results, decodeResult(calls[i], v))
	}
	return results, nil
}

func (c *httpClient) listProfiles(ctx context.Context, service, action string, params map[string]any) ([]Profile, error) {
	out, err := c.call(ctx, service, action, params)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", service, action, err)
	}
	return decodeProfiles(out)
}

func (c *httpClient) ListIngestionProfiles(ctx context.Context) ([]Profile, error) {
	return c.listProfiles(ctx, "conversionProfile", "list", nil)
}

func (c *httpClient) ListAssetParams(ctx context.Context, ingestionProfileID int) ([]Profile, error) {
	return c.listProfiles(ctx, "conversionProfile", "listAssetParams", map[string]any{"conversionProfileId": ingestionProfileID})
}

func (c *httpClient) ListAccessControlProfiles(ctx context.Context) ([]Profile, error) {
	return c.listProfiles(ctx, "accessControl", "list", nil)
}

func (c *httpClient) ListStorageProfiles(ctx context.Context) ([]Profile, error) {
	return c.listProfiles(ctx, "storageProfile", "list", nil)
}

func (c *httpClient) GetDefaultIngestionProfile(ctx context.Context) (*Profile, error) {
	out, err := c.call(ctx, "conversionProfile", "getDefault", nil)
	if err != nil {
		return nil, fmt.Errorf("conversionProfile.getDefault: %w", err)
	}
	profiles, err := decodeProfiles([]any{out})
	if err != nil || len(profiles) == 0 {
		return nil, fmt.Errorf("conversionProfile.getDefault: unexpected payload")
	}
	return &profiles[0], nil
}

func (c *httpClient) listAssets(ctx context.Context, service, entryID string) ([]Asset, error) {
	out, err := c.call(ctx, service, ActionGetByEntryID, map[string]any{"entryId": entryID})
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", service, ActionGetByEntryID, err)
	}
	return decodeAssets(out)
}

func (c *httpClient) ListFlavorAssets(ctx context.Context, entryID string) ([]Asset, error) {
	return c.listAssets(ctx, ServiceFlavorAsset, entryID)
}

func (c *httpClient) ListThumbAssets(ctx context.Context, entryID string) ([]Asset, error) {
	return c.listAssets(ctx, ServiceThumbAsset, entryID)
}

func (c *httpClient) DeleteEntry(ctx context.Context, entryID string) error {
	if _, err := c.call(ctx, ServiceBaseEntry, ActionDelete, map[string]any{"entryId": entryID}); err != nil {
		return fmt.Errorf("baseEntry.delete: %w", err)
	}
	return nil
}
