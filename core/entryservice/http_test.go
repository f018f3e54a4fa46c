package entryservice

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		Endpoint:       srv.URL,
		Secret:         "ks-secret",
		PartnerID:      1,
		TimeoutSeconds: 5,
		RetryMax:       2,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestHTTPClient_Do(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api_v3/service/multirequest", r.URL.Path)
		got = decodeBody(t, r)
		_ = json.NewEncoder(w).Encode([]any{
			map[string]any{"objectType": "MediaEntry", "id": "0_abc", "type": 1, "mediaType": 1},
			map[string]any{"objectType": "FlavorAsset", "id": "1_f", "entryId": "0_abc", "tags": "web"},
			map[string]any{"objectType": "APIException", "code": "RESOURCE_INVALID", "message": "bad url"},
		})
	})

	tx := NewTransaction()
	ref := tx.AddEntry(&Entry{Name: "clip", Type: EntryTypeMediaClip, Details: MediaDetails{MediaType: MediaTypeVideo}},
		&ResourceContainer{Resources: []AssetParamsResource{{AssetParamsID: 5, Resource: LocalFileResource{Path: "/data/a.mp4"}}}})
	tx.AddFlavorAsset(ref.EntryID(), &FlavorAsset{Tags: "web"}, URLResource{URL: "http://cdn/a.mp4"})
	tx.AddThumbAsset(ref.EntryID(), &ThumbAsset{}, URLResource{URL: "bad"})

	results, err := c.Do(context.Background(), tx)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NotNil(t, results[0].Entry)
	assert.Equal(t, "0_abc", results[0].Entry.ID)
	assert.Equal(t, MediaDetails{MediaType: MediaTypeVideo}, results[0].Entry.Details)
	require.NotNil(t, results[1].Asset)
	assert.Equal(t, AssetKindFlavor, results[1].Asset.Kind)
	var apiErr *APIError
	require.ErrorAs(t, results[2].Err, &apiErr)
	assert.Equal(t, "RESOURCE_INVALID", apiErr.Code)

	assert.Equal(t, "ks-secret", got["ks"])
	assert.EqualValues(t, 1, got["partnerId"])
	first := got["1"].(map[string]any)
	assert.Equal(t, "baseEntry", first["service"])
	assert.Equal(t, "add", first["action"])
	container := first["resource"].(map[string]any)
	assert.Len(t, container["resources"], 1)
	second := got["2"].(map[string]any)
	assert.Equal(t, "{1:result:id}", second["entryId"])
}

func TestHTTPClient_NoContainerIsOmitted(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		_ = json.NewEncoder(w).Encode([]any{map[string]any{"objectType": "BaseEntry", "id": "0_x"}})
	})

	tx := NewTransaction()
	tx.AddEntry(&Entry{Name: "generic", Type: EntryTypeAutomatic}, &ResourceContainer{})
	_, err := c.Do(context.Background(), tx)
	require.NoError(t, err)

	first := got["1"].(map[string]any)
	_, hasResource := first["resource"]
	assert.False(t, hasResource)
}

func TestHTTPClient_Impersonate(t *testing.T) {
	var partner atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		partner.Store(body["partnerId"])
		_ = json.NewEncoder(w).Encode(map[string]any{"objects": []any{
			map[string]any{"id": 3, "systemName": "web"},
			map[string]any{"id": 4, "systemName": ""},
		}})
	})

	profiles, err := c.Impersonate(77).ListIngestionProfiles(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 77, partner.Load())
	assert.Equal(t, []Profile{{ID: 3, SystemName: "web"}, {ID: 4, SystemName: ""}}, profiles)

	_, err = c.ListAccessControlProfiles(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, partner.Load())
}

func TestHTTPClient_SingleCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api_v3/service/conversionProfile/action/getDefault":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 9, "systemName": "default"})
		case "/api_v3/service/conversionProfile/action/listAssetParams":
			body := decodeBody(t, r)
			assert.EqualValues(t, 9, body["conversionProfileId"])
			_ = json.NewEncoder(w).Encode(map[string]any{"objects": []any{map[string]any{"id": 5, "systemName": "hd"}}})
		case "/api_v3/service/flavorAsset/action/getByEntryId":
			_ = json.NewEncoder(w).Encode([]any{map[string]any{"objectType": "FlavorAsset", "id": "1_a", "flavorParamsId": 5}})
		case "/api_v3/service/thumbAsset/action/getByEntryId":
			_ = json.NewEncoder(w).Encode([]any{map[string]any{"objectType": "ThumbAsset", "id": "1_t", "thumbParamsId": 7}})
		case "/api_v3/service/baseEntry/action/delete":
			_ = json.NewEncoder(w).Encode(map[string]any{"objectType": "APIException", "code": "ENTRY_ID_NOT_FOUND", "message": "missing"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	def, err := c.GetDefaultIngestionProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, def.ID)

	params, err := c.ListAssetParams(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, []Profile{{ID: 5, SystemName: "hd"}}, params)

	flavors, err := c.ListFlavorAssets(ctx, "0_e")
	require.NoError(t, err)
	require.Len(t, flavors, 1)
	assert.Equal(t, 5, *flavors[0].ParamsID)

	thumbs, err := c.ListThumbAssets(ctx, "0_e")
	require.NoError(t, err)
	require.Len(t, thumbs, 1)
	assert.Equal(t, AssetKindThumb, thumbs[0].Kind)
	assert.Equal(t, 7, *thumbs[0].ParamsID)

	err = c.DeleteEntry(ctx, "0_missing")
	assert.ErrorContains(t, err, "ENTRY_ID_NOT_FOUND")

	_, err = c.ListStorageProfiles(ctx)
	assert.ErrorContains(t, err, "404")
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var attempts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"objects": []any{}})
	})

	profiles, err := c.ListStorageProfiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.EqualValues(t, 2, atomic.LoadInt32(&attempts))
}

func TestHTTPClient_DoesNotRetryDeliveredRequests(t *testing.T) {
	var attempts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]any{map[string]any{"objectType": "MediaEntry", "id": "0_dup"}})
	})

	tx := NewTransaction()
	tx.AddEntry(&Entry{Name: "clip", Type: EntryTypeMediaClip}, nil)
	_, err := c.Do(context.Background(), tx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "502")
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts))
}

func TestCheckRetry(t *testing.T) {
	ctx := context.Background()

	retry, err := checkRetry(ctx, nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")})
	assert.True(t, retry)
	assert.NoError(t, err)

	retry, err = checkRetry(ctx, nil, &net.OpError{Op: "read", Err: errors.New("connection reset")})
	assert.False(t, retry)
	assert.Error(t, err)

	for code, want := range map[int]bool{
		http.StatusOK:                  false,
		http.StatusInternalServerError: false,
		http.StatusBadGateway:          false,
		http.StatusTooManyRequests:     true,
		http.StatusServiceUnavailable:  true,
	} {
		retry, err = checkRetry(ctx, &http.Response{StatusCode: code}, nil)
		assert.NoError(t, err)
		assert.Equal(t, want, retry, "status %d", code)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	retry, err = checkRetry(cancelled, &http.Response{StatusCode: http.StatusServiceUnavailable}, nil)
	assert.False(t, retry)
	assert.ErrorIs(t, err, context.Canceled)
}
