package mocks

import (
	"context"

	"bulk-ingest/core/entryservice"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of entryservice.Client
type Client struct {
	mock.Mock
}

func (m *Client) Do(ctx context.Context, tx *entryservice.Transaction) ([]entryservice.Result, error) {
	args := m.Called(ctx, tx)
	if res, ok := args.Get(0).([]entryservice.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListIngestionProfiles(ctx context.Context) ([]entryservice.Profile, error) {
	args := m.Called(ctx)
	return profiles(args.Get(0)), args.Error(1)
}

func (m *Client) ListAssetParams(ctx context.Context, ingestionProfileID int) ([]entryservice.Profile, error) {
	args := m.Called(ctx, ingestionProfileID)
	return profiles(args.Get(0)), args.Error(1)
}

func (m *Client) ListAccessControlProfiles(ctx context.Context) ([]entryservice.Profile, error) {
	args := m.Called(ctx)
	return profiles(args.Get(0)), args.Error(1)
}

func (m *Client) ListStorageProfiles(ctx context.Context) ([]entryservice.Profile, error) {
	args := m.Called(ctx)
	return profiles(args.Get(0)), args.Error(1)
}

func (m *Client) GetDefaultIngestionProfile(ctx context.Context) (*entryservice.Profile, error) {
	args := m.Called(ctx)
	if p, ok := args.Get(0).(*entryservice.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListFlavorAssets(ctx context.Context, entryID string) ([]entryservice.Asset, error) {
	args := m.Called(ctx, entryID)
	return assets(args.Get(0)), args.Error(1)
}

func (m *Client) ListThumbAssets(ctx context.Context, entryID string) ([]entryservice.Asset, error) {
	args := m.Called(ctx, entryID)
	return assets(args.Get(0)), args.Error(1)
}

func (m *Client) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// Impersonate returns the configured client, or the mock itself when none was set.
func (m *Client) Impersonate(partnerID int) entryservice.Client {
	args := m.Called(partnerID)
	if c, ok := args.Get(0).(entryservice.Client); ok {
		return c
	}
	return m
}

func profiles(v any) []entryservice.Profile {
	if p, ok := v.([]entryservice.Profile); ok {
		return p
	}
	return nil
}

func assets(v any) []entryservice.Asset {
	if a, ok := v.([]entryservice.Asset); ok {
		return a
	}
	return nil
}
